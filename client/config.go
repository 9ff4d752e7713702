// MFP - Internet Printing Protocol client toolkit
// IPP request runtime
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Client configuration (spec.md §4.5 "Configuration")

package client

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything needed to address and authenticate against
// a printer (spec.md §4.5 "Configuration"). The zero value is not
// directly usable; pass it through New, which applies defaults.
type Config struct {
	Host       string `yaml:"host"`
	BasePath   string `yaml:"base_path"`
	Port       int    `yaml:"port"`
	TLS        bool   `yaml:"tls"`
	VerifySSL  bool   `yaml:"verify_ssl"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	UserAgent  string `yaml:"user_agent"`

	RequestTimeout time.Duration `yaml:"-"`
	// RequestTimeoutSeconds is the YAML-facing form of
	// RequestTimeout; New converts it (through withDefaults) when
	// RequestTimeout is zero. LoadConfig leaves RequestTimeout unset.
	RequestTimeoutSeconds int `yaml:"request_timeout"`

	// HTTPClient, if set, is used as-is and never closed by
	// Client.Close (spec.md §4.5 "http_client", §5 "Shared
	// resources").
	HTTPClient *http.Client `yaml:"-"`
}

// DefaultConfig returns a Config with every field spec.md §4.5 gives
// a default for.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		BasePath:       "/ipp/print",
		Port:           631,
		VerifySSL:      false,
		RequestTimeout: 8 * time.Second,
		UserAgent:      userAgent,
	}
}

// withDefaults fills any zero-valued field of c from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()

	if c.BasePath == "" {
		c.BasePath = d.BasePath
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.RequestTimeout == 0 {
		if c.RequestTimeoutSeconds > 0 {
			c.RequestTimeout = time.Duration(c.RequestTimeoutSeconds) * time.Second
		} else {
			c.RequestTimeout = d.RequestTimeout
		}
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.Host == "" {
		c.Host = d.Host
	}

	return c
}

// urls derives the HTTP endpoint to POST to and the printer-uri to
// advertise in requests, applying spec.md §4.5's "if host begins with
// ipp:// or ipps://, derive host, port, base path and TLS flag from
// it" rule.
func (c Config) urls() (endpoint, printerURI string, err error) {
	host := c.Host
	basePath := c.BasePath
	port := c.Port
	tls := c.TLS

	if strings.HasPrefix(host, "ipp://") || strings.HasPrefix(host, "ipps://") {
		u, err := url.Parse(host)
		if err != nil {
			return "", "", fmt.Errorf("client: invalid host URL %q: %w", host, err)
		}

		tls = u.Scheme == "ipps"
		host = u.Hostname()
		if u.Port() != "" {
			p, err := strconv.Atoi(u.Port())
			if err != nil {
				return "", "", fmt.Errorf("client: invalid port in %q: %w", host, err)
			}
			port = p
		}
		if u.Path != "" {
			basePath = u.Path
		}
	}

	ippScheme, httpScheme := "ipp", "http"
	if tls {
		ippScheme, httpScheme = "ipps", "https"
	}

	printerURI = fmt.Sprintf("%s://%s:%d%s", ippScheme, host, port, basePath)
	endpoint = fmt.Sprintf("%s://%s:%d%s", httpScheme, host, port, basePath)
	return endpoint, printerURI, nil
}

// LoadConfig reads a YAML configuration file from path (spec.md §4.5,
// ambient configuration per SPEC_FULL.md §3).
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("client: reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("client: parsing config: %w", err)
	}

	return cfg, nil
}
