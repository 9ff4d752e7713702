// MFP - Internet Printing Protocol client toolkit
// IPP request runtime
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Client: the IPP handle (spec.md §4.5)

package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"

	"github.com/OpenPrinting/go-ippclient/ipp"
	"github.com/OpenPrinting/go-ippclient/log"
	"github.com/OpenPrinting/go-ippclient/transport"
)

// userAgent is the default User-Agent sent with every request,
// shaped like the reference implementation's "PythonIPP/<version>"
// (spec.md §4.5 "user_agent").
const userAgent = "go-ippclient/1.0"

// Client is the IPP handle: it owns (or borrows) an HTTP client and
// exposes the three request-runtime operations (spec.md §4.5).
type Client struct {
	printerURI string
	username   string
	password   string
	userAgent  string
	endpoint   string

	http      *http.Client
	ownedHTTP bool

	log log.Logger
}

// New builds a Client from cfg (spec.md §4.5 "Configuration").
func New(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	endpoint, printerURI, err := cfg.urls()
	if err != nil {
		return nil, err
	}

	c := &Client{
		printerURI: printerURI,
		username:   cfg.Username,
		password:   cfg.Password,
		userAgent:  cfg.UserAgent,
		endpoint:   endpoint,
		log:        log.NewLogger(log.DefaultLogger),
	}

	if cfg.HTTPClient != nil {
		c.http = cfg.HTTPClient
		return c, nil
	}

	jar, err := cookiejarNew()
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	tr := &http.Transport{}
	if cfg.TLS && !cfg.VerifySSL {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // spec.md §4.5 "verify_ssl" default
	}

	c.http = &http.Client{
		Transport: tr,
		Jar:       jar,
		Timeout:   cfg.RequestTimeout,
	}
	c.ownedHTTP = true

	return c, nil
}

// cookiejarNew builds the public-suffix-aware cookie jar an owned
// HTTP client uses (spec.md §5 "the HTTP client may be shared across
// many IPP handles").
func cookiejarNew() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// Close releases the HTTP client, if the Client owns it (spec.md
// §4.5 "http_client").
func (c *Client) Close() error {
	if c.ownedHTTP {
		c.http.CloseIdleConnections()
	}
	return nil
}

// Execute serializes rq, POSTs it, parses the response, and
// validates its status code (spec.md §4.5 "execute").
func (c *Client) Execute(ctx context.Context, rq *ipp.Request) (*ipp.Response, error) {
	ctx = log.WithLogger(ctx, c.log)
	ctx = log.WithPrefix(ctx, "client")

	c.fillTemplate(rq)

	rsp, _, err := c.do(ctx, rq, false)
	if err != nil {
		log.Warning(ctx, "%s", err)
		return nil, err
	}

	switch {
	case rsp.StatusCode.Success():
		return rsp, nil
	case rsp.StatusCode == ipp.StatusErrorVersionNotSupported:
		log.Warning(ctx, "%s", rsp.StatusCode)
		return rsp, &ipp.VersionNotSupported{}
	default:
		log.Warning(ctx, "%s", rsp.StatusCode)
		return rsp, &ipp.ProtocolError{Status: rsp.StatusCode}
	}
}

// Raw serializes rq, POSTs it, and returns the response body
// undecoded (spec.md §4.5 "raw").
func (c *Client) Raw(ctx context.Context, rq *ipp.Request) ([]byte, error) {
	ctx = log.WithLogger(ctx, c.log)
	ctx = log.WithPrefix(ctx, "client")

	c.fillTemplate(rq)
	_, body, err := c.do(ctx, rq, true)
	if err != nil {
		log.Warning(ctx, "%s", err)
	}
	return body, err
}

// Printer requests every attribute of the target printer and
// projects the first result (spec.md §4.5 "printer").
func (c *Client) Printer(ctx context.Context) (*ipp.Printer, error) {
	rq := ipp.NewRequest(ipp.OpGetPrinterAttributes)
	rq.OperationAttributes.SetMultiAuto("requested-attributes", ipp.String(ipp.AttributesAll))

	rsp, err := c.Execute(ctx, rq)
	if err != nil {
		return nil, err
	}

	if len(rsp.Printers) == 0 {
		return ipp.FromAttributes(ipp.Group{}), nil
	}
	return ipp.FromAttributes(rsp.Printers[0]), nil
}

// fillTemplate merges the base template spec.md §4.5 describes into
// rq: attributes-charset, attributes-natural-language, printer-uri,
// requesting-user-name, inserted ahead of whatever the caller already
// set so "attributes-charset" stays first (spec.md §5 "Ordering
// guarantees").
func (c *Client) fillTemplate(rq *ipp.Request) {
	base := ipp.Group{}
	base.Set("attributes-charset", ipp.TagCharset, ipp.String("utf-8"))
	base.Set("attributes-natural-language", ipp.TagLanguage, ipp.String("en"))
	if _, ok := rq.OperationAttributes.Get("printer-uri"); !ok {
		base.Set("printer-uri", ipp.TagURI, ipp.String(c.printerURI))
	}
	if _, ok := rq.OperationAttributes.Get("requesting-user-name"); !ok {
		user := c.username
		if user == "" {
			user = userAgent
		}
		base.Set("requesting-user-name", ipp.TagName, ipp.String(user))
	}

	rq.OperationAttributes = append(base, rq.OperationAttributes...)
}

// do performs the HTTP half of the pipeline: serialize, POST, read
// the body, and either parse it into a Response or return it raw
// (spec.md §6.2, §4.5 "HTTP failure mapping").
func (c *Client) do(ctx context.Context, rq *ipp.Request, raw bool) (*ipp.Response, []byte, error) {
	data, err := ipp.Encode(rq)
	if err != nil {
		return nil, nil, err
	}

	httpRq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, nil, &ipp.ConnectionError{Reason: "transport", Err: err}
	}

	httpRq.Header.Set("Content-Type", "application/ipp")
	httpRq.Header.Set("Accept", "application/ipp, text/plain, */*")
	httpRq.Header.Set("User-Agent", c.userAgent)
	if c.username != "" {
		httpRq.SetBasicAuth(c.username, c.password)
	}

	// rec accumulates every line this dispatch logs (the POST line, the
	// peeked response prefix, a pretty-printed dump of the decoded
	// Response) into a single Commit, escalating to Warning if anything
	// below goes wrong (spec.md §4.5, §9 "Resource discipline").
	rec := log.Begin(ctx)
	defer rec.Commit()
	rec.Debug("POST %s (%d bytes)", c.endpoint, len(data))

	httpRsp, err := c.http.Do(httpRq)
	if err != nil {
		rec.Warning("%s", err)
		return nil, nil, classifyTransportError(err)
	}
	defer httpRsp.Body.Close()

	peeker := transport.NewPeeker(httpRsp.Body)

	head := make([]byte, 8)
	n, err := io.ReadFull(peeker, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		rec.Warning("%s", err)
		return nil, nil, &ipp.ConnectionError{Reason: "transport", Err: err}
	}
	rec.Trace("response: %d-byte prefix % x", n, head[:n])
	peeker.Rewind()

	body, err := io.ReadAll(peeker)
	if err != nil {
		rec.Warning("%s", err)
		return nil, nil, &ipp.ConnectionError{Reason: "transport", Err: err}
	}

	if httpRsp.StatusCode == http.StatusUpgradeRequired {
		rec.Warning("http %d upgrade required", httpRsp.StatusCode)
		return nil, nil, &ipp.ConnectionUpgradeRequired{Upgrade: httpRsp.Header.Get("Upgrade")}
	}
	if httpRsp.StatusCode/100 != 2 {
		rec.Warning("http %d response (%s)", httpRsp.StatusCode, httpRsp.Header.Get("Content-Type"))
		return nil, nil, &ipp.ResponseError{
			StatusCode:  httpRsp.StatusCode,
			ContentType: httpRsp.Header.Get("Content-Type"),
			Body:        body,
		}
	}

	if raw {
		return nil, body, nil
	}

	rsp, err := ipp.Decode(body, true)
	if err != nil {
		rec.Warning("%s", err)
		return nil, nil, err
	}

	rec.Debug("decoded response:\n%s", log.Pretty{V: rsp}.MarshalLog())

	return rsp, nil, nil
}

// classifyTransportError maps an error returned by http.Client.Do to
// the ConnectionError taxonomy of spec.md §4.5.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ipp.ConnectionError{Reason: "timeout", Err: err}
	}
	return &ipp.ConnectionError{Reason: "transport", Err: err}
}

