// MFP - Internet Printing Protocol client toolkit
// IPP binary codec
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Printer projection (spec.md §4.4)

package ipp

import (
	"path"
	"sort"
	"strings"
)

// knownBrands are the lowercase make-and-model prefixes split off
// without looking for whitespace (spec.md §4.4 step 2).
var knownBrands = []string{"brother", "canon", "epson", "hp", "xerox"}

// Info holds the descriptive, mostly-static facts about a printer
// (spec.md §4.4 "Info derivation", §3.6).
type Info struct {
	Name            string
	Make            string
	Model           string
	CommandSet      string
	Serial          string
	Location        string
	MoreInfo        string
	FirmwareVersion string
	UpTime          int32
	UUID            string

	// PrinterName, PrinterInfo and PrinterURISupported carry
	// printer-name, printer-info and printer-uri-supported verbatim
	// (spec.md §3.6); unlike Name, they are not derived.
	PrinterName         string
	PrinterInfo         string
	PrinterURISupported []string
}

// Marker describes one ink or toner supply (spec.md §4.4
// "Markers merge").
type Marker struct {
	ID    int
	Name  string
	Color string
	Level int32
	High  int32
	Low   int32
	Type  string
}

// Uri describes one printer-uri-supported entry alongside its
// parallel authentication/security attributes (spec.md §4.4
// "Uris merge").
type Uri struct {
	URI            string
	Authentication *string
	Security       *string
}

// State is the derived operational state of a printer (spec.md §4.4
// "State derivation").
type State struct {
	Raw     int32
	Name    string // "idle", "printing", "stopped", or "" if unrecognized
	Reasons *string
	Message *string
}

// Printer is the normalized projection of a single printer-attributes
// group (spec.md §4.4).
type Printer struct {
	Info    Info
	Markers []Marker
	URIs    []Uri
	State   State
}

// FromAttributes projects a single printer-attributes Group, as
// returned within Response.Printers, into a Printer.
func FromAttributes(g Group) *Printer {
	p := &Printer{}
	p.Info = deriveInfo(g)
	p.Markers = mergeMarkers(g)
	p.URIs = mergeURIs(g)
	p.State = deriveState(g)
	return p
}

// deriveInfo implements spec.md §4.4 "Info derivation".
func deriveInfo(g Group) Info {
	makeAndModel, _ := g.String("printer-make-and-model")
	deviceID, _ := g.String("printer-device-id")
	name, _ := g.String("printer-name")
	info, _ := g.String("printer-info")
	location, _ := g.String("printer-location")
	moreInfo, _ := g.String("printer-more-info")
	firmware, _ := g.String("printer-firmware-string-version")
	upTime, _ := g.Int("printer-up-time")
	uuid, _ := g.String("printer-uuid")

	make_, model := splitMakeAndModel(makeAndModel)

	devID := parseDeviceID(deviceID)
	commandSet := devID["COMMAND SET"]
	serial := devID["SN"]
	if mfg := devID["MFG"]; mfg != "" {
		make_ = mfg
	}
	if mdl := devID["MDL"]; mdl != "" {
		model = mdl
	}
	if cmd := devID["CMD"]; cmd != "" {
		commandSet = cmd
	}

	uris, _ := g.Strings("printer-uri-supported")

	display := strings.TrimSpace(makeAndModel)
	if display == "" {
		if make_ != "Unknown" || model != "Unknown" {
			display = make_ + " " + model
		} else if name != "" && !nameIsURIPathComponent(name, uris) {
			display = name
		} else {
			display = "IPP Printer"
		}
	}

	uuid = strings.TrimPrefix(uuid, "urn:uuid:")

	return Info{
		Name:                display,
		Make:                make_,
		Model:               model,
		CommandSet:          commandSet,
		Serial:              serial,
		Location:            location,
		MoreInfo:            moreInfo,
		FirmwareVersion:     firmware,
		UpTime:              upTime,
		UUID:                uuid,
		PrinterName:         name,
		PrinterInfo:         info,
		PrinterURISupported: uris,
	}
}

// splitMakeAndModel implements spec.md §4.4 step 2.
func splitMakeAndModel(makeAndModel string) (make_, model string) {
	s := strings.TrimSpace(makeAndModel)
	if s == "" {
		return "Unknown", "Unknown"
	}

	lower := strings.ToLower(s)
	for _, brand := range knownBrands {
		if strings.HasPrefix(lower, brand) {
			return s[:len(brand)], strings.TrimSpace(s[len(brand):])
		}
	}

	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i:])
	}
	return s, "Unknown"
}

// parseDeviceID implements spec.md §4.4 step 3: the IEEE 1284
// device-id key/value parse, with MFG/MDL/CMD aliasing applied so
// callers can look up MANUFACTURER/MODEL/COMMAND SET/SN uniformly.
func parseDeviceID(deviceID string) map[string]string {
	out := map[string]string{}

	s := strings.TrimSuffix(deviceID, ";")
	if s == "" {
		return out
	}

	for _, part := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if out["MANUFACTURER"] == "" {
		out["MANUFACTURER"] = out["MFG"]
	}
	if out["MODEL"] == "" {
		out["MODEL"] = out["MDL"]
	}
	if out["COMMAND SET"] == "" {
		out["COMMAND SET"] = out["CMD"]
	}

	return out
}

// nameIsURIPathComponent reports whether name equals the final path
// component of any of uris, used by the display-name fallback in
// spec.md §4.4 step 5.
func nameIsURIPathComponent(name string, uris []string) bool {
	for _, u := range uris {
		if path.Base(u) == name {
			return true
		}
	}
	return false
}

// mergeMarkers implements spec.md §4.4 "Markers merge".
func mergeMarkers(g Group) []Marker {
	names, ok := g.Strings("marker-names")
	if !ok {
		return nil
	}
	m := len(names)
	if m == 0 {
		return []Marker{}
	}

	colors := make([]string, m)
	levels := make([]int32, m)
	highs := make([]int32, m)
	lows := make([]int32, m)
	types := make([]string, m)
	for i := range levels {
		levels[i] = -2
		highs[i] = 100
		types[i] = "unknown"
	}

	if vs, ok := g.Strings("marker-colors"); ok {
		copyTrunc(colors, vs)
	}
	if vs, ok := intList(g, "marker-levels"); ok {
		copyTruncInt(levels, vs)
	}
	if vs, ok := intList(g, "marker-high-levels"); ok {
		copyTruncInt(highs, vs)
	}
	if vs, ok := intList(g, "marker-low-levels"); ok {
		copyTruncInt(lows, vs)
	}
	if vs, ok := g.Strings("marker-types"); ok {
		copyTrunc(types, vs)
	}

	markers := make([]Marker, m)
	for i, name := range names {
		markers[i] = Marker{
			ID:    i,
			Name:  name,
			Color: colors[i],
			Level: levels[i],
			High:  highs[i],
			Low:   lows[i],
			Type:  types[i],
		}
	}

	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Name < markers[j].Name
	})

	return markers
}

// mergeURIs implements spec.md §4.4 "Uris merge".
func mergeURIs(g Group) []Uri {
	uris, ok := g.Strings("printer-uri-supported")
	if !ok {
		return nil
	}
	n := len(uris)
	if n == 0 {
		return []Uri{}
	}

	auths := make([]string, n)
	security := make([]string, n)
	if vs, ok := g.Strings("uri-authentication-supported"); ok {
		copyTrunc(auths, vs)
	}
	if vs, ok := g.Strings("uri-security-supported"); ok {
		copyTrunc(security, vs)
	}

	out := make([]Uri, n)
	for i, u := range uris {
		out[i] = Uri{URI: u, Authentication: noneToNil(auths[i]), Security: noneToNil(security[i])}
	}
	return out
}

// deriveState implements spec.md §4.4 "State derivation".
func deriveState(g Group) State {
	raw, _ := g.Int("printer-state")

	name := ""
	switch raw {
	case 3:
		name = "idle"
	case 4:
		name = "printing"
	case 5:
		name = "stopped"
	}

	var reasons *string
	if r, ok := g.String("printer-state-reasons"); ok {
		reasons = noneToNil(r)
	}

	var message *string
	if m, ok := g.String("printer-state-message"); ok {
		message = &m
	}

	return State{Raw: raw, Name: name, Reasons: reasons, Message: message}
}

// copyTrunc overwrites dst[0:min(len(dst),len(src))] with src,
// leaving any remaining defaults in dst untouched (spec.md §4.4
// "Extra entries beyond M are ignored").
func copyTrunc(dst, src []string) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
}

func copyTruncInt(dst, src []int32) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
}

// intList reads a multi-valued integer attribute, accepting both
// Integer and Enum values per Group.Int's tolerance.
func intList(g Group, name string) ([]int32, bool) {
	attr, ok := g.Get(name)
	if !ok {
		return nil, false
	}
	out := make([]int32, 0, len(attr.Values))
	for _, tv := range attr.Values {
		switch v := tv.Value.(type) {
		case Integer:
			out = append(out, int32(v))
		case Enum:
			out = append(out, v.Value)
		}
	}
	return out, true
}

// noneToNil maps the literal "none" to nil, per spec.md §4.4's
// treatment of uri-authentication-supported, uri-security-supported
// and printer-state-reasons.
func noneToNil(s string) *string {
	if s == "none" {
		return nil
	}
	return &s
}
