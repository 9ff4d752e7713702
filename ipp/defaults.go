// MFP - Internet Printing Protocol client toolkit
// IPP binary codec
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Default attribute-name -> value-tag table

package ipp

// defaultTags maps well-known IPP attribute names to the value tag
// the encoder assumes when the caller doesn't supply one explicitly
// (spec.md §4.1, §4.2 "Resolve tag"). Callers may always override a
// tag per attribute; this table only resolves the common case.
//
// Querying a name absent from this table reports ok=false: per
// spec.md §4.1 the contract is "no default", and it is the
// serializer's job (not this table's) to turn that into an
// UnsupportedAttribute error.
var defaultTags = map[string]Tag{
	// Operation attributes, RFC 8011 §3
	"attributes-charset":          TagCharset,
	"attributes-natural-language": TagLanguage,
	"printer-uri":                 TagURI,
	"requesting-user-name":        TagName,
	"requested-attributes":        TagKeyword,
	"document-format":             TagMimeType,
	"document-name":               TagName,
	"compression":                 TagKeyword,
	"job-name":                    TagName,
	"job-id":                      TagInteger,
	"job-uri":                     TagURI,
	"ipp-attribute-fidelity":      TagBoolean,
	"last-document":               TagBoolean,
	"limit":                       TagInteger,
	"my-jobs":                     TagBoolean,
	"which-jobs":                  TagKeyword,

	// Job Template attributes, RFC 8011 §5.2
	"copies":                     TagInteger,
	"finishings":                 TagEnum,
	"job-hold-until":             TagKeyword,
	"job-priority":               TagInteger,
	"job-sheets":                 TagKeyword,
	"media":                      TagKeyword,
	"multiple-document-handling": TagKeyword,
	"number-up":                  TagInteger,
	"orientation-requested":      TagEnum,
	"page-ranges":                TagRange,
	"printer-resolution":         TagResolution,
	"print-quality":              TagEnum,
	"sides":                      TagKeyword,
	"print-color-mode":           TagKeyword,
	"print-scaling":              TagKeyword,

	// Job Description/Status attributes, RFC 8011 §5.3
	"job-state":                    TagEnum,
	"job-state-reasons":            TagKeyword,
	"job-state-message":            TagText,
	"job-k-octets":                 TagInteger,
	"job-originating-user-name":    TagName,
	"time-at-creation":             TagInteger,
	"time-at-processing":           TagInteger,
	"time-at-completed":            TagInteger,
	"date-time-at-creation":        TagDateTime,
	"date-time-at-processing":      TagDateTime,
	"date-time-at-completed":       TagDateTime,
	"document-state":               TagEnum,

	// Printer Description attributes, RFC 8011 §5.4
	"printer-name":                    TagName,
	"printer-info":                    TagText,
	"printer-location":                TagText,
	"printer-make-and-model":          TagText,
	"printer-more-info":               TagURI,
	"printer-uri-supported":           TagURI,
	"uri-authentication-supported":    TagKeyword,
	"uri-security-supported":          TagKeyword,
	"printer-state":                   TagEnum,
	"printer-state-reasons":           TagKeyword,
	"printer-state-message":           TagText,
	"printer-up-time":                 TagInteger,
	"printer-uuid":                    TagURI,
	"printer-device-id":               TagText,
	"printer-firmware-string-version": TagText,
	"operations-supported":            TagEnum,
	"charset-configured":              TagCharset,
	"charset-supported":               TagCharset,
	"natural-language-configured":     TagLanguage,
	"generated-natural-language-supported": TagLanguage,
	"pdl-override-supported":          TagKeyword,
	"color-supported":                 TagBoolean,
	"device-uri":                      TagURI,

	// Marker attributes, PWG 5100.13
	"marker-names":      TagName,
	"marker-colors":     TagKeyword,
	"marker-types":      TagKeyword,
	"marker-levels":     TagInteger,
	"marker-low-levels": TagInteger,
	"marker-high-levels": TagInteger,

	// CUPS extensions
	"printer-type":           TagEnum,
	"printer-is-shared":      TagBoolean,
	"device-class":           TagKeyword,
	"device-info":            TagText,
	"device-make-and-model":  TagText,
	"device-id":               TagText,
	"device-location":        TagText,
	"ppd-name":                TagName,
	"requested-user-name":    TagName,
	"first-printer-name":      TagName,
	"include-schemes":        TagKeyword,
	"exclude-schemes":        TagKeyword,
	"timeout":                TagInteger,
	"printer-id":             TagInteger,
}

// DefaultTag returns the well-known value tag for the given
// attribute name, and ok=false if the name has no registered
// default (spec.md §4.1 "no default" contract).
func DefaultTag(name string) (Tag, bool) {
	tag, ok := defaultTags[name]
	return tag, ok
}
