// MFP - Internet Printing Protocol client toolkit
// IPP binary codec
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Response parser (spec.md §4.3)

package ipp

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// groupKey identifies which accumulator a just-opened attribute
// group belongs to.
type groupKey int

const (
	groupNone groupKey = iota
	groupOperation
	groupJob
	groupPrinter
	groupUnsupported
)

// decoder walks a byte slice left to right, tracking its offset for
// ParseError reporting.
type decoder struct {
	data []byte
	pos  int
}

// Decode parses data into a Response (spec.md §4.3). When
// containsData is true, any bytes remaining after the
// end-of-attributes tag become Response.Data; otherwise they are
// ignored (the caller is expected to have already split them off, or
// knows there are none).
func Decode(data []byte, containsData bool) (*Response, error) {
	d := &decoder{data: data}

	version, err := d.u16()
	if err != nil {
		return nil, d.parseErr(err)
	}
	status, err := d.u16()
	if err != nil {
		return nil, d.parseErr(err)
	}
	requestID, err := d.u32()
	if err != nil {
		return nil, d.parseErr(err)
	}

	rsp := &Response{
		Version:    Version(version),
		StatusCode: Status(status),
		RequestID:  int32(requestID),
	}

	var operationGroups []Group
	key := groupNone
	var current Group
	var lastAttr *Attribute

	flush := func() {
		if len(current) == 0 {
			return
		}
		switch key {
		case groupOperation:
			operationGroups = append(operationGroups, current)
		case groupJob:
			rsp.Jobs = append(rsp.Jobs, current)
		case groupPrinter:
			rsp.Printers = append(rsp.Printers, current)
		case groupUnsupported:
			rsp.Unsupported = append(rsp.Unsupported, current)
		}
	}

	for {
		tag, err := d.tag()
		if err != nil {
			return nil, d.parseErr(err)
		}

		switch tag {
		case TagEnd:
			flush()
			if containsData {
				rsp.Data = append([]byte(nil), d.data[d.pos:]...)
			}
			if len(operationGroups) > 0 {
				rsp.OperationAttributes = operationGroups[0]
			}
			return rsp, nil

		case TagOperationGroup, TagJobGroup, TagPrinterGroup, TagUnsupportedGroup:
			flush()
			current = Group{}
			lastAttr = nil
			switch tag {
			case TagOperationGroup:
				key = groupOperation
			case TagJobGroup:
				key = groupJob
			case TagPrinterGroup:
				key = groupPrinter
			case TagUnsupportedGroup:
				key = groupUnsupported
			}

		case TagZero:
			return nil, d.parseErr(fmt.Errorf("invalid tag 0x00"))

		default:
			name, value, err := d.attribute(tag)
			if err != nil {
				return nil, d.parseErr(err)
			}

			if name == "" {
				if lastAttr == nil {
					return nil, d.parseErr(fmt.Errorf("additional value without a preceding attribute"))
				}
				lastAttr.Values.Add(tag, value)
				continue
			}

			if key == groupNone {
				return nil, d.parseErr(fmt.Errorf("attribute %q outside any group", name))
			}

			current.Add(MakeAttribute(name, tag, value))
			lastAttr = &current[len(current)-1]
		}
	}
}

// attribute decodes one attribute's name and value, given its
// already-consumed leading tag. An empty name signals an "additional
// value" continuation of the previous attribute (spec.md §3.2).
func (d *decoder) attribute(tag Tag) (string, Value, error) {
	name, err := d.str()
	if err != nil {
		return "", nil, err
	}

	raw, err := d.bytes()
	if err != nil {
		return "", nil, err
	}

	if tag == TagBeginCollection {
		coll, err := d.collection()
		if err != nil {
			return "", nil, err
		}
		return name, coll, nil
	}

	v, err := decodeValue(tag, raw, name)
	if err != nil {
		return "", nil, err
	}

	return name, v, nil
}

// collection parses the member name/value pairs of a collection
// value until the matching TagEndCollection (spec.md §3.3,
// §4.3 "begin-collection").
func (d *decoder) collection() (Collection, error) {
	coll := Collection{}

	for {
		tag, err := d.tag()
		if err != nil {
			return nil, err
		}

		if tag == TagEndCollection {
			if _, err := d.str(); err != nil {
				return nil, err
			}
			if _, err := d.bytes(); err != nil {
				return nil, err
			}
			return coll, nil
		}

		if tag != TagMemberName {
			return nil, fmt.Errorf("collection: expected %s or %s, got %s",
				TagMemberName, TagEndCollection, tag)
		}

		if _, err := d.str(); err != nil { // member-name attribute's own (empty) name
			return nil, err
		}
		memberName, err := d.bytes()
		if err != nil {
			return nil, err
		}

		valueTag, err := d.tag()
		if err != nil {
			return nil, err
		}
		if valueTag.IsDelimiter() || valueTag == TagMemberName || valueTag == TagEndCollection {
			return nil, fmt.Errorf("collection: unexpected %s", valueTag)
		}

		if _, err := d.str(); err != nil { // member value's own (empty) name
			return nil, err
		}

		var memberValue Value
		if valueTag == TagBeginCollection {
			if _, err := d.bytes(); err != nil {
				return nil, err
			}
			memberValue, err = d.collection()
		} else {
			var raw []byte
			raw, err = d.bytes()
			if err == nil {
				memberValue, err = decodeValue(valueTag, raw, string(memberName))
			}
		}
		if err != nil {
			return nil, err
		}

		coll = append(coll, MakeAttribute(string(memberName), valueTag, memberValue))
	}
}

// decodeValue dispatches a value's raw payload to the Value
// implementation for tag, applying the enum-bridging and
// reserved-string-null rules of spec.md §4.3 and §9.
func decodeValue(tag Tag, raw []byte, attrName string) (Value, error) {
	switch tag {
	case TagInteger, TagEnum:
		v, err := Integer(0).decode(raw)
		if err != nil {
			return nil, err
		}
		n := int32(v.(Integer))
		if name := enumName(attrName, n); name != "" {
			return Enum{Value: n, Name: name}, nil
		}
		if tag == TagEnum {
			return Enum{Value: n}, nil
		}
		return v, nil

	case TagBoolean:
		return Boolean(false).decode(raw)

	case TagDateTime:
		return Time{}.decode(raw)

	case TagResolution:
		return Resolution{}.decode(raw)

	case TagRange:
		return Range{}.decode(raw)

	case TagReservedString:
		if len(raw) == 0 {
			return Null{}, nil
		}
		return decodeString(raw)

	case TagUnsupportedValue, TagDefault, TagUnknown, TagNoValue,
		TagNotSettable, TagDeleteAttr, TagAdminDefine:
		return Null{}, nil

	case TagText, TagName, TagKeyword, TagURI, TagURIScheme,
		TagCharset, TagLanguage, TagMimeType, TagMemberName:
		return decodeString(raw)

	default:
		return Opaque(append([]byte(nil), raw...)), nil
	}
}

// decodeString decodes raw as UTF-8, failing with a descriptive
// error (wrapped by the caller into ParseError) on invalid input
// (spec.md §4.3 "Tolerance").
func decodeString(raw []byte) (Value, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("invalid UTF-8 in string value")
	}
	return String(raw), nil
}

// --- low-level byte reading ---

func (d *decoder) tag() (Tag, error) {
	b, err := d.u8()
	return Tag(b), err
}

func (d *decoder) u8() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, fmt.Errorf("unexpected end of message")
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) u16() (uint16, error) {
	if d.pos+2 > len(d.data) {
		return 0, fmt.Errorf("unexpected end of message")
	}
	v := binary.BigEndian.Uint16(d.data[d.pos:])
	d.pos += 2
	return v, nil
}

func (d *decoder) u32() (uint32, error) {
	if d.pos+4 > len(d.data) {
		return 0, fmt.Errorf("unexpected end of message")
	}
	v := binary.BigEndian.Uint32(d.data[d.pos:])
	d.pos += 4
	return v, nil
}

func (d *decoder) bytes() ([]byte, error) {
	n, err := d.u16()
	if err != nil {
		return nil, err
	}
	if d.pos+int(n) > len(d.data) {
		return nil, fmt.Errorf("unexpected end of message")
	}
	b := d.data[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return b, nil
}

func (d *decoder) str() (string, error) {
	b, err := d.bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) parseErr(err error) error {
	return &ParseError{Offset: d.pos, Err: err}
}
