// MFP - Internet Printing Protocol client toolkit
// IPP binary codec
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Request serializer (spec.md §4.2)

package ipp

import (
	"bytes"
	"math"
	"math/rand"
	"time"
)

// requestIDSource generates request-ids when a Request doesn't
// supply one. Request-id generation is not security sensitive
// (spec.md §9 "Randomness"); a time-seeded math/rand source is
// sufficient and keeps tests free to set RequestID explicitly for
// byte-identical, reproducible encodings (spec.md §8.2).
var requestIDSource = rand.New(rand.NewSource(time.Now().UnixNano()))

// newRequestID returns a pseudo-random id in [10000, 99999], the
// range spec.md §4.2 "Request-id policy" specifies.
func newRequestID() int32 {
	return int32(10000 + requestIDSource.Intn(90000))
}

// Encode serializes rq into an IPP request message (spec.md §4.2).
func Encode(rq *Request) ([]byte, error) {
	var buf bytes.Buffer

	version := rq.Version
	if version == 0 {
		version = DefaultVersion
	}

	requestID := rq.RequestID
	if requestID == 0 {
		requestID = newRequestID()
	}

	writeU16(&buf, uint16(version))
	writeU16(&buf, uint16(rq.Operation))
	writeU32(&buf, uint32(requestID))

	buf.WriteByte(byte(TagOperationGroup))
	if err := encodeGroup(&buf, rq.OperationAttributes); err != nil {
		return nil, err
	}

	if len(rq.JobAttributes) > 0 {
		buf.WriteByte(byte(TagJobGroup))
		if err := encodeGroup(&buf, rq.JobAttributes); err != nil {
			return nil, err
		}
	}

	if len(rq.PrinterAttributes) > 0 {
		buf.WriteByte(byte(TagPrinterGroup))
		if err := encodeGroup(&buf, rq.PrinterAttributes); err != nil {
			return nil, err
		}
	}

	buf.WriteByte(byte(TagEnd))

	if len(rq.Data) > 0 {
		buf.Write(rq.Data)
	}

	return buf.Bytes(), nil
}

// encodeGroup emits every attribute of g, in insertion order.
func encodeGroup(buf *bytes.Buffer, g Group) error {
	for _, attr := range g {
		if err := encodeAttr(buf, attr); err != nil {
			return err
		}
	}
	return nil
}

// encodeAttr resolves attr's tag and emits it, along with any
// additional values, as the wire format requires (spec.md §3.2,
// §4.2).
func encodeAttr(buf *bytes.Buffer, attr Attribute) error {
	if len(attr.Values) == 0 {
		return nil
	}

	tag, err := resolveTag(attr)
	if err != nil {
		return err
	}

	if tag == TagBeginCollection {
		return encodeCollectionAttr(buf, attr.Name, tag, attr.Values)
	}

	return encodeValueRun(buf, attr.Name, tag, attr.Values)
}

// encodeValueRun emits values under a tag already resolved by the
// caller, writing name on the first value and an empty name on every
// additional value (spec.md §3.2).
func encodeValueRun(buf *bytes.Buffer, name string, tag Tag, values Values) error {
	for _, tv := range values {
		v := tv.Value
		if _, ok := v.(Collection); ok {
			return &DatatypeMismatch{Name: name, Tag: tag}
		}

		buf.WriteByte(byte(tag))
		if err := writeName(buf, name); err != nil {
			return err
		}
		if err := writeValue(buf, tag, v); err != nil {
			return err
		}

		name = "" // additional values carry no name (spec.md §3.2)
	}

	return nil
}

// resolveTag picks the wire tag for attr: the tag on its first
// value if set, else the registered default, else
// UnsupportedAttribute (spec.md §4.2 "Resolve tag").
func resolveTag(attr Attribute) (Tag, error) {
	if t := attr.Values[0].Tag; t != TagZero {
		return t, nil
	}

	if t, ok := DefaultTag(attr.Name); ok {
		return t, nil
	}

	return TagZero, &UnsupportedAttribute{Name: attr.Name}
}

// encodeCollectionAttr emits a TagBeginCollection attribute and its
// members (spec.md §4.2 "If value is a nested map"). Each member's
// value tag is resolved using the member's own name, even though the
// wire encoding gives the value itself an empty name (the preceding
// MemberAttrName attribute already carries it).
func encodeCollectionAttr(buf *bytes.Buffer, name string, tag Tag, values Values) error {
	for _, tv := range values {
		coll, ok := tv.Value.(Collection)
		if !ok {
			return &DatatypeMismatch{Name: name, Tag: tag}
		}

		buf.WriteByte(byte(TagBeginCollection))
		if err := writeName(buf, name); err != nil {
			return err
		}
		writeU16(buf, 0) // TagBeginCollection carries no payload

		for _, member := range Group(coll) {
			if err := encodeValueRun(buf, "", TagMemberName, Values{{TagMemberName, String(member.Name)}}); err != nil {
				return err
			}

			memberTag, err := resolveTag(Attribute{Name: member.Name, Values: member.Values})
			if err != nil {
				return err
			}

			if memberTag == TagBeginCollection {
				err = encodeCollectionAttr(buf, "", memberTag, member.Values)
			} else {
				err = encodeValueRun(buf, "", memberTag, member.Values)
			}
			if err != nil {
				return err
			}
		}

		if err := encodeValueRun(buf, "", TagEndCollection, Values{{TagEndCollection, Null{}}}); err != nil {
			return err
		}

		name = ""
	}

	return nil
}

// writeValue encodes a scalar value's length-prefixed payload
// (spec.md §4.2 "Scalar value encoding").
func writeValue(buf *bytes.Buffer, tag Tag, v Value) error {
	data, err := v.encode()
	if err != nil {
		return err
	}

	if len(data) > math.MaxUint16 {
		return &ParseError{Err: errTooLong(tag, len(data))}
	}

	writeU16(buf, uint16(len(data)))
	buf.Write(data)
	return nil
}

func writeName(buf *bytes.Buffer, name string) error {
	if len(name) > math.MaxUint16 {
		return &ParseError{Err: errTooLong(TagZero, len(name))}
	}
	writeU16(buf, uint16(len(name)))
	buf.WriteString(name)
	return nil
}

func writeU16(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}

func writeU32(buf *bytes.Buffer, v uint32) {
	buf.WriteByte(byte(v >> 24))
	buf.WriteByte(byte(v >> 16))
	buf.WriteByte(byte(v >> 8))
	buf.WriteByte(byte(v))
}
