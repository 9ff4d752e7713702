// MFP - Internet Printing Protocol client toolkit
// IPP binary codec
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Attribute groups: the insertion-ordered "map" spec.md §3.4/§9 asks for

package ipp

import "strings"

// TaggedValue pairs a Value with the wire Tag it was (or will be)
// encoded with. Most callers never see the tag directly; it exists
// because a single attribute's additional values must all share it
// (spec.md §3.7).
type TaggedValue struct {
	Tag   Tag
	Value Value
}

// Values is the ordered list of values carried by one Attribute. A
// single value is the common case; more than one models the
// "additional value" wire encoding of a multi-valued attribute.
type Values []TaggedValue

// Add appends a tagged value.
func (vs *Values) Add(tag Tag, v Value) {
	*vs = append(*vs, TaggedValue{tag, v})
}

// String renders a single value bare, or multiple values
// bracketed and comma-separated.
func (vs Values) String() string {
	if len(vs) == 1 {
		return vs[0].Value.String()
	}

	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.Value.String())
	}
	b.WriteByte(']')
	return b.String()
}

// Attribute is a single named entry within a Group: an attribute
// name plus one or more tagged values.
type Attribute struct {
	Name   string
	Values Values
}

// MakeAttribute builds a single-valued Attribute.
func MakeAttribute(name string, tag Tag, v Value) Attribute {
	return Attribute{Name: name, Values: Values{{tag, v}}}
}

// Group is an ordered sequence of attributes, standing in for the
// "attribute-name -> value" maps of spec.md §3.4. A plain Go map
// can't preserve insertion order, and spec.md §5 requires
// "attributes-charset" to stay first within the operation-attributes
// group, so Group is backed by a slice searched linearly: attribute
// groups rarely hold more than a few dozen entries, and linear scans
// keep the zero value (nil Group) usable without initialization.
type Group []Attribute

// Add appends attr to the group, preserving insertion order. It does
// not check for an existing attribute of the same name; callers that
// want replace-semantics should use Set.
func (g *Group) Add(attr Attribute) {
	*g = append(*g, attr)
}

// Set assigns a single-valued attribute, replacing any existing
// attribute of the same name in place (preserving its original
// position) or appending a new one at the end.
func (g *Group) Set(name string, tag Tag, v Value) {
	for i := range *g {
		if (*g)[i].Name == name {
			(*g)[i].Values = Values{{tag, v}}
			return
		}
	}
	g.Add(MakeAttribute(name, tag, v))
}

// SetAuto assigns a single-valued attribute without resolving its
// wire tag yet: the encoder fills it in from DefaultTag at encode
// time (spec.md §4.2 "Resolve tag"), failing with
// UnsupportedAttribute if name isn't registered there.
func (g *Group) SetAuto(name string, v Value) {
	g.Set(name, TagZero, v)
}

// SetMultiAuto is the multi-valued counterpart of SetAuto.
func (g *Group) SetMultiAuto(name string, values ...Value) {
	g.SetMulti(name, TagZero, values...)
}

// SetMulti assigns a multi-valued attribute under the single tag,
// replacing any existing attribute of the same name.
func (g *Group) SetMulti(name string, tag Tag, values ...Value) {
	vs := make(Values, len(values))
	for i, v := range values {
		vs[i] = TaggedValue{tag, v}
	}

	for i := range *g {
		if (*g)[i].Name == name {
			(*g)[i].Values = vs
			return
		}
	}
	g.Add(Attribute{Name: name, Values: vs})
}

// Get returns the named attribute and true, or a zero Attribute and
// false if the group has no attribute of that name.
func (g Group) Get(name string) (Attribute, bool) {
	for _, attr := range g {
		if attr.Name == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// Value returns the first (or only) value of the named attribute.
func (g Group) Value(name string) (Value, bool) {
	attr, ok := g.Get(name)
	if !ok || len(attr.Values) == 0 {
		return nil, false
	}
	return attr.Values[0].Value, true
}

// String returns the attribute's value formatted with String, or an
// empty string with ok=false if the attribute is absent or not a
// string-family value.
func (g Group) String(name string) (string, bool) {
	v, ok := g.Value(name)
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	if !ok {
		return "", false
	}
	return string(s), true
}

// Int returns the attribute's value as an int32, accepting both the
// plain Integer and the enum-bridged Enum representation (spec.md §9
// "Projections must accept both the symbolic and integer forms").
func (g Group) Int(name string) (int32, bool) {
	v, ok := g.Value(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case Integer:
		return int32(n), true
	case Enum:
		return n.Value, true
	default:
		return 0, false
	}
}

// Strings returns every value of the named attribute as a string
// slice, accepting both single- and multi-valued attributes.
func (g Group) Strings(name string) ([]string, bool) {
	attr, ok := g.Get(name)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(attr.Values))
	for _, tv := range attr.Values {
		if s, ok := tv.Value.(String); ok {
			out = append(out, string(s))
		}
	}
	return out, true
}
