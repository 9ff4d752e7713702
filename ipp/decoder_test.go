// MFP - Internet Printing Protocol client toolkit
// IPP binary codec
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Tests for the response parser, grounded in the golden-fixture
// scenarios of spec.md §8.3.

package ipp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// msgBuilder hand-assembles an IPP response message byte by byte,
// independent of Encode, for use as parser test input.
type msgBuilder struct {
	buf bytes.Buffer
}

func newMsgBuilder(version Version, status Status, requestID int32) *msgBuilder {
	b := &msgBuilder{}
	b.u16(uint16(version))
	b.u16(uint16(status))
	b.u32(uint32(requestID))
	return b
}

func (b *msgBuilder) u16(v uint16) *msgBuilder {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	b.buf.Write(buf[:])
	return b
}

func (b *msgBuilder) u32(v uint32) *msgBuilder {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.buf.Write(buf[:])
	return b
}

func (b *msgBuilder) str(s string) *msgBuilder {
	b.u16(uint16(len(s)))
	b.buf.WriteString(s)
	return b
}

func (b *msgBuilder) group(tag Tag) *msgBuilder {
	b.buf.WriteByte(byte(tag))
	return b
}

// attr emits one value of a string-family attribute; call again with
// name="" for additional values of the same attribute.
func (b *msgBuilder) attr(tag Tag, name, value string) *msgBuilder {
	b.buf.WriteByte(byte(tag))
	b.str(name)
	b.str(value)
	return b
}

func (b *msgBuilder) intAttr(tag Tag, name string, value int32) *msgBuilder {
	b.buf.WriteByte(byte(tag))
	b.str(name)
	b.u16(4)
	b.u32(uint32(value))
	return b
}

func (b *msgBuilder) end() []byte {
	b.buf.WriteByte(byte(TagEnd))
	return b.buf.Bytes()
}

func TestDecode_Epson(t *testing.T) {
	// spec.md §8.3 "get-printer-attributes-epsonxp6000.bin"
	data := newMsgBuilder(MakeVersion(2, 0), StatusOk, 1).
		group(TagOperationGroup).
		attr(TagCharset, "attributes-charset", "utf-8").
		attr(TagLanguage, "attributes-natural-language", "en-us").
		group(TagPrinterGroup).
		attr(TagText, "printer-make-and-model", "EPSON XP-6000 Series").
		attr(TagKeyword, "marker-names", "Black").
		attr(TagKeyword, "", "Cyan").
		attr(TagKeyword, "", "Magenta").
		attr(TagKeyword, "", "Photo Black").
		attr(TagKeyword, "", "Yellow").
		intAttr(TagInteger, "marker-levels", 27).
		intAttr(TagInteger, "", 99).
		intAttr(TagInteger, "", 83).
		intAttr(TagInteger, "", 6).
		intAttr(TagInteger, "", 64).
		attr(TagKeyword, "printer-state-reasons", "marker-supply-low-warning").
		attr(TagURI, "printer-uri-supported", "ipp://printer.example.com/ipp/print").
		attr(TagURI, "", "ipps://printer.example.com/ipp/print").
		attr(TagKeyword, "uri-security-supported", "tls").
		attr(TagKeyword, "", "none").
		end()

	rsp, err := Decode(data, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(rsp.Printers) != 1 {
		t.Fatalf("got %d printer groups, want 1", len(rsp.Printers))
	}

	p := FromAttributes(rsp.Printers[0])

	if p.Info.Name != "EPSON XP-6000 Series" {
		t.Errorf("Info.Name = %q", p.Info.Name)
	}

	if len(p.Markers) != 5 {
		t.Fatalf("got %d markers, want 5", len(p.Markers))
	}
	wantNames := []string{"Black", "Cyan", "Magenta", "Photo Black", "Yellow"}
	wantLevels := map[string]int32{
		"Black": 27, "Cyan": 99, "Magenta": 83, "Photo Black": 6, "Yellow": 64,
	}
	for i, m := range p.Markers {
		if m.Name != wantNames[i] {
			t.Errorf("marker %d: name = %q, want %q", i, m.Name, wantNames[i])
		}
		if m.Level != wantLevels[m.Name] {
			t.Errorf("marker %q: level = %d, want %d", m.Name, m.Level, wantLevels[m.Name])
		}
	}

	if p.State.Reasons == nil || *p.State.Reasons != "marker-supply-low-warning" {
		t.Errorf("State.Reasons = %v", p.State.Reasons)
	}

	if len(p.URIs) != 2 {
		t.Fatalf("got %d uris, want 2", len(p.URIs))
	}
	if p.URIs[0].Security == nil || *p.URIs[0].Security != "tls" {
		t.Errorf("URIs[0].Security = %v", p.URIs[0].Security)
	}
	if p.URIs[1].Security != nil {
		t.Errorf("URIs[1].Security = %v, want nil (\"none\")", *p.URIs[1].Security)
	}
}

func TestDecode_BrotherUUID(t *testing.T) {
	// spec.md §8.3 "get-printer-attributes-brother-mfcj5320dw.bin"
	data := newMsgBuilder(MakeVersion(2, 0), StatusOk, 7).
		group(TagOperationGroup).
		attr(TagCharset, "attributes-charset", "utf-8").
		group(TagPrinterGroup).
		attr(TagText, "printer-make-and-model", "Brother MFC-J5320DW").
		attr(TagURI, "printer-uuid", "urn:uuid:e3248000-80ce-11db-8000-30055ce13be2").
		end()

	rsp, err := Decode(data, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rsp.Version != MakeVersion(2, 0) {
		t.Errorf("Version = %s", rsp.Version)
	}
	if !rsp.StatusCode.Success() {
		t.Errorf("StatusCode = %s, want success", rsp.StatusCode)
	}

	p := FromAttributes(rsp.Printers[0])
	if p.Info.Name != "Brother MFC-J5320DW" {
		t.Errorf("Info.Name = %q", p.Info.Name)
	}
	if p.Info.UUID != "e3248000-80ce-11db-8000-30055ce13be2" {
		t.Errorf("Info.UUID = %q, want stripped urn:uuid: prefix", p.Info.UUID)
	}
}

func TestDecode_KyoceraUnsupported(t *testing.T) {
	// spec.md §8.3 "get-printer-attributes-kyocera-ecosys-m2540dn-001.bin"
	data := newMsgBuilder(MakeVersion(2, 0), StatusOkIgnoredOrSubstituted, 3).
		group(TagOperationGroup).
		attr(TagCharset, "attributes-charset", "utf-8").
		group(TagUnsupportedGroup).
		attr(TagKeyword, "requested-attributes", "printer-type").
		attr(TagKeyword, "", "printer-state-reason").
		attr(TagKeyword, "", "device-uri").
		attr(TagKeyword, "", "printer-is-shared").
		end()

	rsp, err := Decode(data, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rsp.StatusCode != StatusOkIgnoredOrSubstituted {
		t.Errorf("StatusCode = %s", rsp.StatusCode)
	}
	if !rsp.StatusCode.Success() {
		t.Errorf("StatusCode.Success() = false, want true (ok-ignored-or-substituted is still successful)")
	}

	if len(rsp.Unsupported) != 1 {
		t.Fatalf("got %d unsupported groups, want 1", len(rsp.Unsupported))
	}

	got, ok := rsp.Unsupported[0].Strings("requested-attributes")
	if !ok {
		t.Fatalf("requested-attributes not found in unsupported-attributes group")
	}
	want := []string{"printer-type", "printer-state-reason", "device-uri", "printer-is-shared"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDecode_VersionNotSupported(t *testing.T) {
	// spec.md §8.3 "get-printer-attributes-error-0x0503.bin"
	data := newMsgBuilder(MakeVersion(2, 0), StatusErrorVersionNotSupported, 9).
		group(TagOperationGroup).
		attr(TagCharset, "attributes-charset", "utf-8").
		end()

	rsp, err := Decode(data, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rsp.StatusCode != StatusErrorVersionNotSupported {
		t.Errorf("StatusCode = %s", rsp.StatusCode)
	}
	if rsp.StatusCode.Success() {
		t.Errorf("StatusCode.Success() = true, want false")
	}
}

func TestDecode_TruncatedMessage(t *testing.T) {
	_, err := Decode([]byte{0x02, 0x00, 0x00}, false)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Decode: expected *ParseError, got %T: %v", err, err)
	}
}

func TestDecode_ReservedStringNull(t *testing.T) {
	data := newMsgBuilder(MakeVersion(2, 0), StatusOk, 1).
		group(TagOperationGroup).
		attr(TagCharset, "attributes-charset", "utf-8").
		group(TagPrinterGroup).
		attr(TagReservedString, "printer-location", "").
		end()

	rsp, err := Decode(data, false)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	v, ok := rsp.Printers[0].Value("printer-location")
	if !ok {
		t.Fatalf("printer-location not found")
	}
	if _, ok := v.(Null); !ok {
		t.Errorf("printer-location decoded as %T, want Null", v)
	}
}
