// MFP - Internet Printing Protocol client toolkit
// IPP binary codec
//
// Copyright (C) 2024 and up by Alexander Pevzner (pzz@apevzner.com)
// See LICENSE for license terms and conditions
//
// Enum bridging tests

package ipp

import "testing"

func TestEnumName_KnownFamilies(t *testing.T) {
	cases := []struct {
		name  string
		value int32
		want  string
	}{
		{"job-state", 4, "pending-held"},
		{"job-state", 9, "completed"},
		{"printer-state", 3, "idle"},
		{"printer-state", 4, "processing"},
		{"document-state", 6, "canceled"},
		{"finishings", 4, "staple"},
		{"finishings", 13, "booklet-maker"},
		{"orientation-requested", 4, "landscape"},
		{"print-quality", 5, "high"},
	}

	for _, c := range cases {
		if got := enumName(c.name, c.value); got != c.want {
			t.Errorf("enumName(%q, %d) = %q, want %q", c.name, c.value, got, c.want)
		}
	}
}

func TestEnumName_UnknownValueInKnownFamily(t *testing.T) {
	if got := enumName("job-state", 999); got != "" {
		t.Errorf("enumName(job-state, 999) = %q, want empty", got)
	}
}

func TestEnumName_UnbridgedFamily(t *testing.T) {
	if got := enumName("some-vendor-attribute", 1); got != "" {
		t.Errorf("enumName(some-vendor-attribute, 1) = %q, want empty", got)
	}
}

func TestEnumName_OperationsSupportedDelegatesToOp(t *testing.T) {
	got := enumName("operations-supported", int32(OpGetPrinterAttributes))
	want := OpGetPrinterAttributes.String()
	if got != want {
		t.Errorf("enumName(operations-supported, ...) = %q, want %q", got, want)
	}
}
