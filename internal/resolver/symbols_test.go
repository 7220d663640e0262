package resolver

import (
	"reflect"
	"testing"
)

// TestNormalize tests spreadsheet-ticker canonicalization.
func TestNormalize(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"WALMEX*", "WALMEX"},
		{"  gfnorteo ", "GFNORTEO"},
		{"PE&OLES", "PE&OLES"}, // ampersand survives normalization
		{"AC**", "AC"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := Normalize(tc.input); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

// TestStripDecorations tests last-resort symbol cleanup.
func TestStripDecorations(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"PE&OLES", "PEOLES"},
		{"LIVEPOLC.1", "LIVEPOLC"},
		{"KOF UBL", "KOFUBL"},
		{"ALFA.A", "ALFA"},
		{"WALMEX", "WALMEX"}, // nothing to strip
	}

	for _, tc := range cases {
		if got := stripDecorations(tc.input); got != tc.want {
			t.Errorf("stripDecorations(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

// TestCandidates tests the ordered symbol ladder.
//
// WHY: the provider returns plausible-looking data for wrong symbols,
// so the exact candidate order is load-bearing: verbatim first, then
// suffixed, then stripped-and-suffixed, duplicates collapsed.
func TestCandidates(t *testing.T) {
	r := New(nil, Options{})

	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{
			"plain domestic ticker",
			"WALMEX*",
			[]string{"WALMEX", "WALMEX.MX"},
		},
		{
			"correction already carries the suffix",
			"MEXCHEM",
			[]string{"ORBIA.MX"},
		},
		{
			"series punctuation correction",
			"LIVEPOLC.1",
			[]string{"LIVEPOLC-1.MX"},
		},
		{
			"ampersand falls through to the stripped candidate",
			"AB&C",
			[]string{"AB&C", "AB&C.MX", "ABC.MX"},
		},
		{
			"blank ticker has no candidates",
			"   ",
			nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.candidates(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("candidates(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
