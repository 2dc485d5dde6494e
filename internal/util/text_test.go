package util

import "testing"

func TestCardGlyph(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Ah", "A♥"},
		{"Td", "10♦"},
		{"2c", "2♣"},
		{"Ks", "K♠"},
		{"??", "??"},
		{"Axx", "Axx"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CardGlyph(tc.in); got != tc.want {
			t.Fatalf("CardGlyph(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCardRow(t *testing.T) {
	if got := CardRow(nil); got != "—" {
		t.Fatalf("empty row = %q", got)
	}
	if got := CardRow([]string{"Ah", "Ks"}); got != "A♥ K♠" {
		t.Fatalf("row = %q", got)
	}
}

func TestFormatChips(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{15, "15"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1000000, "1,000,000"},
		{-950, "-950"},
		{-12345, "-12,345"},
	}
	for _, tc := range cases {
		if got := FormatChips(tc.in); got != tc.want {
			t.Fatalf("FormatChips(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("BTN", 5); got != "BTN  " {
		t.Fatalf("PadRight = %q", got)
	}
	if got := PadRight("BUTTON", 3); got != "BUTTON" {
		t.Fatalf("long input = %q", got)
	}
}
