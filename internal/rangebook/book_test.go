package rangebook

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseRange(t *testing.T) {
	input := `# title: Test chart
# source: unit test

AhKh,1.000000
AhKd,0.500000
2c2d , 0.250000
`
	combos, title, err := ParseRange(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if title != "Test chart" {
		t.Fatalf("title = %q, want %q", title, "Test chart")
	}
	if len(combos) != 3 {
		t.Fatalf("combos = %d, want 3", len(combos))
	}
	if w := combos["AhKh"]; w != 1.0 {
		t.Fatalf("AhKh weight = %v, want 1.0", w)
	}
	if w := combos["2c2d"]; w != 0.25 {
		t.Fatalf("2c2d weight = %v, want 0.25", w)
	}
}

func TestParseRangeRejectsBadLines(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"missing weight", "AhKh\n"},
		{"bad card", "AhKx,1.0\n"},
		{"repeated card", "AhAh,1.0\n"},
		{"weight above one", "AhKh,1.5\n"},
		{"negative weight", "AhKh,-0.1\n"},
		{"garbage weight", "AhKh,abc\n"},
		{"duplicate combo", "AhKh,1.0\nKhAh,1.0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := ParseRange(strings.NewReader(tc.input)); err == nil {
				t.Fatalf("ParseRange accepted %q", tc.input)
			}
		})
	}
}

func TestClassFor(t *testing.T) {
	cases := []struct {
		combo string
		want  string
	}{
		{"AhKh", "AKs"},
		{"AhKd", "AKo"},
		{"KsAh", "AKo"},
		{"2c2d", "22"},
		{"Th9h", "T9s"},
		{"9hTh", "T9s"},
	}
	for _, tc := range cases {
		got, err := ClassFor(tc.combo)
		if err != nil {
			t.Fatalf("ClassFor(%q): %v", tc.combo, err)
		}
		if got != tc.want {
			t.Fatalf("ClassFor(%q) = %q, want %q", tc.combo, got, tc.want)
		}
	}
	if _, err := ClassFor("AhXx"); err == nil {
		t.Fatal("ClassFor accepted an invalid combo")
	}
}

func TestBinClassesDensities(t *testing.T) {
	combos := map[string]float64{
		// all six AA combos
		"AhAd": 1, "AhAc": 1, "AhAs": 1, "AdAc": 1, "AdAs": 1, "AcAs": 1,
		// two of four AKs combos
		"AhKh": 1, "AdKd": 1,
		// one AKo combo at half weight
		"AhKd": 0.5,
		// zero-weight combo must not count as played
		"QhQd": 0,
	}
	g := BinClasses("test", "Test", combos)

	if g.Combos != 9 {
		t.Fatalf("played combos = %d, want 9", g.Combos)
	}
	checks := []struct {
		label string
		want  float64
	}{
		{"AA", 1.0},
		{"AKs", 0.5},
		{"AKo", 0.5 / 12},
		{"QQ", 0},
		{"72o", 0},
	}
	for _, c := range checks {
		cell, ok := g.Lookup(c.label)
		if !ok {
			t.Fatalf("Lookup(%q) missing", c.label)
		}
		if math.Abs(cell.Weight-c.want) > 1e-9 {
			t.Fatalf("%s weight = %v, want %v", c.label, cell.Weight, c.want)
		}
	}
}

func TestGridLayout(t *testing.T) {
	g := BinClasses("layout", "", nil)
	if got := g.Classes[0][0].Label; got != "AA" {
		t.Fatalf("[0][0] = %q, want AA", got)
	}
	if got := g.Classes[0][1].Label; got != "AKs" {
		t.Fatalf("[0][1] = %q, want AKs", got)
	}
	if got := g.Classes[1][0].Label; got != "AKo" {
		t.Fatalf("[1][0] = %q, want AKo", got)
	}
	if got := g.Classes[12][12].Label; got != "22" {
		t.Fatalf("[12][12] = %q, want 22", got)
	}
	if _, ok := g.Lookup("AAs"); ok {
		t.Fatal("Lookup accepted a suited pair label")
	}
}

func TestOpenEmbedded(t *testing.T) {
	t.Setenv("RANGE_DIR", "")
	b, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	names := b.Names()
	want := map[string]bool{"btn_open": false, "sb_defend": false, "co_open": false, "bb_defend": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Fatalf("embedded range %q missing from %v", n, names)
		}
	}

	// lookup by name token and by chart title
	if name, ok := b.Resolve("BTN Open"); !ok || name != "btn_open" {
		t.Fatalf("Resolve(BTN Open) = %q/%v", name, ok)
	}
	if name, ok := b.Resolve("Button opening baseline"); !ok || name != "btn_open" {
		t.Fatalf("Resolve by title = %q/%v", name, ok)
	}

	g, err := b.Grid("btn_open")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if g.Combos != 210 {
		t.Fatalf("btn_open combos = %d, want 210", g.Combos)
	}
	for _, c := range []struct {
		label string
		want  float64
	}{
		{"AA", 1.0},
		{"22", 0.5},
		{"ATo", 0.75},
		{"65s", 1.0},
		{"64s", 0},
	} {
		cell, _ := g.Lookup(c.label)
		if math.Abs(cell.Weight-c.want) > 1e-9 {
			t.Fatalf("%s weight = %v, want %v", c.label, cell.Weight, c.want)
		}
	}
}

func TestOpenDirOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	custom := "# title: Custom spot\nAhAd,1.0\nAhAc,1.0\n"
	if err := os.WriteFile(filepath.Join(dir, "custom_spot.rng"), []byte(custom), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	override := "# title: Narrow button\nKhKd,1.0\n"
	if err := os.WriteFile(filepath.Join(dir, "btn_open.rng"), []byte(override), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := b.Resolve("custom spot"); !ok {
		t.Fatalf("custom range not indexed: %v", b.Names())
	}

	g, err := b.Grid("btn_open")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if g.Title != "Narrow button" {
		t.Fatalf("override title = %q, want %q", g.Title, "Narrow button")
	}
	if cell, _ := g.Lookup("AKs"); cell.Weight != 0 {
		t.Fatalf("override should not contain AKs, weight = %v", cell.Weight)
	}
}

func TestOpenMissingDirFails(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("Open accepted a missing directory")
	}
	t.Setenv("RANGE_DIR", filepath.Join(t.TempDir(), "also-nope"))
	if _, err := Open(""); err == nil {
		t.Fatal("Open accepted a missing RANGE_DIR")
	}
}

func TestGridUnknownRange(t *testing.T) {
	t.Setenv("RANGE_DIR", "")
	b, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := b.Grid("no-such-range"); !errors.Is(err, ErrUnknownRange) {
		t.Fatalf("err = %v, want ErrUnknownRange", err)
	}
}
