package table

import (
	"testing"

	"github.com/park285/holdem-trainer/internal/domain"
)

func TestGetDrillAliases(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "btn-vs-sb"},
		{"default", "btn-vs-sb"},
		{"btn", "btn-vs-sb"},
		{"button", "btn-vs-sb"},
		{"sb", "sb-vs-btn"},
		{"BB", "bb-vs-btn"},
		{"  Btn-Vs-Sb  ", "btn-vs-sb"},
	}
	for _, tc := range cases {
		d, err := GetDrill(tc.in)
		if err != nil {
			t.Fatalf("GetDrill(%q): %v", tc.in, err)
		}
		if d.Name != tc.want {
			t.Fatalf("GetDrill(%q) = %s, want %s", tc.in, d.Name, tc.want)
		}
	}

	if _, err := GetDrill("heads-up-hyper"); err == nil {
		t.Fatalf("expected error for unknown drill")
	}
}

func TestDefaultDrillsAreValid(t *testing.T) {
	for name, d := range DefaultDrills {
		if err := ValidateDrill(d); err != nil {
			t.Fatalf("drill %s invalid: %v", name, err)
		}
		if d.Name != name {
			t.Fatalf("drill key %q carries name %q", name, d.Name)
		}
	}
}

func TestFindDrillBySeats(t *testing.T) {
	d, ok := FindDrillBySeats(domain.SB, domain.BTN)
	if !ok || d.Name != "sb-vs-btn" {
		t.Fatalf("FindDrillBySeats(SB, BTN) = %q/%v", d.Name, ok)
	}
	if _, ok := FindDrillBySeats(domain.UTG, domain.MP); ok {
		t.Fatal("unexpected drill for unpaired seats")
	}
}

func TestListDrillsSorted(t *testing.T) {
	drills := ListDrills()
	if len(drills) != len(DefaultDrills) {
		t.Fatalf("ListDrills returned %d drills, want %d", len(drills), len(DefaultDrills))
	}
	for i := 1; i < len(drills); i++ {
		if drills[i-1].Name >= drills[i].Name {
			t.Fatalf("drills not sorted: %s before %s", drills[i-1].Name, drills[i].Name)
		}
	}
}

func TestSetDrillRanges(t *testing.T) {
	original, err := GetDrill("bb-vs-btn")
	if err != nil {
		t.Fatalf("GetDrill: %v", err)
	}
	t.Cleanup(func() {
		if err := SetDrillRanges("bb-vs-btn", original.HeroRange, original.VillainRange); err != nil {
			t.Fatalf("restore drill ranges: %v", err)
		}
	})

	if err := SetDrillRanges("bb-vs-btn", "custom_defend", ""); err != nil {
		t.Fatalf("SetDrillRanges: %v", err)
	}
	d, err := GetDrill("bb-vs-btn")
	if err != nil {
		t.Fatalf("GetDrill after set: %v", err)
	}
	if d.HeroRange != "custom_defend" {
		t.Fatalf("hero range = %q, want custom_defend", d.HeroRange)
	}
	if d.VillainRange != original.VillainRange {
		t.Fatalf("villain range changed unexpectedly: %q", d.VillainRange)
	}

	if err := SetDrillRanges("missing", "a", "b"); err == nil {
		t.Fatalf("expected error for unknown drill")
	}
}

func TestValidateDrill(t *testing.T) {
	good := Drill{
		Name: "x", Hero: domain.BTN, Villain: domain.SB,
		HeroRange: "a", VillainRange: "b",
	}
	if err := ValidateDrill(good); err != nil {
		t.Fatalf("valid drill rejected: %v", err)
	}

	bad := []Drill{
		{Hero: domain.BTN, Villain: domain.SB, HeroRange: "a", VillainRange: "b"},
		{Name: "x", Hero: "XX", Villain: domain.SB, HeroRange: "a", VillainRange: "b"},
		{Name: "x", Hero: domain.BTN, Villain: domain.BTN, HeroRange: "a", VillainRange: "b"},
		{Name: "x", Hero: domain.BTN, Villain: domain.SB, VillainRange: "b"},
		{Name: "x", Hero: domain.BTN, Villain: domain.SB, HeroRange: "a"},
	}
	for i, d := range bad {
		if err := ValidateDrill(d); err == nil {
			t.Fatalf("bad drill %d accepted", i)
		}
	}
}
