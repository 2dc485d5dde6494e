package table

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/park285/holdem-trainer/internal/domain"
)

// Drill is a named training scenario: which seat the human plays, which seat
// the computer opponent plays, and the range charts shown for each side.
type Drill struct {
	Name         string
	Title        string
	Hero         domain.Position
	Villain      domain.Position
	HeroRange    string
	VillainRange string
	Description  string
}

var drillMu sync.RWMutex

var DefaultDrills = map[string]Drill{
	"btn-vs-sb": {
		Name:         "btn-vs-sb",
		Title:        "Button vs Small Blind",
		Hero:         domain.BTN,
		Villain:      domain.SB,
		HeroRange:    "btn_open",
		VillainRange: "sb_defend",
		Description:  "Open from the button, read the small blind's defense.",
	},
	"sb-vs-btn": {
		Name:         "sb-vs-btn",
		Title:        "Small Blind vs Button",
		Hero:         domain.SB,
		Villain:      domain.BTN,
		HeroRange:    "sb_defend",
		VillainRange: "btn_open",
		Description:  "Defend the small blind against a button open.",
	},
	"bb-vs-btn": {
		Name:         "bb-vs-btn",
		Title:        "Big Blind vs Button",
		Hero:         domain.BB,
		Villain:      domain.BTN,
		HeroRange:    "bb_defend",
		VillainRange: "btn_open",
		Description:  "Defend the big blind against a button open.",
	},
	"co-vs-bb": {
		Name:         "co-vs-bb",
		Title:        "Cutoff vs Big Blind",
		Hero:         domain.CO,
		Villain:      domain.BB,
		HeroRange:    "co_open",
		VillainRange: "bb_defend",
		Description:  "Open from the cutoff, read the big blind's defense.",
	},
}

const DefaultDrillName = "btn-vs-sb"

func GetDrill(name string) (Drill, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		name = DefaultDrillName
	case "button", "btn":
		name = "btn-vs-sb"
	case "smallblind", "sb":
		name = "sb-vs-btn"
	case "bigblind", "bb":
		name = "bb-vs-btn"
	case "cutoff", "co":
		name = "co-vs-bb"
	default:
		name = strings.ToLower(strings.TrimSpace(name))
	}
	drillMu.RLock()
	d, ok := DefaultDrills[name]
	drillMu.RUnlock()
	if ok {
		return d, nil
	}
	return Drill{}, fmt.Errorf("unknown drill: %s", name)
}

// FindDrillBySeats matches a preset by its exact hero/villain pairing, for
// seat-driven configuration.
func FindDrillBySeats(hero, villain domain.Position) (Drill, bool) {
	drillMu.RLock()
	defer drillMu.RUnlock()
	for _, d := range DefaultDrills {
		if d.Hero == hero && d.Villain == villain {
			return d, true
		}
	}
	return Drill{}, false
}

func ListDrills() []Drill {
	drillMu.RLock()
	out := make([]Drill, 0, len(DefaultDrills))
	for _, d := range DefaultDrills {
		out = append(out, d)
	}
	drillMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetDrillRanges swaps the range charts shown for an existing drill, for
// operators loading custom charts from a range directory.
func SetDrillRanges(name, heroRange, villainRange string) error {
	drillMu.Lock()
	defer drillMu.Unlock()

	d, ok := DefaultDrills[name]
	if !ok {
		return fmt.Errorf("unknown drill: %s", name)
	}
	if strings.TrimSpace(heroRange) != "" {
		d.HeroRange = heroRange
	}
	if strings.TrimSpace(villainRange) != "" {
		d.VillainRange = villainRange
	}
	if err := ValidateDrill(d); err != nil {
		return err
	}
	DefaultDrills[name] = d
	return nil
}

func ValidateDrill(d Drill) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("drill name required")
	case !d.Hero.Valid():
		return fmt.Errorf("drill %s: invalid hero seat %q", d.Name, d.Hero)
	case !d.Villain.Valid():
		return fmt.Errorf("drill %s: invalid villain seat %q", d.Name, d.Villain)
	case d.Hero == d.Villain:
		return fmt.Errorf("drill %s: hero and villain share seat %s", d.Name, d.Hero)
	case strings.TrimSpace(d.HeroRange) == "":
		return fmt.Errorf("drill %s: hero range required", d.Name)
	case strings.TrimSpace(d.VillainRange) == "":
		return fmt.Errorf("drill %s: villain range required", d.Name)
	}
	return nil
}
