package feltpresenter

import (
	"strings"
	"testing"

	"github.com/park285/holdem-trainer/internal/msgcat"
	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

func testFormatter(t *testing.T) *Formatter {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return NewFormatter(cat)
}

func testView() *TableView {
	players := map[string]pokerdto.PlayerState{
		"UTG": {Position: "UTG", Stack: 1000},
		"MP":  {Position: "MP", Stack: 1000},
		"CO":  {Position: "CO", Stack: 1000},
		"BTN": {Position: "BTN", IsHuman: true, IsActive: true, Stack: 990, CurrentBet: 10, HoleCards: []string{"Ks", "Qs"}},
		"SB":  {Position: "SB", IsActive: true, Stack: 995, HoleCards: []string{"??", "??"}},
		"BB":  {Position: "BB", Stack: 1000},
	}
	return &TableView{
		State: &pokerdto.GameState{
			HandID:           "0123456789abcdef",
			Street:           "preflop",
			Pot:              15,
			Players:          players,
			HumanPosition:    "BTN",
			AvailableActions: []string{"fold", "call", "raise"},
			MinRaise:         20,
			MaxRaise:         990,
			Stats: &pokerdto.TableStats{
				PotOdds:        "2.3:1",
				SPR:            12.4,
				ToCall:         10,
				CallPercentPot: 66,
				EffectivePot:   25,
			},
			ActionHistory: []pokerdto.ActionRecord{
				{Position: "UTG", Action: "fold", Street: "preflop"},
				{Position: "MP", Action: "fold", Street: "preflop"},
			},
		},
		DrillName:    "btn-vs-sb",
		DrillTitle:   "Button vs Small Blind",
		HeroRange:    "btn_open",
		VillainRange: "sb_defend",
		Phase:        "COMPLETE",
		Highlighted:  "BTN",
		Folded:       []string{"UTG", "MP", "CO"},
		MayAct:       true,
	}
}

func TestHeaderShortensHandID(t *testing.T) {
	f := testFormatter(t)
	got := f.Header(testView())
	if !strings.Contains(got, "01234567") {
		t.Fatalf("header missing short hand id: %q", got)
	}
	if strings.Contains(got, "89abcdef") {
		t.Fatalf("header leaked the full hand id: %q", got)
	}
	if !strings.Contains(got, "PREFLOP") {
		t.Fatalf("header missing street: %q", got)
	}
}

func TestDealBlock(t *testing.T) {
	f := testFormatter(t)
	got := f.Deal(testView())
	for _, want := range []string{"Button vs Small Blind", "BTN", "SB", "btn_open", "sb_defend"} {
		if !strings.Contains(got, want) {
			t.Fatalf("deal block missing %q:\n%s", want, got)
		}
	}
}

func TestStepLines(t *testing.T) {
	f := testFormatter(t)
	if got := f.StepLine(StepCue{Kind: "fold", Position: "UTG"}); !strings.Contains(got, "UTG folds") {
		t.Fatalf("fold cue = %q", got)
	}
	if got := f.StepLine(StepCue{Kind: "call", Position: "SB"}); !strings.Contains(got, "SB calls") {
		t.Fatalf("call cue = %q", got)
	}
	if got := f.StepLine(StepCue{Kind: "highlight", Position: "MP"}); !strings.Contains(got, "MP") {
		t.Fatalf("highlight cue = %q", got)
	}
}

func TestPageShowsTurnPanels(t *testing.T) {
	f := testFormatter(t)
	got := f.Page(testView())
	for _, want := range []string{
		"Your turn",
		"Call 10",
		"Raise to 20",
		"Pot odds: 2.3:1",
		"SPR: 12.4",
		"folded",
		"K♠ Q♠",
		"ACTION HISTORY",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("page missing %q:\n%s", want, got)
		}
	}
}

func TestPageWaitingLine(t *testing.T) {
	f := testFormatter(t)
	view := testView()
	view.MayAct = false
	view.Highlighted = "CO"
	got := f.Page(view)
	if !strings.Contains(got, "Action on CO") {
		t.Fatalf("page missing waiting line:\n%s", got)
	}
}

func TestOutcomeColorsByWinner(t *testing.T) {
	f := testFormatter(t)
	view := testView()
	view.State.HandComplete = true
	view.State.Winner = "BTN"
	got := f.Outcome(view)
	if !strings.Contains(got, "Winner: BTN") {
		t.Fatalf("outcome = %q", got)
	}

	view.State.Winner = ""
	if got := f.Outcome(view); !strings.Contains(got, "Hand complete") {
		t.Fatalf("no-winner outcome = %q", got)
	}
}

func TestHistoryPanelTail(t *testing.T) {
	f := testFormatter(t)
	view := testView()
	view.State.ActionHistory = nil
	for i := 0; i < historyTailLimit+4; i++ {
		view.State.ActionHistory = append(view.State.ActionHistory,
			pokerdto.ActionRecord{Position: "UTG", Action: "fold", Street: "preflop"})
	}
	view.State.ActionHistory[0].Action = "limp-marker"

	got := f.HistoryPanel(view)
	if strings.Contains(got, "limp-marker") {
		t.Fatalf("history panel kept entries past the tail limit")
	}
}

func TestRejectionAndErrors(t *testing.T) {
	f := testFormatter(t)
	if got := f.Rejection("raise below minimum"); !strings.Contains(got, "raise below minimum") {
		t.Fatalf("rejection = %q", got)
	}
	if got := f.DealerDown("http://dealer:8080"); !strings.Contains(got, "http://dealer:8080") {
		t.Fatalf("dealer down = %q", got)
	}
	if got := f.NoSession(); !strings.Contains(got, "No hand in progress") {
		t.Fatalf("no session = %q", got)
	}
}

func TestFormatterFallsBackWithoutCatalog(t *testing.T) {
	f := NewFormatter(nil)
	if got := f.StepLine(StepCue{Kind: "fold", Position: "UTG"}); !strings.Contains(got, "UTG folds") {
		t.Fatalf("fallback fold cue = %q", got)
	}
	if got := f.NoSession(); !strings.Contains(got, "No hand in progress") {
		t.Fatalf("fallback no session = %q", got)
	}
}
