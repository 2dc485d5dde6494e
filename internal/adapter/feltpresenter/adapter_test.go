package feltpresenter

import (
	"errors"
	"testing"

	"github.com/park285/holdem-trainer/internal/domain"
	svc "github.com/park285/holdem-trainer/internal/service/table"
	"github.com/park285/holdem-trainer/internal/visualizer"
	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

func TestToTableView(t *testing.T) {
	view := &svc.View{
		State: &pokerdto.GameState{HandID: "h1", Street: "preflop"},
		Drill: svc.Drill{
			Name:         "btn-vs-sb",
			Title:        "Button vs Small Blind",
			Hero:         domain.BTN,
			Villain:      domain.SB,
			HeroRange:    "btn_open",
			VillainRange: "sb_defend",
		},
		Phase:       visualizer.PhaseComplete,
		Highlighted: domain.BTN,
		Folded:      []domain.Position{domain.UTG, domain.MP, domain.CO},
		MayAct:      true,
	}

	got := ToTableView(view)
	if got == nil {
		t.Fatal("ToTableView returned nil for a live view")
	}
	if got.State != view.State {
		t.Fatal("state pointer should pass through unchanged")
	}
	if got.DrillName != "btn-vs-sb" || got.DrillTitle != "Button vs Small Blind" {
		t.Fatalf("drill fields = %q / %q", got.DrillName, got.DrillTitle)
	}
	if got.HeroRange != "btn_open" || got.VillainRange != "sb_defend" {
		t.Fatalf("range tokens = %q / %q", got.HeroRange, got.VillainRange)
	}
	if got.Phase != "COMPLETE" || got.Highlighted != "BTN" || !got.MayAct {
		t.Fatalf("phase/highlight/mayact = %q / %q / %v", got.Phase, got.Highlighted, got.MayAct)
	}
	want := []string{"UTG", "MP", "CO"}
	if len(got.Folded) != len(want) {
		t.Fatalf("folded = %v, want %v", got.Folded, want)
	}
	for i, pos := range want {
		if got.Folded[i] != pos {
			t.Fatalf("folded[%d] = %q, want %q", i, got.Folded[i], pos)
		}
	}
}

func TestToTableViewNil(t *testing.T) {
	if got := ToTableView(nil); got != nil {
		t.Fatalf("nil view should convert to nil, got %+v", got)
	}
}

func TestToStepCue(t *testing.T) {
	cue := ToStepCue(visualizer.Step{Kind: visualizer.StepFold, Position: domain.UTG})
	if cue.Kind != "fold" || cue.Position != "UTG" {
		t.Fatalf("cue = %+v", cue)
	}
}

func TestPresenterTableSendsTextThenImage(t *testing.T) {
	var calls []string
	p := NewPresenter(
		func(block string) error {
			calls = append(calls, "text:"+block)
			return nil
		},
		func(data []byte) (string, error) {
			calls = append(calls, "save")
			return "/tmp/table.png", nil
		},
	)

	if err := p.Table("the table", []byte{0x89, 'P', 'N', 'G'}); err != nil {
		t.Fatalf("Table: %v", err)
	}
	if len(calls) != 3 {
		t.Fatalf("calls = %v", calls)
	}
	if calls[0] != "text:the table" || calls[1] != "save" || calls[2] != "text:table image: /tmp/table.png" {
		t.Fatalf("call order = %v", calls)
	}
}

func TestPresenterSkipsEmptyAndMissing(t *testing.T) {
	var printed int
	p := NewPresenter(func(string) error {
		printed++
		return nil
	}, nil)

	if err := p.Show("  \n "); err != nil {
		t.Fatalf("Show blank: %v", err)
	}
	if err := p.Table("block", []byte("png")); err != nil {
		t.Fatalf("Table without saver: %v", err)
	}
	if printed != 1 {
		t.Fatalf("printed %d blocks, want 1", printed)
	}

	var nilPresenter *Presenter
	if err := nilPresenter.Show("x"); err != nil {
		t.Fatalf("nil presenter Show: %v", err)
	}
}

func TestPresenterTableSurfacesSaveError(t *testing.T) {
	boom := errors.New("disk full")
	p := NewPresenter(
		func(string) error { return nil },
		func([]byte) (string, error) { return "", boom },
	)
	if err := p.Table("block", []byte("png")); !errors.Is(err, boom) {
		t.Fatalf("Table error = %v, want %v", err, boom)
	}
}
