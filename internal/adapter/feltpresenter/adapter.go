package feltpresenter

import (
	svc "github.com/park285/holdem-trainer/internal/service/table"
	"github.com/park285/holdem-trainer/internal/visualizer"
	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

// TableView is the presenter-local projection of a session snapshot. Seat
// marks arrive as plain strings so the formatting layer stays free of the
// service's types.
type TableView struct {
	State        *pokerdto.GameState
	DrillName    string
	DrillTitle   string
	HeroRange    string
	VillainRange string
	Phase        string
	Highlighted  string
	Folded       []string
	MayAct       bool
}

func ToTableView(v *svc.View) *TableView {
	if v == nil {
		return nil
	}
	folded := make([]string, 0, len(v.Folded))
	for _, p := range v.Folded {
		folded = append(folded, string(p))
	}
	return &TableView{
		State:        v.State,
		DrillName:    v.Drill.Name,
		DrillTitle:   v.Drill.Title,
		HeroRange:    v.Drill.HeroRange,
		VillainRange: v.Drill.VillainRange,
		Phase:        string(v.Phase),
		Highlighted:  string(v.Highlighted),
		Folded:       folded,
		MayAct:       v.MayAct,
	}
}

// StepCue is the presenter-local form of one animation cue.
type StepCue struct {
	Kind     string
	Position string
}

func ToStepCue(step visualizer.Step) StepCue {
	return StepCue{Kind: string(step.Kind), Position: string(step.Position)}
}
