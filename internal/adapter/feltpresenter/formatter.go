package feltpresenter

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/park285/holdem-trainer/internal/domain"
	"github.com/park285/holdem-trainer/internal/msgcat"
	"github.com/park285/holdem-trainer/internal/util"
	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

const historyTailLimit = 8

// Formatter renders table views into terminal text blocks. Message text
// comes from the catalog so operators can reword without a rebuild; every
// lookup carries a plain fallback.
type Formatter struct {
	cat *msgcat.Catalog
}

func NewFormatter(cat *msgcat.Catalog) *Formatter {
	return &Formatter{cat: cat}
}

func (f *Formatter) render(key string, data any, fallback string) string {
	if f == nil || f.cat == nil {
		return fallback
	}
	out, err := f.cat.Render(key, data)
	if err != nil {
		return fallback
	}
	return out
}

func (f *Formatter) Header(view *TableView) string {
	if view == nil || view.State == nil {
		return ""
	}
	st := view.State
	id := shortHandID(st.HandID)
	street := strings.ToUpper(streetOrPreflop(st.Street))
	pot := util.FormatChips(st.Pot)
	return f.render("table.header", map[string]any{
		"HandID": id,
		"Street": street,
		"Pot":    pot,
	}, fmt.Sprintf("Hand %s / %s / pot %s", id, street, pot))
}

// Deal is the block shown once per fresh hand.
func (f *Formatter) Deal(view *TableView) string {
	if view == nil || view.State == nil {
		return f.NoSession()
	}
	var sb strings.Builder
	sb.WriteString(pterm.LightCyan(view.DrillTitle))
	sb.WriteByte('\n')
	sb.WriteString(fmt.Sprintf("• You play %s, opponent plays %s\n", view.State.HumanPosition, villainOf(view.State)))
	if view.HeroRange != "" && view.VillainRange != "" {
		sb.WriteString(fmt.Sprintf("• Charts: %s vs %s\n", view.HeroRange, view.VillainRange))
	}
	sb.WriteString(f.Header(view))
	return sb.String()
}

// StepLine is one animation cue as a single line.
func (f *Formatter) StepLine(cue StepCue) string {
	data := map[string]any{"Position": cue.Position}
	switch cue.Kind {
	case "fold":
		return pterm.FgGray.Sprint(f.render("step.fold", data, cue.Position+" folds"))
	case "call":
		return pterm.LightGreen(f.render("step.call", data, cue.Position+" calls"))
	default:
		return pterm.LightYellow(f.render("step.highlight", data, cue.Position+" is thinking"))
	}
}

// Page is the full refresh block: header, seats, board, then whichever of
// outcome, turn prompt, or waiting line applies.
func (f *Formatter) Page(view *TableView) string {
	if view == nil || view.State == nil {
		return f.NoSession()
	}
	st := view.State

	var sb strings.Builder
	sb.WriteString(f.Header(view))
	sb.WriteByte('\n')
	sb.WriteString(f.seatBlock(view))
	sb.WriteString(f.boardLine(st))
	sb.WriteByte('\n')

	switch {
	case st.HandComplete:
		sb.WriteString(f.Outcome(view))
	case view.MayAct:
		sb.WriteString(f.TurnPrompt(view))
		if panel := f.ActionsPanel(view); panel != "" {
			sb.WriteByte('\n')
			sb.WriteString(panel)
		}
		if panel := f.StatsPanel(view); panel != "" {
			sb.WriteByte('\n')
			sb.WriteString(panel)
		}
	case view.Highlighted != "":
		sb.WriteString(f.render("table.waiting", map[string]any{"Position": view.Highlighted},
			"Action on "+view.Highlighted))
	}
	if panel := f.HistoryPanel(view); panel != "" {
		sb.WriteByte('\n')
		sb.WriteString(panel)
	}
	return sb.String()
}

func (f *Formatter) seatBlock(view *TableView) string {
	st := view.State
	folded := make(map[string]bool, len(view.Folded))
	for _, p := range view.Folded {
		folded[p] = true
	}

	var sb strings.Builder
	for _, pos := range domain.Positions() {
		key := string(pos)
		player := st.Players[key]
		name := player.Label
		if name == "" {
			if player.IsHuman {
				name = "You"
			} else {
				name = "CPU"
			}
		}
		line := fmt.Sprintf("%s %s %7s", util.PadRight(key, 4), util.PadRight(name, 10), util.FormatChips(player.Stack))
		if player.CurrentBet > 0 {
			line += fmt.Sprintf("  bet %s", util.FormatChips(player.CurrentBet))
		}
		if len(player.HoleCards) > 0 {
			line += "  " + util.CardRow(player.HoleCards)
		}

		switch {
		case folded[key] || player.Folded:
			sb.WriteString(pterm.FgGray.Sprint("  " + line + "  folded"))
		case key == view.Highlighted:
			sb.WriteString(pterm.LightYellow("> " + line))
		default:
			sb.WriteString("  " + line)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (f *Formatter) boardLine(st *pokerdto.GameState) string {
	return fmt.Sprintf("Board: %s   Pot: %s", util.CardRow(st.CommunityCards), util.FormatChips(st.Pot))
}

func (f *Formatter) TurnPrompt(view *TableView) string {
	turn := f.render("table.your_turn", map[string]any{"Position": view.State.HumanPosition},
		"Your turn ("+view.State.HumanPosition+").")
	prompt := f.render("prompt.act", nil, "fold / check / call / raise <amount>")
	return pterm.LightGreen(turn) + "\n" + prompt
}

// ActionsPanel lists the legal actions the dealer reported, with amounts.
func (f *Formatter) ActionsPanel(view *TableView) string {
	st := view.State
	if len(st.AvailableActions) == 0 {
		return ""
	}
	toCall := 0
	if st.Stats != nil {
		toCall = st.Stats.ToCall
	}

	lines := make([]string, 0, len(st.AvailableActions))
	for _, action := range st.AvailableActions {
		switch strings.ToLower(action) {
		case "fold":
			lines = append(lines, "• "+f.render("action.fold", nil, "Fold"))
		case "check":
			lines = append(lines, "• "+f.render("action.check", nil, "Check"))
		case "call":
			lines = append(lines, "• "+f.render("action.call",
				map[string]any{"Amount": util.FormatChips(toCall)}, "Call "+util.FormatChips(toCall)))
		case "raise":
			lines = append(lines, "• "+f.render("action.raise", map[string]any{
				"Min": util.FormatChips(st.MinRaise),
				"Max": util.FormatChips(st.MaxRaise),
			}, fmt.Sprintf("Raise to %s-%s", util.FormatChips(st.MinRaise), util.FormatChips(st.MaxRaise))))
		default:
			lines = append(lines, "• "+action)
		}
	}
	title := f.render("panel.actions", nil, "AVAILABLE ACTIONS")
	return pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2).WithTitle(title).WithTitleTopCenter().
		Sprint(strings.Join(lines, "\n"))
}

// StatsPanel shows the dealer-computed decision numbers; empty without them.
func (f *Formatter) StatsPanel(view *TableView) string {
	st := view.State
	if st == nil || st.Stats == nil {
		return ""
	}
	s := st.Stats
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", f.render("stats.pot_odds", nil, "Pot odds"), s.PotOdds)
	fmt.Fprintf(&sb, "%s: %.1f\n", f.render("stats.spr", nil, "SPR"), s.SPR)
	fmt.Fprintf(&sb, "%s: %s\n", f.render("stats.to_call", nil, "To call"), util.FormatChips(s.ToCall))
	fmt.Fprintf(&sb, "%s: %.0f%%\n", f.render("stats.call_percent", nil, "Call % of pot"), s.CallPercentPot)
	fmt.Fprintf(&sb, "%s: %s", f.render("stats.effective_pot", nil, "Effective pot"), util.FormatChips(s.EffectivePot))

	title := f.render("panel.stats", nil, "DECISION STATS")
	return pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2).WithTitle(title).WithTitleTopCenter().
		Sprint(sb.String())
}

// HistoryPanel shows the tail of the action history.
func (f *Formatter) HistoryPanel(view *TableView) string {
	st := view.State
	if len(st.ActionHistory) == 0 {
		return ""
	}
	records := st.ActionHistory
	if len(records) > historyTailLimit {
		records = records[len(records)-historyTailLimit:]
	}
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		line := fmt.Sprintf("%s %s %s", util.PadRight(streetOrPreflop(rec.Street), 8), util.PadRight(rec.Position, 4), rec.Action)
		if rec.Amount > 0 {
			line += " " + util.FormatChips(rec.Amount)
		}
		lines = append(lines, line)
	}
	title := f.render("panel.history", nil, "ACTION HISTORY")
	return pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2).WithTitle(title).WithTitleTopCenter().
		Sprint(strings.Join(lines, "\n"))
}

func (f *Formatter) Outcome(view *TableView) string {
	st := view.State
	winner := strings.TrimSpace(st.Winner)
	if winner == "" {
		return f.render("table.no_winner", nil, "Hand complete.")
	}
	text := f.render("table.hand_complete", map[string]any{
		"Winner": strings.ToUpper(winner),
		"Pot":    util.FormatChips(st.Pot),
	}, "Hand complete. Winner: "+strings.ToUpper(winner))
	if strings.EqualFold(winner, st.HumanPosition) {
		return pterm.LightGreen(text)
	}
	return pterm.LightRed(text)
}

func (f *Formatter) Rejection(reason string) string {
	return pterm.LightRed(f.render("prompt.rejected", map[string]any{"Reason": reason},
		"Dealer rejected the action: "+reason))
}

func (f *Formatter) AdvanceFailed() string {
	return pterm.LightRed(f.render("error.advance", nil,
		"Could not advance the table; waiting for the dealer."))
}

func (f *Formatter) DealerDown(url string) string {
	return pterm.LightRed(f.render("error.dealer_down", map[string]any{"URL": url},
		"Dealer unreachable at "+url))
}

func (f *Formatter) NoSession() string {
	return f.render("prompt.no_session", nil, "No hand in progress. Deal one to begin.")
}

func shortHandID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}

func streetOrPreflop(street string) string {
	if strings.TrimSpace(street) == "" {
		return string(domain.StreetPreflop)
	}
	return street
}

func villainOf(st *pokerdto.GameState) string {
	for pos, p := range st.Players {
		if p.IsActive && !p.IsHuman {
			return pos
		}
	}
	return "?"
}
