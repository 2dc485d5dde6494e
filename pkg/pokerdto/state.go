package pokerdto

// GameState is the dealer service's full table snapshot. The trainer never
// derives game truth locally; every field here is authoritative as received.
type GameState struct {
	HandID           string                 `json:"hand_id"`
	Street           string                 `json:"street"`
	Pot              int                    `json:"pot"`
	CommunityCards   []string               `json:"community_cards"`
	Players          map[string]PlayerState `json:"players"`
	Seats            map[string]SeatState   `json:"seats"`
	ActionOn         string                 `json:"action_on"`
	HumanPosition    string                 `json:"human_position"`
	AvailableActions []string               `json:"available_actions"`
	MinRaise         int                    `json:"min_raise"`
	MaxRaise         int                    `json:"max_raise"`
	CurrentBet       int                    `json:"current_bet"`
	Stats            *TableStats            `json:"stats,omitempty"`
	ActionHistory    []ActionRecord         `json:"action_history,omitempty"`
	HandComplete     bool                   `json:"hand_complete"`
	Winner           string                 `json:"winner,omitempty"`
}

// PlayerState mirrors one seat's player entry. HoleCards is nil before the
// deal and ["??","??"] while the dealer hides a seat's cards.
type PlayerState struct {
	Position   string   `json:"position"`
	Label      string   `json:"label"`
	IsHuman    bool     `json:"is_human"`
	IsActive   bool     `json:"is_active"`
	Stack      int      `json:"stack"`
	HoleCards  []string `json:"hole_cards"`
	CurrentBet int      `json:"current_bet"`
	Folded     bool     `json:"folded"`
	AllIn      bool     `json:"all_in"`
}

type SeatState struct {
	Active bool `json:"active"`
	Folded bool `json:"folded"`
}

// TableStats carries the dealer-computed decision numbers for the acting
// player. PotOdds is preformatted ("2.3:1" or "N/A") and displayed verbatim.
type TableStats struct {
	PotOdds        string  `json:"pot_odds"`
	SPR            float64 `json:"spr"`
	ToCall         int     `json:"to_call"`
	CallPercentPot float64 `json:"call_percent_pot"`
	EffectivePot   int     `json:"effective_pot"`
}

// ActionRecord is one chronological action-history entry.
type ActionRecord struct {
	Position string `json:"position"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
	Street   string `json:"street"`
}

// ActionTaken identifies the single computer decision applied by an
// advance-one-computer-action call. Nil when the hand is complete or the
// action is on the human.
type ActionTaken struct {
	Position string `json:"position"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
}

// AdvanceResult is the computer-action response: the updated snapshot plus
// the action that produced it.
type AdvanceResult struct {
	GameState
	ActionTaken *ActionTaken `json:"action_taken"`
}
