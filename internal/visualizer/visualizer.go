package visualizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/holdem-trainer/internal/domain"
	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

// Phase is the sequencer's lifecycle state for the current hand.
type Phase string

const (
	PhaseIdle           Phase = "IDLE"
	PhaseSequencing     Phase = "SEQUENCING"
	PhaseWaitingOnHuman Phase = "WAITING_ON_HUMAN"
	PhaseComplete       Phase = "COMPLETE"
)

// StepKind labels a visual cue emitted while the sequencer walks the table.
type StepKind string

const (
	StepHighlight StepKind = "highlight"
	StepFold      StepKind = "fold"
	StepCall      StepKind = "call"
)

type Step struct {
	Kind     StepKind
	Position domain.Position
}

// AdvanceFunc asks the dealer to compute and apply exactly one computer
// decision. The visualizer never interprets the response; the embedding
// application feeds it back through Observe like any other snapshot.
type AdvanceFunc func(ctx context.Context) (*pokerdto.GameState, error)

// Callbacks are the visualizer's only outward surface. HumanTurn fires on
// eligibility changes only; Step carries animation cues; Error surfaces
// abandoned advance calls to the application's error channel.
type Callbacks struct {
	HumanTurn func(mayAct bool)
	Step      func(step Step)
	Error     func(err error)
}

// Config fixes the table topology for one session. Human and Opponent are
// the two live seats; the other four always fold preflop. That 2-live /
// 4-folding shape is a product rule carried as configuration, not derived.
type Config struct {
	Order          []domain.Position // first-to-act order; defaults to UTG-first
	Human          domain.Position
	Opponent       domain.Position
	StepDelay      time.Duration // pause before each simulated decision
	AdvanceTimeout time.Duration
}

var (
	ErrNilAdvance = errors.New("advance collaborator is required")
	ErrSameSeat   = errors.New("human and opponent must sit in different positions")
	ErrBadOrder   = errors.New("order must contain each of the six positions once")
)

const (
	defaultStepDelay      = 500 * time.Millisecond
	defaultAdvanceTimeout = 10 * time.Second
)

// Visualizer simulates preflop action moving around the table while the
// authoritative state is in flight: each non-human seat appears to fold (the
// opponent appears to call) in first-to-act order, then the human is signaled
// to act. Local marks are card-back animation only; every observed server
// snapshot overrides them.
//
// One pending timer step exists at a time. Each scheduled step captures the
// current generation counter and re-checks it before mutating anything, so a
// reset, street override, or Close makes stale steps fall through harmlessly.
type Visualizer struct {
	cfg     Config
	advance AdvanceFunc
	cbs     Callbacks
	logger  *zap.Logger

	mu          sync.Mutex
	phase       Phase
	handKey     string
	highlighted domain.Position // "" when no seat is highlighted
	folded      map[domain.Position]bool
	complete    bool // latches true per hand identity
	mayAct      bool // last signaled eligibility
	epoch       uint64
	timer       *time.Timer
	closed      bool

	lifeCtx    context.Context
	lifeCancel context.CancelFunc
}

func New(cfg Config, advance AdvanceFunc, cbs Callbacks, logger *zap.Logger) (*Visualizer, error) {
	if advance == nil {
		return nil, ErrNilAdvance
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Order) == 0 {
		cfg.Order = domain.PreflopOrder()
	}
	if err := validateOrder(cfg.Order); err != nil {
		return nil, err
	}
	if !cfg.Human.Valid() || !cfg.Opponent.Valid() {
		return nil, fmt.Errorf("invalid seat assignment: human=%q opponent=%q", cfg.Human, cfg.Opponent)
	}
	if cfg.Human == cfg.Opponent {
		return nil, ErrSameSeat
	}
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = defaultStepDelay
	}
	if cfg.AdvanceTimeout <= 0 {
		cfg.AdvanceTimeout = defaultAdvanceTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Visualizer{
		cfg:        cfg,
		advance:    advance,
		cbs:        cbs,
		logger:     logger,
		phase:      PhaseIdle,
		folded:     make(map[domain.Position]bool),
		lifeCtx:    ctx,
		lifeCancel: cancel,
	}, nil
}

func validateOrder(order []domain.Position) error {
	if len(order) != 6 {
		return ErrBadOrder
	}
	seen := make(map[domain.Position]bool, len(order))
	for _, p := range order {
		if !p.Valid() || seen[p] {
			return ErrBadOrder
		}
		seen[p] = true
	}
	return nil
}

func indexIn(order []domain.Position, p domain.Position) int {
	for i, q := range order {
		if q == p {
			return i
		}
	}
	return -1
}

// Observe reconciles the visualizer against an authoritative snapshot. It
// detects new hands, applies the past-preflop override, and merges reported
// folds into the local set (a strict, idempotent union).
func (v *Visualizer) Observe(state *pokerdto.GameState) {
	if state == nil {
		return
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}

	var fire []func()

	if key := v.keyFor(state); key != v.handKey {
		v.resetLocked(key, &fire)
		v.enterSequencingLocked(v.cfg.Order[0], &fire)
	}

	// Server truth wins: once the street has moved on (or the hand is over),
	// the local walk is pointless.
	if !v.complete && (domain.Street(state.Street).PastPreflop() || state.HandComplete) {
		v.completeLocked(false, &fire)
	}

	v.mergeFoldsLocked(state)

	v.mu.Unlock()
	for _, f := range fire {
		f()
	}
}

// keyFor derives the hand identity: human seat, opponent seat, and the
// server hand id. The session layer guarantees a stable non-empty id per
// hand (stamping one locally when the dealer omits it).
func (v *Visualizer) keyFor(state *pokerdto.GameState) string {
	human := state.HumanPosition
	if human == "" {
		human = string(v.cfg.Human)
	}
	opponent := ""
	for pos, p := range state.Players {
		if p.IsActive && !p.IsHuman {
			opponent = pos
			break
		}
	}
	if opponent == "" {
		opponent = string(v.cfg.Opponent)
	}
	return human + "|" + opponent + "|" + state.HandID
}

func (v *Visualizer) resetLocked(key string, fire *[]func()) {
	v.handKey = key
	v.folded = make(map[domain.Position]bool)
	v.complete = false
	v.highlighted = ""
	v.phase = PhaseIdle
	v.epoch++
	v.cancelTimerLocked()
	v.signalLocked(false, fire)
	v.logger.Debug("hand_reset", zap.String("hand", key))
}

func (v *Visualizer) enterSequencingLocked(pos domain.Position, fire *[]func()) {
	if pos == v.cfg.Human {
		// Play has reached the human seat: halt without marking anything.
		v.phase = PhaseWaitingOnHuman
		v.highlighted = pos
		v.epoch++
		v.cancelTimerLocked()
		v.signalLocked(true, fire)
		return
	}

	v.phase = PhaseSequencing
	v.highlighted = pos
	if cb := v.cbs.Step; cb != nil {
		step := Step{Kind: StepHighlight, Position: pos}
		*fire = append(*fire, func() { cb(step) })
	}

	ep := v.epoch
	v.timer = time.AfterFunc(v.cfg.StepDelay, func() { v.step(pos, ep) })
}

// completeLocked ends the sequence for this hand. highlightHuman keeps the
// ring on the human seat when the walk reached them naturally; the override
// path clears it.
func (v *Visualizer) completeLocked(highlightHuman bool, fire *[]func()) {
	v.phase = PhaseComplete
	v.complete = true
	if highlightHuman {
		v.highlighted = v.cfg.Human
	} else {
		v.highlighted = ""
	}
	v.epoch++
	v.cancelTimerLocked()
	v.signalLocked(true, fire)
}

func (v *Visualizer) signalLocked(mayAct bool, fire *[]func()) {
	if v.mayAct == mayAct {
		return
	}
	v.mayAct = mayAct
	if cb := v.cbs.HumanTurn; cb != nil {
		*fire = append(*fire, func() { cb(mayAct) })
	}
}

func (v *Visualizer) mergeFoldsLocked(state *pokerdto.GameState) {
	for _, rec := range state.ActionHistory {
		if domain.ActionKind(rec.Action) != domain.ActionFold {
			continue
		}
		if p, err := domain.ParsePosition(rec.Position); err == nil {
			v.folded[p] = true
		}
	}
	for pos, seat := range state.Seats {
		if !seat.Folded {
			continue
		}
		if p, err := domain.ParsePosition(pos); err == nil {
			v.folded[p] = true
		}
	}
}

// step is the delayed half of one Sequencing(pos) visit. ep is the
// generation captured at scheduling time; any mismatch means a reset,
// override, or Close happened while the timer was pending.
func (v *Visualizer) step(pos domain.Position, ep uint64) {
	v.mu.Lock()
	if v.closed || ep != v.epoch || v.phase != PhaseSequencing || v.highlighted != pos {
		v.mu.Unlock()
		return
	}

	// Optimistic local mark, card-back animation only. The opponent seat is
	// shown calling, never folded, by the fixed topology.
	var stepEv Step
	if pos == v.cfg.Opponent {
		stepEv = Step{Kind: StepCall, Position: pos}
	} else {
		v.folded[pos] = true
		stepEv = Step{Kind: StepFold, Position: pos}
	}
	stepCb := v.cbs.Step
	advance := v.advance
	timeout := v.cfg.AdvanceTimeout
	lifeCtx := v.lifeCtx
	v.mu.Unlock()

	if stepCb != nil {
		stepCb(stepEv)
	}

	ctx, cancel := context.WithTimeout(lifeCtx, timeout)
	_, err := advance(ctx)
	cancel()
	if err != nil {
		// Abandoned, not retried: the next authoritative snapshot supersedes
		// whatever this step was pretending to do.
		v.mu.Lock()
		stale := v.closed || ep != v.epoch
		errCb := v.cbs.Error
		v.mu.Unlock()
		if stale {
			return
		}
		v.logger.Warn("advance_abandoned", zap.String("position", string(pos)), zap.Error(err))
		if errCb != nil {
			errCb(err)
		}
		return
	}

	v.mu.Lock()
	if v.closed || ep != v.epoch || v.phase != PhaseSequencing {
		v.mu.Unlock()
		return
	}

	var fire []func()
	idx := indexIn(v.cfg.Order, pos)
	next := v.cfg.Order[(idx+1)%len(v.cfg.Order)]
	if next == v.cfg.Human {
		v.completeLocked(true, &fire)
	} else {
		v.enterSequencingLocked(next, &fire)
	}
	v.mu.Unlock()
	for _, f := range fire {
		f()
	}
}

func (v *Visualizer) cancelTimerLocked() {
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

// Close tears the visualizer down; pending steps and in-flight advance calls
// are abandoned. Safe to call more than once.
func (v *Visualizer) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.epoch++
	v.cancelTimerLocked()
	cancel := v.lifeCancel
	v.mu.Unlock()
	cancel()
}

func (v *Visualizer) Phase() Phase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

// Highlighted reports the seat currently shown as acting, if any.
func (v *Visualizer) Highlighted() (domain.Position, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.highlighted, v.highlighted != ""
}

// FoldedPositions returns the folded set in seating order.
func (v *Visualizer) FoldedPositions() []domain.Position {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]domain.Position, 0, len(v.folded))
	for _, p := range domain.Positions() {
		if v.folded[p] {
			out = append(out, p)
		}
	}
	return out
}

// SequenceComplete reports whether the preflop walk has finished for the
// current hand identity. Once true it stays true until a new hand.
func (v *Visualizer) SequenceComplete() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.complete
}

func (v *Visualizer) HumanMayAct() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mayAct
}
