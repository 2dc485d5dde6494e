package table

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/holdem-trainer/internal/domain"
	"github.com/park285/holdem-trainer/internal/rangebook"
	"github.com/park285/holdem-trainer/internal/visualizer"
	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

var (
	ErrNoSession   = errors.New("no hand in progress")
	ErrNotYourTurn = errors.New("not your turn to act")
)

// Dealer is the slice of the dealer client the session layer needs. The
// trainer never computes poker outcomes itself; every table truth comes from
// these five calls.
type Dealer interface {
	NewHand(ctx context.Context, hero, villain string) (*pokerdto.GameState, error)
	State(ctx context.Context) (*pokerdto.GameState, error)
	Advance(ctx context.Context) (*pokerdto.AdvanceResult, error)
	Act(ctx context.Context, action string, amount int) (*pokerdto.GameState, error)
	Reset(ctx context.Context) (*pokerdto.GameState, error)
}

// Hooks receive presentation events. Every func is optional; nil hooks are
// skipped. ViewChanged fires after each authoritative snapshot is absorbed,
// StepPlayed relays the sequencer's animation cues, TurnChanged relays
// eligibility flips, Failed relays abandoned advance calls.
type Hooks struct {
	ViewChanged func(view View)
	StepPlayed  func(step visualizer.Step)
	TurnChanged func(mayAct bool)
	Failed      func(err error)
}

type Config struct {
	DefaultDrill   string
	StepDelay      time.Duration
	AdvanceTimeout time.Duration
}

// View is a self-contained render snapshot: the latest authoritative state
// plus the sequencer's presentation marks. The state is a deep copy; callers
// may keep or mutate it freely.
type View struct {
	State       *pokerdto.GameState
	Drill       Drill
	Phase       visualizer.Phase
	Highlighted domain.Position
	Folded      []domain.Position
	MayAct      bool
}

// Service runs one training session: it owns the current drill, the action
// sequencer for that drill's seats, and the latest dealer snapshot. All table
// truth flows dealer -> observe -> visualizer; the service never invents it.
type Service struct {
	dealer   Dealer
	renderer Renderer
	library  *rangebook.Library
	hooks    Hooks
	cfg      Config
	logger   *zap.Logger

	mu          sync.Mutex
	drill       Drill
	vis         *visualizer.Visualizer
	latest      *pokerdto.GameState
	localHandID string
	pumpTimer   *time.Timer
	pumpEpoch   uint64
	closed      bool
}

func NewService(dealer Dealer, renderer Renderer, library *rangebook.Library, cfg Config, hooks Hooks, logger *zap.Logger) (*Service, error) {
	if dealer == nil {
		return nil, fmt.Errorf("dealer client is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("table renderer is required")
	}
	if library == nil {
		return nil, fmt.Errorf("range library is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	drill, err := GetDrill(cfg.DefaultDrill)
	if err != nil {
		return nil, fmt.Errorf("default drill: %w", err)
	}
	cfg.DefaultDrill = drill.Name
	if cfg.StepDelay <= 0 {
		cfg.StepDelay = 500 * time.Millisecond
	}
	if cfg.AdvanceTimeout <= 0 {
		cfg.AdvanceTimeout = 10 * time.Second
	}

	s := &Service{
		dealer:   dealer,
		renderer: renderer,
		library:  library,
		hooks:    hooks,
		cfg:      cfg,
		logger:   logger,
		drill:    drill,
	}
	vis, err := s.buildVisualizer(drill)
	if err != nil {
		return nil, err
	}
	s.vis = vis
	return s, nil
}

func (s *Service) buildVisualizer(drill Drill) (*visualizer.Visualizer, error) {
	cbs := visualizer.Callbacks{
		HumanTurn: func(mayAct bool) {
			s.logger.Debug("turn_signal", zap.Bool("may_act", mayAct))
			if s.hooks.TurnChanged != nil {
				s.hooks.TurnChanged(mayAct)
			}
		},
		Step: func(step visualizer.Step) {
			if s.hooks.StepPlayed != nil {
				s.hooks.StepPlayed(step)
			}
		},
		Error: func(err error) {
			if s.hooks.Failed != nil {
				s.hooks.Failed(err)
			}
		},
	}
	vis, err := visualizer.New(visualizer.Config{
		Human:          drill.Hero,
		Opponent:       drill.Villain,
		StepDelay:      s.cfg.StepDelay,
		AdvanceTimeout: s.cfg.AdvanceTimeout,
	}, s.advance, cbs, s.logger)
	if err != nil {
		return nil, fmt.Errorf("build sequencer for drill %s: %w", drill.Name, err)
	}
	return vis, nil
}

// advance is the sequencer's one collaborator call: apply exactly one
// computer decision at the dealer and absorb the result. Never retried; an
// error here surfaces once through Hooks.Failed and the walk stops.
func (s *Service) advance(ctx context.Context) (*pokerdto.GameState, error) {
	res, err := s.dealer.Advance(ctx)
	if err != nil {
		return nil, err
	}
	state := &res.GameState
	if res.ActionTaken != nil {
		s.logger.Debug("computer_action",
			zap.String("position", res.ActionTaken.Position),
			zap.String("action", res.ActionTaken.Action),
			zap.Int("amount", res.ActionTaken.Amount),
		)
	}
	s.observe(state, false)
	return state, nil
}

// StartHand deals a fresh hand, switching drills first when asked. An empty
// drill name keeps the current drill.
func (s *Service) StartHand(ctx context.Context, drillName string) (*View, error) {
	if strings.TrimSpace(drillName) != "" {
		if err := s.switchDrill(drillName); err != nil {
			return nil, err
		}
	}
	drill := s.Drill()

	state, err := s.dealer.NewHand(ctx, string(drill.Hero), string(drill.Villain))
	if err != nil {
		return nil, fmt.Errorf("deal new hand: %w", err)
	}
	s.observe(state, true)
	return s.Snapshot()
}

func (s *Service) switchDrill(name string) error {
	next, err := GetDrill(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if next.Name == s.drill.Name {
		s.mu.Unlock()
		return nil
	}
	old := s.vis
	s.mu.Unlock()

	vis, err := s.buildVisualizer(next)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.drill = next
	s.vis = vis
	s.latest = nil
	s.localHandID = ""
	s.pumpEpoch++
	s.cancelPumpLocked()
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	s.logger.Info("drill_switched", zap.String("drill", next.Name))
	return nil
}

// Act forwards a human betting action. It is gated on the sequencer's
// eligibility signal, so a user mashing buttons during the fold animation
// gets ErrNotYourTurn instead of a dealer rejection.
func (s *Service) Act(ctx context.Context, action string, amount int) (*View, error) {
	vis := s.visualizer()
	if s.snapshotState() == nil {
		return nil, ErrNoSession
	}
	if !vis.HumanMayAct() {
		return nil, ErrNotYourTurn
	}

	state, err := s.dealer.Act(ctx, action, amount)
	if err != nil {
		var dealerErr *pokerdto.DealerError
		if errors.As(err, &dealerErr) {
			return nil, dealerErr
		}
		return nil, fmt.Errorf("send action %s: %w", action, err)
	}
	s.observe(state, false)
	return s.Snapshot()
}

// Refresh pulls the current authoritative snapshot. The state feed calls the
// same absorption path through Ingest.
func (s *Service) Refresh(ctx context.Context) (*View, error) {
	state, err := s.dealer.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch table state: %w", err)
	}
	s.observe(state, false)
	return s.Snapshot()
}

// Reset abandons the current hand and deals a fresh one in the same seats.
func (s *Service) Reset(ctx context.Context) (*View, error) {
	state, err := s.dealer.Reset(ctx)
	if err != nil {
		return nil, fmt.Errorf("reset table: %w", err)
	}
	s.observe(state, true)
	return s.Snapshot()
}

// Ingest absorbs a pushed snapshot from the state feed. Snapshots for a hand
// we have not started locally still flow through; the sequencer treats them
// as a new hand identity.
func (s *Service) Ingest(state *pokerdto.GameState) {
	s.observe(state, false)
}

// observe is the single absorption path for authoritative snapshots: stamp a
// stable hand id, store the snapshot, reconcile the sequencer, notify.
func (s *Service) observe(state *pokerdto.GameState, newHand bool) {
	if state == nil {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stampLocked(state, newHand)
	s.latest = state
	vis := s.vis
	s.mu.Unlock()

	vis.Observe(state)
	s.maybePump()

	if s.hooks.ViewChanged != nil {
		if view, err := s.Snapshot(); err == nil {
			s.hooks.ViewChanged(*view)
		}
	}
}

// maybePump keeps the hand moving once the preflop walk is over. The dealer
// never advances itself; every computer decision is applied by a client call.
// The walk drives its own advances while it runs, so the pump only covers
// computer turns outside it: the opponent's response to the human's action
// and any later street where the opponent acts first.
func (s *Service) maybePump() {
	phase := s.visualizer().Phase()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.pumpTimer != nil || !s.shouldPumpLocked(phase) {
		return
	}
	ep := s.pumpEpoch
	s.pumpTimer = time.AfterFunc(s.cfg.StepDelay, func() { s.pump(ep) })
}

// shouldPumpLocked reports whether the latest snapshot is waiting on a
// computer seat that nothing else will advance.
func (s *Service) shouldPumpLocked(phase visualizer.Phase) bool {
	state := s.latest
	if state == nil || state.HandComplete {
		return false
	}
	if phase == visualizer.PhaseSequencing {
		return false
	}
	actor := strings.TrimSpace(state.ActionOn)
	if actor == "" {
		return false
	}
	human := strings.TrimSpace(state.HumanPosition)
	if human == "" {
		human = string(s.drill.Hero)
	}
	return !strings.EqualFold(actor, human)
}

// pump is the delayed half of maybePump. Conditions are re-checked against
// the current epoch and snapshot; the dealer treats an advance on the human's
// turn as a no-op, so a lost race costs one idle round trip at worst.
func (s *Service) pump(ep uint64) {
	phase := s.visualizer().Phase()

	s.mu.Lock()
	s.pumpTimer = nil
	if s.closed || ep != s.pumpEpoch || !s.shouldPumpLocked(phase) {
		s.mu.Unlock()
		return
	}
	timeout := s.cfg.AdvanceTimeout
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	_, err := s.advance(ctx)
	cancel()
	if err != nil {
		s.logger.Warn("turn_pump_failed", zap.Error(err))
		if s.hooks.Failed != nil {
			s.hooks.Failed(err)
		}
	}
}

// stampLocked guarantees a non-empty, per-hand-stable HandID. Dealers that
// omit hand_id get a locally generated one: fresh on each deal or reset,
// reused for every later snapshot of the same hand. Dealer-supplied ids are
// adopted as-is.
func (s *Service) stampLocked(state *pokerdto.GameState, newHand bool) {
	if id := strings.TrimSpace(state.HandID); id != "" {
		s.localHandID = id
		return
	}
	if newHand || s.localHandID == "" {
		s.localHandID = uuid.NewString()
	}
	state.HandID = s.localHandID
}

func (s *Service) visualizer() *visualizer.Visualizer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vis
}

func (s *Service) snapshotState() *pokerdto.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Drill returns the active drill.
func (s *Service) Drill() Drill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drill
}

// Snapshot assembles the current view. ErrNoSession before the first deal.
func (s *Service) Snapshot() (*View, error) {
	s.mu.Lock()
	state := s.latest
	drill := s.drill
	vis := s.vis
	s.mu.Unlock()

	if state == nil {
		return nil, ErrNoSession
	}
	highlighted, _ := vis.Highlighted()
	return &View{
		State:       cloneState(state),
		Drill:       drill,
		Phase:       vis.Phase(),
		Highlighted: highlighted,
		Folded:      vis.FoldedPositions(),
		MayAct:      vis.HumanMayAct(),
	}, nil
}

// RenderPNG draws the current table as a PNG.
func (s *Service) RenderPNG(ctx context.Context) ([]byte, error) {
	view, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderPNG(ctx, view.State, RenderOptions{
		Title:       view.Drill.Title,
		Status:      statusLine(view),
		Highlighted: view.Highlighted,
		Folded:      view.Folded,
	})
}

// RangeGrid serves a strategy grid by name or title. An empty token means
// the active drill's hero chart.
func (s *Service) RangeGrid(ctx context.Context, token string) (*rangebook.Grid, error) {
	if strings.TrimSpace(token) == "" {
		token = s.Drill().HeroRange
	}
	return s.library.Grid(ctx, token)
}

func (s *Service) cancelPumpLocked() {
	if s.pumpTimer != nil {
		s.pumpTimer.Stop()
		s.pumpTimer = nil
	}
}

// Close stops the sequencer and the turn pump. Idempotent.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.pumpEpoch++
	s.cancelPumpLocked()
	vis := s.vis
	s.mu.Unlock()
	vis.Close()
}

func statusLine(view *View) string {
	state := view.State
	switch {
	case state.HandComplete && strings.TrimSpace(state.Winner) != "":
		return "Hand complete: " + strings.ToUpper(state.Winner) + " wins"
	case state.HandComplete:
		return "Hand complete"
	case view.MayAct:
		if len(state.AvailableActions) > 0 {
			return "Your turn: " + strings.Join(state.AvailableActions, " / ")
		}
		return "Your turn"
	case view.Phase == visualizer.PhaseSequencing:
		return "Action folds around..."
	default:
		return ""
	}
}

func cloneState(in *pokerdto.GameState) *pokerdto.GameState {
	if in == nil {
		return nil
	}
	out := *in
	out.CommunityCards = append([]string(nil), in.CommunityCards...)
	out.AvailableActions = append([]string(nil), in.AvailableActions...)
	out.ActionHistory = append([]pokerdto.ActionRecord(nil), in.ActionHistory...)
	if in.Players != nil {
		out.Players = make(map[string]pokerdto.PlayerState, len(in.Players))
		for pos, p := range in.Players {
			p.HoleCards = append([]string(nil), p.HoleCards...)
			out.Players[pos] = p
		}
	}
	if in.Seats != nil {
		out.Seats = make(map[string]pokerdto.SeatState, len(in.Seats))
		for pos, seat := range in.Seats {
			out.Seats[pos] = seat
		}
	}
	if in.Stats != nil {
		stats := *in.Stats
		out.Stats = &stats
	}
	return &out
}
