package dealerfast

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/park285/holdem-trainer/pkg/pokerdto"
)

// StateHandler receives each authoritative snapshot as it arrives.
type StateHandler func(state *pokerdto.GameState)

// StateFeed delivers dealer snapshots to a handler. Modes: "poll" (interval
// GETs), "ws" (push only), "auto" (push preferred; polling fills in whenever
// the socket is down).
type StateFeed interface {
	Start(ctx context.Context) error
	Close(ctx context.Context) error
}

type feedMode string

const (
	feedPoll feedMode = "poll"
	feedWS   feedMode = "ws"
	feedAuto feedMode = "auto"
)

func NewStateFeed(mode string, c *Client, ws FeedSocket, interval time.Duration, handler StateHandler, logger *zap.Logger) StateFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 1500 * time.Millisecond
	}
	switch feedMode(mode) {
	case feedWS:
		return &wsFeed{ws: ws, handler: handler, logger: logger}
	case feedAuto:
		wf := &wsFeed{ws: ws, handler: handler, logger: logger}
		pf := newPollFeed(c, interval, handler, logger)
		if ws != nil {
			pf.skip = ws.Connected
		}
		return &autoFeed{ws: wf, poll: pf, logger: logger}
	default:
		return newPollFeed(c, interval, handler, logger)
	}
}

// pollFeed GETs /state on a fixed interval.
type pollFeed struct {
	c        *Client
	interval time.Duration
	handler  StateHandler
	logger   *zap.Logger
	skip     func() bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func newPollFeed(c *Client, interval time.Duration, handler StateHandler, logger *zap.Logger) *pollFeed {
	return &pollFeed{
		c:        c,
		interval: interval,
		handler:  handler,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

func (p *pollFeed) Start(ctx context.Context) error {
	if p.c == nil {
		return errors.New("poll feed not available")
	}
	p.wg.Add(1)
	go p.loop()
	return nil
}

func (p *pollFeed) loop() {
	defer p.wg.Done()
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-t.C:
			if p.skip != nil && p.skip() {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), p.interval)
			state, err := p.c.State(ctx)
			cancel()
			if err != nil {
				p.logger.Debug("state_poll_failed", zap.Error(err))
				continue
			}
			if p.handler != nil {
				p.handler(state)
			}
		}
	}
}

func (p *pollFeed) Close(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.stopCh) })
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// wsFeed forwards pushed state events.
type wsFeed struct {
	ws      FeedSocket
	handler StateHandler
	logger  *zap.Logger
	cbID    int
}

func (w *wsFeed) Start(ctx context.Context) error {
	if w.ws == nil {
		return errors.New("ws feed not available")
	}
	w.cbID = w.ws.OnEvent(func(ev *StateEvent) {
		if ev == nil || ev.State == nil {
			return
		}
		if w.handler != nil {
			w.handler(ev.State)
		}
	})
	return w.ws.Connect(ctx)
}

func (w *wsFeed) Close(ctx context.Context) error {
	if w.ws == nil {
		return nil
	}
	w.ws.RemoveEventCallback(w.cbID)
	return w.ws.Close(ctx)
}

// autoFeed runs both: pushes while connected, polls across the gaps.
type autoFeed struct {
	ws     *wsFeed
	poll   *pollFeed
	logger *zap.Logger
}

func (a *autoFeed) Start(ctx context.Context) error {
	if err := a.ws.Start(ctx); err != nil {
		a.logger.Warn("state_feed_fallback", zap.Error(err))
	}
	return a.poll.Start(ctx)
}

func (a *autoFeed) Close(ctx context.Context) error {
	pollErr := a.poll.Close(ctx)
	wsErr := a.ws.Close(ctx)
	if pollErr != nil {
		return pollErr
	}
	return wsErr
}
