package tablebuilder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/holdem-trainer/internal/config"
	"github.com/park285/holdem-trainer/internal/dealerfast"
	"github.com/park285/holdem-trainer/internal/domain"
	"github.com/park285/holdem-trainer/internal/rangebook"
	svctable "github.com/park285/holdem-trainer/internal/service/table"
)

// Deps bundles the wired collaborators for one trainer process. The caller
// owns the lifecycle: Start the feed after hooking up presentation, Close on
// the way out.
type Deps struct {
	Service *svctable.Service
	Dealer  *dealerfast.Client
	Feed    dealerfast.StateFeed
	Library *rangebook.Library

	redis *redis.Client
}

// New builds the dealer client, state feed, range library, and table service
// from configuration. Hooks are taken here because the service needs them at
// construction time.
func New(cfg *config.AppConfig, pacing config.Pacing, hooks svctable.Hooks, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.TrimSpace(cfg.DealerBaseURL) == "" {
		return nil, fmt.Errorf("DEALER_BASE_URL is required for the dealer client")
	}
	dealer := dealerfast.NewClient(cfg.DealerBaseURL,
		dealerfast.WithTimeout(pacing.RequestTimeout()),
	)

	// Range store (Redis optional; in-process fallback otherwise).
	var (
		store rangebook.Store
		rdb   *redis.Client
	)
	if strings.TrimSpace(cfg.RedisURL) != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb = redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		store = rangebook.NewRedisStore(rdb, time.Duration(cfg.RangeTTL)*time.Second)
	} else {
		store = rangebook.NewMemoryStore()
	}

	book, err := rangebook.Open(cfg.RangeDir)
	if err != nil {
		return nil, fmt.Errorf("open range charts: %w", err)
	}
	library := rangebook.NewLibrary(book, store, logger)

	svcCfg := svctable.Config{
		DefaultDrill:   resolveDrill(cfg),
		StepDelay:      pacing.StepDelay(),
		AdvanceTimeout: pacing.AdvanceTimeout(),
	}
	service, err := svctable.NewService(dealer, svctable.NewFeltRenderer(), library, svcCfg, hooks, logger)
	if err != nil {
		return nil, err
	}

	// State feed: push when a socket URL is configured, polling otherwise.
	var ws dealerfast.FeedSocket
	if strings.TrimSpace(cfg.DealerWSURL) != "" {
		ws = dealerfast.NewWebSocket(cfg.DealerWSURL, 5, time.Second)
	}
	feed := dealerfast.NewStateFeed(cfg.StateFeedMode, dealer, ws, pacing.PollInterval(), service.Ingest, logger)

	return &Deps{
		Service: service,
		Dealer:  dealer,
		Feed:    feed,
		Library: library,
		redis:   rdb,
	}, nil
}

// resolveDrill turns configuration into a drill name: an explicit
// DEFAULT_DRILL wins, then an exact hero/villain seat match, then the hero
// seat alone.
func resolveDrill(cfg *config.AppConfig) string {
	if name := strings.TrimSpace(cfg.DefaultDrill); name != "" {
		return name
	}
	hero := domain.Position(strings.ToUpper(strings.TrimSpace(cfg.HeroPosition)))
	villain := domain.Position(strings.ToUpper(strings.TrimSpace(cfg.VillainPosition)))
	if d, ok := svctable.FindDrillBySeats(hero, villain); ok {
		return d.Name
	}
	if d, err := svctable.GetDrill(strings.ToLower(string(hero))); err == nil {
		return d.Name
	}
	return ""
}

// Close releases everything New opened.
func (d *Deps) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}
	var first error
	if d.Feed != nil {
		if err := d.Feed.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	if d.Service != nil {
		d.Service.Close()
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
