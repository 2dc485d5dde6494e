package tablebuilder

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/park285/holdem-trainer/internal/config"
	svctable "github.com/park285/holdem-trainer/internal/service/table"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		DealerBaseURL:   "http://dealer.test:8080",
		StateFeedMode:   "poll",
		HeroPosition:    "BTN",
		VillainPosition: "SB",
		RangeTTL:        60,
	}
}

func TestNewBuildsWithoutRedis(t *testing.T) {
	deps, err := New(testConfig(), config.DefaultPacing(), svctable.Hooks{}, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = deps.Close(ctx)
	})

	if deps.Service == nil || deps.Dealer == nil || deps.Feed == nil || deps.Library == nil {
		t.Fatalf("missing collaborators: %+v", deps)
	}
	if deps.redis != nil {
		t.Fatal("redis client built without REDIS_URL")
	}
	if got := deps.Service.Drill().Name; got != "btn-vs-sb" {
		t.Fatalf("default drill = %q", got)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := New(nil, config.DefaultPacing(), svctable.Hooks{}, nil); err == nil {
		t.Fatal("expected error for nil config")
	}

	cfg := testConfig()
	cfg.DealerBaseURL = "  "
	if _, err := New(cfg, config.DefaultPacing(), svctable.Hooks{}, nil); err == nil {
		t.Fatal("expected error for blank dealer url")
	}
}

func TestResolveDrill(t *testing.T) {
	cfg := testConfig()

	cfg.DefaultDrill = "co-vs-bb"
	if got := resolveDrill(cfg); got != "co-vs-bb" {
		t.Fatalf("explicit drill = %q", got)
	}

	cfg.DefaultDrill = ""
	cfg.HeroPosition = "sb"
	cfg.VillainPosition = "btn"
	if got := resolveDrill(cfg); got != "sb-vs-btn" {
		t.Fatalf("seat match = %q", got)
	}

	// No preset pairs CO against SB; the hero seat alone decides.
	cfg.HeroPosition = "CO"
	cfg.VillainPosition = "SB"
	if got := resolveDrill(cfg); got != "co-vs-bb" {
		t.Fatalf("hero fallback = %q", got)
	}

	cfg.HeroPosition = "XX"
	cfg.VillainPosition = "YY"
	if got := resolveDrill(cfg); got != "" {
		t.Fatalf("unknown seats = %q", got)
	}
}
