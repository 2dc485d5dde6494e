package config

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DEALER_BASE_URL", "DEALER_WS_URL", "STATE_FEED_MODE",
		"HERO_POSITION", "VILLAIN_POSITION", "DEFAULT_DRILL",
		"REDIS_URL", "RANGE_DIR", "RANGE_TTL", "PACING_FILE", "PNG_DIR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadRequiresDealerURL(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatal("expected error without DEALER_BASE_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEALER_BASE_URL", "http://dealer:8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StateFeedMode != "auto" {
		t.Fatalf("feed mode = %q", cfg.StateFeedMode)
	}
	if cfg.HeroPosition != "BTN" || cfg.VillainPosition != "SB" {
		t.Fatalf("seats = %q/%q", cfg.HeroPosition, cfg.VillainPosition)
	}
	if cfg.RangeTTL != 3600 {
		t.Fatalf("range ttl = %d", cfg.RangeTTL)
	}
}

func TestLoadValidatesFeedMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEALER_BASE_URL", "http://dealer:8080")
	t.Setenv("STATE_FEED_MODE", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad feed mode")
	}

	t.Setenv("STATE_FEED_MODE", "ws")
	if _, err := Load(); err == nil {
		t.Fatal("ws mode without DEALER_WS_URL should fail")
	}

	t.Setenv("DEALER_WS_URL", "ws://dealer:8080/ws")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StateFeedMode != "ws" {
		t.Fatalf("feed mode = %q", cfg.StateFeedMode)
	}
}

func TestLoadNormalizesSeats(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEALER_BASE_URL", "http://dealer:8080")
	t.Setenv("HERO_POSITION", "co")
	t.Setenv("VILLAIN_POSITION", "bb")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HeroPosition != "CO" || cfg.VillainPosition != "BB" {
		t.Fatalf("seats = %q/%q", cfg.HeroPosition, cfg.VillainPosition)
	}
}
