package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	DealerBaseURL string
	DealerWSURL   string

	// State feed transport: "poll", "ws", or "auto" (ws with poll fallback).
	StateFeedMode string

	HeroPosition    string
	VillainPosition string
	DefaultDrill    string

	RedisURL string

	RangeDir   string
	RangeTTL   int // seconds, cached parsed ranges
	PacingFile string

	PNGDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		StateFeedMode:   "auto",
		HeroPosition:    "BTN",
		VillainPosition: "SB",
		RangeTTL:        3600,
	}

	cfg.DealerBaseURL = strings.TrimSpace(os.Getenv("DEALER_BASE_URL"))
	cfg.DealerWSURL = strings.TrimSpace(os.Getenv("DEALER_WS_URL"))

	if v := strings.TrimSpace(os.Getenv("STATE_FEED_MODE")); v != "" {
		cfg.StateFeedMode = strings.ToLower(v)
	}

	if v := strings.TrimSpace(os.Getenv("HERO_POSITION")); v != "" {
		cfg.HeroPosition = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(os.Getenv("VILLAIN_POSITION")); v != "" {
		cfg.VillainPosition = strings.ToUpper(v)
	}
	cfg.DefaultDrill = strings.TrimSpace(os.Getenv("DEFAULT_DRILL"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	cfg.RangeDir = strings.TrimSpace(os.Getenv("RANGE_DIR"))
	if v := strings.TrimSpace(os.Getenv("RANGE_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RangeTTL = n
		}
	}
	cfg.PacingFile = strings.TrimSpace(os.Getenv("PACING_FILE"))
	cfg.PNGDir = strings.TrimSpace(os.Getenv("PNG_DIR"))

	if cfg.DealerBaseURL == "" {
		return nil, errors.New("DEALER_BASE_URL is required")
	}
	switch cfg.StateFeedMode {
	case "poll", "ws", "auto":
	default:
		return nil, errors.New("STATE_FEED_MODE must be one of poll, ws, auto")
	}
	if cfg.StateFeedMode == "ws" && cfg.DealerWSURL == "" {
		return nil, errors.New("DEALER_WS_URL is required when STATE_FEED_MODE=ws")
	}

	return cfg, nil
}
