package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Pacing holds the visual timing knobs in milliseconds. The step delay is the
// pause before each simulated seat decision; the rest bound background I/O.
type Pacing struct {
	StepDelayMs      int `yaml:"stepDelayMs"`
	AdvanceTimeoutMs int `yaml:"advanceTimeoutMs"`
	PollIntervalMs   int `yaml:"pollIntervalMs"`
	RequestTimeoutMs int `yaml:"requestTimeoutMs"`
}

func DefaultPacing() Pacing {
	return Pacing{
		StepDelayMs:      500,
		AdvanceTimeoutMs: 10000,
		PollIntervalMs:   1500,
		RequestTimeoutMs: 10000,
	}
}

// LoadPacing reads a YAML pacing file and fills unset fields from defaults.
// An empty path returns the defaults unchanged.
func LoadPacing(path string) (Pacing, error) {
	p := DefaultPacing()
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Pacing{}, fmt.Errorf("read pacing file %q: %w", path, err)
	}

	var file Pacing
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Pacing{}, fmt.Errorf("parse pacing file %q: %w", path, err)
	}

	if file.StepDelayMs > 0 {
		p.StepDelayMs = file.StepDelayMs
	}
	if file.AdvanceTimeoutMs > 0 {
		p.AdvanceTimeoutMs = file.AdvanceTimeoutMs
	}
	if file.PollIntervalMs > 0 {
		p.PollIntervalMs = file.PollIntervalMs
	}
	if file.RequestTimeoutMs > 0 {
		p.RequestTimeoutMs = file.RequestTimeoutMs
	}
	return p, nil
}

func (p Pacing) StepDelay() time.Duration      { return time.Duration(p.StepDelayMs) * time.Millisecond }
func (p Pacing) AdvanceTimeout() time.Duration { return time.Duration(p.AdvanceTimeoutMs) * time.Millisecond }
func (p Pacing) PollInterval() time.Duration   { return time.Duration(p.PollIntervalMs) * time.Millisecond }
func (p Pacing) RequestTimeout() time.Duration { return time.Duration(p.RequestTimeoutMs) * time.Millisecond }
