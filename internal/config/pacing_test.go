package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadPacingDefaults(t *testing.T) {
	p, err := LoadPacing("")
	if err != nil {
		t.Fatalf("LoadPacing: %v", err)
	}
	if p.StepDelay() != 500*time.Millisecond {
		t.Fatalf("step delay = %v", p.StepDelay())
	}
	if p.AdvanceTimeout() != 10*time.Second {
		t.Fatalf("advance timeout = %v", p.AdvanceTimeout())
	}
	if p.PollInterval() != 1500*time.Millisecond {
		t.Fatalf("poll interval = %v", p.PollInterval())
	}
}

func TestLoadPacingFileOverridesPartially(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pacing.yaml")
	raw := "stepDelayMs: 120\npollIntervalMs: 400\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write pacing: %v", err)
	}

	p, err := LoadPacing(path)
	if err != nil {
		t.Fatalf("LoadPacing: %v", err)
	}
	if p.StepDelay() != 120*time.Millisecond {
		t.Fatalf("step delay = %v", p.StepDelay())
	}
	if p.PollInterval() != 400*time.Millisecond {
		t.Fatalf("poll interval = %v", p.PollInterval())
	}
	// unset fields keep defaults
	if p.AdvanceTimeout() != 10*time.Second {
		t.Fatalf("advance timeout = %v", p.AdvanceTimeout())
	}
}

func TestLoadPacingBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pacing.yaml")
	if err := os.WriteFile(path, []byte("stepDelayMs: [not a number]"), 0o644); err != nil {
		t.Fatalf("write pacing: %v", err)
	}
	if _, err := LoadPacing(path); err == nil {
		t.Fatal("expected parse error")
	}

	if _, err := LoadPacing(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected read error for missing file")
	}
}
