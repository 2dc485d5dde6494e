package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedCatalog(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.Render("step.fold", map[string]any{"Position": "UTG"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "UTG folds" {
		t.Fatalf("step.fold = %q", got)
	}

	if _, ok := c.Lookup("table.header"); !ok {
		t.Fatal("table.header missing from embedded catalog")
	}
}

func TestRenderMissingKey(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestRenderMissingTemplateData(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// step.fold references .Position; an empty data map must surface the typo.
	if _, err := c.Render("step.fold", map[string]any{}); err == nil {
		t.Fatal("expected error for missing template data")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := "step:\n  fold: \"{{.Position}} mucks\"\ncustom:\n  greeting: \"hello\"\n"
	if err := os.WriteFile(filepath.Join(dir, "10-custom.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New with override: %v", err)
	}

	got, err := c.Render("step.fold", map[string]any{"Position": "SB"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "SB mucks" {
		t.Fatalf("override not applied: %q", got)
	}
	if got, _ := c.Render("custom.greeting", nil); got != "hello" {
		t.Fatalf("custom key = %q", got)
	}
	// untouched keys keep the embedded text
	if got, _ := c.Render("step.call", map[string]any{"Position": "BB"}); got != "BB calls" {
		t.Fatalf("embedded key lost: %q", got)
	}
}

func TestDuplicateOverrideKeyRejected(t *testing.T) {
	dir := t.TempDir()
	a := "prompt:\n  act: \"one\"\n"
	b := "prompt:\n  act: \"two\"\n"
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(a), 0o644); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(b), 0o644); err != nil {
		t.Fatalf("write b: %v", err)
	}

	if _, err := New(dir); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate-key error, got %v", err)
	}
}

func TestNonStringLeafRejected(t *testing.T) {
	dir := t.TempDir()
	bad := "limits:\n  max: 42\n"
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(bad), 0o644); err != nil {
		t.Fatalf("write bad: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected error for non-string leaf")
	}
}
