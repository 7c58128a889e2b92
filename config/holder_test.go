package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const holderYAML = `
catalog:
  url: https://catalog.example.org
`

const holderYAMLv2 = `
catalog:
  url: https://catalog-v2.example.org
`

func writeHolderConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestHolder_Get(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chankit.yaml")
	writeHolderConfig(t, path, holderYAML)

	h, err := NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder failed: %v", err)
	}
	defer h.Stop()

	if got := h.Get().Catalog.URL; got != "https://catalog.example.org" {
		t.Errorf("url = %q", got)
	}
}

func TestHolder_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chankit.yaml")
	writeHolderConfig(t, path, holderYAML)

	h, err := NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder failed: %v", err)
	}
	defer h.Stop()

	var notified *Config
	h.OnChange(func(cfg *Config) { notified = cfg })

	writeHolderConfig(t, path, holderYAMLv2)
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if got := h.Get().Catalog.URL; got != "https://catalog-v2.example.org" {
		t.Errorf("url = %q after reload", got)
	}
	if notified == nil || notified.Catalog.URL != "https://catalog-v2.example.org" {
		t.Errorf("OnChange not notified with new config: %+v", notified)
	}
}

func TestHolder_ReloadFailureKeepsOldConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chankit.yaml")
	writeHolderConfig(t, path, holderYAML)

	h, err := NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder failed: %v", err)
	}
	defer h.Stop()

	// Invalid config: catalog.url missing.
	writeHolderConfig(t, path, "logging:\n  level: info\n")
	if err := h.Reload(); err == nil {
		t.Fatal("expected reload error")
	}

	if got := h.Get().Catalog.URL; got != "https://catalog.example.org" {
		t.Errorf("url = %q, want old config kept", got)
	}
}

func TestHolder_WatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chankit.yaml")
	writeHolderConfig(t, path, holderYAML)

	h, err := NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder failed: %v", err)
	}
	defer h.Stop()

	if err := h.WatchFile(); err != nil {
		t.Fatalf("WatchFile failed: %v", err)
	}

	writeHolderConfig(t, path, holderYAMLv2)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if h.Get().Catalog.URL == "https://catalog-v2.example.org" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("config not reloaded after file change")
}

func TestHolder_WatchFileMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "chankit.yaml")
	writeHolderConfig(t, path, holderYAML)

	h, err := NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder failed: %v", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
	if err := h.WatchFile(); err == nil {
		t.Fatal("expected watch error for missing directory")
	}

	// Stop after a failed watch must be safe.
	h.Stop()
}

func TestHolder_InitialLoadError(t *testing.T) {
	if _, err := NewHolder(filepath.Join(t.TempDir(), "missing.yaml"), zerolog.Nop()); err == nil {
		t.Fatal("expected error")
	}
}
