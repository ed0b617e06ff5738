package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Ref != "refs/heads/main" {
		t.Errorf("ref = %q", cfg.Ref)
	}
	if cfg.OutputDir != "." {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
	if cfg.Format != "html" {
		t.Errorf("format = %q", cfg.Format)
	}
	if !cfg.Include.CodeScanning || !cfg.Include.SecretScanning || !cfg.Include.SoftwareCompositionAnalysis {
		t.Errorf("include = %+v, want every branch enabled", cfg.Include)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := `
repository: octodemo/webgoat
ref: refs/heads/develop
format: json
include:
  secretScanning: false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Repository != "octodemo/webgoat" {
		t.Errorf("repository = %q", cfg.Repository)
	}
	if cfg.Ref != "refs/heads/develop" {
		t.Errorf("ref = %q, want the file value over the default", cfg.Ref)
	}
	if cfg.Format != "json" {
		t.Errorf("format = %q", cfg.Format)
	}
	if cfg.OutputDir != "." {
		t.Errorf("output dir = %q, want the default preserved", cfg.OutputDir)
	}
	if cfg.Include.SecretScanning {
		t.Error("secret scanning should be disabled by the file")
	}
	if !cfg.Include.CodeScanning {
		t.Error("code scanning should keep its default")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("format: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
