package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	if cfg.Version != 1 {
		t.Fatalf("version = %d", cfg.Version)
	}
	if cfg.Editor.StorePath == "" || cfg.Editor.ProjectRef == "" {
		t.Fatalf("editor defaults missing: %+v", cfg.Editor)
	}
	// the default token keeps saves against the bundled local store working
	if cfg.Editor.APIToken == "" {
		t.Fatalf("api token default missing")
	}
	if cfg.Assets.JPEGQuality < 40 || cfg.Assets.JPEGQuality > 100 {
		t.Fatalf("jpeg quality default out of range: %d", cfg.Assets.JPEGQuality)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Fatalf("console level = %q", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Reporting.Destination == "" {
		t.Fatalf("reporting destination missing")
	}
}

func TestLoadConfigurationOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	override := `
version: 1
editor:
  project_ref: website-alpha
assets:
  jpeg_quality_level: 70
`
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	if cfg.Editor.ProjectRef != "website-alpha" {
		t.Fatalf("project_ref = %q", cfg.Editor.ProjectRef)
	}
	if cfg.Assets.JPEGQuality != 70 {
		t.Fatalf("jpeg quality = %d", cfg.Assets.JPEGQuality)
	}
	// values absent from the file keep template defaults
	if cfg.Editor.StorePath == "" {
		t.Fatalf("store_path lost on overlay")
	}
}

func TestLoadConfigurationRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\nnonsense: true\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfiguration(path); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoadConfigurationRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\nassets:\n  jpeg_quality_level: 5\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfiguration(path); err == nil {
		t.Fatalf("expected validation error for quality below range")
	}
}

func TestDumpHidesSecrets(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration: %v", err)
	}
	cfg.Editor.APIToken = "super-secret-token"
	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Contains(string(data), "super-secret-token") {
		t.Fatalf("secret leaked into dump")
	}
	if !strings.Contains(string(data), SecretStringValue) {
		t.Fatalf("secret placeholder missing from dump")
	}
}

func TestAssetsLimitsMapping(t *testing.T) {
	c := AssetsConfig{MaxUploadBytes: 1024, MaxWidth: 800, MaxHeight: 600, JPEGQuality: 75}
	l := c.Limits()
	if l.MaxBytes != 1024 || l.MaxWidth != 800 || l.MaxHeight != 600 || l.JPEGQuality != 75 {
		t.Fatalf("limits = %+v", l)
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !strings.Contains(string(data), "store_path") {
		t.Fatalf("prepared template missing expected fields")
	}
}
