package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Convert.Method != "mg1" {
		t.Errorf("expected default method mg1, got %s", cfg.Convert.Method)
	}
	if cfg.Convert.VertexPrecision != 0 {
		t.Errorf("expected vertex precision 0, got %g", cfg.Convert.VertexPrecision)
	}
	if cfg.Convert.RelativePrecision != 0 {
		t.Errorf("expected relative precision 0, got %g", cfg.Convert.RelativePrecision)
	}
	if cfg.Convert.Comment != "" {
		t.Errorf("expected empty comment, got %q", cfg.Convert.Comment)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `convert:
  method: mg2
  relative_precision: 0.01
  comment: "converted with ctmconv"
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Convert.Method != "mg2" {
		t.Errorf("expected method mg2, got %s", cfg.Convert.Method)
	}
	if cfg.Convert.RelativePrecision != 0.01 {
		t.Errorf("expected relative precision 0.01, got %g", cfg.Convert.RelativePrecision)
	}
	if cfg.Convert.Comment != "converted with ctmconv" {
		t.Errorf("unexpected comment %q", cfg.Convert.Comment)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Logging.Level)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Convert.VertexPrecision != 0 {
		t.Errorf("expected vertex precision default 0, got %g", cfg.Convert.VertexPrecision)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("convert: [not a mapping"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestSaveToAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Convert.Method = "raw"
	cfg.Convert.VertexPrecision = 0.125
	cfg.Logging.Level = "warn"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	reloaded := Default()
	if err := loadFromFile(reloaded, path); err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if reloaded.Convert.Method != "raw" {
		t.Errorf("expected method raw, got %s", reloaded.Convert.Method)
	}
	if reloaded.Convert.VertexPrecision != 0.125 {
		t.Errorf("expected precision 0.125, got %g", reloaded.Convert.VertexPrecision)
	}
	if reloaded.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %s", reloaded.Logging.Level)
	}
}
