package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
	if cfg.Compare.TextThreshold != 95 {
		t.Errorf("TextThreshold = %v, want 95", cfg.Compare.TextThreshold)
	}
	if cfg.Compare.ImageThreshold != 99 {
		t.Errorf("ImageThreshold = %v, want 99", cfg.Compare.ImageThreshold)
	}
	if cfg.Compare.BinaryThreshold != 100 {
		t.Errorf("BinaryThreshold = %v, want 100", cfg.Compare.BinaryThreshold)
	}
	if cfg.Performance.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.Performance.MaxWorkers)
	}
	if cfg.History.Limit != 50 {
		t.Errorf("History.Limit = %d, want 50", cfg.History.Limit)
	}
	if cfg.Output.Format != "human" {
		t.Errorf("Output.Format = %s, want human", cfg.Output.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Default", func(c *Config) {}, false},
		{"ThresholdTooHigh", func(c *Config) { c.Compare.TextThreshold = 101 }, true},
		{"ThresholdNegative", func(c *Config) { c.Compare.BinaryThreshold = -1 }, true},
		{"ThresholdZero", func(c *Config) { c.Compare.ImageThreshold = 0 }, false},
		{"ZeroWorkers", func(c *Config) { c.Performance.MaxWorkers = 0 }, true},
		{"BadOutputFormat", func(c *Config) { c.Output.Format = "xml" }, true},
		{"JSONOutput", func(c *Config) { c.Output.Format = "json" }, false},
		{"BadLogFormat", func(c *Config) { c.Logging.Format = "pretty" }, true},
		{"BadLogLevel", func(c *Config) { c.Logging.Level = "trace" }, true},
		{"ZeroHistoryLimit", func(c *Config) { c.History.Limit = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Compare.TextThreshold = 80
	cfg.Classify.TextExtensions = "txt\nrst"
	cfg.Exclude = []string{"*.bak"}
	cfg.Performance.MaxWorkers = 8
	cfg.Output.Format = "json"
	cfg.Output.Progress = false
	cfg.History.Limit = 10

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if loaded.Compare.TextThreshold != 80 {
		t.Errorf("TextThreshold = %v, want 80", loaded.Compare.TextThreshold)
	}
	if loaded.Classify.TextExtensions != "txt\nrst" {
		t.Errorf("TextExtensions = %q, want %q", loaded.Classify.TextExtensions, "txt\nrst")
	}
	if len(loaded.Exclude) != 1 || loaded.Exclude[0] != "*.bak" {
		t.Errorf("Exclude = %v, want [*.bak]", loaded.Exclude)
	}
	if loaded.Performance.MaxWorkers != 8 {
		t.Errorf("MaxWorkers = %d, want 8", loaded.Performance.MaxWorkers)
	}
	if loaded.Output.Progress {
		t.Error("Progress = true, want false")
	}
	if loaded.History.Limit != 10 {
		t.Errorf("History.Limit = %d, want 10", loaded.History.Limit)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "compare:\n  text_threshold: 90\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	// Unset keys keep their defaults.
	if cfg.Compare.TextThreshold != 90 {
		t.Errorf("TextThreshold = %v, want 90", cfg.Compare.TextThreshold)
	}
	if cfg.Compare.ImageThreshold != 99 {
		t.Errorf("ImageThreshold = %v, want 99", cfg.Compare.ImageThreshold)
	}
	if cfg.Performance.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.Performance.MaxWorkers)
	}
}

func TestLoadFromFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	t.Run("BadYAML", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("compare: ["), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadFromFile(path); err == nil {
			t.Error("LoadFromFile() error = nil, want parse error")
		}
	})

	t.Run("InvalidValues", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("compare:\n  text_threshold: 150\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadFromFile(path); err == nil {
			t.Error("LoadFromFile() error = nil, want validation error")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadFromFile() error = nil, want read error")
		}
	})
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("base = %s, want config.yaml", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != "difflex" {
		t.Errorf("dir = %s, want difflex", filepath.Base(filepath.Dir(path)))
	}
}
