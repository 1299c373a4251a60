package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"grade-estimator/internal/grades"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Anchor != "Anzahl" {
		t.Errorf("expected anchor Anzahl, got %s", cfg.Anchor)
	}
	if cfg.ImagesDir != "AUD" {
		t.Errorf("expected images dir AUD, got %s", cfg.ImagesDir)
	}
	if !reflect.DeepEqual(cfg.Scale, grades.DefaultLabels) {
		t.Errorf("expected default scale, got %v", cfg.Scale)
	}
	if !reflect.DeepEqual(cfg.Languages, []string{"deu", "eng"}) {
		t.Errorf("expected deu+eng, got %v", cfg.Languages)
	}
	if cfg.ExtractTimeout != time.Minute {
		t.Errorf("expected 1m timeout, got %s", cfg.ExtractTimeout)
	}
	if cfg.Server.Port != "5000" {
		t.Errorf("expected port 5000, got %s", cfg.Server.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	t.Chdir(t.TempDir())
	configFile := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `
anchor: Count
scale: ["A", "B", "C"]
sources: [SoSe23, WiSe2425]
extract_timeout: 5s
server:
  port: "9090"
`
	if err := os.WriteFile(configFile, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Anchor != "Count" {
		t.Errorf("expected anchor Count, got %s", cfg.Anchor)
	}
	if !reflect.DeepEqual(cfg.Scale, []string{"A", "B", "C"}) {
		t.Errorf("unexpected scale %v", cfg.Scale)
	}
	if !reflect.DeepEqual(cfg.Sources, []string{"SoSe23", "WiSe2425"}) {
		t.Errorf("unexpected sources %v", cfg.Sources)
	}
	if cfg.ExtractTimeout != 5*time.Second {
		t.Errorf("expected 5s, got %s", cfg.ExtractTimeout)
	}
	if cfg.Server.Port != "9090" || cfg.Server.Host != "0.0.0.0" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GRADES_ANCHOR", "Anzahl Studierende")
	t.Setenv("GRADES_SERVER_PORT", "8081")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Anchor != "Anzahl Studierende" {
		t.Errorf("expected env anchor, got %s", cfg.Anchor)
	}
	if cfg.Server.Port != "8081" {
		t.Errorf("expected env port, got %s", cfg.Server.Port)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	base := Config{Anchor: "Anzahl", Scale: []string{"1.0", "2.0"}, ExtractTimeout: time.Second}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "duplicate grade", mutate: func(c *Config) { c.Scale = []string{"1.0", "1.0"} }, wantErr: true},
		{name: "empty scale", mutate: func(c *Config) { c.Scale = nil }, wantErr: true},
		{name: "blank anchor", mutate: func(c *Config) { c.Anchor = " " }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.ExtractTimeout = -time.Second }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ExtractTimeout != time.Minute || cfg.Anchor != "Anzahl" {
		t.Errorf("written defaults did not round trip: %+v", cfg)
	}
}

func TestSettings(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GRADES_EXTRACT_TIMEOUT", "90s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	settings := cfg.Settings()
	if got := settings["extract_timeout"]; got != "1m30s" {
		t.Errorf("expected extract_timeout 1m30s, got %v", got)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "extract_timeout: 1m30s") {
		t.Errorf("expected readable duration in %s", data)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GRADES_EXTRACT_TIMEOUT", "")
	again, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if again.ExtractTimeout != 90*time.Second {
		t.Errorf("expected 1m30s after reload, got %s", again.ExtractTimeout)
	}
	if !reflect.DeepEqual(again.Scale, cfg.Scale) || again.Server != cfg.Server || again.Anchor != cfg.Anchor {
		t.Errorf("settings did not round trip:\n got %+v\nwant %+v", again, cfg)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn"}
	logger := cfg.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "source", "SoSe23")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "source=SoSe23") {
		t.Errorf("expected structured attribute, got %q", out)
	}
}
