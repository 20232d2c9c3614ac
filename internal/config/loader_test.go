package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bullhorn/internal/domain"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

// =============================================================================
// Defaults
// =============================================================================

func TestDefault_ShouldProvideUsableConfig(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Default config must validate, got %v", err)
	}
	if cfg.Gateway.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Gateway.Port)
	}
	if cfg.Market.BaseURL == "" || cfg.Market.SearchBaseURL == "" {
		t.Error("Expected upstream URLs to be set")
	}
	if cfg.Scrape.MaxBodyBytes != 10*1024*1024 {
		t.Errorf("Expected 10MB body cap, got %d", cfg.Scrape.MaxBodyBytes)
	}
}

// =============================================================================
// Loading
// =============================================================================

func TestLoad_ShouldParseJSON(t *testing.T) {
	path := writeTemp(t, "bullhorn.json", `{
		"gateway": {"port": 9090, "authToken": "secret"},
		"infra": {"logLevel": "debug"}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Gateway.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Gateway.Port)
	}
	if cfg.Gateway.AuthToken != "secret" {
		t.Errorf("Expected auth token from file, got %q", cfg.Gateway.AuthToken)
	}
	if cfg.Infra.LogLevel != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.Infra.LogLevel)
	}
}

func TestLoad_ShouldParseYAML(t *testing.T) {
	path := writeTemp(t, "bullhorn.yaml", `
gateway:
  port: 7070
market:
  timeoutSeconds: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Gateway.Port != 7070 {
		t.Errorf("Expected port 7070, got %d", cfg.Gateway.Port)
	}
	if cfg.Market.TimeoutSeconds != 5 {
		t.Errorf("Expected market timeout 5, got %d", cfg.Market.TimeoutSeconds)
	}
}

func TestLoad_ShouldFillMissingFieldsFromDefaults(t *testing.T) {
	path := writeTemp(t, "partial.json", `{"gateway": {"port": 9999}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	def := Default()
	if cfg.Market.BaseURL != def.Market.BaseURL {
		t.Errorf("Expected default base URL, got %q", cfg.Market.BaseURL)
	}
	if cfg.Scrape.TimeoutSeconds != def.Scrape.TimeoutSeconds {
		t.Errorf("Expected default scrape timeout, got %d", cfg.Scrape.TimeoutSeconds)
	}
}

func TestLoad_ShouldFailForMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_ShouldFailForMalformedContent(t *testing.T) {
	path := writeTemp(t, "broken.json", `{"gateway": `)
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestLoad_ShouldRejectInvalidPort(t *testing.T) {
	path := writeTemp(t, "badport.json", `{"gateway": {"port": 70000}}`)
	if _, err := Load(path); err == nil {
		t.Error("Expected validation error for out-of-range port")
	}
}

// =============================================================================
// Validation
// =============================================================================

func TestValidate_ShouldCatchInvariantViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Config)
	}{
		{"negative port", func(c *domain.Config) { c.Gateway.Port = -1 }},
		{"port too large", func(c *domain.Config) { c.Gateway.Port = 65536 }},
		{"negative market timeout", func(c *domain.Config) { c.Market.TimeoutSeconds = -1 }},
		{"negative scrape timeout", func(c *domain.Config) { c.Scrape.TimeoutSeconds = -1 }},
		{"negative body cap", func(c *domain.Config) { c.Scrape.MaxBodyBytes = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
	if err := Validate(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}

// =============================================================================
// WriteDefault
// =============================================================================

func TestWriteDefault_ShouldRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bullhorn.json")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Gateway.Port != Default().Gateway.Port {
		t.Errorf("Expected round-tripped default port, got %d", cfg.Gateway.Port)
	}
}

func TestWriteDefault_ShouldPropagateWriteError(t *testing.T) {
	origWrite := writeFile
	defer func() { writeFile = origWrite }()
	writeFile = func(string, []byte, os.FileMode) error {
		return errors.New("disk full")
	}

	if err := WriteDefault("anything.json"); err == nil {
		t.Error("Expected write error to propagate")
	}
}
