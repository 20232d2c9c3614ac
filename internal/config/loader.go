package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"bullhorn/internal/domain"
)

// marshalIndent and writeFile are used by WriteDefault; tests may replace to force errors.
var (
	marshalIndent = json.MarshalIndent
	writeFile     = os.WriteFile
)

// Default returns the built-in configuration used when no config file exists.
func Default() *domain.Config {
	return &domain.Config{
		Gateway: domain.GatewayConfig{
			Port: 8080,
		},
		Market: domain.MarketConfig{
			BaseURL:        "https://query1.finance.yahoo.com/v10/finance/quoteSummary",
			SearchBaseURL:  "https://query1.finance.yahoo.com/v1/finance/search",
			UserAgent:      "Mozilla/5.0 (compatible; bullhorn/1.0)",
			TimeoutSeconds: 15,
		},
		Scrape: domain.ScrapeConfig{
			UserAgent:      "bullhorn/1.0 (Web Scraper)",
			TimeoutSeconds: 30,
			MaxBodyBytes:   10 * 1024 * 1024,
		},
		Infra: domain.InfraConfig{LogFormat: "text", LogLevel: "info"},
	}
}

// WriteDefault writes the default Config to path (e.g. bullhorn.json).
// Parent directories are not created.
func WriteDefault(path string) error {
	data, err := marshalIndent(Default(), "", "  ")
	if err != nil {
		return err
	}
	return writeFile(path, data, 0644)
}

// Load reads path and unmarshals into domain.Config. Files ending in .yaml or
// .yml are parsed as YAML; everything else as JSON. Missing fields fall back
// to Default() values so a partial config file stays valid.
func Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	c := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config parse: %w", err)
		}
	default:
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("config parse: %w", err)
		}
	}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks invariants that would otherwise surface as confusing runtime
// failures: port range and non-negative timeouts.
func Validate(cfg *domain.Config) error {
	if cfg == nil {
		return fmt.Errorf("config validate: nil config")
	}
	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		return fmt.Errorf("config validate: gateway port must be 0-65535, got %d", cfg.Gateway.Port)
	}
	if cfg.Market.TimeoutSeconds < 0 {
		return fmt.Errorf("config validate: market timeout must not be negative")
	}
	if cfg.Scrape.TimeoutSeconds < 0 {
		return fmt.Errorf("config validate: scrape timeout must not be negative")
	}
	if cfg.Scrape.MaxBodyBytes < 0 {
		return fmt.Errorf("config validate: scrape maxBodyBytes must not be negative")
	}
	return nil
}
