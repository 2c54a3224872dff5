// Package config reads the service configuration from environment
// variables and command-line flags. Flags take the defaults; matching
// environment variables override them.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"github.com/equiptrack/asset-engine/asset"
)

// Config holds the service-level configuration. Engine configuration
// (threshold, tax rate, life table) is derived from it via EngineConfig.
type Config struct {
	RunAddress        string `env:"RUN_ADDRESS"`
	DatabasePath      string `env:"DATABASE_PATH"`
	LowValueThreshold string `env:"LOW_VALUE_THRESHOLD"`
	TaxRate           string `env:"TAX_RATE"`
	LifeTablePath     string `env:"LIFE_TABLE_PATH"`
}

// Parse reads configuration from flags and environment variables.
// args are the command-line arguments without the program name.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabasePath := cfg.DatabasePath
	envThreshold := cfg.LowValueThreshold
	envTaxRate := cfg.TaxRate
	envLifeTable := cfg.LifeTablePath

	fs := flag.NewFlagSet("asset-engine", flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddress, "a", ":8080", "address and port for HTTP server")
	fs.StringVar(&cfg.DatabasePath, "db", "assets.db", "SQLite database path (\":memory:\" for in-memory)")
	fs.StringVar(&cfg.LowValueThreshold, "threshold", "800", "low-value asset threshold (net, currency units)")
	fs.StringVar(&cfg.TaxRate, "tax-rate", "0.19", "tax rate for gross-to-net estimation")
	fs.StringVar(&cfg.LifeTablePath, "life-table", "", "optional JSON file with useful-life overrides")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabasePath != "" {
		cfg.DatabasePath = envDatabasePath
	}
	if envThreshold != "" {
		cfg.LowValueThreshold = envThreshold
	}
	if envTaxRate != "" {
		cfg.TaxRate = envTaxRate
	}
	if envLifeTable != "" {
		cfg.LifeTablePath = envLifeTable
	}

	return cfg, nil
}

// EngineConfig builds the validated engine configuration from the
// service configuration.
func (c *Config) EngineConfig() (asset.Config, error) {
	engine := asset.DefaultConfig()

	if c.LowValueThreshold != "" {
		threshold, err := decimal.NewFromString(c.LowValueThreshold)
		if err != nil {
			return asset.Config{}, fmt.Errorf("parse low-value threshold: %w", err)
		}
		engine.LowValueThreshold = threshold
	}
	if c.TaxRate != "" {
		rate, err := decimal.NewFromString(c.TaxRate)
		if err != nil {
			return asset.Config{}, fmt.Errorf("parse tax rate: %w", err)
		}
		engine.TaxRate = rate
	}
	if c.LifeTablePath != "" {
		f, err := os.Open(c.LifeTablePath)
		if err != nil {
			return asset.Config{}, fmt.Errorf("open life table: %w", err)
		}
		defer f.Close()

		overrides, err := asset.LifeTableFromJSON(f)
		if err != nil {
			return asset.Config{}, err
		}
		for cat, span := range overrides {
			engine.LifeTable[cat] = span
		}
	}

	if err := engine.Validate(); err != nil {
		return asset.Config{}, err
	}
	return engine, nil
}
