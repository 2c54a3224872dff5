/*
config.go - Injected engine configuration

PURPOSE:
  Holds the values the engine is parameterized on: the low-value
  threshold that splits fixed assets from immediately-expensed ones,
  the tax rate used by the gross-to-net estimation fallback, and the
  per-category useful-life table.

  Nothing here is a package-level singleton. The configuration is a
  plain value handed to the finance functions, so tests and tenants can
  override any of it without touching globals.

JSON SCHEMA (life table overrides):
  {
    "laptop":     {"default_years": 3, "min_years": 2, "max_years": 4},
    "peripheral": {"default_years": 5, "min_years": 3, "max_years": 8}
  }

VALIDATION:
  A useful-life entry resolving to 0 months is invalid configuration
  and surfaces as a ConfigurationError, never a silent default. The
  only sanctioned fallback is the documented 36 months for assets whose
  category has no table entry.
*/
package asset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// FallbackUsefulLifeMonths applies when an asset has no explicit useful
// life and its category is missing from the life table.
const FallbackUsefulLifeMonths = 36

// =============================================================================
// USEFUL-LIFE TABLE
// =============================================================================

// LifeSpan is the recommended depreciation duration for a category.
type LifeSpan struct {
	DefaultYears int `json:"default_years"`
	MinYears     int `json:"min_years"`
	MaxYears     int `json:"max_years"`
}

type LifeTable map[Category]LifeSpan

// DefaultLifeTable returns the standard per-category durations.
func DefaultLifeTable() LifeTable {
	return LifeTable{
		CategoryLaptop:     {DefaultYears: 3, MinYears: 2, MaxYears: 4},
		CategoryTablet:     {DefaultYears: 3, MinYears: 2, MaxYears: 4},
		CategorySmartphone: {DefaultYears: 2, MinYears: 1, MaxYears: 3},
		CategoryPeripheral: {DefaultYears: 5, MinYears: 3, MaxYears: 8},
		CategoryAccessory:  {DefaultYears: 3, MinYears: 1, MaxYears: 5},
	}
}

// LifeTableFromJSON parses per-category overrides, validating each entry.
func LifeTableFromJSON(r io.Reader) (LifeTable, error) {
	var raw map[Category]LifeSpan
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse life table: %w", err)
	}
	table := make(LifeTable, len(raw))
	for cat, span := range raw {
		if span.DefaultYears <= 0 {
			return nil, &ConfigurationError{
				Field:   fmt.Sprintf("life_table.%s", cat),
				Message: "default_years must be positive",
			}
		}
		table[cat] = span
	}
	return table, nil
}

// =============================================================================
// ENGINE CONFIG
// =============================================================================

// Config parameterizes classification and depreciation.
type Config struct {
	// LowValueThreshold splits capitalized fixed assets from
	// immediately-expensed low-value (GWG) assets. Net values strictly
	// above the threshold are fixed assets.
	LowValueThreshold decimal.Decimal

	// TaxRate used by the gross-to-net estimation fallback,
	// expressed as a fraction (0.19 = 19%).
	TaxRate decimal.Decimal

	LifeTable LifeTable
}

// DefaultConfig returns the standard configuration: 800 currency units
// threshold, 19% tax rate, default life table.
func DefaultConfig() Config {
	return Config{
		LowValueThreshold: decimal.NewFromInt(800),
		TaxRate:           MustDecimal("0.19"),
		LifeTable:         DefaultLifeTable(),
	}
}

// Validate checks the configuration for fatal problems.
func (c Config) Validate() error {
	if !c.LowValueThreshold.IsPositive() {
		return &ConfigurationError{Field: "low_value_threshold", Message: "must be positive"}
	}
	if c.TaxRate.IsNegative() {
		return &ConfigurationError{Field: "tax_rate", Message: "must not be negative"}
	}
	for cat, span := range c.LifeTable {
		if span.DefaultYears <= 0 {
			return &ConfigurationError{
				Field:   fmt.Sprintf("life_table.%s", cat),
				Message: "default_years must be positive",
			}
		}
	}
	return nil
}

// UsefulLifeMonths resolves the depreciation duration for an asset:
// explicit years on the asset, else the category's table default, else
// the 36-month fallback. Always a positive month count; a table entry
// resolving to 0 months is a ConfigurationError.
func (c Config) UsefulLifeMonths(a Asset) (int, error) {
	if a.ExplicitUsefulLifeYears > 0 {
		return a.ExplicitUsefulLifeYears * 12, nil
	}
	if span, ok := c.LifeTable[a.Category]; ok {
		months := span.DefaultYears * 12
		if months <= 0 {
			return 0, &ConfigurationError{
				Field:   fmt.Sprintf("life_table.%s", a.Category),
				Message: "resolves to a non-positive month count",
			}
		}
		return months, nil
	}
	return FallbackUsefulLifeMonths, nil
}
