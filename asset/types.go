/*
Package asset provides the core domain types for the asset engine.

PURPOSE:
  This package contains the shared entities and temporal primitives used
  by both the financial view (classification, depreciation) and the
  operational view (bookings, availability). Whether computing a book
  value or checking a reservation conflict, both sides read the same
  Asset identity.

KEY CONCEPTS IN THIS FILE (types.go):
  - Asset: The long-lived device record (laptop, tablet, phone, ...)
  - Category: Fixed enumeration used for useful-life lookup
  - Employee: Borrower / assignee identity
  - Typed IDs: Prevent mixing asset and employee identifiers

DESIGN PRINCIPLES:
  1. Precision: Monetary values use decimal.Decimal, never float64
  2. Injected time: "now" is always a parameter, never read from a clock
  3. Plain data: Core types carry no behavior beyond derivation helpers

SEE ALSO:
  - time.go: Interval and month/day arithmetic
  - config.go: Injected thresholds and useful-life table
  - finance: Classification and depreciation over these types
  - booking: Reservations over these types
*/
package asset

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type AssetID string
type EmployeeID string

// =============================================================================
// CATEGORY - Fixed enumeration for useful-life lookup
// =============================================================================

type Category string

const (
	CategoryLaptop     Category = "laptop"
	CategoryTablet     Category = "tablet"
	CategorySmartphone Category = "smartphone"
	CategoryPeripheral Category = "peripheral"
	CategoryAccessory  Category = "accessory"
)

// Categories lists all known asset categories.
func Categories() []Category {
	return []Category{
		CategoryLaptop,
		CategoryTablet,
		CategorySmartphone,
		CategoryPeripheral,
		CategoryAccessory,
	}
}

// =============================================================================
// ASSET - The long-lived device record
// =============================================================================

// Asset is the subset of the device record the engine operates on.
// Monetary fields are net-of-tax unless named otherwise; a zero
// NetPurchaseValue with a positive GrossPurchaseValue triggers the
// estimated gross-to-net fallback in the finance package.
type Asset struct {
	ID       AssetID
	Name     string
	Category Category

	// Net purchase value (excluding tax). Zero means unknown.
	NetPurchaseValue decimal.Decimal

	// Gross purchase value (including tax). Used only as a fallback
	// when the net value is unknown.
	GrossPurchaseValue decimal.Decimal

	// PurchaseDate is when the asset was bought. The depreciation clock
	// starts at CommissioningDate when present, else PurchaseDate.
	PurchaseDate      time.Time
	CommissioningDate *time.Time

	// ExplicitUsefulLifeYears overrides the category default when > 0.
	ExplicitUsefulLifeYears int

	// Manual classification overrides. When set to true they force the
	// corresponding classification regardless of the computed one.
	ForceFixedAsset *bool
	ForceLowValue   *bool

	// Pool devices are shared and bookable. Non-pool assets are
	// exclusively assigned to one employee and excluded from booking.
	IsPoolDevice bool
	AssignedTo   EmployeeID

	CreatedAt time.Time
}

// AcquisitionDate returns the date the depreciation clock starts:
// the commissioning date if present, else the purchase date.
func (a Asset) AcquisitionDate() time.Time {
	if a.CommissioningDate != nil && !a.CommissioningDate.IsZero() {
		return *a.CommissioningDate
	}
	return a.PurchaseDate
}

// =============================================================================
// EMPLOYEE - Borrower / assignee identity
// =============================================================================

type Employee struct {
	ID        EmployeeID
	Name      string
	Email     string
	CreatedAt time.Time
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

// MustDecimal parses a decimal string, returning zero on failure.
// Intended for constants and test fixtures, not user input.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
