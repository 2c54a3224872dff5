/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Monetary values cross the wire as decimal strings ("1800.00"), never
  as floats. Dates and instants are RFC3339.

VALIDATION:
  Validation is done in handlers and the booking service, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/equiptrack/asset-engine/asset"
	"github.com/equiptrack/asset-engine/booking"
	"github.com/equiptrack/asset-engine/finance"
)

// =============================================================================
// ASSETS
// =============================================================================

type AssetDTO struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name"`
	Category                string  `json:"category"`
	NetPurchaseValue        string  `json:"net_purchase_value"`
	GrossPurchaseValue      string  `json:"gross_purchase_value,omitempty"`
	PurchaseDate            string  `json:"purchase_date"`
	CommissioningDate       *string `json:"commissioning_date,omitempty"`
	ExplicitUsefulLifeYears int     `json:"explicit_useful_life_years,omitempty"`
	ForceFixedAsset         *bool   `json:"force_fixed_asset,omitempty"`
	ForceLowValue           *bool   `json:"force_low_value,omitempty"`
	IsPoolDevice            bool    `json:"is_pool_device"`
	AssignedTo              string  `json:"assigned_to,omitempty"`
	Classification          string  `json:"classification"`
}

type CreateAssetRequest struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name"`
	Category                string  `json:"category"`
	NetPurchaseValue        string  `json:"net_purchase_value,omitempty"`
	GrossPurchaseValue      string  `json:"gross_purchase_value,omitempty"`
	PurchaseDate            string  `json:"purchase_date"`
	CommissioningDate       *string `json:"commissioning_date,omitempty"`
	ExplicitUsefulLifeYears int     `json:"explicit_useful_life_years,omitempty"`
	ForceFixedAsset         *bool   `json:"force_fixed_asset,omitempty"`
	ForceLowValue           *bool   `json:"force_low_value,omitempty"`
	IsPoolDevice            bool    `json:"is_pool_device"`
	AssignedTo              string  `json:"assigned_to,omitempty"`
}

// ValuationDTO is the financial snapshot of one asset.
type ValuationDTO struct {
	AssetID             string `json:"asset_id"`
	Classification      string `json:"classification"`
	OriginalValue       string `json:"original_value"`
	CurrentBookValue    string `json:"current_book_value"`
	DepreciationPercent string `json:"depreciation_percent"`
	MonthlyDepreciation string `json:"monthly_depreciation"`
	AnnualDepreciation  string `json:"annual_depreciation"`
	ElapsedMonths       int    `json:"elapsed_months"`
	RemainingMonths     int    `json:"remaining_months"`
	TotalMonths         int    `json:"total_months"`
	FullyDepreciated    bool   `json:"fully_depreciated"`
	AsOf                string `json:"as_of"`
}

// CategorySummaryDTO is one row of the fleet depreciation report.
type CategorySummaryDTO struct {
	Category         string `json:"category"`
	AssetCount       int    `json:"asset_count"`
	OriginalValue    string `json:"original_value"`
	CurrentBookValue string `json:"current_book_value"`
}

type FleetReportDTO struct {
	Categories   []CategorySummaryDTO `json:"categories"`
	Unclassified int                  `json:"unclassified_assets"`
	AsOf         string               `json:"as_of"`
}

// =============================================================================
// RESERVATIONS
// =============================================================================

type ReservationDTO struct {
	ID         string  `json:"id"`
	AssetID    string  `json:"asset_id"`
	EmployeeID string  `json:"employee_id"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Purpose    string  `json:"purpose,omitempty"`
	Status     string  `json:"status"`
	Returned   *bool   `json:"returned,omitempty"`
	ReturnedAt *string `json:"returned_at,omitempty"`
	CreatedAt  string  `json:"created_at,omitempty"`
}

type ProposeReservationRequest struct {
	EmployeeID string `json:"employee_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Purpose    string `json:"purpose,omitempty"`
}

type AvailabilityDTO struct {
	AssetID       string          `json:"asset_id"`
	State         string          `json:"state"`
	UpcomingCount int             `json:"upcoming_count"`
	Current       *ReservationDTO `json:"current_or_upcoming,omitempty"`
	AsOf          string          `json:"as_of"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type CreateEmployeeRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toAssetDTO(a asset.Asset, cfg asset.Config) AssetDTO {
	dto := AssetDTO{
		ID:                      string(a.ID),
		Name:                    a.Name,
		Category:                string(a.Category),
		NetPurchaseValue:        a.NetPurchaseValue.String(),
		PurchaseDate:            a.PurchaseDate.UTC().Format(time.RFC3339),
		ExplicitUsefulLifeYears: a.ExplicitUsefulLifeYears,
		ForceFixedAsset:         a.ForceFixedAsset,
		ForceLowValue:           a.ForceLowValue,
		IsPoolDevice:            a.IsPoolDevice,
		AssignedTo:              string(a.AssignedTo),
		Classification:          string(finance.Classify(a, cfg)),
	}
	if a.GrossPurchaseValue.IsPositive() {
		dto.GrossPurchaseValue = a.GrossPurchaseValue.String()
	}
	if a.CommissioningDate != nil {
		d := a.CommissioningDate.UTC().Format(time.RFC3339)
		dto.CommissioningDate = &d
	}
	return dto
}

func toReservationDTO(r booking.Reservation) ReservationDTO {
	dto := ReservationDTO{
		ID:         string(r.ID),
		AssetID:    string(r.AssetID),
		EmployeeID: string(r.EmployeeID),
		Start:      r.Start.UTC().Format(time.RFC3339),
		End:        r.End.UTC().Format(time.RFC3339),
		Purpose:    r.Purpose,
		Status:     string(r.Status),
	}
	if !r.CreatedAt.IsZero() {
		dto.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	if r.Return != nil {
		dto.Returned = &r.Return.Returned
		if !r.Return.ReturnedAt.IsZero() {
			at := r.Return.ReturnedAt.UTC().Format(time.RFC3339)
			dto.ReturnedAt = &at
		}
	}
	return dto
}

func toValuationDTO(assetID asset.AssetID, result finance.BookValueResult, asOf time.Time) ValuationDTO {
	return ValuationDTO{
		AssetID:             string(assetID),
		Classification:      string(result.Classification),
		OriginalValue:       result.OriginalValue.StringFixed(2),
		CurrentBookValue:    result.CurrentBookValue.StringFixed(2),
		DepreciationPercent: result.DepreciationPercent.StringFixed(2),
		MonthlyDepreciation: result.MonthlyDepreciation.StringFixed(2),
		AnnualDepreciation:  result.AnnualDepreciation.StringFixed(2),
		ElapsedMonths:       result.ElapsedMonths,
		RemainingMonths:     result.RemainingMonths,
		TotalMonths:         result.TotalMonths,
		FullyDepreciated:    result.FullyDepreciated,
		AsOf:                asOf.UTC().Format(time.RFC3339),
	}
}
