package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/equiptrack/asset-engine/asset"
)

// =============================================================================
// BOOK VALUE - Linear depreciation at month granularity
// =============================================================================

// BookValueResult is the financial snapshot of one asset at "now".
// All monetary fields are non-negative.
type BookValueResult struct {
	Classification Classification

	OriginalValue    decimal.Decimal
	CurrentBookValue decimal.Decimal

	// DepreciationPercent is 0..100.
	DepreciationPercent decimal.Decimal

	MonthlyDepreciation decimal.Decimal
	AnnualDepreciation  decimal.Decimal

	ElapsedMonths    int
	RemainingMonths  int
	TotalMonths      int
	FullyDepreciated bool
}

// BookValue computes the book value of an asset at the given instant.
//
// Low-value assets are expensed in full in the acquisition period: book
// value zero, 100% depreciated, regardless of elapsed time. That is a
// deliberate first-year expensing policy, not a degenerate case of the
// linear formula.
//
// Fixed assets depreciate linearly over their useful life, with elapsed
// months clamped to [0, totalMonths]; a future acquisition date yields
// zero elapsed depreciation, not a book value above the original.
//
// Unclassified assets are a contract violation here: callers must check
// the classification first. Rather than guessing, BookValue returns
// asset.ErrUnclassifiedAsset and a zero result.
func BookValue(a asset.Asset, cfg asset.Config, now time.Time) (BookValueResult, error) {
	class := Classify(a, cfg)
	if class == Unclassified {
		return BookValueResult{Classification: Unclassified}, asset.ErrUnclassifiedAsset
	}

	original := NetValue(a, cfg)

	if class == LowValueAsset {
		return BookValueResult{
			Classification:      LowValueAsset,
			OriginalValue:       original,
			CurrentBookValue:    decimal.Zero,
			DepreciationPercent: decimal.NewFromInt(100),
			MonthlyDepreciation: original,
			AnnualDepreciation:  original,
			ElapsedMonths:       0,
			RemainingMonths:     0,
			TotalMonths:         0,
			FullyDepreciated:    true,
		}, nil
	}

	totalMonths, err := cfg.UsefulLifeMonths(a)
	if err != nil {
		return BookValueResult{Classification: class}, err
	}

	elapsed := asset.ClampMonths(asset.MonthsBetween(a.AcquisitionDate(), now), 0, totalMonths)

	monthly := original.Div(decimal.NewFromInt(int64(totalMonths)))
	bookValue := original.Sub(monthly.Mul(decimal.NewFromInt(int64(elapsed))))
	if bookValue.IsNegative() {
		bookValue = decimal.Zero
	}

	percent := decimal.NewFromInt(int64(elapsed * 100)).Div(decimal.NewFromInt(int64(totalMonths)))

	return BookValueResult{
		Classification:      FixedAsset,
		OriginalValue:       original,
		CurrentBookValue:    bookValue,
		DepreciationPercent: percent,
		MonthlyDepreciation: monthly,
		AnnualDepreciation:  monthly.Mul(decimal.NewFromInt(12)),
		ElapsedMonths:       elapsed,
		RemainingMonths:     totalMonths - elapsed,
		TotalMonths:         totalMonths,
		FullyDepreciated:    totalMonths-elapsed == 0,
	}, nil
}

// =============================================================================
// FLEET SUMMARY - Per-category depreciation report
// =============================================================================

// CategorySummary aggregates book values for one category.
type CategorySummary struct {
	Category         asset.Category
	AssetCount       int
	OriginalValue    decimal.Decimal
	CurrentBookValue decimal.Decimal
}

// FleetSummary sums book values per category across a set of assets.
// Unclassified assets are skipped (they have no book value); the count
// of skipped assets is returned so reports can surface them.
func FleetSummary(assets []asset.Asset, cfg asset.Config, now time.Time) ([]CategorySummary, int, error) {
	byCategory := make(map[asset.Category]*CategorySummary)
	skipped := 0

	for _, a := range assets {
		result, err := BookValue(a, cfg, now)
		if err != nil {
			if result.Classification == Unclassified {
				skipped++
				continue
			}
			return nil, 0, err
		}

		s, ok := byCategory[a.Category]
		if !ok {
			s = &CategorySummary{Category: a.Category}
			byCategory[a.Category] = s
		}
		s.AssetCount++
		s.OriginalValue = s.OriginalValue.Add(result.OriginalValue)
		s.CurrentBookValue = s.CurrentBookValue.Add(result.CurrentBookValue)
	}

	summaries := make([]CategorySummary, 0, len(byCategory))
	for _, cat := range asset.Categories() {
		if s, ok := byCategory[cat]; ok {
			summaries = append(summaries, *s)
			delete(byCategory, cat)
		}
	}
	// Categories outside the known enumeration, in map order.
	for _, s := range byCategory {
		summaries = append(summaries, *s)
	}
	return summaries, skipped, nil
}
