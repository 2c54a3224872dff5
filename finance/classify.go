/*
Package finance implements the financial view over asset records:
classification into fixed vs. low-value assets, and linear depreciation.

PURPOSE:
  Given an asset and an injected configuration, decide whether the
  purchase is capitalized ("fixed asset") or expensed immediately
  ("low-value asset", GWG), and compute its book value over time.

  Everything here is a pure function of (asset, config, now). No
  caching, no clock reads, no I/O. The same inputs always produce the
  same outputs, so callers may evaluate freely in parallel.

CLASSIFICATION RULES (classify.go):
  1. A manual override on the asset always wins.
  2. Otherwise resolve the net value (stored net, or estimated from
     the gross price by removing the configured tax rate).
  3. net > threshold          -> FixedAsset
     0 < net <= threshold     -> LowValueAsset
     zero/negative/unknown    -> Unclassified (never an error)

SEE ALSO:
  - depreciation.go: Book value computation per classification
  - asset/config.go: Threshold, tax rate, useful-life table
*/
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/equiptrack/asset-engine/asset"
)

// =============================================================================
// CLASSIFICATION
// =============================================================================

type Classification string

const (
	Unclassified  Classification = "unclassified"
	LowValueAsset Classification = "low_value_asset"
	FixedAsset    Classification = "fixed_asset"
)

// EstimateNetFromGross removes the configured tax rate from a gross
// price: gross / (1 + rate). This is a lossy heuristic used only when
// no explicit net value is stored; tests target it separately from the
// precise path.
func EstimateNetFromGross(gross, taxRate decimal.Decimal) decimal.Decimal {
	return gross.Div(decimal.NewFromInt(1).Add(taxRate))
}

// NetValue resolves the net purchase value of an asset: the stored net
// value when positive, else the estimate derived from the gross price.
// Returns zero when neither is resolvable.
func NetValue(a asset.Asset, cfg asset.Config) decimal.Decimal {
	if a.NetPurchaseValue.IsPositive() {
		return a.NetPurchaseValue
	}
	if a.GrossPurchaseValue.IsPositive() {
		return EstimateNetFromGross(a.GrossPurchaseValue, cfg.TaxRate)
	}
	return decimal.Zero
}

// Classify computes the asset's classification from its net value and
// the configured threshold. Deterministic and total: zero, negative,
// and unresolvable values classify as Unclassified, not an error.
// An explicit override on the asset takes precedence.
func Classify(a asset.Asset, cfg asset.Config) Classification {
	if a.ForceFixedAsset != nil && *a.ForceFixedAsset {
		return FixedAsset
	}
	if a.ForceLowValue != nil && *a.ForceLowValue {
		return LowValueAsset
	}

	net := NetValue(a, cfg)
	if net.GreaterThan(cfg.LowValueThreshold) {
		return FixedAsset
	}
	if net.IsPositive() {
		return LowValueAsset
	}
	return Unclassified
}
