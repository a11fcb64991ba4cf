// Package models defines the value objects shared across the Casandra
// scoring pipeline. Every type here is created and consumed within a single
// pipeline invocation; nothing is cached or mutated across runs.
package models

// Horizon identifies one of the three scoring/projection windows.
type Horizon string

const (
	Horizon1Y  Horizon = "1y"
	Horizon5Y  Horizon = "5y"
	Horizon10Y Horizon = "10y"
)

// Horizons lists all horizons in ascending order.
var Horizons = []Horizon{Horizon1Y, Horizon5Y, Horizon10Y}

// LookbackDays returns the governance news lookback window for the horizon.
func (h Horizon) LookbackDays() int {
	switch h {
	case Horizon5Y:
		return 5 * 365
	case Horizon10Y:
		return 10 * 365
	default:
		return 365
	}
}

// PropertyRecord is one property/location extracted from the filing.
// Region is only set by the row-walk strategy, which carries a running
// regional header (e.g. "NEW YORK:") across rows.
type PropertyRecord struct {
	Name    string `json:"name"`
	Region  string `json:"region,omitempty"`
	Address string `json:"address"`
}

// GeoPoint is a resolved address. A failed resolution yields no GeoPoint;
// resolutions are never retried.
type GeoPoint struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// SkippedProperty records a property that could not contribute to the
// climate aggregate, with the reason it was skipped. The pipeline never
// drops a failure silently: every extracted address ends up either in the
// used count or in this list.
type SkippedProperty struct {
	Address string `json:"address"`
	Reason  string `json:"reason"`
}

// ScoreBundle is the per-run output of the scoring pipeline. All scores are
// on a 0-100 scale, higher = worse, rounded to 2 decimals. Climate and
// carbon are horizon-invariant; only the governance lookback varies per
// horizon. Immutable after construction.
type ScoreBundle struct {
	RunID  string `json:"run_id"`
	CIK    string `json:"cik"`
	Name   string `json:"name"`
	Ticker string `json:"ticker"`

	ClimateScore float64             `json:"climate_score"`
	CarbonScore  float64             `json:"carbon_score"`
	GovScores    map[Horizon]float64 `json:"gov_scores"`
	FinalScores  map[Horizon]float64 `json:"final_scores"`

	PropertiesUsed int               `json:"n_properties_used"`
	Skipped        []SkippedProperty `json:"skipped,omitempty"`
}

// HorizonProjection is the projected price move for a single horizon.
type HorizonProjection struct {
	AdjustmentPct  float64 `json:"adj_pct"`
	ProjectedPrice float64 `json:"price"`
}

// Projections maps final distress scores to speculative price paths.
// Derived strictly from a ScoreBundle plus a live quote; no persisted state.
type Projections struct {
	Ticker       string                        `json:"ticker"`
	CurrentPrice float64                       `json:"current_price"`
	ByHorizon    map[Horizon]HorizonProjection `json:"by_horizon"`
}
