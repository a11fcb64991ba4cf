// Package scoring combines the three factor scores into the final
// ESG-Adjusted Distress score.
package scoring

import "math"

// Weights holds the relative importance of each factor. Inputs may be any
// non-negative values; Normalize scales them to sum to exactly 1.0.
type Weights struct {
	Climate float64 `yaml:"climate" validate:"gte=0"`
	Carbon  float64 `yaml:"carbon" validate:"gte=0"`
	Gov     float64 `yaml:"gov" validate:"gte=0"`
}

// DefaultWeights weighs the three factors equally.
func DefaultWeights() Weights {
	return Weights{Climate: 1.0 / 3.0, Carbon: 1.0 / 3.0, Gov: 1.0 / 3.0}
}

// Normalize scales the weights so they sum to 1.0. An all-zero input falls
// back to equal thirds. Negative entries are treated as zero.
func (w Weights) Normalize() Weights {
	c := math.Max(0, w.Climate)
	k := math.Max(0, w.Carbon)
	g := math.Max(0, w.Gov)

	sum := c + k + g
	if sum == 0 {
		return DefaultWeights()
	}
	return Weights{Climate: c / sum, Carbon: k / sum, Gov: g / sum}
}

// Combine produces the final 0-100 distress score for one horizon, rounded
// to 2 decimals. All inputs are 0-100, higher = worse. Weights are
// normalized before use, so callers may pass raw non-negative values.
func Combine(climate, carbon, gov float64, w Weights) float64 {
	n := w.Normalize()
	final := n.Climate*climate + n.Carbon*carbon + n.Gov*gov
	return Round2(final)
}

// Clamp bounds a score to the [0,100] risk domain.
func Clamp(s float64) float64 {
	return math.Max(0, math.Min(100, s))
}

// Round2 rounds to 2 decimal places, the serialization precision for all
// scores at the pipeline boundary.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
