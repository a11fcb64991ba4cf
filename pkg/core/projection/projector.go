// Package projection derives speculative price paths from final distress
// scores. The mapping is linear and centered on the neutral score of 50:
// a score at either extreme moves the price by the horizon's full beta.
package projection

import (
	"github.com/jasaka-rm/casandra/pkg/core/scoring"
	"github.com/jasaka-rm/casandra/pkg/models"
)

// Betas is the maximum proportional price move per horizon when the score
// sits at 0 or 100.
type Betas map[models.Horizon]float64

// DefaultBetas widens the allowed move with the horizon: ±10% at 1y,
// ±20% at 5y, ±30% at 10y.
func DefaultBetas() Betas {
	return Betas{
		models.Horizon1Y:  0.10,
		models.Horizon5Y:  0.20,
		models.Horizon10Y: 0.30,
	}
}

// Adjustment maps a 0-100 score to a signed fraction of the current price.
// Scores above 50 increase the projected price, below 50 decrease it:
// adj = beta * (score - 50) / 50. The score is clamped to [0,100] first.
func Adjustment(score, beta float64) float64 {
	return beta * (scoring.Clamp(score) - 50.0) / 50.0
}

// Project computes the per-horizon price projections for the given final
// scores. Horizons missing from either map are omitted from the result.
func Project(currentPrice float64, finalScores map[models.Horizon]float64, betas Betas) *models.Projections {
	if betas == nil {
		betas = DefaultBetas()
	}

	out := &models.Projections{
		CurrentPrice: currentPrice,
		ByHorizon:    make(map[models.Horizon]models.HorizonProjection, len(finalScores)),
	}
	for h, score := range finalScores {
		beta, ok := betas[h]
		if !ok {
			continue
		}
		adj := Adjustment(score, beta)
		out.ByHorizon[h] = models.HorizonProjection{
			AdjustmentPct:  adj,
			ProjectedPrice: scoring.Round2(currentPrice * (1.0 + adj)),
		}
	}
	return out
}
