package governance

import (
	"context"
	"fmt"
	"time"

	"github.com/jonreiter/govader"
	"github.com/phuslu/log"

	"github.com/jasaka-rm/casandra/pkg/core/scoring"
)

const (
	// NeutralScore is the risk when no signal is available (no headlines,
	// or the news backend failed).
	NeutralScore = 50.0

	// MaxHeadlines caps how many feed entries are considered regardless of
	// the lookback window width.
	MaxHeadlines = 50

	// maxSwing is the furthest the score moves from neutral: average
	// compound -1 scores 95, +1 scores 5.
	maxSwing = 45.0
)

// RiskFromCompound maps an average sentiment compound in [-1,1] to 0-100
// risk. Negative sentiment increases risk.
func RiskFromCompound(avg float64) float64 {
	return scoring.Clamp(NeutralScore - avg*maxSwing)
}

// Scorer computes governance/controversy risk for an entity.
type Scorer struct {
	provider HeadlineProvider
	compound func(title string) float64
	logger   log.Logger
}

// NewScorer creates a governance scorer backed by the VADER lexicon.
func NewScorer(provider HeadlineProvider) *Scorer {
	analyzer := govader.NewSentimentIntensityAnalyzer()
	return &Scorer{
		provider: provider,
		compound: func(title string) float64 {
			return analyzer.PolarityScores(title).Compound
		},
		logger: log.DefaultLogger,
	}
}

// Score retrieves headlines mentioning the entity together with
// governance/controversy/lawsuit terms inside the lookback window and maps
// their average sentiment to risk. Returns the neutral 50 when the window
// holds no headlines; a backend failure degrades to neutral as well, never
// aborting the run.
func (s *Scorer) Score(ctx context.Context, entityName string, lookbackDays int) float64 {
	query := fmt.Sprintf("%s REIT governance OR controversy OR lawsuit", entityName)

	headlines, err := s.provider.Headlines(ctx, query, MaxHeadlines)
	if err != nil {
		s.logger.Warn().Err(err).Str("entity", entityName).Msg("news backend failed, using neutral governance score")
		return NeutralScore
	}

	since := time.Now().UTC().AddDate(0, 0, -lookbackDays)
	var sum float64
	var n int
	for _, h := range headlines {
		if h.PublishedAt.Before(since) {
			continue
		}
		sum += s.compound(h.Title)
		n++
	}

	if n == 0 {
		return NeutralScore
	}
	risk := RiskFromCompound(sum / float64(n))
	s.logger.Debug().Str("entity", entityName).Int("headlines", n).Float64("risk", risk).Msg("governance scored")
	return risk
}
