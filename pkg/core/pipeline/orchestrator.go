// Package pipeline wires the full Casandra flow for a single REIT:
// filing -> properties -> geocode -> climate -> carbon -> governance ->
// combined distress scores, with an optional price projection step.
//
// The run is sequential by design: every external backend is rate-limited
// by policy, so naive parallelism would violate those policies.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/jasaka-rm/casandra/pkg/core/filing"
	"github.com/jasaka-rm/casandra/pkg/core/projection"
	"github.com/jasaka-rm/casandra/pkg/core/quote"
	"github.com/jasaka-rm/casandra/pkg/core/scoring"
	"github.com/jasaka-rm/casandra/pkg/models"
)

// NeutralScore substitutes for any signal that cannot be computed.
const NeutralScore = 50.0

// FilingRepository fetches the latest annual filing markup for a company
// key. Implementations fail with ingest.ErrNoFiling when no qualifying
// filing exists.
type FilingRepository interface {
	FetchLatestAnnualFiling(ctx context.Context, cik string) (string, error)
}

// ClimateScorer aggregates climate risk over extracted addresses.
type ClimateScorer interface {
	ScoreAddresses(ctx context.Context, addresses []string) (score float64, used int, skipped []models.SkippedProperty)
}

// CarbonScorer maps a ticker to carbon-intensity risk.
type CarbonScorer interface {
	ScoreTicker(ticker string) float64
}

// GovernanceScorer maps headline sentiment over a lookback window to risk.
type GovernanceScorer interface {
	Score(ctx context.Context, entityName string, lookbackDays int) float64
}

// Input identifies the REIT to score.
type Input struct {
	CIK           string
	Name          string
	Ticker        string
	MaxProperties int // 0 means the extractor default
}

// Orchestrator runs the scoring pipeline.
type Orchestrator struct {
	filings    FilingRepository
	climate    ClimateScorer
	carbon     CarbonScorer // nil means no dataset: neutral carbon score
	governance GovernanceScorer
	weights    scoring.Weights
	logger     log.Logger
}

// New creates an orchestrator from its collaborators. carbon may be nil
// when no curated dataset is available; the carbon signal then degrades to
// the neutral default.
func New(filings FilingRepository, climate ClimateScorer, carbon CarbonScorer, governance GovernanceScorer, weights scoring.Weights) *Orchestrator {
	return &Orchestrator{
		filings:    filings,
		climate:    climate,
		carbon:     carbon,
		governance: governance,
		weights:    weights.Normalize(),
		logger:     log.DefaultLogger,
	}
}

// ScoreREIT executes the full pipeline. Fatal failures (filing missing,
// properties section not located) abort with an identifiable error and no
// partial bundle; every per-property or per-signal failure degrades to a
// recorded skip or a neutral substitution instead.
func (o *Orchestrator) ScoreREIT(ctx context.Context, in Input) (*models.ScoreBundle, error) {
	start := time.Now()
	o.logger.Info().Str("cik", in.CIK).Str("ticker", in.Ticker).Msg("starting scoring run")

	markup, err := o.filings.FetchLatestAnnualFiling(ctx, in.CIK)
	if err != nil {
		return nil, fmt.Errorf("fetching annual filing for CIK %s: %w", in.CIK, err)
	}

	span, err := filing.Locate(markup)
	if err != nil {
		return nil, fmt.Errorf("locating properties disclosure for CIK %s: %w", in.CIK, err)
	}

	extractor := filing.NewExtractor(filing.WithMaxProperties(in.MaxProperties))
	records, err := extractor.Extract(span.HTML)
	if err != nil {
		return nil, fmt.Errorf("extracting properties: %w", err)
	}
	if len(records) == 0 {
		// Some filings keep the property tables away from the heading;
		// sweep the whole document before giving up.
		if records, err = extractor.Extract(markup); err != nil {
			return nil, fmt.Errorf("extracting properties from full document: %w", err)
		}
	}
	o.logger.Info().Int("properties", len(records)).Msg("extracted property records")

	addresses := make([]string, 0, len(records))
	for _, r := range records {
		addresses = append(addresses, r.Address)
	}

	climateScore, used, skipped := o.climate.ScoreAddresses(ctx, addresses)

	carbonScore := NeutralScore
	if o.carbon != nil {
		carbonScore = o.carbon.ScoreTicker(in.Ticker)
	}

	bundle := &models.ScoreBundle{
		RunID:          uuid.NewString(),
		CIK:            in.CIK,
		Name:           in.Name,
		Ticker:         in.Ticker,
		ClimateScore:   scoring.Round2(climateScore),
		CarbonScore:    scoring.Round2(carbonScore),
		GovScores:      make(map[models.Horizon]float64, len(models.Horizons)),
		FinalScores:    make(map[models.Horizon]float64, len(models.Horizons)),
		PropertiesUsed: used,
		Skipped:        skipped,
	}

	// Climate and carbon are horizon-invariant here; only the governance
	// lookback widens with the horizon.
	for _, h := range models.Horizons {
		gov := o.governance.Score(ctx, in.Name, h.LookbackDays())
		bundle.GovScores[h] = scoring.Round2(gov)
		bundle.FinalScores[h] = scoring.Combine(climateScore, carbonScore, gov, o.weights)
	}

	o.logger.Info().
		Str("run_id", bundle.RunID).
		Float64("climate", bundle.ClimateScore).
		Float64("carbon", bundle.CarbonScore).
		Int("properties_used", bundle.PropertiesUsed).
		Dur("elapsed", time.Since(start)).
		Msg("scoring run complete")

	return bundle, nil
}

// ProjectPrices fetches the current quote and derives the speculative
// price path implied by the bundle's final scores.
func (o *Orchestrator) ProjectPrices(ctx context.Context, bundle *models.ScoreBundle, quotes quote.Provider, betas projection.Betas) (*models.Projections, error) {
	price, err := quotes.LatestPrice(ctx, bundle.Ticker)
	if err != nil {
		return nil, fmt.Errorf("fetching quote for %s: %w", bundle.Ticker, err)
	}

	proj := projection.Project(price, bundle.FinalScores, betas)
	proj.Ticker = bundle.Ticker
	return proj, nil
}
