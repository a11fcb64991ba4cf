package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasaka-rm/casandra/pkg/core/filing"
	"github.com/jasaka-rm/casandra/pkg/core/ingest"
	"github.com/jasaka-rm/casandra/pkg/core/projection"
	"github.com/jasaka-rm/casandra/pkg/core/scoring"
	"github.com/jasaka-rm/casandra/pkg/models"
)

const testFiling = `<html><body>
<p>ITEM 2. PROPERTIES</p>
<table>
<tr><td>Property</td><td>Location</td></tr>
<tr><td>Harbor Tower</td><td>Boston, MA</td></tr>
<tr><td>Lakeside Plaza</td><td>Chicago, IL</td></tr>
</table>
<p>ITEM 3. LEGAL PROCEEDINGS</p>
</body></html>`

type stubFilings struct {
	markup string
	err    error
}

func (s stubFilings) FetchLatestAnnualFiling(_ context.Context, _ string) (string, error) {
	return s.markup, s.err
}

type stubClimate struct {
	score   float64
	used    int
	skipped []models.SkippedProperty

	gotAddresses []string
}

func (s *stubClimate) ScoreAddresses(_ context.Context, addresses []string) (float64, int, []models.SkippedProperty) {
	s.gotAddresses = addresses
	return s.score, s.used, s.skipped
}

type stubCarbon struct{ score float64 }

func (s stubCarbon) ScoreTicker(string) float64 { return s.score }

type stubGovernance struct {
	byLookback map[int]float64
}

func (s stubGovernance) Score(_ context.Context, _ string, lookbackDays int) float64 {
	if v, ok := s.byLookback[lookbackDays]; ok {
		return v
	}
	return NeutralScore
}

type stubQuotes struct {
	price float64
	err   error
}

func (s stubQuotes) LatestPrice(_ context.Context, _ string) (float64, error) {
	return s.price, s.err
}

func TestScoreREITHappyPath(t *testing.T) {
	climate := &stubClimate{score: 80, used: 2}
	o := New(
		stubFilings{markup: testFiling},
		climate,
		stubCarbon{score: 60},
		stubGovernance{byLookback: map[int]float64{365: 10, 5 * 365: 40, 10 * 365: 70}},
		scoring.DefaultWeights(),
	)

	bundle, err := o.ScoreREIT(context.Background(), Input{CIK: "0000899689", Name: "Vornado Realty Trust", Ticker: "VNO"})
	require.NoError(t, err)

	assert.NotEmpty(t, bundle.RunID)
	assert.Equal(t, []string{"Harbor Tower, Boston, MA", "Lakeside Plaza, Chicago, IL"}, climate.gotAddresses)
	assert.Equal(t, 80.0, bundle.ClimateScore)
	assert.Equal(t, 60.0, bundle.CarbonScore)
	assert.Equal(t, 2, bundle.PropertiesUsed)

	// Equal weights: (80 + 60 + gov) / 3.
	assert.Equal(t, 50.0, bundle.FinalScores[models.Horizon1Y])
	assert.Equal(t, 60.0, bundle.FinalScores[models.Horizon5Y])
	assert.Equal(t, 70.0, bundle.FinalScores[models.Horizon10Y])
}

func TestScoreREITAllNeutral(t *testing.T) {
	// Nothing geocodes, no carbon dataset, no headlines: every horizon
	// lands exactly on the neutral score.
	o := New(
		stubFilings{markup: testFiling},
		&stubClimate{score: 50, used: 0},
		nil,
		stubGovernance{},
		scoring.DefaultWeights(),
	)

	bundle, err := o.ScoreREIT(context.Background(), Input{CIK: "0000899689", Ticker: "VNO"})
	require.NoError(t, err)
	for _, h := range models.Horizons {
		assert.Equal(t, 50.0, bundle.FinalScores[h], "horizon %s", h)
	}
	assert.Equal(t, 50.0, bundle.CarbonScore)
}

func TestScoreREITNoFilingIsFatal(t *testing.T) {
	o := New(stubFilings{err: ingest.ErrNoFiling}, &stubClimate{}, nil, stubGovernance{}, scoring.DefaultWeights())

	_, err := o.ScoreREIT(context.Background(), Input{CIK: "0000000000"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingest.ErrNoFiling))
}

func TestScoreREITMissingSectionIsFatal(t *testing.T) {
	o := New(stubFilings{markup: "<html><body><p>nothing here</p></body></html>"}, &stubClimate{}, nil, stubGovernance{}, scoring.DefaultWeights())

	_, err := o.ScoreREIT(context.Background(), Input{CIK: "0000899689"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, filing.ErrSectionNotFound))
}

func TestScoreREITCarriesSkipAccounting(t *testing.T) {
	skipped := []models.SkippedProperty{{Address: "Harbor Tower, Boston, MA", Reason: "geocode returned no result"}}
	o := New(
		stubFilings{markup: testFiling},
		&stubClimate{score: 65, used: 1, skipped: skipped},
		nil,
		stubGovernance{},
		scoring.DefaultWeights(),
	)

	bundle, err := o.ScoreREIT(context.Background(), Input{CIK: "0000899689"})
	require.NoError(t, err)
	assert.Equal(t, 1, bundle.PropertiesUsed)
	assert.Equal(t, skipped, bundle.Skipped)
}

func TestProjectPrices(t *testing.T) {
	o := New(stubFilings{}, &stubClimate{}, nil, stubGovernance{}, scoring.DefaultWeights())
	bundle := &models.ScoreBundle{
		Ticker: "VNO",
		FinalScores: map[models.Horizon]float64{
			models.Horizon1Y:  100,
			models.Horizon5Y:  50,
			models.Horizon10Y: 0,
		},
	}

	proj, err := o.ProjectPrices(context.Background(), bundle, stubQuotes{price: 100}, projection.DefaultBetas())
	require.NoError(t, err)
	assert.Equal(t, "VNO", proj.Ticker)
	assert.Equal(t, 100.0, proj.CurrentPrice)
	assert.Equal(t, 110.0, proj.ByHorizon[models.Horizon1Y].ProjectedPrice)
	assert.Equal(t, 100.0, proj.ByHorizon[models.Horizon5Y].ProjectedPrice)
	assert.Equal(t, 70.0, proj.ByHorizon[models.Horizon10Y].ProjectedPrice)
}

func TestProjectPricesQuoteFailure(t *testing.T) {
	o := New(stubFilings{}, &stubClimate{}, nil, stubGovernance{}, scoring.DefaultWeights())
	bundle := &models.ScoreBundle{Ticker: "VNO", FinalScores: map[models.Horizon]float64{}}

	_, err := o.ProjectPrices(context.Background(), bundle, stubQuotes{err: errors.New("rate limited")}, nil)
	require.Error(t, err)
}
