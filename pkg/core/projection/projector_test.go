package projection

import (
	"math"
	"testing"

	"github.com/jasaka-rm/casandra/pkg/models"
)

func TestAdjustment(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		beta  float64
		want  float64
	}{
		{"Neutral score moves nothing", 50, 0.10, 0},
		{"Max score moves full beta", 100, 0.10, 0.10},
		{"Min score moves full negative beta", 0, 0.30, -0.30},
		{"Score 60 at beta 0.10", 60, 0.10, 0.02},
		{"Score 40 at beta 0.10", 40, 0.10, -0.02},
		{"Out-of-range score clamped", 150, 0.10, 0.10},
		{"Negative score clamped", -20, 0.20, -0.20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Adjustment(tt.score, tt.beta)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Adjustment(%v, %v) = %v, want %v", tt.score, tt.beta, got, tt.want)
			}
		})
	}
}

func TestProjectNeutralScores(t *testing.T) {
	scores := map[models.Horizon]float64{
		models.Horizon1Y:  50,
		models.Horizon5Y:  50,
		models.Horizon10Y: 50,
	}

	proj := Project(100.0, scores, nil)

	if len(proj.ByHorizon) != 3 {
		t.Fatalf("expected 3 horizons, got %d", len(proj.ByHorizon))
	}
	for h, hp := range proj.ByHorizon {
		if hp.AdjustmentPct != 0 {
			t.Errorf("%s: adjustment = %v, want 0", h, hp.AdjustmentPct)
		}
		if hp.ProjectedPrice != 100.0 {
			t.Errorf("%s: price = %v, want 100.0", h, hp.ProjectedPrice)
		}
	}
}

func TestProjectMaxScore(t *testing.T) {
	scores := map[models.Horizon]float64{models.Horizon1Y: 100}
	betas := Betas{models.Horizon1Y: 0.10}

	proj := Project(100.0, scores, betas)

	hp, ok := proj.ByHorizon[models.Horizon1Y]
	if !ok {
		t.Fatal("missing 1y projection")
	}
	if math.Abs(hp.AdjustmentPct-0.10) > 1e-9 {
		t.Errorf("adjustment = %v, want 0.10", hp.AdjustmentPct)
	}
	if hp.ProjectedPrice != 110.00 {
		t.Errorf("price = %v, want 110.00", hp.ProjectedPrice)
	}
}

func TestProjectSkipsHorizonsWithoutBeta(t *testing.T) {
	scores := map[models.Horizon]float64{
		models.Horizon1Y: 80,
		models.Horizon5Y: 80,
	}
	betas := Betas{models.Horizon1Y: 0.10}

	proj := Project(50.0, scores, betas)

	if _, ok := proj.ByHorizon[models.Horizon5Y]; ok {
		t.Error("5y projection should be omitted without a beta")
	}
	if _, ok := proj.ByHorizon[models.Horizon1Y]; !ok {
		t.Error("1y projection should be present")
	}
}
