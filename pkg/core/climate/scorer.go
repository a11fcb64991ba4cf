package climate

import (
	"context"

	"github.com/phuslu/log"

	"github.com/jasaka-rm/casandra/pkg/core/geocode"
	"github.com/jasaka-rm/casandra/pkg/core/scoring"
	"github.com/jasaka-rm/casandra/pkg/models"
)

// NeutralScore is substituted when a sub-risk or the whole climate signal
// is unavailable.
const NeutralScore = 50.0

// HeatRisk maps a maximum projected temperature (°C) to 0-100 risk:
// 30-50°C maps linearly onto 20-100, clamped.
func HeatRisk(maxTempC float64) float64 {
	return scoring.Clamp((maxTempC-30)*4 + 20)
}

// FloodRisk maps elevation (meters) to 0-100 risk through a fixed
// threshold table. Low-lying points are assumed flood-exposed.
func FloodRisk(elevationM float64) float64 {
	switch {
	case elevationM < 3:
		return 95.0
	case elevationM < 10:
		return 80.0
	case elevationM < 50:
		return 55.0
	case elevationM < 200:
		return 30.0
	default:
		return 15.0
	}
}

// Scorer aggregates per-property climate risk for a REIT. The geocoder and
// the two hazard backends are injected collaborators.
type Scorer struct {
	resolver  geocode.Resolver
	heat      HeatBackend
	elevation ElevationBackend
	logger    log.Logger
}

// NewScorer wires a climate scorer from its collaborators.
func NewScorer(resolver geocode.Resolver, heat HeatBackend, elevation ElevationBackend) *Scorer {
	return &Scorer{
		resolver:  resolver,
		heat:      heat,
		elevation: elevation,
		logger:    log.DefaultLogger,
	}
}

// PointScore computes the climate risk for one resolved point: the mean of
// the heat and flood sub-risks, each falling back to the neutral 50 when
// its backend is unavailable.
func (s *Scorer) PointScore(ctx context.Context, lat, lon float64) float64 {
	heat := NeutralScore
	if mx, err := s.heat.MaxProjectedTemp(ctx, lat, lon); err == nil {
		heat = HeatRisk(mx)
	} else {
		s.logger.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("heat backend unavailable, using neutral")
	}

	flood := NeutralScore
	if elev, err := s.elevation.Elevation(ctx, lat, lon); err == nil {
		flood = FloodRisk(elev)
	} else {
		s.logger.Warn().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("elevation backend unavailable, using neutral")
	}

	return (heat + flood) / 2.0
}

// ScoreAddresses resolves each address and averages the per-point scores.
// Geocode failures are recorded with a reason and skipped, never retried.
// With zero resolved points the REIT climate score is the neutral 50.
// The used count plus the skip list always accounts for every address.
func (s *Scorer) ScoreAddresses(ctx context.Context, addresses []string) (score float64, used int, skipped []models.SkippedProperty) {
	var sum float64

	for _, addr := range addresses {
		if addr == "" {
			skipped = append(skipped, models.SkippedProperty{Address: addr, Reason: "address missing"})
			continue
		}

		pt, err := s.resolver.Resolve(ctx, addr)
		if err != nil {
			skipped = append(skipped, models.SkippedProperty{Address: addr, Reason: "geocode failed: " + err.Error()})
			continue
		}
		if pt == nil {
			skipped = append(skipped, models.SkippedProperty{Address: addr, Reason: "geocode returned no result"})
			continue
		}

		ps := s.PointScore(ctx, pt.Lat, pt.Lon)
		s.logger.Debug().Str("address", addr).Float64("score", ps).Msg("scored property")
		sum += ps
		used++
	}

	if used == 0 {
		return NeutralScore, 0, skipped
	}
	return sum / float64(used), used, skipped
}
