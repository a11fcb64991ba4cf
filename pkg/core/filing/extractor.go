package filing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jasaka-rm/casandra/pkg/models"
)

// DefaultMaxProperties caps how many records an extraction returns when the
// caller does not supply a limit. Geocoding is rate-limited, so every extra
// property costs wall-clock time.
const DefaultMaxProperties = 10

// Extractor runs the strategy fallback chain over filing markup.
type Extractor struct {
	strategies []ExtractionStrategy
	max        int
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithMaxProperties overrides the record cap. Values <= 0 keep the default.
func WithMaxProperties(n int) ExtractorOption {
	return func(e *Extractor) {
		if n > 0 {
			e.max = n
		}
	}
}

// WithStrategies replaces the default strategy chain.
func WithStrategies(strategies ...ExtractionStrategy) ExtractorOption {
	return func(e *Extractor) {
		e.strategies = strategies
	}
}

// NewExtractor creates an extractor with the standard chain: header-matched
// table grids, then the region row walk, then the regex sweep.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		strategies: []ExtractionStrategy{
			HeaderTableStrategy{},
			RegionWalkStrategy{},
			RegexSweepStrategy{},
		},
		max: DefaultMaxProperties,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses the markup once and tries each strategy in order,
// returning the first non-empty result deduplicated by exact address text
// (first-seen order, capped after deduplication). An empty result is not an
// error: downstream substitutes the neutral climate default.
func (e *Extractor) Extract(markup string) ([]models.PropertyRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	for _, s := range e.strategies {
		if records := s.Extract(doc); len(records) > 0 {
			return e.dedupe(records), nil
		}
	}
	return nil, nil
}

func (e *Extractor) dedupe(records []models.PropertyRecord) []models.PropertyRecord {
	seen := make(map[string]bool, len(records))
	out := make([]models.PropertyRecord, 0, len(records))
	for _, r := range records {
		if r.Address == "" || seen[r.Address] {
			continue
		}
		seen[r.Address] = true
		out = append(out, r)
		if len(out) == e.max {
			break
		}
	}
	return out
}
