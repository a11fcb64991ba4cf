// Package carbon scores a REIT's operational carbon intensity from a
// curated emissions dataset (ticker, Scope 1+2 tonnes CO2e, gross leasable
// area in square meters). The breakpoints are intentionally coarse buckets;
// an unknown intensity maps to the neutral 50.
package carbon

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// NeutralScore is substituted when no intensity can be computed.
const NeutralScore = 50.0

// Row is one curated dataset entry.
type Row struct {
	Ticker        string
	Scope12Tonnes float64
	AreaSqm       float64

	hasTonnes bool
	hasArea   bool
}

// Dataset is the in-memory curated emissions table.
type Dataset struct {
	rows []Row
}

// NewDataset builds a dataset from pre-assembled rows. Rows with zero values
// are treated as present; use LoadCSV for missing-field semantics.
func NewDataset(rows []Row) *Dataset {
	for i := range rows {
		rows[i].hasTonnes = true
		rows[i].hasArea = true
	}
	return &Dataset{rows: rows}
}

// LoadCSV reads a dataset from a CSV file with columns
// ticker, scope12_tonnes_co2e, gross_leasable_area_sqm (any order, matched
// case-insensitively after trimming). Blank or non-numeric cells leave the
// field missing, which makes the intensity undefined for that row.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open carbon dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses dataset rows from r. The first record is the header.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	tickerIdx, tonnesIdx, areaIdx := -1, -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "ticker":
			tickerIdx = i
		case "scope12_tonnes_co2e":
			tonnesIdx = i
		case "gross_leasable_area_sqm":
			areaIdx = i
		}
	}
	if tickerIdx < 0 || tonnesIdx < 0 || areaIdx < 0 {
		return nil, fmt.Errorf("dataset header missing required columns, got %v", header)
	}

	ds := &Dataset{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}

		row := Row{Ticker: strings.TrimSpace(rec[tickerIdx])}
		if row.Ticker == "" {
			continue
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(rec[tonnesIdx]), 64); err == nil {
			row.Scope12Tonnes = v
			row.hasTonnes = true
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(rec[areaIdx]), 64); err == nil {
			row.AreaSqm = v
			row.hasArea = true
		}
		ds.rows = append(ds.rows, row)
	}
	return ds, nil
}

// IntensityKgPerSqm computes kgCO2e per square meter for the first row whose
// ticker matches case-insensitively. The second return is false when the
// ticker is absent, the area is zero or missing, or the tonnage is missing.
func (d *Dataset) IntensityKgPerSqm(ticker string) (float64, bool) {
	if d == nil {
		return 0, false
	}
	for _, row := range d.rows {
		if !strings.EqualFold(row.Ticker, ticker) {
			continue
		}
		if !row.hasTonnes || !row.hasArea || row.AreaSqm <= 0 {
			return 0, false
		}
		return row.Scope12Tonnes * 1000 / row.AreaSqm, true
	}
	return 0, false
}

// Score maps an intensity to a 0-100 risk bucket (higher = worse). The
// intervals are half-open: a value equal to a limit falls in the next
// bucket up.
func Score(kgPerSqm float64, defined bool) float64 {
	if !defined {
		return NeutralScore
	}
	switch {
	case kgPerSqm < 3:
		return 10.0
	case kgPerSqm < 8:
		return 35.0
	case kgPerSqm < 15:
		return 60.0
	case kgPerSqm < 25:
		return 80.0
	default:
		return 95.0
	}
}

// ScoreTicker is the lookup-then-map convenience used by the pipeline.
func (d *Dataset) ScoreTicker(ticker string) float64 {
	kg, ok := d.IntensityKgPerSqm(ticker)
	return Score(kg, ok)
}
