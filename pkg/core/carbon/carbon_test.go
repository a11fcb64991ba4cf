package carbon

import (
	"strings"
	"testing"
)

func TestScoreBreakpoints(t *testing.T) {
	tests := []struct {
		kg   float64
		want float64
	}{
		{2.99, 10},
		{3.0, 35},
		{7.99, 35},
		{8.0, 60},
		{14.99, 60},
		{15.0, 80},
		{24.99, 80},
		{25.0, 95},
		{0, 10},
		{1000, 95},
	}

	for _, tt := range tests {
		if got := Score(tt.kg, true); got != tt.want {
			t.Errorf("Score(%v) = %v, want %v", tt.kg, got, tt.want)
		}
	}
}

func TestScoreUndefinedIsNeutral(t *testing.T) {
	if got := Score(0, false); got != NeutralScore {
		t.Errorf("Score(undefined) = %v, want %v", got, NeutralScore)
	}
}

func TestIntensityLookup(t *testing.T) {
	csvData := strings.Join([]string{
		"Ticker, Scope12_Tonnes_CO2e, Gross_Leasable_Area_SQM",
		"SPG,120000,20000000",
		"VNO,50000,0",
		"BXP,,1000000",
		"noarea,1234,",
	}, "\n")

	ds, err := ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	tests := []struct {
		name    string
		ticker  string
		wantKg  float64
		wantOK  bool
	}{
		{"Case-insensitive match", "spg", 6.0, true},
		{"Zero area undefined", "VNO", 0, false},
		{"Missing tonnage undefined", "BXP", 0, false},
		{"Missing area undefined", "NOAREA", 0, false},
		{"Unknown ticker", "AMT", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kg, ok := ds.IntensityKgPerSqm(tt.ticker)
			if ok != tt.wantOK || kg != tt.wantKg {
				t.Errorf("IntensityKgPerSqm(%q) = (%v, %v), want (%v, %v)",
					tt.ticker, kg, ok, tt.wantKg, tt.wantOK)
			}
		})
	}
}

func TestScoreTicker(t *testing.T) {
	ds := NewDataset([]Row{
		{Ticker: "SPG", Scope12Tonnes: 120000, AreaSqm: 20000000}, // 6 kg/sqm
	})

	if got := ds.ScoreTicker("SPG"); got != 35.0 {
		t.Errorf("ScoreTicker(SPG) = %v, want 35.0", got)
	}
	if got := ds.ScoreTicker("MISSING"); got != NeutralScore {
		t.Errorf("ScoreTicker(MISSING) = %v, want neutral %v", got, NeutralScore)
	}
}

func TestReadCSVRejectsBadHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("symbol,tonnes,area\nSPG,1,2"))
	if err == nil {
		t.Fatal("expected error for missing required columns")
	}
}
