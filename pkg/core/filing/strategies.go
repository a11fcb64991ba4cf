package filing

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jasaka-rm/casandra/pkg/models"
)

// ExtractionStrategy is one heuristic for pulling property records out of
// markup. Each strategy is independent and independently testable; the
// extractor tries them in order and stops at the first non-empty result.
type ExtractionStrategy interface {
	Name() string
	Extract(doc *goquery.Document) []models.PropertyRecord
}

// tableGrid flattens a table into cleaned row/column text cells. Rows with
// no cells are dropped.
func tableGrid(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, CleanCell(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows
}

// =============================================================================
// STRATEGY A - header-matched table grids
// =============================================================================

// HeaderTableStrategy accepts only tables whose header carries both a
// property column and a location column, then emits "<property>, <location>"
// per valid data row. Section-banner rows (e.g. "Retail" with an empty
// location) are dropped.
type HeaderTableStrategy struct{}

func (HeaderTableStrategy) Name() string { return "header-table" }

// bannerLabels are section banners that masquerade as property rows.
var bannerLabels = map[string]bool{
	"residential communities": true,
	"office building":         true,
	"office buildings":        true,
	"retail":                  true,
	"industrial":              true,
}

func (HeaderTableStrategy) Extract(doc *goquery.Document) []models.PropertyRecord {
	var out []models.PropertyRecord
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := tableGrid(table)
		if len(rows) < 2 {
			return
		}
		propIdx, locIdx, dataStart := findHeaderColumns(rows)
		if propIdx < 0 || locIdx < 0 {
			return
		}
		for _, row := range rows[dataStart:] {
			if propIdx >= len(row) || locIdx >= len(row) {
				continue
			}
			prop, loc := row[propIdx], row[locIdx]
			if prop == "" || loc == "" || bannerLabels[strings.ToLower(prop)] {
				continue
			}
			out = append(out, models.PropertyRecord{
				Name:    prop,
				Address: prop + ", " + loc,
			})
		}
	})
	return out
}

// findHeaderColumns locates the property and location columns. Multi-row
// headers are flattened by joining each column's non-empty fragments from
// the first N rows; matching is a case-insensitive substring check after
// whitespace normalization.
func findHeaderColumns(rows [][]string) (propIdx, locIdx, dataStart int) {
	maxDepth := 3
	if len(rows)-1 < maxDepth {
		maxDepth = len(rows) - 1
	}

	for depth := 1; depth <= maxDepth; depth++ {
		width := 0
		for _, r := range rows[:depth] {
			if len(r) > width {
				width = len(r)
			}
		}

		propIdx, locIdx = -1, -1
		for col := 0; col < width; col++ {
			var parts []string
			for _, r := range rows[:depth] {
				if col < len(r) && r[col] != "" {
					parts = append(parts, r[col])
				}
			}
			header := strings.ToLower(strings.Join(parts, " "))
			if propIdx < 0 && strings.Contains(header, "propert") {
				propIdx = col
			} else if locIdx < 0 && strings.Contains(header, "location") {
				locIdx = col
			}
		}
		if propIdx >= 0 && locIdx >= 0 {
			return propIdx, locIdx, depth
		}
	}
	return -1, -1, 0
}

// =============================================================================
// STRATEGY B - row walk with a running region header
// =============================================================================

// RegionWalkStrategy walks table rows directly. After a header row
// containing "property" plus "% ownership" or "type", a single-cell
// all-caps row ending in a colon (e.g. "NEW YORK:") switches the current
// region, which is appended to subsequent property names until the region
// changes again. The region context is an accumulator threaded through the
// row walk, never package state.
type RegionWalkStrategy struct{}

func (RegionWalkStrategy) Name() string { return "region-walk" }

var regionBannerRe = regexp.MustCompile(`^[A-Z][A-Z\s.,&'-]*:$`)

func (RegionWalkStrategy) Extract(doc *goquery.Document) []models.PropertyRecord {
	var out []models.PropertyRecord
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		headerSeen := false
		region := ""
		for _, row := range tableGrid(table) {
			flat := strings.ToLower(strings.Join(row, " "))
			if !headerSeen {
				if strings.Contains(flat, "property") &&
					(strings.Contains(flat, "% ownership") || strings.Contains(flat, "type")) {
					headerSeen = true
				}
				continue
			}

			if cell, ok := soleCell(row); ok && regionBannerRe.MatchString(cell) {
				region = titleCase(strings.TrimSuffix(cell, ":"))
				continue
			}

			name := row[0]
			if name == "" || strings.EqualFold(name, "property") || strings.EqualFold(name, "properties") {
				continue
			}
			rec := models.PropertyRecord{Name: name, Region: region, Address: name}
			if region != "" {
				rec.Address = name + ", " + region
			}
			out = append(out, rec)
		}
	})
	return out
}

// soleCell returns the row's only non-empty cell, if there is exactly one.
func soleCell(row []string) (string, bool) {
	found := ""
	for _, c := range row {
		if c == "" {
			continue
		}
		if found != "" {
			return "", false
		}
		found = c
	}
	return found, found != ""
}

// =============================================================================
// STRATEGY C - regex sweep over rows and bullet items
// =============================================================================

// RegexSweepStrategy is the last resort: any table row or list item whose
// flattened text contains a "City, ST" pattern or a known country name is
// emitted verbatim as the address.
type RegexSweepStrategy struct{}

func (RegexSweepStrategy) Name() string { return "regex-sweep" }

var cityStateRe = regexp.MustCompile(`\b[A-Z][A-Za-z]+(?: [A-Z][A-Za-z]+)*, ?[A-Z]{2}\b`)

var countryNames = []string{
	"United States", "Canada", "United Kingdom", "France", "Germany",
	"Spain", "Italy", "Netherlands", "Japan", "China", "Singapore",
	"Australia", "Mexico", "Brazil", "India",
}

func (RegexSweepStrategy) Extract(doc *goquery.Document) []models.PropertyRecord {
	var out []models.PropertyRecord
	emit := func(text string) {
		text = CleanCell(text)
		if text == "" {
			return
		}
		if cityStateRe.MatchString(text) || containsCountry(text) {
			out = append(out, models.PropertyRecord{Name: text, Address: text})
		}
	}

	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			if t := CleanCell(cell.Text()); t != "" {
				cells = append(cells, t)
			}
		})
		if len(cells) > 0 {
			emit(strings.Join(cells, " "))
		}
	})
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		emit(li.Text())
	})
	return out
}

func containsCountry(text string) bool {
	for _, c := range countryNames {
		if strings.Contains(text, c) {
			return true
		}
	}
	return false
}
