// Package ingest provides SEC EDGAR API integration for fetching company
// filings. API documentation: https://www.sec.gov/developer
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/phuslu/log"
)

const (
	// DefaultSubmissionsBase hosts the JSON submissions API.
	DefaultSubmissionsBase = "https://data.sec.gov"

	// DefaultArchivesBase hosts filing documents and the ticker mapping.
	DefaultArchivesBase = "https://www.sec.gov"

	// DefaultUserAgent identifies the caller as SEC guidelines require.
	DefaultUserAgent = "Casandra ESG Research (contact@jasaka-rm.dev)"

	// DefaultRequestDelay is the polite pause between successive SEC
	// requests.
	DefaultRequestDelay = 2 * time.Second

	// DefaultTimeout bounds each SEC request.
	DefaultTimeout = 30 * time.Second
)

// ErrNoFiling is returned when no qualifying annual filing exists for the
// company key. Fatal for a scoring run.
var ErrNoFiling = errors.New("no annual filing found in recent submissions")

// CompanyInfo is the top-level submissions response.
type CompanyInfo struct {
	CIK     string   `json:"cik"`
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
	Filings Filings  `json:"filings"`
}

// Filings contains the recent filing list.
type Filings struct {
	Recent RecentFilings `json:"recent"`
}

// RecentFilings holds parallel arrays of filing attributes, exactly as the
// submissions API serializes them.
type RecentFilings struct {
	AccessionNumber []string `json:"accessionNumber"`
	FilingDate      []string `json:"filingDate"`
	Form            []string `json:"form"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// Filing is a single annual filing, denormalized from the parallel arrays.
type Filing struct {
	AccessionNumber string
	FilingDate      time.Time
	Form            string
	PrimaryDocument string
	URL             string
}

// Client fetches filings from SEC EDGAR.
type Client struct {
	submissionsBase string
	archivesBase    string
	userAgent       string
	httpClient      *http.Client
	requestDelay    time.Duration
	logger          log.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURLs overrides the SEC endpoints, for tests.
func WithBaseURLs(submissionsBase, archivesBase string) Option {
	return func(c *Client) {
		c.submissionsBase = submissionsBase
		c.archivesBase = archivesBase
	}
}

// WithUserAgent sets the SEC-required identification header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRequestDelay overrides the polite inter-request pause.
func WithRequestDelay(d time.Duration) Option {
	return func(c *Client) {
		c.requestDelay = d
	}
}

// NewClient creates a SEC EDGAR client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		submissionsBase: DefaultSubmissionsBase,
		archivesBase:    DefaultArchivesBase,
		userAgent:       DefaultUserAgent,
		httpClient:      &http.Client{Timeout: DefaultTimeout},
		requestDelay:    DefaultRequestDelay,
		logger:          log.DefaultLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCompanyInfo retrieves company submission data. The CIK is
// zero-padded to 10 digits automatically.
func (c *Client) FetchCompanyInfo(ctx context.Context, cik string) (*CompanyInfo, error) {
	padded := fmt.Sprintf("%010s", strings.TrimLeft(cik, "0"))
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.submissionsBase, padded)

	body, err := c.get(ctx, url, "application/json")
	if err != nil {
		return nil, fmt.Errorf("submissions request for CIK %s failed: %w", cik, err)
	}

	var info CompanyInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse submissions response: %w", err)
	}
	return &info, nil
}

// LatestAnnualFiling picks the most recent 10-K from the submissions data
// and constructs its archive download URL.
func (c *Client) LatestAnnualFiling(info *CompanyInfo) (*Filing, error) {
	recent := info.Filings.Recent
	// The submissions API serializes filings as parallel arrays; never
	// index past the shortest one.
	n := len(recent.AccessionNumber)
	for _, arr := range [][]string{recent.Form, recent.FilingDate, recent.PrimaryDocument} {
		if len(arr) < n {
			n = len(arr)
		}
	}
	for i := 0; i < n; i++ {
		if recent.Form[i] != "10-K" {
			continue
		}
		filingDate, _ := time.Parse("2006-01-02", recent.FilingDate[i])
		accNoDashes := strings.ReplaceAll(recent.AccessionNumber[i], "-", "")
		cikNoZeros := strings.TrimLeft(info.CIK, "0")
		return &Filing{
			AccessionNumber: recent.AccessionNumber[i],
			FilingDate:      filingDate,
			Form:            recent.Form[i],
			PrimaryDocument: recent.PrimaryDocument[i],
			URL: fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
				c.archivesBase, cikNoZeros, accNoDashes, recent.PrimaryDocument[i]),
		}, nil
	}
	return nil, ErrNoFiling
}

// FetchLatestAnnualFiling downloads the primary document of the most
// recent 10-K as raw markup text. This is the filing-repository contract
// the pipeline consumes.
func (c *Client) FetchLatestAnnualFiling(ctx context.Context, cik string) (string, error) {
	info, err := c.FetchCompanyInfo(ctx, cik)
	if err != nil {
		return "", err
	}

	filing, err := c.LatestAnnualFiling(info)
	if err != nil {
		return "", err
	}
	c.logger.Info().Str("cik", cik).Str("accession", filing.AccessionNumber).Str("url", filing.URL).Msg("downloading annual filing")

	c.pause(ctx)

	body, err := c.get(ctx, filing.URL, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", fmt.Errorf("filing download failed: %w", err)
	}
	return string(body), nil
}

// LookupCIKByTicker resolves a ticker symbol through the SEC's
// company_tickers.json mapping.
func (c *Client) LookupCIKByTicker(ctx context.Context, ticker string) (string, error) {
	body, err := c.get(ctx, c.archivesBase+"/files/company_tickers.json", "application/json")
	if err != nil {
		return "", fmt.Errorf("ticker mapping request failed: %w", err)
	}

	// Shape: { "0": {"cik_str": 320193, "ticker": "AAPL", "title": "..."}, ... }
	var mapping map[string]struct {
		CIK    int    `json:"cik_str"`
		Ticker string `json:"ticker"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(body, &mapping); err != nil {
		return "", fmt.Errorf("failed to parse ticker mapping: %w", err)
	}

	ticker = strings.ToUpper(ticker)
	for _, entry := range mapping {
		if entry.Ticker == ticker {
			return fmt.Sprintf("%010d", entry.CIK), nil
		}
	}
	return "", fmt.Errorf("ticker %s not found in SEC database", ticker)
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SEC returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// pause sleeps for the polite delay unless the context ends first.
func (c *Client) pause(ctx context.Context) {
	if c.requestDelay <= 0 {
		return
	}
	select {
	case <-time.After(c.requestDelay):
	case <-ctx.Done():
	}
}
