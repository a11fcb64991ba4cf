// Package governance scores governance/controversy risk from headline
// sentiment. Headlines come from the Google News RSS search feed; sentiment
// is a VADER lexicon compound per title, inverted so that negative coverage
// raises risk.
package governance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

// DefaultFeedURL is the Google News RSS search endpoint.
const DefaultFeedURL = "https://news.google.com/rss/search"

// DefaultTimeout bounds each feed request so a stalled feed cannot hang
// the run.
const DefaultTimeout = 30 * time.Second

// Headline is one news entry. Entries the feed leaves undated are stamped
// with the fetch time, so they always count as fresh.
type Headline struct {
	Title       string
	PublishedAt time.Time
}

// HeadlineProvider retrieves recent headlines for a query. maxCount bounds
// how many entries are taken from the feed regardless of window width.
type HeadlineProvider interface {
	Headlines(ctx context.Context, query string, maxCount int) ([]Headline, error)
}

// GoogleNewsClient implements HeadlineProvider over Google News RSS.
type GoogleNewsClient struct {
	feedURL string
	parser  *gofeed.Parser
}

// NewGoogleNewsClient creates a Google News RSS client. The userAgent
// identifies the caller on feed requests. A nil httpClient gets the default
// bounded-timeout client.
func NewGoogleNewsClient(feedURL, userAgent string, httpClient *http.Client) *GoogleNewsClient {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = httpClient
	return &GoogleNewsClient{feedURL: feedURL, parser: parser}
}

// Headlines fetches and decodes the search feed for the query.
func (c *GoogleNewsClient) Headlines(ctx context.Context, query string, maxCount int) ([]Headline, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "en-GB")
	params.Set("gl", "GB")
	params.Set("ceid", "GB:en")

	feed, err := c.parser.ParseURLWithContext(c.feedURL+"?"+params.Encode(), ctx)
	if err != nil {
		return nil, fmt.Errorf("news feed fetch failed: %w", err)
	}

	now := time.Now().UTC()
	out := make([]Headline, 0, maxCount)
	for _, item := range feed.Items {
		if maxCount > 0 && len(out) >= maxCount {
			break
		}
		h := Headline{Title: item.Title, PublishedAt: now}
		if item.PublishedParsed != nil {
			h.PublishedAt = item.PublishedParsed.UTC()
		}
		out = append(out, h)
	}
	return out, nil
}
