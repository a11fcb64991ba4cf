package governance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>search results</title>
<item><title>REIT faces governance lawsuit</title><pubDate>Mon, 06 Jan 2025 10:00:00 GMT</pubDate></item>
<item><title>Undated controversy item</title></item>
<item><title>Third item</title><pubDate>Tue, 07 Jan 2025 10:00:00 GMT</pubDate></item>
</channel>
</rss>`

func TestGoogleNewsClientHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Acme REIT governance OR controversy OR lawsuit", r.URL.Query().Get("q"))
		assert.Equal(t, "en-GB", r.URL.Query().Get("hl"))
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	c := NewGoogleNewsClient(srv.URL, "casandra-test/1.0", nil)
	headlines, err := c.Headlines(context.Background(), "Acme REIT governance OR controversy OR lawsuit", 50)
	require.NoError(t, err)
	require.Len(t, headlines, 3)

	assert.Equal(t, "REIT faces governance lawsuit", headlines[0].Title)
	assert.Equal(t, time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC), headlines[0].PublishedAt)

	// Undated entries are stamped with the fetch time so they count as fresh.
	assert.WithinDuration(t, time.Now().UTC(), headlines[1].PublishedAt, time.Minute)
}

func TestGoogleNewsClientCapsEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedXML))
	}))
	defer srv.Close()

	c := NewGoogleNewsClient(srv.URL, "casandra-test/1.0", nil)
	headlines, err := c.Headlines(context.Background(), "q", 2)
	require.NoError(t, err)
	assert.Len(t, headlines, 2)
}

func TestGoogleNewsClientBoundsRequests(t *testing.T) {
	// The default feed client must carry a timeout; otherwise a stalled
	// feed blocks the whole run.
	c := NewGoogleNewsClient("", "casandra-test/1.0", nil)
	require.NotNil(t, c.parser.Client)
	assert.Equal(t, DefaultTimeout, c.parser.Client.Timeout)

	custom := &http.Client{Timeout: 5 * time.Second}
	c = NewGoogleNewsClient("", "casandra-test/1.0", custom)
	assert.Same(t, custom, c.parser.Client)
}

func TestGoogleNewsClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewGoogleNewsClient(srv.URL, "casandra-test/1.0", nil)
	_, err := c.Headlines(context.Background(), "q", 50)
	require.Error(t, err)
}
