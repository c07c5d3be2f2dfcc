package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefeed/pulse-api/internal/trends"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rssBody(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Test</title>` + strings.Join(items, "") + `</channel></rss>`
}

func rssItem(title, description string) string {
	return fmt.Sprintf(
		`<item><title>%s</title><description>%s</description><link>https://example.com/a</link><pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate></item>`,
		title, description)
}

func atomBody(entries ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"><title>Test</title>` + strings.Join(entries, "") + `</feed>`
}

func atomEntry(title, summary string) string {
	return fmt.Sprintf(
		`<entry><title>%s</title><summary>%s</summary><link href="https://example.com/v"/><published>2024-01-02T15:04:05Z</published><author><name>creator</name></author></entry>`,
		title, summary)
}

func serveBody(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchFeed(t *testing.T) {
	t.Run("parses rss items", func(t *testing.T) {
		srv := serveBody(t, rssBody(
			rssItem("First", "one"),
			rssItem("Second", "two"),
		))

		entries, err := fetchFeed(context.Background(), srv.Client(), srv.URL, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "First", entries[0].Title)
		assert.Equal(t, "one", entries[0].Summary)
		assert.Equal(t, "https://example.com/a", entries[0].Link)
	})

	t.Run("parses atom entries", func(t *testing.T) {
		srv := serveBody(t, atomBody(atomEntry("Video", "about bots")))

		entries, err := fetchFeed(context.Background(), srv.Client(), srv.URL, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Video", entries[0].Title)
		assert.Equal(t, "about bots", entries[0].Summary)
		assert.Equal(t, "https://example.com/v", entries[0].Link)
		assert.Equal(t, "creator", entries[0].Author)
	})

	t.Run("applies entry limit", func(t *testing.T) {
		srv := serveBody(t, rssBody(
			rssItem("a", ""), rssItem("b", ""), rssItem("c", ""),
		))

		entries, err := fetchFeed(context.Background(), srv.Client(), srv.URL, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("sends browser user agent", func(t *testing.T) {
		var agent atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agent.Store(r.UserAgent())
			_, _ = io.WriteString(w, rssBody())
		}))
		t.Cleanup(srv.Close)

		_, err := fetchFeed(context.Background(), srv.Client(), srv.URL, 0)
		require.NoError(t, err)
		assert.Equal(t, browserUserAgent, agent.Load())
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		t.Cleanup(srv.Close)

		_, err := fetchFeed(context.Background(), srv.Client(), srv.URL, 0)
		assert.ErrorContains(t, err, "status 429")
	})

	t.Run("garbage body is a parse error", func(t *testing.T) {
		srv := serveBody(t, "not xml at all")

		_, err := fetchFeed(context.Background(), srv.Client(), srv.URL, 0)
		assert.ErrorContains(t, err, "parsing feed")
	})
}

func TestBuildCandidate(t *testing.T) {
	vocab := trends.DefaultVocabulary()

	t.Run("relevant entry becomes a candidate", func(t *testing.T) {
		c, ok := buildCandidate(vocab, "youtube",
			"Telegram bot giveaway", "free gift codes inside",
			"https://example.com", 0.3, FixedJitter(1.0), nil)

		require.True(t, ok)
		assert.Equal(t, "telegram", c.Keyword)
		assert.Equal(t, "youtube", c.Source)
		assert.InDelta(t, 1.0, c.PopularityScore, 1e-9)
		assert.NotEmpty(t, c.Hashtags)
		assert.False(t, c.DiscoveredAt.IsZero())
	})

	t.Run("irrelevant entry is discarded", func(t *testing.T) {
		_, ok := buildCandidate(vocab, "youtube",
			"Cooking pasta at home", "a simple recipe",
			"", 0.3, FixedJitter(1.0), nil)
		assert.False(t, ok)
	})

	t.Run("score at the threshold is discarded", func(t *testing.T) {
		// "nft" alone scores exactly 0.2.
		_, ok := buildCandidate(vocab, "google_trends",
			"nft", "", "", 0.2, FixedJitter(1.0), nil)
		assert.False(t, ok)
	})

	t.Run("jitter scales the relevance score", func(t *testing.T) {
		c, ok := buildCandidate(vocab, "rss_feeds",
			"Telegram update", "", "", 0.2, FixedJitter(0.6), nil)

		require.True(t, ok)
		assert.InDelta(t, 0.5*0.6, c.PopularityScore, 1e-9)
	})

	t.Run("description truncates to 500 characters", func(t *testing.T) {
		long := strings.Repeat("п", 600)
		c, ok := buildCandidate(vocab, "youtube",
			"Telegram news", long, "", 0.2, FixedJitter(1.0), nil)

		require.True(t, ok)
		assert.Len(t, []rune(c.Description), 500)
	})

	t.Run("html summaries are flattened", func(t *testing.T) {
		c, ok := buildCandidate(vocab, "rss_feeds",
			"Telegram digest", "<p>free <b>gift</b> codes</p>", "", 0.2, FixedJitter(1.0), nil)

		require.True(t, ok)
		assert.Equal(t, "free gift codes", c.Description)
	})
}

func TestYouTubeSource(t *testing.T) {
	vocab := trends.DefaultVocabulary()

	t.Run("scores and filters feed entries", func(t *testing.T) {
		srv := serveBody(t, atomBody(
			atomEntry("Telegram bot showcase", "free gift codes"),
			atomEntry("Morning yoga routine", "stretching basics"),
		))

		src := NewYouTubeSource(srv.Client(), discardLogger(), vocab, FixedJitter(1.0)).
			WithFeedURL(srv.URL)

		candidates, err := src.Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "Telegram bot showcase", candidates[0].Title)
		assert.Equal(t, "youtube", candidates[0].Source)
		assert.Equal(t, "creator", candidates[0].Metadata["author"])
	})

	t.Run("unreachable feed is an error", func(t *testing.T) {
		srv := serveBody(t, "")
		url := srv.URL
		srv.Close()

		src := NewYouTubeSource(http.DefaultClient, discardLogger(), vocab, FixedJitter(1.0)).
			WithFeedURL(url)

		_, err := src.Fetch(context.Background())
		assert.Error(t, err)
	})
}

func TestGoogleTrendsSource(t *testing.T) {
	vocab := trends.DefaultVocabulary()

	t.Run("queries once per monitored keyword", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			_, _ = io.WriteString(w, rssBody(rssItem("Telegram trend", "")))
		}))
		t.Cleanup(srv.Close)

		src := NewGoogleTrendsSource(srv.Client(), discardLogger(), vocab, FixedJitter(1.0)).
			WithFeedURL(srv.URL).
			WithRequestDelay(time.Millisecond)

		candidates, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(googleTrendsQueryCount), hits.Load())
		assert.Len(t, candidates, googleTrendsQueryCount)
		assert.Equal(t, "google_trends", candidates[0].Source)
		assert.Equal(t, "high", candidates[0].Metadata["search_volume"])
	})

	t.Run("failing query skips to the next keyword", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = io.WriteString(w, rssBody(rssItem("Telegram trend", "")))
		}))
		t.Cleanup(srv.Close)

		src := NewGoogleTrendsSource(srv.Client(), discardLogger(), vocab, FixedJitter(1.0)).
			WithFeedURL(srv.URL).
			WithRequestDelay(time.Millisecond)

		candidates, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(googleTrendsQueryCount), hits.Load())
		assert.Len(t, candidates, googleTrendsQueryCount-1)
	})

	t.Run("cancelled context stops remaining queries", func(t *testing.T) {
		srv := serveBody(t, rssBody(rssItem("Telegram trend", "")))

		src := NewGoogleTrendsSource(srv.Client(), discardLogger(), vocab, FixedJitter(1.0)).
			WithFeedURL(srv.URL).
			WithRequestDelay(50 * time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := src.Fetch(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRSSFeedsSource(t *testing.T) {
	vocab := trends.DefaultVocabulary()

	t.Run("broken feed does not stop the rest", func(t *testing.T) {
		good := serveBody(t, rssBody(rssItem("Telegram crypto digest", "bitcoin news")))
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(bad.Close)

		src := NewRSSFeedsSource(http.DefaultClient, discardLogger(), vocab,
			[]string{bad.URL, good.URL}, FixedJitter(1.0)).
			WithFetchDelay(time.Millisecond)

		candidates, err := src.Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "Telegram crypto digest", candidates[0].Title)
	})

	t.Run("source name carries the feed host", func(t *testing.T) {
		srv := serveBody(t, rssBody(rssItem("Telegram crypto digest", "")))

		src := NewRSSFeedsSource(srv.Client(), discardLogger(), vocab,
			[]string{srv.URL}, FixedJitter(1.0))

		candidates, err := src.Fetch(context.Background())
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.True(t, strings.HasPrefix(candidates[0].Source, "rss_"))
		assert.NotEmpty(t, candidates[0].Metadata["source_domain"])
	})

	t.Run("empty feed list falls back to defaults", func(t *testing.T) {
		src := NewRSSFeedsSource(http.DefaultClient, discardLogger(), vocab, nil, nil)
		assert.Equal(t, DefaultFeedURLs, src.feeds)
	})
}
