// Package sources contains the external feed fetchers that produce
// trend candidates for the aggregator. Each fetcher is scoped to one
// provider and fully isolates its own failures.
package sources

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/trends"
)

// browserUserAgent is sent with every feed request; several providers
// reject requests with default client user agents.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// maxDescriptionChars bounds the description carried on a candidate.
const maxDescriptionChars = 500

// JitterFunc returns a source-trust multiplier applied to the relevance
// score. Production uses UniformJitter; tests inject a constant.
type JitterFunc func() float64

// UniformJitter draws a multiplier uniformly from [lo, hi].
func UniformJitter(lo, hi float64) JitterFunc {
	return func() float64 {
		return lo + rand.Float64()*(hi-lo)
	}
}

// FixedJitter always returns m. Intended for tests and deterministic runs.
func FixedJitter(m float64) JitterFunc {
	return func() float64 { return m }
}

// buildCandidate scores a raw feed entry and converts it into a trend
// candidate. Entries whose relevance does not exceed threshold are
// discarded (ok=false).
func buildCandidate(
	vocab *trends.Vocabulary,
	source, title, description, url string,
	threshold float64,
	jitter JitterFunc,
	metadata map[string]string,
) (domain.TrendCandidate, bool) {
	description = stripHTML(description)
	text := title + " " + description

	relevance := vocab.Score(text)
	if relevance <= threshold {
		return domain.TrendCandidate{}, false
	}

	return domain.TrendCandidate{
		Keyword:         vocab.MainKeyword(title),
		Title:           title,
		Description:     truncateChars(description, maxDescriptionChars),
		Source:          source,
		URL:             url,
		PopularityScore: relevance * jitter(),
		Hashtags:        vocab.ExtractHashtags(text),
		DiscoveredAt:    time.Now().UTC(),
		Metadata:        metadata,
	}, true
}

// stripHTML flattens feed summaries that arrive as HTML fragments into
// plain text. Unparseable input is returned as-is.
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

func truncateChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// sleepCtx waits for d or until ctx is done, whichever comes first.
// Used for the inter-request throttle inside multi-query sources.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
