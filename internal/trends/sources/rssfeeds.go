package sources

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/trends"
)

const (
	rssFeedsSourceName = "rss_feeds"

	rssFeedsEntryLimit = 15
	rssFeedsThreshold  = 0.25
	rssFeedsFetchDelay = 2 * time.Second
)

// DefaultFeedURLs are the tech and crypto feeds monitored when the
// configuration does not override the list.
var DefaultFeedURLs = []string{
	"https://vc.ru/rss",
	"https://habr.com/ru/rss/hub/cryptocurrency/",
	"https://coindesk.com/arc/outboundfeeds/rss/",
	"https://cointelegraph.com/rss",
	"https://feeds.feedburner.com/techcrunch/startups",
}

// RSSFeedsSource polls a fixed list of editorial RSS feeds one at a
// time with an inter-feed delay. A broken feed is logged and skipped.
type RSSFeedsSource struct {
	client *http.Client
	feeds  []string
	vocab  *trends.Vocabulary
	jitter JitterFunc
	delay  time.Duration
	logger *slog.Logger
}

// NewRSSFeedsSource builds the fetcher over the given feed list. An
// empty list falls back to DefaultFeedURLs.
func NewRSSFeedsSource(client *http.Client, logger *slog.Logger, vocab *trends.Vocabulary, feeds []string, jitter JitterFunc) *RSSFeedsSource {
	if len(feeds) == 0 {
		feeds = DefaultFeedURLs
	}
	if jitter == nil {
		jitter = UniformJitter(0.6, 0.9)
	}
	return &RSSFeedsSource{
		client: client,
		feeds:  feeds,
		vocab:  vocab,
		jitter: jitter,
		delay:  rssFeedsFetchDelay,
		logger: logger.With(slog.String("source", rssFeedsSourceName)),
	}
}

// WithFetchDelay overrides the inter-feed throttle. Used by tests.
func (s *RSSFeedsSource) WithFetchDelay(d time.Duration) *RSSFeedsSource {
	s.delay = d
	return s
}

// Name implements trends.Source.
func (s *RSSFeedsSource) Name() string { return rssFeedsSourceName }

// Fetch implements trends.Source.
func (s *RSSFeedsSource) Fetch(ctx context.Context) ([]domain.TrendCandidate, error) {
	var candidates []domain.TrendCandidate
	for i, feedURL := range s.feeds {
		if i > 0 {
			if err := sleepCtx(ctx, s.delay); err != nil {
				return candidates, err
			}
		}

		entries, err := fetchFeed(ctx, s.client, feedURL, rssFeedsEntryLimit)
		if err != nil {
			s.logger.Warn("feed fetch failed, skipping",
				slog.String("feed", feedURL),
				slog.String("error", err.Error()))
			continue
		}

		host := feedDomain(feedURL)
		for _, entry := range entries {
			candidate, ok := buildCandidate(
				s.vocab,
				"rss_"+host,
				entry.Title,
				entry.Summary,
				entry.Link,
				rssFeedsThreshold,
				s.jitter,
				map[string]string{
					"published":     entry.Published,
					"source_domain": host,
				},
			)
			if ok {
				candidates = append(candidates, candidate)
			}
		}
	}

	s.logger.Debug("feeds processed", slog.Int("candidates", len(candidates)))
	return candidates, nil
}

func feedDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rssFeedsSourceName
	}
	return u.Host
}
