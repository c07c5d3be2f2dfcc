package sources

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/trends"
)

const (
	googleTrendsSourceName = "google_trends"
	googleTrendsFeedURL    = "https://trends.google.com/trends/trendingsearches/daily/rss?geo=RU&hl=ru"

	googleTrendsEntryLimit   = 10
	googleTrendsThreshold    = 0.2
	googleTrendsQueryCount   = 5
	googleTrendsRequestDelay = time.Second
)

// GoogleTrendsSource polls the daily trending-searches feed once per
// monitored keyword. Queries run sequentially with a fixed delay to
// stay under the endpoint's rate limit; one failing query is logged
// and skipped without aborting the rest.
type GoogleTrendsSource struct {
	client  *http.Client
	feedURL string
	vocab   *trends.Vocabulary
	jitter  JitterFunc
	delay   time.Duration
	logger  *slog.Logger
}

// NewGoogleTrendsSource builds the fetcher for the Google Trends feed.
func NewGoogleTrendsSource(client *http.Client, logger *slog.Logger, vocab *trends.Vocabulary, jitter JitterFunc) *GoogleTrendsSource {
	if jitter == nil {
		jitter = UniformJitter(0.8, 1.0)
	}
	return &GoogleTrendsSource{
		client:  client,
		feedURL: googleTrendsFeedURL,
		vocab:   vocab,
		jitter:  jitter,
		delay:   googleTrendsRequestDelay,
		logger:  logger.With(slog.String("source", googleTrendsSourceName)),
	}
}

// WithFeedURL overrides the feed endpoint. Used by tests.
func (s *GoogleTrendsSource) WithFeedURL(url string) *GoogleTrendsSource {
	s.feedURL = url
	return s
}

// WithRequestDelay overrides the inter-query throttle. Used by tests.
func (s *GoogleTrendsSource) WithRequestDelay(d time.Duration) *GoogleTrendsSource {
	s.delay = d
	return s
}

// Name implements trends.Source.
func (s *GoogleTrendsSource) Name() string { return googleTrendsSourceName }

// Fetch implements trends.Source.
func (s *GoogleTrendsSource) Fetch(ctx context.Context) ([]domain.TrendCandidate, error) {
	keywords := s.vocab.Keywords
	if len(keywords) > googleTrendsQueryCount {
		keywords = keywords[:googleTrendsQueryCount]
	}

	var candidates []domain.TrendCandidate
	for i, keyword := range keywords {
		if i > 0 {
			if err := sleepCtx(ctx, s.delay); err != nil {
				return candidates, err
			}
		}

		entries, err := fetchFeed(ctx, s.client, s.feedURL, googleTrendsEntryLimit)
		if err != nil {
			s.logger.Warn("trending query failed, skipping keyword",
				slog.String("keyword", keyword),
				slog.String("error", err.Error()))
			continue
		}

		for _, entry := range entries {
			candidate, ok := buildCandidate(
				s.vocab,
				googleTrendsSourceName,
				entry.Title,
				entry.Summary,
				entry.Link,
				googleTrendsThreshold,
				s.jitter,
				map[string]string{
					"published":     entry.Published,
					"search_volume": "high",
				},
			)
			if ok {
				candidates = append(candidates, candidate)
			}
		}
	}

	s.logger.Debug("trending queries processed", slog.Int("candidates", len(candidates)))
	return candidates, nil
}
