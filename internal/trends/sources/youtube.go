package sources

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pulsefeed/pulse-api/internal/domain"
	"github.com/pulsefeed/pulse-api/internal/trends"
)

const (
	youtubeSourceName = "youtube"
	youtubeFeedURL    = "https://www.youtube.com/feeds/trending.xml"

	youtubeEntryLimit = 20
	youtubeThreshold  = 0.3
)

// YouTubeSource scrapes the public YouTube trending feed. It needs no
// API key; the feed is a plain Atom document.
type YouTubeSource struct {
	client  *http.Client
	feedURL string
	vocab   *trends.Vocabulary
	jitter  JitterFunc
	logger  *slog.Logger
}

// NewYouTubeSource builds the fetcher for the YouTube trending feed.
// A nil jitter gets the production trust range for this source.
func NewYouTubeSource(client *http.Client, logger *slog.Logger, vocab *trends.Vocabulary, jitter JitterFunc) *YouTubeSource {
	if jitter == nil {
		jitter = UniformJitter(0.7, 1.0)
	}
	return &YouTubeSource{
		client:  client,
		feedURL: youtubeFeedURL,
		vocab:   vocab,
		jitter:  jitter,
		logger:  logger.With(slog.String("source", youtubeSourceName)),
	}
}

// WithFeedURL overrides the feed endpoint. Used by tests.
func (s *YouTubeSource) WithFeedURL(url string) *YouTubeSource {
	s.feedURL = url
	return s
}

// Name implements trends.Source.
func (s *YouTubeSource) Name() string { return youtubeSourceName }

// Fetch implements trends.Source.
func (s *YouTubeSource) Fetch(ctx context.Context) ([]domain.TrendCandidate, error) {
	entries, err := fetchFeed(ctx, s.client, s.feedURL, youtubeEntryLimit)
	if err != nil {
		return nil, err
	}

	var candidates []domain.TrendCandidate
	for _, entry := range entries {
		candidate, ok := buildCandidate(
			s.vocab,
			youtubeSourceName,
			entry.Title,
			entry.Summary,
			entry.Link,
			youtubeThreshold,
			s.jitter,
			map[string]string{
				"published": entry.Published,
				"author":    entry.Author,
			},
		)
		if ok {
			candidates = append(candidates, candidate)
		}
	}

	s.logger.Debug("feed processed",
		slog.Int("entries", len(entries)),
		slog.Int("candidates", len(candidates)))
	return candidates, nil
}
