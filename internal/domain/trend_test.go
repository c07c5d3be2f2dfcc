package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

func validCandidate() domain.TrendCandidate {
	return domain.TrendCandidate{
		Keyword:         "telegram",
		Title:           "Telegram boty razdayut podarki",
		Description:     "Novye boty",
		Source:          "youtube",
		URL:             "https://example.com/watch",
		PopularityScore: 0.8,
		Hashtags:        []string{"#telegram", "#подарки"},
		DiscoveredAt:    time.Now().UTC(),
		Metadata:        map[string]string{"search_volume": "high"},
	}
}

func TestNewTrendFromCandidate(t *testing.T) {
	t.Parallel()

	t.Run("copies candidate fields", func(t *testing.T) {
		t.Parallel()
		c := validCandidate()
		trend, err := domain.NewTrendFromCandidate(c)
		require.NoError(t, err)

		assert.Equal(t, c.Keyword, trend.Keyword)
		assert.Equal(t, c.Title, trend.Title)
		assert.Equal(t, c.Source, trend.Source)
		assert.Equal(t, c.PopularityScore, trend.PopularityScore)
		assert.Equal(t, c.Hashtags, trend.Hashtags)
		assert.Equal(t, c.Metadata, trend.Metadata)
		assert.False(t, trend.LastUpdated.IsZero())
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		t.Parallel()
		c := validCandidate()
		c.Title = ""
		_, err := domain.NewTrendFromCandidate(c)
		assert.ErrorIs(t, err, domain.ErrEmptyTrendTitle)
	})

	t.Run("empty source is rejected", func(t *testing.T) {
		t.Parallel()
		c := validCandidate()
		c.Source = ""
		_, err := domain.NewTrendFromCandidate(c)
		assert.ErrorIs(t, err, domain.ErrEmptyTrendSource)
	})

	t.Run("score outside unit interval is rejected", func(t *testing.T) {
		t.Parallel()
		c := validCandidate()
		c.PopularityScore = 1.2
		_, err := domain.NewTrendFromCandidate(c)
		assert.ErrorIs(t, err, domain.ErrTrendScoreRange)
	})
}
