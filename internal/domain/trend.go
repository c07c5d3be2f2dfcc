package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for trends
var (
	ErrEmptyTrendTitle  = errors.New("trend title cannot be empty")
	ErrEmptyTrendSource = errors.New("trend source cannot be empty")
	ErrTrendScoreRange  = errors.New("trend popularity score must be between 0 and 1")
)

// TrendCandidate is an unranked, unpersisted topic record produced by one
// source fetch. Candidates are merged, deduplicated and ranked by the
// aggregator; only the survivors become durable Trend records.
type TrendCandidate struct {
	Keyword         string            `json:"keyword"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Source          string            `json:"source"`
	URL             string            `json:"url,omitempty"`
	PopularityScore float64           `json:"popularity_score"`
	Hashtags        []string          `json:"hashtags"`
	DiscoveredAt    time.Time         `json:"discovered_at"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Trend is a persisted topic record that survived dedup and ranking.
// Trends are immutable after creation; retention is an external concern.
type Trend struct {
	ID              uuid.UUID         `json:"id"`
	Keyword         string            `json:"keyword"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Source          string            `json:"source"`
	URL             string            `json:"url,omitempty"`
	PopularityScore float64           `json:"popularity_score"`
	Hashtags        []string          `json:"hashtags"`
	DiscoveredAt    time.Time         `json:"discovered_at"`
	LastUpdated     time.Time         `json:"last_updated"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// NewTrendFromCandidate promotes an aggregated candidate to a durable Trend.
func NewTrendFromCandidate(c TrendCandidate) (*Trend, error) {
	t := &Trend{
		ID:              uuid.New(),
		Keyword:         c.Keyword,
		Title:           c.Title,
		Description:     c.Description,
		Source:          c.Source,
		URL:             c.URL,
		PopularityScore: c.PopularityScore,
		Hashtags:        c.Hashtags,
		DiscoveredAt:    c.DiscoveredAt,
		LastUpdated:     time.Now().UTC(),
		Metadata:        c.Metadata,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that the Trend has valid data.
func (t *Trend) Validate() error {
	if t.Title == "" {
		return ErrEmptyTrendTitle
	}
	if t.Source == "" {
		return ErrEmptyTrendSource
	}
	if t.PopularityScore < 0 || t.PopularityScore > 1 {
		return ErrTrendScoreRange
	}
	return nil
}
