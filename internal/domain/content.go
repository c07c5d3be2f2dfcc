package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContentType represents the kind of content artifact to produce.
type ContentType string

// Possible content type values
const (
	ContentTypeVideo ContentType = "video"
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
	ContentTypeAudio ContentType = "audio"
)

// ContentStatus tracks the editorial state of a content record.
type ContentStatus string

// Possible content status values
const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusReady     ContentStatus = "ready"
	ContentStatusPublished ContentStatus = "published"
)

// Platform identifies a publishing destination.
type Platform string

// Possible platform values
const (
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTelegram  Platform = "telegram"
)

// Common validation errors for Content
var (
	ErrEmptyContentTitle  = errors.New("content title cannot be empty")
	ErrEmptyContentTopic  = errors.New("content topic cannot be empty")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrInvalidPlatform    = errors.New("invalid platform")
	ErrContentPublished   = errors.New("published content cannot be modified")
)

// Content is a content draft. It starts as a draft, is enriched by the
// content generation flow (script, audio, video paths) and eventually
// becomes ready for publishing.
type Content struct {
	ID               uuid.UUID     `json:"id"`
	Type             ContentType   `json:"type"`
	Title            string        `json:"title"`
	Topic            string        `json:"topic"`
	Description      string        `json:"description,omitempty"`
	Keywords         []string      `json:"keywords"`
	Script           string        `json:"script,omitempty"`
	AudioPath        string        `json:"audio_path,omitempty"`
	VideoPath        string        `json:"video_path,omitempty"`
	Status           ContentStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	GenerationTaskID *uuid.UUID    `json:"generation_task_id,omitempty"`
	TargetPlatforms  []Platform    `json:"target_platforms"`
	SourceTrendID    *uuid.UUID    `json:"source_trend_id,omitempty"`
}

// NewContent creates a new draft Content record.
func NewContent(
	contentType ContentType,
	title string,
	topic string,
	description string,
	keywords []string,
	platforms []Platform,
) (*Content, error) {
	if keywords == nil {
		keywords = []string{}
	}
	if platforms == nil {
		platforms = []Platform{}
	}

	now := time.Now().UTC()
	c := &Content{
		ID:              uuid.New(),
		Type:            contentType,
		Title:           title,
		Topic:           topic,
		Description:     description,
		Keywords:        keywords,
		Status:          ContentStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
		TargetPlatforms: platforms,
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MarkReady transitions the content out of draft once generation has
// filled in its artifacts. Published content is immutable.
func (c *Content) MarkReady() error {
	if c.Status == ContentStatusPublished {
		return ErrContentPublished
	}
	c.Status = ContentStatusReady
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks that the Content has valid data.
func (c *Content) Validate() error {
	if !isValidContentType(c.Type) {
		return ErrInvalidContentType
	}
	if c.Title == "" {
		return ErrEmptyContentTitle
	}
	if c.Topic == "" {
		return ErrEmptyContentTopic
	}
	for _, p := range c.TargetPlatforms {
		if !isValidPlatform(p) {
			return ErrInvalidPlatform
		}
	}
	return nil
}

// ContentIdea is a draft content proposal derived from a Trend via fixed
// phrase templates. Ideas are ephemeral: they inform escalation decisions
// and are reported as counts, never persisted as their own entity.
type ContentIdea struct {
	Type                ContentType `json:"type"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Keywords            []string    `json:"keywords"`
	SourceTrend         string      `json:"source_trend"`
	EstimatedPopularity float64     `json:"estimated_popularity"`
	Platforms           []Platform  `json:"platforms"`
}

// ParseContentType converts a string into a ContentType.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(s)
	if !isValidContentType(ct) {
		return "", ErrInvalidContentType
	}
	return ct, nil
}

// ParsePlatform converts a string into a Platform.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !isValidPlatform(p) {
		return "", ErrInvalidPlatform
	}
	return p, nil
}

func isValidContentType(t ContentType) bool {
	switch t {
	case ContentTypeVideo, ContentTypeText, ContentTypeImage, ContentTypeAudio:
		return true
	default:
		return false
	}
}

func isValidPlatform(p Platform) bool {
	switch p {
	case PlatformTikTok, PlatformYouTube, PlatformInstagram, PlatformTelegram:
		return true
	default:
		return false
	}
}
