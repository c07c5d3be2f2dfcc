package task

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyText is returned when a synthesis task has no text to work with.
var ErrEmptyText = errors.New("text must not be empty")

// Task parameters are stored as an open map; executors decode them into
// the typed structures below immediately on read so that unknown keys
// are ignored in exactly one place and every recognized key is named.

// TrendMonitoringParams configures a trend_monitoring run.
type TrendMonitoringParams struct {
	// Sources limits the run to the named sources. Empty means all
	// registered sources.
	Sources []string `json:"sources"`
}

// ContentGenerationParams configures a content_generation run.
type ContentGenerationParams struct {
	ContentID     string `json:"content_id"`
	SourceTrendID string `json:"source_trend_id"`
	AutoGenerated bool   `json:"auto_generated"`
}

// TTSGenerationParams configures a tts_generation run.
type TTSGenerationParams struct {
	Text     string  `json:"text"`
	Engine   string  `json:"engine"`
	Voice    string  `json:"voice"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed"`
}

// VideoGenerationParams configures a video_generation run.
type VideoGenerationParams struct {
	Text       string `json:"text"`
	VideoType  string `json:"video_type"`
	Style      string `json:"style"`
	Duration   int    `json:"duration"`
	Resolution string `json:"resolution"`
	AudioPath  string `json:"audio_path"`
}

// decodeParams converts the open parameter map into a typed structure
// via a JSON round trip. Unknown keys are dropped silently; type
// mismatches on recognized keys are an error.
func decodeParams(parameters map[string]any, out any) error {
	raw, err := json.Marshal(parameters)
	if err != nil {
		return fmt.Errorf("encoding task parameters: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding task parameters: %w", err)
	}
	return nil
}
