package api

// Request models for the API endpoints. Responses serialize the domain
// structures directly; their JSON tags are the wire format.

// CreateTaskRequest is the payload for POST /api/tasks.
type CreateTaskRequest struct {
	Type       string         `json:"type"       validate:"required"`
	Parameters map[string]any `json:"parameters"`
}

// MonitorTrendsRequest is the payload for POST /api/trends/monitor.
type MonitorTrendsRequest struct {
	Sources []string `json:"sources"`
}

// CreateContentRequest is the payload for POST /api/content.
type CreateContentRequest struct {
	Type        string   `json:"type"        validate:"required"`
	Title       string   `json:"title"       validate:"required"`
	Topic       string   `json:"topic"       validate:"required"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Platforms   []string `json:"platforms"`
}

// TTSRequest is the payload for POST /api/tts.
type TTSRequest struct {
	Text     string  `json:"text"     validate:"required"`
	Engine   string  `json:"engine"`
	Voice    string  `json:"voice"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed"    validate:"gte=0,lte=3"`
}

// VideoRequest is the payload for POST /api/video.
type VideoRequest struct {
	Text       string `json:"text"       validate:"required"`
	VideoType  string `json:"video_type"`
	Style      string `json:"style"`
	Duration   int    `json:"duration"   validate:"gte=0,lte=600"`
	Resolution string `json:"resolution"`
	AudioPath  string `json:"audio_path"`
}

// ContentFromTrendResponse is returned by POST /api/trends/{id}/content.
type ContentFromTrendResponse struct {
	ContentID string `json:"content_id"`
	TaskID    string `json:"task_id"`
}
