// Package mediaengine provides clients for the audio-synthesis and
// video-rendering sidecar services. Both engines are black boxes behind
// HTTP: the core sends a text payload and gets back a file path.
package mediaengine

import "context"

// TTSEngine identifies a speech synthesis backend.
type TTSEngine string

// Supported speech synthesis backends
const (
	TTSEngineGTTS    TTSEngine = "gtts"
	TTSEnginePyttsx3 TTSEngine = "pyttsx3"
	TTSEngineCoqui   TTSEngine = "coqui"
)

// Voice identifies a synthesized voice.
type Voice string

// Supported voices
const (
	VoiceMale   Voice = "male"
	VoiceFemale Voice = "female"
)

// VideoType identifies the rendering mode of the video engine.
type VideoType string

// Supported video rendering modes
const (
	VideoTypeAnimatedText   VideoType = "animated_text"
	VideoTypeImageSlideshow VideoType = "image_slideshow"
	VideoTypeTemplateBased  VideoType = "template_based"
)

// VideoStyle identifies the visual style of a rendered video.
type VideoStyle string

// Supported video styles
const (
	VideoStyleModern   VideoStyle = "modern"
	VideoStyleClassic  VideoStyle = "classic"
	VideoStyleMinimal  VideoStyle = "minimal"
	VideoStyleColorful VideoStyle = "colorful"
	VideoStyleDark     VideoStyle = "dark"
)

// DefaultResolution is the vertical format used for TikTok and Shorts.
const DefaultResolution = "1080x1920"

// TTSRequest is the payload for one synthesis call.
type TTSRequest struct {
	Text     string  `json:"text"`
	Engine   string  `json:"engine"`
	Voice    string  `json:"voice"`
	Language string  `json:"language"`
	Speed    float64 `json:"speed"`
}

// TTSResult is the audio engine's response.
type TTSResult struct {
	Success        bool    `json:"success"`
	AudioPath      string  `json:"audio_path,omitempty"`
	Error          string  `json:"error,omitempty"`
	FileSize       int64   `json:"file_size"`
	Duration       float64 `json:"duration"`
	GenerationTime float64 `json:"generation_time"`
	EngineUsed     string  `json:"engine_used"`
}

// VideoRequest is the payload for one render call.
type VideoRequest struct {
	Text       string `json:"text"`
	Type       string `json:"type"`
	Style      string `json:"style"`
	Duration   int    `json:"duration"`
	Resolution string `json:"resolution"`
	AudioPath  string `json:"audio_path,omitempty"`
}

// VideoResult is the video engine's response.
type VideoResult struct {
	Success        bool    `json:"success"`
	VideoPath      string  `json:"video_path,omitempty"`
	Error          string  `json:"error,omitempty"`
	FileSize       int64   `json:"file_size"`
	Duration       float64 `json:"duration"`
	GenerationTime float64 `json:"generation_time"`
}

// AudioSynthesizer is the boundary to the audio engine.
type AudioSynthesizer interface {
	Synthesize(ctx context.Context, req TTSRequest) (*TTSResult, error)
}

// VideoRenderer is the boundary to the video engine.
type VideoRenderer interface {
	Render(ctx context.Context, req VideoRequest) (*VideoResult, error)
}

// EngineInfo describes the synthesis capabilities reported to clients.
type EngineInfo struct {
	Engines   []TTSEngine `json:"engines"`
	Voices    []Voice     `json:"voices"`
	Languages []string    `json:"languages"`
}

// DefaultEngineInfo lists the capabilities of the bundled engines.
func DefaultEngineInfo() EngineInfo {
	return EngineInfo{
		Engines:   []TTSEngine{TTSEngineGTTS, TTSEnginePyttsx3, TTSEngineCoqui},
		Voices:    []Voice{VoiceMale, VoiceFemale},
		Languages: []string{"ru", "en"},
	}
}

// ValidTTSEngine reports whether s names a supported synthesis backend.
func ValidTTSEngine(s string) bool {
	switch TTSEngine(s) {
	case TTSEngineGTTS, TTSEnginePyttsx3, TTSEngineCoqui:
		return true
	default:
		return false
	}
}

// ValidVoice reports whether s names a supported voice.
func ValidVoice(s string) bool {
	switch Voice(s) {
	case VoiceMale, VoiceFemale:
		return true
	default:
		return false
	}
}

// ValidVideoType reports whether s names a supported rendering mode.
func ValidVideoType(s string) bool {
	switch VideoType(s) {
	case VideoTypeAnimatedText, VideoTypeImageSlideshow, VideoTypeTemplateBased:
		return true
	default:
		return false
	}
}

// ValidVideoStyle reports whether s names a supported style.
func ValidVideoStyle(s string) bool {
	switch VideoStyle(s) {
	case VideoStyleModern, VideoStyleClassic, VideoStyleMinimal, VideoStyleColorful, VideoStyleDark:
		return true
	default:
		return false
	}
}
