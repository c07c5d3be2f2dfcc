package mediaengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultRequestTimeout = 120 * time.Second

// HTTPAudioClient talks to the audio engine sidecar over HTTP.
type HTTPAudioClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPAudioClient creates a client for the audio engine at baseURL.
// A nil httpClient gets a default with a generous timeout; synthesis of
// long texts is slow.
func NewHTTPAudioClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *HTTPAudioClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &HTTPAudioClient{
		baseURL: baseURL,
		client:  httpClient,
		logger:  logger.With(slog.String("component", "audio_engine_client")),
	}
}

// Synthesize implements AudioSynthesizer.
func (c *HTTPAudioClient) Synthesize(ctx context.Context, req TTSRequest) (*TTSResult, error) {
	var res TTSResult
	if err := postJSON(ctx, c.client, c.baseURL+"/synthesize", req, &res); err != nil {
		return nil, fmt.Errorf("audio engine: %w", err)
	}

	c.logger.Debug("synthesis response",
		slog.Bool("success", res.Success),
		slog.String("engine_used", res.EngineUsed))
	return &res, nil
}

// HTTPVideoClient talks to the video engine sidecar over HTTP.
type HTTPVideoClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPVideoClient creates a client for the video engine at baseURL.
func NewHTTPVideoClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *HTTPVideoClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &HTTPVideoClient{
		baseURL: baseURL,
		client:  httpClient,
		logger:  logger.With(slog.String("component", "video_engine_client")),
	}
}

// Render implements VideoRenderer.
func (c *HTTPVideoClient) Render(ctx context.Context, req VideoRequest) (*VideoResult, error) {
	if req.Resolution == "" {
		req.Resolution = DefaultResolution
	}

	var res VideoResult
	if err := postJSON(ctx, c.client, c.baseURL+"/render", req, &res); err != nil {
		return nil, fmt.Errorf("video engine: %w", err)
	}

	c.logger.Debug("render response",
		slog.Bool("success", res.Success),
		slog.String("video_path", res.VideoPath))
	return &res, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("engine returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

var (
	_ AudioSynthesizer = (*HTTPAudioClient)(nil)
	_ VideoRenderer    = (*HTTPVideoClient)(nil)
)
