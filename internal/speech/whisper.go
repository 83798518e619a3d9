package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	defaultWhisperBaseURL = "https://api.openai.com/v1"
	defaultWhisperModel   = "whisper-1"
	whisperTimeout        = 60 * time.Second
)

// WhisperConfig holds configuration for the Whisper-compatible HTTP backend.
type WhisperConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.openai.com/v1"
	Model   string // default: "whisper-1"
}

// WhisperRecognizer transcribes audio through a Whisper-compatible
// transcription endpoint (OpenAI's hosted API or a local whisper.cpp server).
type WhisperRecognizer struct {
	cfg        WhisperConfig
	httpClient *http.Client
}

// NewWhisperRecognizer creates a WhisperRecognizer with defaults applied.
func NewWhisperRecognizer(cfg WhisperConfig) *WhisperRecognizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultWhisperBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultWhisperModel
	}
	return &WhisperRecognizer{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: whisperTimeout,
		},
	}
}

func (w *WhisperRecognizer) Name() string { return "whisper" }

// Recognize uploads the audio bytes as a multipart request and returns the
// transcript. Empty transcripts map to ErrNotUnderstood, transport and server
// failures to ErrServiceUnavailable.
func (w *WhisperRecognizer) Recognize(ctx context.Context, audio []byte, language string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "recording.wav")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err = fw.Write(audio); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}

	_ = mw.WriteField("model", w.cfg.Model)
	_ = mw.WriteField("response_format", "json")
	if language != "" {
		_ = mw.WriteField("language", language)
	}

	if err = mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if w.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+w.cfg.APIKey)
	}

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrServiceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrServiceUnavailable, resp.StatusCode, string(respBody))
	}

	var apiResp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	transcript := strings.TrimSpace(apiResp.Text)
	if transcript == "" {
		return "", ErrNotUnderstood
	}
	return transcript, nil
}
