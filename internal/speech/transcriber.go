package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/volumio-labs/volumio-api/internal/logger"
	"github.com/volumio-labs/volumio-api/internal/models"
)

// Diagnostic messages shown in place of a transcript when recognition fails.
const (
	msgAudioUnclear   = "audio unclear, please retry"
	msgServiceError   = "speech service error"
	msgUnexpectedPref = "unexpected error: "
)

// Transcriber converts raw recorded audio bytes into normalized text.
// Every failure is recovered into a non-success TranscriptionResult; Process
// never fails outward. One attempt per call - retry policy belongs to the
// caller.
type Transcriber struct {
	recognizer Recognizer
	language   string
}

// NewTranscriber creates a Transcriber using the given recognition backend and
// spoken-language hint.
func NewTranscriber(recognizer Recognizer, language string) *Transcriber {
	return &Transcriber{
		recognizer: recognizer,
		language:   language,
	}
}

// Process submits the audio to the recognition backend and returns the
// lower-cased transcript on success. On failure the result carries a
// human-readable diagnostic and Succeeded is false.
func (t *Transcriber) Process(ctx context.Context, audio []byte) models.TranscriptionResult {
	transcript, err := t.recognizer.Recognize(ctx, audio, t.language)

	switch {
	case err == nil:
		return models.TranscriptionResult{
			Text:      strings.ToLower(strings.TrimSpace(transcript)),
			Succeeded: true,
		}

	case errors.Is(err, ErrNotUnderstood):
		logger.Warn("speech recognition could not understand audio", logger.Fields{
			"recognizer": t.recognizer.Name(),
		})
		return models.TranscriptionResult{Text: msgAudioUnclear, Succeeded: false}

	case errors.Is(err, ErrServiceUnavailable):
		logger.Error("speech recognition service unavailable", err, logger.Fields{
			"recognizer": t.recognizer.Name(),
		})
		return models.TranscriptionResult{Text: msgServiceError, Succeeded: false}

	default:
		logger.Error("unexpected error in audio processing", err, logger.Fields{
			"recognizer": t.recognizer.Name(),
		})
		return models.TranscriptionResult{
			Text:      fmt.Sprintf("%s%v", msgUnexpectedPref, err),
			Succeeded: false,
		}
	}
}
