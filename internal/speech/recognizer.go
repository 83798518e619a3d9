// Package speech converts recorded audio into normalized text.
package speech

import (
	"context"
	"errors"
)

// Recognition failure kinds. Implementations wrap transport details but must
// surface one of these sentinels so the Transcriber can classify the failure.
var (
	// ErrNotUnderstood means the service processed the audio but recognized
	// no utterance.
	ErrNotUnderstood = errors.New("speech not understood")

	// ErrServiceUnavailable means the recognition service could not be
	// reached or answered with a server error.
	ErrServiceUnavailable = errors.New("speech service unavailable")
)

// Recognizer is the interface for speech-to-text backends.
type Recognizer interface {
	// Recognize converts raw recorded audio into a transcript. The audio
	// container/encoding is passed through opaquely to the backend.
	Recognize(ctx context.Context, audio []byte, language string) (string, error)

	// Name returns the backend name (for logging).
	Name() string
}
