package transcriber

import (
	"context"
	"errors"
)

// ErrModelUnavailable indicates the transcription model failed to load or
// authenticate. Fatal for the current run, never retried.
var ErrModelUnavailable = errors.New("transcription model unavailable")

// Word is a single transcribed word with its timestamps in seconds.
// Words are ordered by start time and do not overlap.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// Transcriber converts an audio file into timestamped words
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]Word, error)
}
