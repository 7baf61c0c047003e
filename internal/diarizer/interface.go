package diarizer

import (
	"context"
	"errors"
)

// ErrModelUnavailable indicates the diarization pipeline failed to load or
// the auth token was rejected. Fatal for the current run, never retried.
var ErrModelUnavailable = errors.New("diarization model unavailable")

// Segment is a speaker-labeled time interval in seconds. Intervals for one
// speaker need not be contiguous; across speakers small gaps and overlaps
// occur because diarization is imprecise.
type Segment struct {
	Speaker string  `json:"speaker"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

// Diarizer partitions an audio file into speaker-labeled segments.
// numSpeakers 0 means auto-detect.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string, numSpeakers int) ([]Segment, error)
}
