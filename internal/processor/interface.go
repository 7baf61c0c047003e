package processor

import (
	"context"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/align"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/summarizer"
)

// Result is the output of one pipeline run. Transcript fields are populated
// whenever alignment succeeded; a summarization failure is recorded in
// SummaryErr without invalidating them.
type Result struct {
	Records    []align.Record
	Lines      []string
	Transcript string
	Summary    *summarizer.Result
	SummaryErr error
}

// Processor runs the full diarize → transcribe → align → format → summarize
// pipeline for one audio file
type Processor interface {
	Process(ctx context.Context, audioPath string) (*Result, error)
}
