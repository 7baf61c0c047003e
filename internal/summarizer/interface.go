package summarizer

import (
	"context"
	"errors"
)

// ErrEndpointUnreachable indicates every chunk request failed after retry,
// i.e. the summarization endpoint is effectively down. Already-computed
// transcript output is unaffected.
var ErrEndpointUnreachable = errors.New("summarization endpoint unreachable")

// FailedChunkSentinel replaces the summary of a chunk whose request failed
// twice. A single failed chunk degrades the output but never aborts the run.
const FailedChunkSentinel = "[summary unavailable for this section]"

// State of a summarization run:
// IDLE → MAPPING → (REDUCING | DONE) → DONE | FAILED
type State string

const (
	StateIdle     State = "IDLE"
	StateMapping  State = "MAPPING"
	StateReducing State = "REDUCING"
	StateDone     State = "DONE"
	StateFailed   State = "FAILED"
)

// Result of one map-reduce run. ChunkSummaries is always index-aligned to
// the input chunks; Combined is set only when the reduce phase ran.
type Result struct {
	ChunkSummaries []string
	Combined       string
	FailedChunks   []int
	State          State
}

// Text returns the combined summary when present, otherwise the ordered
// chunk summaries joined by blank lines.
func (r *Result) Text() string {
	if r.Combined != "" {
		return r.Combined
	}
	return joinSummaries(r.ChunkSummaries)
}

// Summarizer runs map-reduce summarization over a flat transcript
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*Result, error)
}
