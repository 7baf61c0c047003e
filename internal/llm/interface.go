package llm

import (
	"context"
	"errors"
)

// ErrUnreachable indicates the endpoint could not be reached at all, as
// opposed to answering with an error.
var ErrUnreachable = errors.New("llm endpoint unreachable")

// Client is the single summarization capability the pipeline depends on.
// Concurrency, retry and chunk-failure policy live above this abstraction.
type Client interface {
	Complete(ctx context.Context, instructions, text string) (string, error)
}
