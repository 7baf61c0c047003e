package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/chunker"
)

const mapInstructions = "Summarize this transcript excerpt concisely, preserving speaker attribution and key points."

const reduceInstructions = "The following are partial summaries of consecutive sections of one transcript. " +
	"Combine them into a single coherent summary. Preserve speaker attribution and key points, and remove repetition."

// Summarize runs the two-phase map-reduce over the flat transcript text.
//
// Map: every chunk is summarized independently under a bounded worker pool;
// a failed request is retried once, then replaced with FailedChunkSentinel.
// Reduce: when combining is enabled and more than one summary exists, the
// joined summaries are condensed into one; if the joined text still exceeds
// the chunk size, map-reduce is applied to it recursively.
func (s *implSummarizer) Summarize(ctx context.Context, text string) (*Result, error) {
	state := StateIdle

	chunks, err := chunker.Split(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return &Result{State: StateDone}, nil
	}

	s.setState(ctx, &state, StateMapping)
	s.logger.Info(ctx, "Map phase: %d chunks, %d workers", len(chunks), s.cfg.Workers)

	summaries, failed, lastErr := s.mapPhase(ctx, chunks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		ChunkSummaries: summaries,
		FailedChunks:   failed,
	}

	if len(failed) == len(chunks) {
		s.setState(ctx, &state, StateFailed)
		result.State = StateFailed
		return result, fmt.Errorf("%w: all %d chunks failed: %w", ErrEndpointUnreachable, len(chunks), lastErr)
	}
	if len(failed) > 0 {
		s.logger.Warn(ctx, "Map phase degraded: %d of %d chunks failed", len(failed), len(chunks))
	}

	if s.cfg.Combine && len(summaries) > 1 {
		// Strict barrier: the reduce phase starts only after every map
		// result or sentinel has been collected.
		s.setState(ctx, &state, StateReducing)
		combined, err := s.reduce(ctx, joinSummaries(summaries))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Reduce failure degrades to the per-chunk summaries.
			s.logger.Warn(ctx, "Reduce phase failed, keeping chunk summaries: %v", err)
		} else {
			result.Combined = combined
		}
	} else if s.cfg.Combine && len(summaries) == 1 {
		// Reduce is a no-op for a single chunk.
		result.Combined = summaries[0]
	}

	s.setState(ctx, &state, StateDone)
	result.State = StateDone
	return result, nil
}

// mapPhase summarizes all chunks concurrently, preserving chunk order in the
// returned slice regardless of completion order. It only propagates context
// cancellation; request failures become sentinels.
func (s *implSummarizer) mapPhase(ctx context.Context, chunks []chunker.Chunk) ([]string, []int, error) {
	summaries := make([]string, len(chunks))
	failures := make([]error, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for _, c := range chunks {
		g.Go(func() error {
			summary, err := s.completeWithRetry(gctx, mapInstructions, c.Text)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn(gctx, "Chunk %d failed after retry: %v", c.Index, err)
				summaries[c.Index] = FailedChunkSentinel
				failures[c.Index] = err
				return nil
			}
			summaries[c.Index] = summary
			return nil
		})
	}
	_ = g.Wait()

	var failed []int
	var lastErr error
	for i, err := range failures {
		if err != nil {
			failed = append(failed, i)
			lastErr = err
		}
	}
	return summaries, failed, lastErr
}

// reduce condenses joined summaries into one. Oversized input is re-chunked
// and mapped again before reducing (hierarchical reduction).
func (s *implSummarizer) reduce(ctx context.Context, text string) (string, error) {
	for utf8.RuneCountInString(text) > s.cfg.ChunkSize {
		chunks, err := chunker.Split(text, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
		if err != nil {
			return "", err
		}

		s.logger.Debug(ctx, "Hierarchical reduction: %d intermediate chunks", len(chunks))

		partials, failed, lastErr := s.mapPhase(ctx, chunks)
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if len(failed) == len(chunks) {
			return "", fmt.Errorf("%w: hierarchical reduction failed: %w", ErrEndpointUnreachable, lastErr)
		}

		next := joinSummaries(partials)
		if utf8.RuneCountInString(next) >= utf8.RuneCountInString(text) {
			// The model is not condensing; stop instead of looping.
			return "", fmt.Errorf("hierarchical reduction is not converging")
		}
		text = next
	}

	return s.completeWithRetry(ctx, reduceInstructions, text)
}

// completeWithRetry issues one request and retries a failure once after a
// fixed backoff. Timeouts count as failures.
func (s *implSummarizer) completeWithRetry(ctx context.Context, instructions, text string) (string, error) {
	out, err := s.client.Complete(ctx, instructions, text)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	select {
	case <-time.After(s.retryDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return s.client.Complete(ctx, instructions, text)
}

func (s *implSummarizer) setState(ctx context.Context, state *State, next State) {
	s.logger.Debug(ctx, "Summarization state: %s -> %s", *state, next)
	*state = next
}

func joinSummaries(summaries []string) string {
	return strings.Join(summaries, "\n\n")
}
