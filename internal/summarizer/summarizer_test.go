package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/chunker"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
)

// fakeClient records calls and answers via fn. Safe for concurrent use.
type fakeClient struct {
	mu    sync.Mutex
	calls []fakeCall
	fn    func(instructions, text string) (string, error)
}

type fakeCall struct {
	instructions string
	text         string
}

func (f *fakeClient) Complete(ctx context.Context, instructions, text string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{instructions, text})
	f.mu.Unlock()
	return f.fn(instructions, text)
}

func (f *fakeClient) callCount(instructions string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.instructions == instructions {
			n++
		}
	}
	return n
}

func newTestSummarizer(t *testing.T, cfg config.SummaryConfig, client *fakeClient) *implSummarizer {
	t.Helper()
	s, err := New(cfg, client, logger.New("error"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	impl := s.(*implSummarizer)
	impl.retryDelay = time.Millisecond
	return impl
}

func TestNewRejectsInvalidOverlap(t *testing.T) {
	_, err := New(config.SummaryConfig{ChunkSize: 100, ChunkOverlap: 100}, &fakeClient{}, logger.New("error"))
	if !errors.Is(err, chunker.ErrInvalidOverlap) {
		t.Errorf("New() error = %v, want ErrInvalidOverlap", err)
	}
}

func TestSummarizeWithoutCombine(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, "word%d ", i)
	}
	text := sb.String()
	cfg := config.SummaryConfig{ChunkSize: 300, ChunkOverlap: 30, Combine: false, Workers: 4}

	chunks, err := chunker.Split(text, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 3 {
		t.Fatalf("test needs several chunks, got %d", len(chunks))
	}

	// Earlier chunks sleep longer so completion order is the reverse of
	// chunk order; output order must still follow chunk index.
	client := &fakeClient{fn: func(_, chunkText string) (string, error) {
		for i, c := range chunks {
			if c.Text == chunkText {
				time.Sleep(time.Duration(len(chunks)-i) * 5 * time.Millisecond)
				return fmt.Sprintf("sum-%d", i), nil
			}
		}
		return "", errors.New("unexpected chunk text")
	}}

	s := newTestSummarizer(t, cfg, client)
	result, err := s.Summarize(context.Background(), text)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if result.State != StateDone {
		t.Errorf("State = %v, want DONE", result.State)
	}
	if result.Combined != "" {
		t.Errorf("Combined = %q, want empty with combine disabled", result.Combined)
	}
	if len(result.ChunkSummaries) != len(chunks) {
		t.Fatalf("got %d summaries, want %d", len(result.ChunkSummaries), len(chunks))
	}
	for i := range chunks {
		if want := fmt.Sprintf("sum-%d", i); result.ChunkSummaries[i] != want {
			t.Errorf("summary[%d] = %q, want %q (index alignment)", i, result.ChunkSummaries[i], want)
		}
	}
}

func TestSummarizeCombineSingleChunk(t *testing.T) {
	client := &fakeClient{fn: func(_, _ string) (string, error) {
		return "the only summary", nil
	}}

	cfg := config.SummaryConfig{ChunkSize: 1000, ChunkOverlap: 100, Combine: true, Workers: 2}
	s := newTestSummarizer(t, cfg, client)

	result, err := s.Summarize(context.Background(), "a short transcript")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if result.Combined != "the only summary" {
		t.Errorf("Combined = %q, want the chunk summary unchanged", result.Combined)
	}
	if n := client.callCount(reduceInstructions); n != 0 {
		t.Errorf("reduce calls = %d, want 0 for a single chunk", n)
	}
	if result.State != StateDone {
		t.Errorf("State = %v, want DONE", result.State)
	}
}

func TestSummarizeCombineMultipleChunks(t *testing.T) {
	client := &fakeClient{fn: func(instructions, _ string) (string, error) {
		if instructions == reduceInstructions {
			return "combined summary", nil
		}
		return "part", nil
	}}

	cfg := config.SummaryConfig{ChunkSize: 200, ChunkOverlap: 20, Combine: true, Workers: 3}
	s := newTestSummarizer(t, cfg, client)

	result, err := s.Summarize(context.Background(), strings.Repeat("b", 600))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if result.Combined != "combined summary" {
		t.Errorf("Combined = %q", result.Combined)
	}
	if n := client.callCount(reduceInstructions); n != 1 {
		t.Errorf("reduce calls = %d, want 1", n)
	}
}

// A chunk that fails twice gets a sentinel; the run still completes.
func TestSummarizePartialFailure(t *testing.T) {
	var mu sync.Mutex
	failures := 0

	client := &fakeClient{fn: func(_, chunkText string) (string, error) {
		if strings.HasPrefix(chunkText, "FAIL") {
			mu.Lock()
			failures++
			mu.Unlock()
			return "", errors.New("connection reset")
		}
		return "ok", nil
	}}

	// Three chunks of exactly 100 runes each; the middle one fails.
	text := strings.Repeat("a", 100) + "FAIL" + strings.Repeat("b", 96) + strings.Repeat("c", 100)
	cfg := config.SummaryConfig{ChunkSize: 100, ChunkOverlap: 0, Combine: false, Workers: 2}
	s := newTestSummarizer(t, cfg, client)

	result, err := s.Summarize(context.Background(), text)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if result.State != StateDone {
		t.Errorf("State = %v, want DONE despite a failed chunk", result.State)
	}
	if len(result.ChunkSummaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(result.ChunkSummaries))
	}
	if result.ChunkSummaries[0] != "ok" || result.ChunkSummaries[2] != "ok" {
		t.Errorf("healthy chunks = %q, %q, want ok", result.ChunkSummaries[0], result.ChunkSummaries[2])
	}
	if result.ChunkSummaries[1] != FailedChunkSentinel {
		t.Errorf("failed chunk summary = %q, want sentinel", result.ChunkSummaries[1])
	}
	if len(result.FailedChunks) != 1 || result.FailedChunks[0] != 1 {
		t.Errorf("FailedChunks = %v, want [1]", result.FailedChunks)
	}
	if failures != 2 {
		t.Errorf("failed chunk attempts = %d, want 2 (initial + one retry)", failures)
	}
}

func TestSummarizeAllChunksFail(t *testing.T) {
	client := &fakeClient{fn: func(_, _ string) (string, error) {
		return "", errors.New("connection refused")
	}}

	cfg := config.SummaryConfig{ChunkSize: 100, ChunkOverlap: 10, Combine: true, Workers: 2}
	s := newTestSummarizer(t, cfg, client)

	result, err := s.Summarize(context.Background(), strings.Repeat("x", 400))
	if !errors.Is(err, ErrEndpointUnreachable) {
		t.Errorf("Summarize() error = %v, want ErrEndpointUnreachable", err)
	}
	if result == nil || result.State != StateFailed {
		t.Errorf("result = %+v, want State FAILED", result)
	}
}

// When joined chunk summaries exceed the chunk size, the reduce phase
// re-chunks and maps again before the final combine request.
func TestSummarizeHierarchicalReduction(t *testing.T) {
	client := &fakeClient{fn: func(instructions, text string) (string, error) {
		if instructions == reduceInstructions {
			return "final", nil
		}
		if strings.ContainsRune(text, 'z') {
			// First-level map: summaries long enough that the joined
			// text will not fit in one reduce request.
			return strings.Repeat("m", 80), nil
		}
		// Second-level map over joined first-level summaries.
		return "tiny", nil
	}}

	cfg := config.SummaryConfig{ChunkSize: 100, ChunkOverlap: 10, Combine: true, Workers: 2}
	s := newTestSummarizer(t, cfg, client)

	// 3+ first-level chunks, each summarized to 80 runes: joined summaries
	// exceed the 100-rune chunk size and force hierarchical reduction.
	result, err := s.Summarize(context.Background(), strings.Repeat("z", 400))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if result.Combined != "final" {
		t.Errorf("Combined = %q, want final", result.Combined)
	}
	if n := client.callCount(reduceInstructions); n != 1 {
		t.Errorf("reduce calls = %d, want exactly 1", n)
	}
	if n := client.callCount(mapInstructions); n <= 3 {
		t.Errorf("map calls = %d, want extra second-level map calls", n)
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	client := &fakeClient{fn: func(_, _ string) (string, error) {
		t.Error("no request should be issued for empty text")
		return "", nil
	}}

	cfg := config.SummaryConfig{ChunkSize: 100, ChunkOverlap: 10, Workers: 2}
	s := newTestSummarizer(t, cfg, client)

	result, err := s.Summarize(context.Background(), "")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if result.State != StateDone || len(result.ChunkSummaries) != 0 {
		t.Errorf("result = %+v, want empty DONE result", result)
	}
}

func TestSummarizeCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	client := &fakeClient{fn: func(_, _ string) (string, error) {
		cancel()
		return "", ctx.Err()
	}}

	cfg := config.SummaryConfig{ChunkSize: 100, ChunkOverlap: 10, Workers: 1}
	s := newTestSummarizer(t, cfg, client)

	_, err := s.Summarize(ctx, strings.Repeat("y", 300))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Summarize() error = %v, want context.Canceled", err)
	}
}

func TestResultText(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"combined wins", Result{ChunkSummaries: []string{"a", "b"}, Combined: "c"}, "c"},
		{"chunks joined", Result{ChunkSummaries: []string{"a", "b"}}, "a\n\nb"},
		{"empty", Result{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}
