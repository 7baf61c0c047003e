package summarizer

import (
	"fmt"
	"time"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/chunker"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/llm"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
)

type implSummarizer struct {
	cfg        config.SummaryConfig
	client     llm.Client
	logger     logger.Logger
	retryDelay time.Duration
}

// New creates a Summarizer. Chunk parameters are rejected here, before any
// request is issued.
func New(cfg config.SummaryConfig, client llm.Client, log logger.Logger) (Summarizer, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: overlap %d, size %d", chunker.ErrInvalidOverlap, cfg.ChunkOverlap, cfg.ChunkSize)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	return &implSummarizer{
		cfg:        cfg,
		client:     client,
		logger:     log,
		retryDelay: 2 * time.Second,
	}, nil
}
