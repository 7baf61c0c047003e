package diarizer

import (
	"net/http"
	"time"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
)

type implDiarizer struct {
	cfg    config.DiarizerConfig
	logger logger.Logger
	client *http.Client
}

// New creates a Diarizer backed by a pyannote-style diarization server
func New(cfg config.DiarizerConfig, log logger.Logger) Diarizer {
	return &implDiarizer{
		cfg:    cfg,
		logger: log,
		client: &http.Client{Timeout: 30 * time.Minute},
	}
}
