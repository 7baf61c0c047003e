package processor

import (
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/diarizer"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/summarizer"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/transcriber"
	"github.com/PaperSelbsthilfegruppe/Transcibio/pkg/executor"
)

type implProcessor struct {
	cfg         *config.Config
	diarizer    diarizer.Diarizer
	transcriber transcriber.Transcriber
	summarizer  summarizer.Summarizer
	executor    executor.Executor
	logger      logger.Logger
}

// New creates a Processor. A nil Summarizer disables the summarization step;
// transcription and alignment still run.
func New(
	cfg *config.Config,
	d diarizer.Diarizer,
	t transcriber.Transcriber,
	s summarizer.Summarizer,
	exec executor.Executor,
	log logger.Logger,
) Processor {
	return &implProcessor{
		cfg:         cfg,
		diarizer:    d,
		transcriber: t,
		summarizer:  s,
		executor:    exec,
		logger:      log,
	}
}
