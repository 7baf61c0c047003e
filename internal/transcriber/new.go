package transcriber

import (
	"fmt"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
	"github.com/PaperSelbsthilfegruppe/Transcibio/pkg/executor"
)

// New creates a Transcriber for the configured backend
func New(cfg config.TranscriberConfig, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.Backend {
	case "whisper-cli":
		return &implWhisperCLI{cfg: cfg, executor: exec, logger: log}, nil
	case "openai":
		return newOpenAI(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend %q", cfg.Backend)
	}
}
