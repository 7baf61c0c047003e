package llm

import (
	"fmt"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
)

// New creates a Client for the configured backend
func New(cfg config.LLMConfig, log logger.Logger) (Client, error) {
	switch cfg.Backend {
	case "openai":
		return newOpenAI(cfg, log), nil
	case "gemini":
		return newGemini(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}
