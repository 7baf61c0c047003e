package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
)

// Gemini backend. Rotates through the supplied API keys on quota errors so a
// long map phase survives per-key rate limits.
type implGemini struct {
	apiKeys    []string
	model      string
	logger     logger.Logger
	mu         sync.Mutex
	currentKey int
}

func newGemini(cfg config.LLMConfig, log logger.Logger) *implGemini {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &implGemini{
		apiKeys: cfg.GeminiAPIKeys,
		model:   model,
		logger:  log,
	}
}

func (g *implGemini) Complete(ctx context.Context, instructions, text string) (string, error) {
	prompt := instructions + "\n\n---\n" + text + "\n---"

	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		key, keyIdx := g.activeKey()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey(keyIdx)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIdx+1)
				g.rotateKey(keyIdx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var out strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					out.WriteString(part.Text)
				}
			}
			return strings.TrimSpace(out.String()), nil
		}

		return "", fmt.Errorf("empty response from gemini")
	}

	return "", fmt.Errorf("%w: all API keys exhausted: %w", ErrUnreachable, lastErr)
}

func (g *implGemini) activeKey() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey], g.currentKey
}

// rotateKey advances past keyIdx unless another request already did.
func (g *implGemini) rotateKey(keyIdx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == keyIdx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}
