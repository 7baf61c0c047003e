package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
	"github.com/PaperSelbsthilfegruppe/Transcibio/pkg/executor"
)

type implWhisperCLI struct {
	cfg      config.TranscriberConfig
	executor executor.Executor
	logger   logger.Logger
}

// whisperJSON mirrors the JSON file whisper.cpp writes with -oj.
// Offsets are milliseconds from the start of the audio.
type whisperJSON struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// Transcribe runs the whisper.cpp binary and parses its word-level JSON output.
// -sow with -ml 1 makes every output segment a single word.
func (t *implWhisperCLI) Transcribe(ctx context.Context, audioPath string) ([]Word, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	t.logger.Info(ctx, "Starting transcription with %d threads: %s", t.cfg.Threads, audioPath)

	args := []string{
		"-m", t.cfg.ModelPath,
		"-f", audioPath,
		"-oj",
		"-l", t.cfg.Language,
		"-t", strconv.Itoa(t.cfg.Threads),
		"-ml", "1",
		"-sow",
		"--output-file", outputPrefix,
	}

	if _, err := t.executor.Execute(ctx, t.cfg.BinaryPath, args...); err != nil {
		return nil, fmt.Errorf("whisper transcribe: %w: %w", ErrModelUnavailable, err)
	}

	jsonPath := outputPrefix + ".json"
	defer os.Remove(jsonPath)

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	words, err := parseWhisperJSON(data)
	if err != nil {
		return nil, err
	}

	t.logger.Info(ctx, "Transcription completed: %d words", len(words))
	return words, nil
}

func parseWhisperJSON(data []byte) ([]Word, error) {
	var out whisperJSON
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	words := make([]Word, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		words = append(words, Word{
			Text:  text,
			Start: float64(seg.Offsets.From) / 1000.0,
			End:   float64(seg.Offsets.To) / 1000.0,
		})
	}
	return words, nil
}
