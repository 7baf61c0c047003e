package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
)

// OpenAI speech-to-text via audio/transcriptions with word-level timestamps
type implOpenAI struct {
	cfg    config.TranscriberConfig
	logger logger.Logger
	client *http.Client
}

func newOpenAI(cfg config.TranscriberConfig, log logger.Logger) *implOpenAI {
	return &implOpenAI{
		cfg:    cfg,
		logger: log,
		client: &http.Client{Timeout: 30 * time.Minute},
	}
}

type openAIResp struct {
	Text  string `json:"text"`
	Words []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
}

func (t *implOpenAI) Transcribe(ctx context.Context, audioPath string) ([]Word, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", t.cfg.Model); err != nil {
		return nil, err
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, err
	}
	if err := mw.WriteField("timestamp_granularities[]", "word"); err != nil {
		return nil, err
	}

	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(t.cfg.APIURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	t.logger.Debug(ctx, "Uploading %s to %s", filepath.Base(audioPath), url)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: http %d: %s", ErrModelUnavailable, resp.StatusCode, string(b))
	}
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcription http %d: %s", resp.StatusCode, string(b))
	}

	var or openAIResp
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		return nil, fmt.Errorf("decode transcription response: %w", err)
	}

	words := make([]Word, 0, len(or.Words))
	for _, w := range or.Words {
		text := strings.TrimSpace(w.Word)
		if text == "" {
			continue
		}
		words = append(words, Word{Text: text, Start: w.Start, End: w.End})
	}

	t.logger.Info(ctx, "Transcription completed: %d words", len(words))
	return words, nil
}
