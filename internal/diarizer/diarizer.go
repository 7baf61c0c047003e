package diarizer

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
	"sort"
	"strconv"
	"strings"
)

type diarizeResp struct {
	Segments []Segment `json:"segments"`
}

// Diarize uploads the audio file and returns speaker segments ordered by
// start time. The optional speaker count is forwarded as a form field so the
// server can pin the cluster count instead of estimating it.
func (d *implDiarizer) Diarize(ctx context.Context, audioPath string, numSpeakers int) ([]Segment, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if numSpeakers > 0 {
		if err := mw.WriteField("num_speakers", strconv.Itoa(numSpeakers)); err != nil {
			return nil, err
		}
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

	url := strings.TrimSuffix(d.cfg.URL, "/") + "/diarize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if d.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.cfg.AuthToken)
	}

	d.logger.Info(ctx, "Diarizing %s (speakers: %d, 0=auto)", filepath.Base(audioPath), numSpeakers)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("diarization request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: http %d: %s", ErrModelUnavailable, resp.StatusCode, string(b))
	case resp.StatusCode == http.StatusServiceUnavailable:
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: http %d: %s", ErrModelUnavailable, resp.StatusCode, string(b))
	case resp.StatusCode >= 300:
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("diarization http %d: %s", resp.StatusCode, string(b))
	}

	var out diarizeResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode diarization response: %w", err)
	}

	segments := out.Segments
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})

	d.logger.Info(ctx, "Diarization completed: %d segments", len(segments))
	return segments, nil
}
