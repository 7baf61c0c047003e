package diarizer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF-bytes"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestDiarizeParsesAndSortsSegments(t *testing.T) {
	var gotSpeakers string
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/diarize" {
			t.Errorf("path = %q, want /diarize", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotSpeakers = r.FormValue("num_speakers")
		gotAuth = r.Header.Get("Authorization")

		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}

		// Deliberately out of order; the client must sort by start.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"segments":[
			{"speaker":"SPEAKER_01","start":5.0,"end":9.5},
			{"speaker":"SPEAKER_00","start":0.0,"end":5.0}
		]}`))
	}))
	defer srv.Close()

	d := New(config.DiarizerConfig{URL: srv.URL, AuthToken: "secret"}, logger.New("error"))

	segments, err := d.Diarize(context.Background(), writeAudioFixture(t), 2)
	if err != nil {
		t.Fatalf("Diarize() error = %v", err)
	}

	if gotSpeakers != "2" {
		t.Errorf("num_speakers field = %q, want %q", gotSpeakers, "2")
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(segments))
	}
	if segments[0].Speaker != "SPEAKER_00" || segments[0].Start != 0.0 {
		t.Errorf("segments not sorted by start: first = %+v", segments[0])
	}
	if segments[1].Speaker != "SPEAKER_01" || segments[1].End != 9.5 {
		t.Errorf("second segment = %+v", segments[1])
	}
}

func TestDiarizeOmitsSpeakerCountWhenAuto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if _, ok := r.MultipartForm.Value["num_speakers"]; ok {
			t.Error("num_speakers sent for auto detection")
		}
		w.Write([]byte(`{"segments":[{"speaker":"SPEAKER_00","start":0,"end":1}]}`))
	}))
	defer srv.Close()

	d := New(config.DiarizerConfig{URL: srv.URL}, logger.New("error"))

	if _, err := d.Diarize(context.Background(), writeAudioFixture(t), 0); err != nil {
		t.Fatalf("Diarize() error = %v", err)
	}
}

func TestDiarizeModelUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"forbidden", http.StatusForbidden},
		{"service unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			d := New(config.DiarizerConfig{URL: srv.URL}, logger.New("error"))

			_, err := d.Diarize(context.Background(), writeAudioFixture(t), 0)
			if !errors.Is(err, ErrModelUnavailable) {
				t.Errorf("Diarize() error = %v, want ErrModelUnavailable", err)
			}
		})
	}
}

func TestDiarizeGenericHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := New(config.DiarizerConfig{URL: srv.URL}, logger.New("error"))

	_, err := d.Diarize(context.Background(), writeAudioFixture(t), 0)
	if err == nil {
		t.Fatal("Diarize() error = nil, want error")
	}
	if errors.Is(err, ErrModelUnavailable) {
		t.Errorf("500 should not map to ErrModelUnavailable: %v", err)
	}
}
