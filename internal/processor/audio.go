package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	targetSampleRate = 16000
	targetChannels   = 1
)

// stageAudio copies the input WAV into an isolated temp directory and makes
// sure it is 16kHz mono, resampling through ffmpeg when it is not. The
// returned cleanup removes the whole temp directory and is safe to call on
// every exit path.
func (p *implProcessor) stageAudio(ctx context.Context, audioPath string) (string, func(), error) {
	format, duration, err := probeWav(audioPath)
	if err != nil {
		return "", nil, fmt.Errorf("probe audio: %w", err)
	}

	p.logger.Info(ctx, "Input audio: %d Hz, %d channel(s), %s",
		format.SampleRate, format.NumChannels, duration.Truncate(time.Millisecond))

	tempDir, err := os.MkdirTemp(p.cfg.Paths.Temp, "run-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(tempDir); err != nil {
			p.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", tempDir, err)
		} else {
			p.logger.Debug(ctx, "Cleaned up temp dir: %s", tempDir)
		}
	}

	staged := filepath.Join(tempDir, "audio.wav")

	if format.SampleRate == targetSampleRate && format.NumChannels == targetChannels {
		if err := copyFile(audioPath, staged); err != nil {
			cleanup()
			return "", nil, fmt.Errorf("stage audio: %w", err)
		}
		return staged, cleanup, nil
	}

	p.logger.Info(ctx, "Resampling to %d Hz mono", targetSampleRate)

	args := []string{
		"-i", audioPath,
		"-ar", fmt.Sprintf("%d", targetSampleRate),
		"-ac", fmt.Sprintf("%d", targetChannels),
		"-c:a", "pcm_s16le",
		"-y",
		staged,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("ffmpeg resample: %w", err)
	}

	return staged, cleanup, nil
}

// probeWav validates the WAV header and reports its format and duration
func probeWav(path string) (*audio.Format, time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("%s is not a valid WAV file", filepath.Base(path))
	}

	duration, err := d.Duration()
	if err != nil {
		return nil, 0, fmt.Errorf("read WAV duration: %w", err)
	}

	return d.Format(), duration, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
