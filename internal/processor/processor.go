package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/align"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/summarizer"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/transcript"
)

// Process orchestrates the entire audio analysis pipeline for one WAV file
func (p *implProcessor) Process(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()
	name := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting audio processing: %s", audioPath)
	p.logger.Info(ctx, "========================================")

	// Step 1: Stage audio into the temp dir (validate + resample)
	staged, cleanup, err := p.stageAudio(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("stage audio: %w", err)
	}
	defer cleanup()

	// Step 2: Speaker diarization
	segments, err := p.diarizer.Diarize(ctx, staged, p.cfg.Diarizer.NumSpeakers)
	if err != nil {
		return nil, fmt.Errorf("diarize: %w", err)
	}

	// Step 3: Word-level transcription
	words, err := p.transcriber.Transcribe(ctx, staged)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	// Step 4: Align the two timelines
	records, err := align.Align(words, segments)
	if err != nil {
		return nil, fmt.Errorf("align: %w", err)
	}

	result := &Result{
		Records:    records,
		Lines:      transcript.Lines(records),
		Transcript: transcript.FlatText(records),
	}

	p.logger.Info(ctx, "Aligned %d words into %d speaker turns", len(words), len(records))

	if err := p.writeTranscript(ctx, name, records); err != nil {
		p.logger.Warn(ctx, "Failed to write transcript output: %v", err)
	}

	// Step 5: Summarize. Failures here never invalidate the transcript.
	if p.summarizer != nil && result.Transcript != "" {
		summary, err := p.summarizer.Summarize(ctx, result.Transcript)
		result.Summary = summary
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Error(ctx, "Summarization failed, transcript preserved: %v", err)
			result.SummaryErr = err
		} else if err := p.writeSummary(ctx, name, summary); err != nil {
			p.logger.Warn(ctx, "Failed to write summary output: %v", err)
		}
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed in %s", time.Since(startTime).Truncate(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	return result, nil
}

func (p *implProcessor) writeTranscript(ctx context.Context, name string, records []align.Record) error {
	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	md := transcript.Markdown(name, records)
	mdPath := filepath.Join(p.cfg.Paths.Output, name+".transcript.md")
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return fmt.Errorf("write transcript markdown: %w", err)
	}
	p.logger.Info(ctx, "Transcript written: %s", mdPath)

	if p.cfg.Summary.WriteDocx {
		docxPath := filepath.Join(p.cfg.Paths.Output, name+".transcript.docx")
		if err := summarizer.ExportDocx(docxPath, name, md); err != nil {
			return fmt.Errorf("write transcript docx: %w", err)
		}
		p.logger.Info(ctx, "Transcript written: %s", docxPath)
	}

	return nil
}

func (p *implProcessor) writeSummary(ctx context.Context, name string, summary *summarizer.Result) error {
	text := summary.Text()
	if text == "" {
		return nil
	}

	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	mdPath := filepath.Join(p.cfg.Paths.Output, name+".summary.md")
	if err := summarizer.ExportMarkdown(mdPath, name+" Summary", text); err != nil {
		return err
	}
	p.logger.Info(ctx, "Summary written: %s", mdPath)

	if p.cfg.Summary.WriteDocx {
		docxPath := filepath.Join(p.cfg.Paths.Output, name+".summary.docx")
		if err := summarizer.ExportDocx(docxPath, name+" Summary", text); err != nil {
			return err
		}
		p.logger.Info(ctx, "Summary written: %s", docxPath)
	}

	return nil
}
