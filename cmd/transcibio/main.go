package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/config"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/diarizer"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/llm"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/logger"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/processor"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/summarizer"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/transcriber"
	"github.com/PaperSelbsthilfegruppe/Transcibio/internal/watcher"
	"github.com/PaperSelbsthilfegruppe/Transcibio/pkg/executor"
)

func main() {
	ctx := context.Background()

	configPath := flag.String("config", "config.yaml", "path to config file")
	audioPath := flag.String("audio", "", "process a single WAV file and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Transcibio: Transcribe, Diarize & Summarize")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Transcriber backend: %s", cfg.Transcriber.Backend)
	log.Info(ctx, "Diarization server: %s", cfg.Diarizer.URL)
	log.Info(ctx, "LLM endpoint: %s (%s)", cfg.LLM.BaseURL, cfg.LLM.Backend)

	exec := executor.New()

	trans, err := transcriber.New(cfg.Transcriber, exec, log)
	if err != nil {
		log.Error(ctx, "Failed to create transcriber: %v", err)
		os.Exit(1)
	}

	diar := diarizer.New(cfg.Diarizer, log)

	llmClient, err := llm.New(cfg.LLM, log)
	if err != nil {
		log.Error(ctx, "Failed to create LLM client: %v", err)
		os.Exit(1)
	}

	summ, err := summarizer.New(cfg.Summary, llmClient, log)
	if err != nil {
		log.Error(ctx, "Invalid summarization config: %v", err)
		os.Exit(1)
	}

	proc := processor.New(cfg, diar, trans, summ, exec, log)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	if *audioPath != "" {
		runOnce(ctx, proc, *audioPath, log)
		return
	}

	runWatch(ctx, cfg, proc, log)
}

// runOnce processes a single file and prints the results to stdout
func runOnce(ctx context.Context, proc processor.Processor, audioPath string, log logger.Logger) {
	result, err := proc.Process(ctx, audioPath)
	if err != nil {
		log.Error(ctx, "Processing failed: %v", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Speaker-Aligned Transcript:")
	fmt.Println()
	for _, line := range result.Lines {
		fmt.Println(line)
	}

	if result.SummaryErr != nil {
		log.Warn(ctx, "Summary unavailable: %v", result.SummaryErr)
		return
	}
	if result.Summary != nil {
		fmt.Println()
		fmt.Println("Summary:")
		fmt.Println()
		fmt.Println(result.Summary.Text())
	}
}

// runWatch monitors the input directory until interrupted
func runWatch(ctx context.Context, cfg *config.Config, proc processor.Processor, log logger.Logger) {
	handler := func(ctx context.Context, filePath string) error {
		_, err := proc.Process(ctx, filePath)
		return err
	}

	w, err := watcher.New(cfg.Paths.Input, handler, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Transcibio is ready!")
	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	log.Info(ctx, "Transcibio stopped")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
