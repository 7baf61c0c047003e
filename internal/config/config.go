package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Diarizer    DiarizerConfig    `yaml:"diarizer"`
	LLM         LLMConfig         `yaml:"llm"`
	Summary     SummaryConfig     `yaml:"summary"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type TranscriberConfig struct {
	Backend    string `yaml:"backend"` // "whisper-cli" or "openai"
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Language   string `yaml:"language"`
	Threads    int    `yaml:"threads"`
	APIURL     string `yaml:"api_url"`
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
}

type DiarizerConfig struct {
	URL         string `yaml:"url"`
	AuthToken   string `yaml:"auth_token"`
	NumSpeakers int    `yaml:"num_speakers"` // 0 = auto-detect
}

type LLMConfig struct {
	Backend        string   `yaml:"backend"` // "openai" or "gemini"
	BaseURL        string   `yaml:"base_url"`
	Model          string   `yaml:"model"`
	GeminiAPIKeys  []string `yaml:"gemini_api_keys"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type SummaryConfig struct {
	ChunkSize    int  `yaml:"chunk_size"`
	ChunkOverlap int  `yaml:"chunk_overlap"`
	Combine      bool `yaml:"combine"`
	Workers      int  `yaml:"workers"`
	WriteDocx    bool `yaml:"write_docx"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Temp   string `yaml:"temp"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads and validates a YAML config file
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Transcriber.Backend {
	case "", "whisper-cli":
		c.Transcriber.Backend = "whisper-cli"
		if c.Transcriber.BinaryPath == "" {
			return fmt.Errorf("transcriber.binary_path is required")
		}
		if c.Transcriber.ModelPath == "" {
			return fmt.Errorf("transcriber.model_path is required")
		}
	case "openai":
		if c.Transcriber.APIKey == "" {
			return fmt.Errorf("transcriber.api_key is required")
		}
	default:
		return fmt.Errorf("transcriber.backend must be whisper-cli or openai, got %q", c.Transcriber.Backend)
	}

	if c.Diarizer.URL == "" {
		return fmt.Errorf("diarizer.url is required")
	}
	if c.Diarizer.NumSpeakers < 0 {
		return fmt.Errorf("diarizer.num_speakers must not be negative")
	}

	switch c.LLM.Backend {
	case "", "openai":
		c.LLM.Backend = "openai"
	case "gemini":
		if len(c.LLM.GeminiAPIKeys) == 0 {
			return fmt.Errorf("llm.gemini_api_keys is required for the gemini backend")
		}
	default:
		return fmt.Errorf("llm.backend must be openai or gemini, got %q", c.LLM.Backend)
	}

	if c.Summary.ChunkSize == 0 {
		c.Summary.ChunkSize = 1500
	}
	if c.Summary.ChunkOverlap == 0 {
		c.Summary.ChunkOverlap = 150
	}
	if c.Summary.ChunkOverlap >= c.Summary.ChunkSize {
		return fmt.Errorf("summary.chunk_overlap (%d) must be less than summary.chunk_size (%d)",
			c.Summary.ChunkOverlap, c.Summary.ChunkSize)
	}
	if c.Summary.Workers == 0 {
		c.Summary.Workers = 4
	}

	if c.Transcriber.Language == "" {
		c.Transcriber.Language = "en"
	}
	if c.Transcriber.Threads == 0 {
		c.Transcriber.Threads = 8
	}
	if c.Transcriber.APIURL == "" {
		c.Transcriber.APIURL = "https://api.openai.com/v1"
	}
	if c.Transcriber.Model == "" {
		c.Transcriber.Model = "whisper-1"
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "http://localhost:1234/v1"
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 120
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
