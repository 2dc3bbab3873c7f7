package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bjarlestam/credit-scout/internal/types"
)

// Config holds process-wide defaults. It is resolved once and threaded
// explicitly into calls; nothing reads it ambiently after startup.
type Config struct {
	Encoding types.EncodeParams `yaml:"encoding"`
	Segments SegmentsConfig     `yaml:"segments"`
	FFmpeg   FFmpegConfig       `yaml:"ffmpeg"`
	Gemini   GeminiConfig       `yaml:"gemini"`
}

type SegmentsConfig struct {
	IntroDuration int `yaml:"intro_duration"` // seconds taken from the head
	OutroDuration int `yaml:"outro_duration"` // seconds taken from the tail
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ProbePath  string `yaml:"probe_path"`
}

type GeminiConfig struct {
	APIKey          string   `yaml:"-"` // env only, never persisted
	Model           string   `yaml:"model"`
	BaseURL         string   `yaml:"base_url"`
	AllowedHosts    []string `yaml:"allowed_hosts"`
	PollIntervalSec int      `yaml:"poll_interval_seconds"`
	PollMaxAttempts int      `yaml:"poll_max_attempts"` // 0 polls forever
}

// PollInterval returns the remote-state poll interval as a duration.
func (g GeminiConfig) PollInterval() time.Duration {
	return time.Duration(g.PollIntervalSec) * time.Second
}

// Load reads configuration from path, falling back to well-known config
// file locations and then to defaults, with environment variables
// applied last.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Encoding: types.EncodeParams{
			Height: types.DefaultHeight,
			FPS:    types.DefaultFPS,
			CRF:    types.DefaultCRF,
		},
		Segments: SegmentsConfig{
			IntroDuration: 300,
			OutroDuration: 600,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			ProbePath:  "ffprobe",
		},
		Gemini: GeminiConfig{
			Model:           "gemini-2.5-pro-preview-05-06",
			PollIntervalSec: 5,
			PollMaxAttempts: 120,
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("VIDEO_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Encoding.Height = n
		}
	}
	if v := os.Getenv("VIDEO_FPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Encoding.FPS = n
		}
	}
	if v := os.Getenv("VIDEO_CRF"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Encoding.CRF = n
		}
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		c.Gemini.BaseURL = v
	}
	if v := os.Getenv("FFMPEG_PATH"); v != "" {
		c.FFmpeg.BinaryPath = v
	}
	if v := os.Getenv("FFPROBE_PATH"); v != "" {
		c.FFmpeg.ProbePath = v
	}
}

func findConfigFile() string {
	candidates := []string{
		"./credit-scout.yaml",
		"./credit-scout.yml",
		filepath.Join(os.Getenv("HOME"), ".credit-scout", "config.yaml"),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
