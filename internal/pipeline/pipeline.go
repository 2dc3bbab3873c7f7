package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/bjarlestam/credit-scout/internal/config"
	"github.com/bjarlestam/credit-scout/internal/ports"
	"github.com/bjarlestam/credit-scout/internal/ports/adapters/ffmpeg"
	"github.com/bjarlestam/credit-scout/internal/ports/adapters/gemini"
	"github.com/bjarlestam/credit-scout/internal/types"
	"github.com/bjarlestam/credit-scout/internal/usecase"
)

type Config struct {
	VideoPath string
	OutputDir string

	IntroDuration int
	OutroDuration int
	Encode        types.EncodeParams

	FFmpegPath  string
	FFprobePath string

	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	GeminiAllowedHosts []string
	PollInterval       time.Duration
	PollMaxAttempts    int

	Log zerolog.Logger
}

// FromAppConfig seeds a pipeline config from the process-wide defaults.
func FromAppConfig(app *config.Config, videoPath string) Config {
	return Config{
		VideoPath:          videoPath,
		IntroDuration:      app.Segments.IntroDuration,
		OutroDuration:      app.Segments.OutroDuration,
		Encode:             app.Encoding,
		FFmpegPath:         app.FFmpeg.BinaryPath,
		FFprobePath:        app.FFmpeg.ProbePath,
		GeminiAPIKey:       app.Gemini.APIKey,
		GeminiModel:        app.Gemini.Model,
		GeminiBaseURL:      app.Gemini.BaseURL,
		GeminiAllowedHosts: app.Gemini.AllowedHosts,
		PollInterval:       app.Gemini.PollInterval(),
		PollMaxAttempts:    app.Gemini.PollMaxAttempts,
	}
}

func (c Config) Validate() error {
	if c.VideoPath == "" {
		return errors.New("video path is empty")
	}
	if _, err := os.Stat(c.VideoPath); err != nil {
		return fmt.Errorf("stat video: %w", err)
	}
	if c.IntroDuration <= 0 {
		return fmt.Errorf("intro duration must be > 0")
	}
	if c.OutroDuration <= 0 {
		return fmt.Errorf("outro duration must be > 0")
	}
	return gemini.ValidateBaseURL(c.GeminiBaseURL, c.GeminiAllowedHosts)
}

func Run(ctx context.Context, cfg Config) (usecase.Result, error) {
	media := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath, cfg.Log.With().Str("component", "ffmpeg").Logger())
	vision := gemini.New(gemini.ClientConfig{
		APIKey:          cfg.GeminiAPIKey,
		Model:           cfg.GeminiModel,
		BaseURL:         cfg.GeminiBaseURL,
		PollInterval:    cfg.PollInterval,
		PollMaxAttempts: cfg.PollMaxAttempts,
	}, cfg.Log.With().Str("component", "gemini").Logger())

	uc := usecase.New(usecase.Deps{
		Media:  media,
		Vision: vision,
		Log:    cfg.Log,
	})

	return uc.Run(ctx, usecase.Input{
		VideoPath:     cfg.VideoPath,
		IntroDuration: cfg.IntroDuration,
		OutroDuration: cfg.OutroDuration,
		Encode:        cfg.Encode,
		OutputDir:     cfg.OutputDir,
	})
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.VisionDetector = (*gemini.Client)(nil)
