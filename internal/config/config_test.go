package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"VIDEO_HEIGHT", "VIDEO_FPS", "VIDEO_CRF",
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
		"FFMPEG_PATH", "FFPROBE_PATH",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	require.NoError(t, err)

	require.Equal(t, 120, cfg.Encoding.Height)
	require.Equal(t, 5, cfg.Encoding.FPS)
	require.Equal(t, 28, cfg.Encoding.CRF)
	require.Equal(t, 300, cfg.Segments.IntroDuration)
	require.Equal(t, 600, cfg.Segments.OutroDuration)
	require.Equal(t, "ffmpeg", cfg.FFmpeg.BinaryPath)
	require.Equal(t, "ffprobe", cfg.FFmpeg.ProbePath)
	require.Equal(t, "gemini-2.5-pro-preview-05-06", cfg.Gemini.Model)
	require.Equal(t, 5*time.Second, cfg.Gemini.PollInterval())
	require.Equal(t, 120, cfg.Gemini.PollMaxAttempts)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credit-scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
encoding:
  height: 240
  fps: 10
segments:
  intro_duration: 180
gemini:
  model: gemini-3-pro-preview
  poll_interval_seconds: 2
  poll_max_attempts: 30
  allowed_hosts:
    - proxy.internal
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 240, cfg.Encoding.Height)
	require.Equal(t, 10, cfg.Encoding.FPS)
	require.Equal(t, 28, cfg.Encoding.CRF, "unset keys keep their defaults")
	require.Equal(t, 180, cfg.Segments.IntroDuration)
	require.Equal(t, 600, cfg.Segments.OutroDuration)
	require.Equal(t, "gemini-3-pro-preview", cfg.Gemini.Model)
	require.Equal(t, 2*time.Second, cfg.Gemini.PollInterval())
	require.Equal(t, 30, cfg.Gemini.PollMaxAttempts)
	require.Equal(t, []string{"proxy.internal"}, cfg.Gemini.AllowedHosts)
}

func TestLoad_APIKeyNeverComesFromYAML(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "credit-scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gemini:\n  api_key: from-file\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, cfg.Gemini.APIKey)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credit-scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("encoding:\n  height: 240\n"), 0o644))

	t.Setenv("VIDEO_HEIGHT", "480")
	t.Setenv("VIDEO_CRF", "20")
	t.Setenv("GEMINI_API_KEY", "env-secret")
	t.Setenv("GEMINI_MODEL", "gemini-3-pro-preview")
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 480, cfg.Encoding.Height)
	require.Equal(t, 20, cfg.Encoding.CRF)
	require.Equal(t, "env-secret", cfg.Gemini.APIKey)
	require.Equal(t, "gemini-3-pro-preview", cfg.Gemini.Model)
	require.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpeg.BinaryPath)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credit-scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte("encoding: [not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_IgnoresBadEnvNumbers(t *testing.T) {
	t.Setenv("VIDEO_HEIGHT", "tall")

	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	require.NoError(t, err)
	require.Equal(t, 120, cfg.Encoding.Height)
}
