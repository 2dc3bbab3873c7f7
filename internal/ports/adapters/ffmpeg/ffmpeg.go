package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bjarlestam/credit-scout/internal/domain/asset"
	"github.com/bjarlestam/credit-scout/internal/types"
)

var (
	// ErrToolUnavailable means ffmpeg/ffprobe is not on PATH, which
	// operators need to distinguish from a tool that ran and crashed.
	ErrToolUnavailable = errors.New("media tool not found")
	ErrToolError       = errors.New("media tool failed")
	ErrParse           = errors.New("unparsable probe output")
	ErrEncodingFailed  = errors.New("encoding failed")
	ErrEmptyOutput     = errors.New("encoder produced no output")
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	log     zerolog.Logger
}

func New(ffmpegPath, ffprobePath string, log zerolog.Logger) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, log: log}
}

// ProbeDuration returns the total duration of the video in whole seconds,
// truncating any fractional part.
func (a *Adapter) ProbeDuration(ctx context.Context, videoPath string) (int, error) {
	src, err := asset.Resolve(videoPath)
	if err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		src.Path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s (install ffmpeg and ensure it is in PATH)", ErrToolUnavailable, a.ffprobe)
		}
		return 0, fmt.Errorf("%w: ffprobe duration: %v\n%s", ErrToolError, err, stderr.String())
	}

	s := strings.TrimSpace(stdout.String())
	if s == "" {
		return 0, fmt.Errorf("%w: ffprobe returned empty duration for %s", ErrParse, src.Name())
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: duration %q", ErrParse, s)
	}

	duration := int(sec)
	a.log.Debug().Str("video", src.Name()).Int("seconds", duration).Msg("probed duration")
	return duration, nil
}

// EncodeSegment extracts a downsized grayscale clip from the head (intro)
// or tail (outro) of the source and writes it to a fresh temporary
// location. The caller owns the returned file.
func (a *Adapter) EncodeSegment(ctx context.Context, videoPath string, role types.SegmentRole, duration int, params types.EncodeParams) (types.EncodedSegment, error) {
	src, err := asset.Resolve(videoPath)
	if err != nil {
		return types.EncodedSegment{}, err
	}
	params = params.WithDefaults()

	tempDir, err := os.MkdirTemp("", "credit_scout_"+string(role)+"_")
	if err != nil {
		return types.EncodedSegment{}, fmt.Errorf("create temp dir: %w", err)
	}
	outName := fmt.Sprintf("%s_segment_%s_%s.mp4", role, src.Stem(), uuid.NewString()[:8])
	outPath := filepath.Join(tempDir, outName)

	args := encodeArgs(src.Path, outPath, role, duration, params)
	a.log.Debug().Strs("args", args).Msg("ffmpeg encode")

	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return types.EncodedSegment{}, fmt.Errorf("%w: %s (install ffmpeg and ensure it is in PATH)", ErrToolUnavailable, a.ffmpeg)
		}
		return types.EncodedSegment{}, fmt.Errorf("%w: %v\n%s", ErrEncodingFailed, err, string(b))
	}

	// ffmpeg can exit zero and still produce nothing useful.
	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		return types.EncodedSegment{}, fmt.Errorf("%w: %s", ErrEmptyOutput, outPath)
	}

	a.log.Info().
		Str("video", src.Name()).
		Str("role", string(role)).
		Int("duration", duration).
		Int64("bytes", info.Size()).
		Msg("segment encoded")

	return types.EncodedSegment{
		Path:     outPath,
		Role:     role,
		Duration: duration,
		Params:   params,
	}, nil
}

func encodeArgs(inPath, outPath string, role types.SegmentRole, duration int, p types.EncodeParams) []string {
	args := []string{"-y"}
	if role == types.RoleOutro {
		// Trailing window ending at EOF; ffmpeg clamps to start of file
		// when the window is longer than the source.
		args = append(args, "-sseof", "-"+strconv.Itoa(duration), "-i", inPath)
	} else {
		args = append(args, "-i", inPath, "-t", strconv.Itoa(duration))
	}
	args = append(args,
		"-vf", fmt.Sprintf("scale=trunc(oh*a/2)*2:%d,format=gray", p.Height),
		"-c:v", "libx264",
		"-crf", strconv.Itoa(p.CRF),
		"-preset", "fast",
		"-r", strconv.Itoa(p.FPS),
		"-an",
		outPath,
	)
	return args
}
