package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bjarlestam/credit-scout/internal/domain/asset"
	"github.com/bjarlestam/credit-scout/internal/domain/report"
	"github.com/bjarlestam/credit-scout/internal/domain/timecode"
	"github.com/bjarlestam/credit-scout/internal/ports"
	"github.com/bjarlestam/credit-scout/internal/types"
)

type Deps struct {
	Media  ports.MediaTool
	Vision ports.VisionDetector
	Log    zerolog.Logger
	Now    func() time.Time
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Now == nil {
		d.Now = time.Now
	}
	return Usecase{d: d}
}

type Input struct {
	VideoPath     string
	IntroDuration int // seconds of the head to analyze
	OutroDuration int // seconds of the tail to analyze
	Encode        types.EncodeParams
	OutputDir     string // report directory; empty = video's own directory
}

type Result struct {
	Duration      int
	DurationKnown bool
	Intro         *types.IntroBounds
	Outro         *types.OutroResult
	TotalCost     float64
	Summary       string
	ReportPath    string
}

// Run executes the fixed analysis workflow: probe duration, then the
// intro and outro branches, then the report. The branches are
// independent: a failure in one is logged and narrated, never fatal to
// the other, so the run always produces a summary and (best effort) a
// report.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	src, err := asset.Resolve(in.VideoPath)
	if err != nil {
		return Result{}, err
	}
	log := u.d.Log.With().Str("video", src.Name()).Logger()

	var res Result
	var notes []string

	duration, err := u.d.Media.ProbeDuration(ctx, src.Path)
	if err != nil {
		log.Error().Err(err).Msg("duration probe failed")
		notes = append(notes, fmt.Sprintf("Duration probe failed: %v", err))
	} else {
		res.Duration = duration
		res.DurationKnown = true
		log.Info().Int("seconds", duration).Msg("video duration")
	}

	res.Intro = u.analyzeIntro(ctx, log, src.Path, in, &notes, &res.TotalCost)
	res.Outro = u.analyzeOutro(ctx, log, src.Path, in, res, &notes, &res.TotalCost)

	res.Summary = buildSummary(src.Name(), res, notes)

	reportPath, err := report.Save(src.Path, res.Summary, in.OutputDir, u.d.Now())
	if err != nil {
		// The recorder degrades to "no report written" by contract.
		log.Error().Err(err).Msg("failed to save analysis report")
	} else {
		res.ReportPath = reportPath
		log.Info().Str("report", reportPath).Msg("analysis report saved")
	}

	return res, nil
}

func (u Usecase) analyzeIntro(ctx context.Context, log zerolog.Logger, videoPath string, in Input, notes *[]string, totalCost *float64) *types.IntroBounds {
	seg, err := u.d.Media.EncodeSegment(ctx, videoPath, types.RoleIntro, in.IntroDuration, in.Encode)
	if err != nil {
		log.Error().Err(err).Str("stage", "encode intro segment").Msg("intro analysis failed")
		*notes = append(*notes, fmt.Sprintf("Intro analysis failed: %v", err))
		return nil
	}

	bounds, err := u.d.Vision.DetectIntroBounds(ctx, seg.Path)
	if err != nil {
		log.Error().Err(err).Str("stage", "detect intro bounds").Msg("intro analysis failed")
		*notes = append(*notes, fmt.Sprintf("Intro analysis failed: %v", err))
		return nil
	}

	*totalCost += bounds.Cost
	return &bounds
}

func (u Usecase) analyzeOutro(ctx context.Context, log zerolog.Logger, videoPath string, in Input, res Result, notes *[]string, totalCost *float64) *types.OutroResult {
	seg, err := u.d.Media.EncodeSegment(ctx, videoPath, types.RoleOutro, in.OutroDuration, in.Encode)
	if err != nil {
		log.Error().Err(err).Str("stage", "encode outro segment").Msg("outro analysis failed")
		*notes = append(*notes, fmt.Sprintf("Outro analysis failed: %v", err))
		return nil
	}

	detection, err := u.d.Vision.DetectCreditsStart(ctx, seg.Path)
	if err != nil {
		log.Error().Err(err).Str("stage", "detect credits start").Msg("outro analysis failed")
		*notes = append(*notes, fmt.Sprintf("Outro analysis failed: %v", err))
		return nil
	}
	*totalCost += detection.Cost

	if !res.DurationKnown {
		log.Warn().Msg("total duration unknown, cannot reconcile outro timestamp")
		*notes = append(*notes, fmt.Sprintf("Outro detected at %s within the tail segment, but the total duration is unknown so no absolute timestamp could be computed", detection.Timestamp))
		return nil
	}
	if in.OutroDuration > res.Duration {
		log.Warn().
			Int("segment_duration", in.OutroDuration).
			Int("total_duration", res.Duration).
			Msg("outro segment longer than the video, clamping segment start to 0")
	}

	outro, err := timecode.ReconcileOutro(res.Duration, in.OutroDuration, detection)
	if err != nil {
		log.Error().Err(err).Str("stage", "reconcile outro").Msg("outro analysis failed")
		*notes = append(*notes, fmt.Sprintf("Outro analysis failed: %v", err))
		return nil
	}

	log.Info().
		Str("relative", outro.RelativeTimestamp).
		Str("absolute", outro.Timestamp).
		Msg("credits start reconciled to source timeline")
	return &outro
}

// buildSummary renders the narrative the Results Recorder parses. The
// line shapes here and the recorder's patterns must stay in sync.
func buildSummary(videoName string, res Result, notes []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Movie analysis for %s\n\n", videoName)

	if res.Intro != nil {
		fmt.Fprintf(&b, "Intro starts at: %s\n", res.Intro.IntroStart)
		fmt.Fprintf(&b, "Intro ends at: %s\n", res.Intro.IntroEnd)
	}
	if res.Outro != nil {
		fmt.Fprintf(&b, "Outro starts at: %s\n", res.Outro.Timestamp)
	}
	fmt.Fprintf(&b, "Total analysis cost: $%.4f\n", res.TotalCost)
	if res.Intro != nil {
		fmt.Fprintf(&b, "Intro detection confidence: %.1f\n", res.Intro.Confidence)
	}
	if res.Outro != nil {
		fmt.Fprintf(&b, "Outro start detection confidence: %.1f\n", res.Outro.Confidence)
	}

	for _, n := range notes {
		fmt.Fprintf(&b, "\n%s", n)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
