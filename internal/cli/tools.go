package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bjarlestam/credit-scout/internal/config"
	"github.com/bjarlestam/credit-scout/internal/domain/report"
	"github.com/bjarlestam/credit-scout/internal/domain/timecode"
	"github.com/bjarlestam/credit-scout/internal/logging"
	"github.com/bjarlestam/credit-scout/internal/ports/adapters/ffmpeg"
	"github.com/bjarlestam/credit-scout/internal/ports/adapters/gemini"
	"github.com/bjarlestam/credit-scout/internal/types"
)

// Each tool is independently callable so the workflow can be reproduced
// step by step without the analyze command.

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <video>",
		Short: "Print the video duration in whole seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			media := newMediaTool(app)
			seconds, err := media.ProbeDuration(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), seconds)
			return nil
		},
	}
}

func newEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <video>",
		Short: "Encode a low-resolution grayscale segment from the head or tail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			roleFlag, _ := cmd.Flags().GetString("role")
			role := types.SegmentRole(roleFlag)
			if role != types.RoleIntro && role != types.RoleOutro {
				return fmt.Errorf("role must be %q or %q", types.RoleIntro, types.RoleOutro)
			}

			duration, _ := cmd.Flags().GetInt("duration")
			if duration <= 0 {
				if role == types.RoleIntro {
					duration = app.Segments.IntroDuration
				} else {
					duration = app.Segments.OutroDuration
				}
			}

			params := app.Encoding
			if v, _ := cmd.Flags().GetInt("height"); v > 0 {
				params.Height = v
			}
			if v, _ := cmd.Flags().GetInt("fps"); v > 0 {
				params.FPS = v
			}
			if v, _ := cmd.Flags().GetInt("crf"); v > 0 {
				params.CRF = v
			}

			media := newMediaTool(app)
			seg, err := media.EncodeSegment(cmd.Context(), args[0], role, duration, params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), seg.Path)
			return nil
		},
	}

	cmd.Flags().String("role", "intro", "Segment role: intro (head) or outro (tail)")
	cmd.Flags().Int("duration", 0, "Segment duration in seconds")
	cmd.Flags().Int("height", 0, "Segment height in pixels")
	cmd.Flags().Int("fps", 0, "Segment frame rate")
	cmd.Flags().Int("crf", 0, "Segment quality factor")
	return cmd
}

func newDetectIntroCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect-intro <segment>",
		Short: "Detect intro start and end times in an encoded intro segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			vision := newVisionClient(cmd, app)
			bounds, err := vision.DetectIntroBounds(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bounds)
		},
	}
	cmd.Flags().String("api-key", "", "Gemini API key (default: GEMINI_API_KEY)")
	return cmd
}

func newDetectIntroEndCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect-intro-end <segment>",
		Short: "Detect only the intro end time in an encoded intro segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			vision := newVisionClient(cmd, app)
			detection, err := vision.DetectIntroEnd(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), detection)
		},
	}
	cmd.Flags().String("api-key", "", "Gemini API key (default: GEMINI_API_KEY)")
	return cmd
}

func newDetectOutroCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect-outro <segment>",
		Short: "Detect the credits start in an encoded outro segment, as an absolute timestamp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			totalDuration, _ := cmd.Flags().GetInt("total-duration")
			if totalDuration <= 0 {
				return fmt.Errorf("--total-duration is required (probe the source video first)")
			}
			segmentDuration, _ := cmd.Flags().GetInt("segment-duration")
			if segmentDuration <= 0 {
				segmentDuration = app.Segments.OutroDuration
			}

			vision := newVisionClient(cmd, app)
			detection, err := vision.DetectCreditsStart(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			outro, err := timecode.ReconcileOutro(totalDuration, segmentDuration, detection)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), outro)
		},
	}
	cmd.Flags().Int("total-duration", 0, "Total duration of the source video in seconds")
	cmd.Flags().Int("segment-duration", 0, "Duration of the outro segment in seconds")
	cmd.Flags().String("api-key", "", "Gemini API key (default: GEMINI_API_KEY)")
	return cmd
}

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <video> <summary-file>",
		Short: "Parse an analysis summary and save the JSON report (use - to read the summary from stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}

			var summary []byte
			var err error
			if args[1] == "-" {
				summary, err = io.ReadAll(cmd.InOrStdin())
			} else {
				summary, err = os.ReadFile(args[1])
			}
			if err != nil {
				return fmt.Errorf("read summary: %w", err)
			}

			outDir, _ := cmd.Flags().GetString("out")
			path, err := report.Save(args[0], string(summary), outDir, time.Now())
			if err != nil {
				// The recorder reports failure as text, it never aborts.
				fmt.Fprintf(cmd.OutOrStdout(), "Failed to save analysis results: %v\n", err)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Analysis results successfully saved to: %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("out", "", "Directory for the JSON report (default: the video's directory)")
	return cmd
}

func newMediaTool(app *config.Config) *ffmpeg.Adapter {
	return ffmpeg.New(app.FFmpeg.BinaryPath, app.FFmpeg.ProbePath, logging.WithComponent("ffmpeg"))
}

func newVisionClient(cmd *cobra.Command, app *config.Config) *gemini.Client {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = app.Gemini.APIKey
	}
	return gemini.New(gemini.ClientConfig{
		APIKey:          apiKey,
		Model:           app.Gemini.Model,
		BaseURL:         app.Gemini.BaseURL,
		PollInterval:    app.Gemini.PollInterval(),
		PollMaxAttempts: app.Gemini.PollMaxAttempts,
	}, logging.WithComponent("gemini"))
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
