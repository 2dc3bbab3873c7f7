package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bjarlestam/credit-scout/internal/logging"
	"github.com/bjarlestam/credit-scout/internal/pipeline"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <movie>",
		Short: "Run the full intro/outro analysis workflow on a movie file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0])
		},
	}

	cmd.Flags().String("out", "", "Directory for the JSON report (default: the video's directory)")
	cmd.Flags().Int("intro-duration", 0, "Seconds of the head to analyze")
	cmd.Flags().Int("outro-duration", 0, "Seconds of the tail to analyze")
	cmd.Flags().Int("height", 0, "Segment height in pixels")
	cmd.Flags().Int("fps", 0, "Segment frame rate")
	cmd.Flags().Int("crf", 0, "Segment quality factor (lower = higher quality)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, input string) error {
	app, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	cfg := pipeline.FromAppConfig(app, absIn)
	cfg.Log = logging.WithComponent("analyze")
	cfg.OutputDir, _ = cmd.Flags().GetString("out")

	if v, _ := cmd.Flags().GetInt("intro-duration"); v > 0 {
		cfg.IntroDuration = v
	}
	if v, _ := cmd.Flags().GetInt("outro-duration"); v > 0 {
		cfg.OutroDuration = v
	}
	if v, _ := cmd.Flags().GetInt("height"); v > 0 {
		cfg.Encode.Height = v
	}
	if v, _ := cmd.Flags().GetInt("fps"); v > 0 {
		cfg.Encode.FPS = v
	}
	if v, _ := cmd.Flags().GetInt("crf"); v > 0 {
		cfg.Encode.CRF = v
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Hour)
	defer cancel()

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
	if res.ReportPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Analysis results saved to: %s\n", res.ReportPath)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "No report was written.")
	}
	return nil
}
