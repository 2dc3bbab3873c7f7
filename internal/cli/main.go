package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bjarlestam/credit-scout/internal/config"
	"github.com/bjarlestam/credit-scout/internal/logging"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "credit-scout",
		Short:        "AI-powered movie intro and outro detection",
		SilenceUsage: true,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().String("config", "", "Path to a YAML config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newAnalyzeCmd(),
		newProbeCmd(),
		newEncodeCmd(),
		newDetectIntroCmd(),
		newDetectIntroEndCmd(),
		newDetectOutroCmd(),
		newSaveCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logging.Init(verbose)

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
