package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/harmonomino/hxp/internal/config"
	"github.com/harmonomino/hxp/internal/engine"
	"github.com/harmonomino/hxp/internal/manifest"
	"github.com/harmonomino/hxp/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:          "run [experiments-dir]",
	Short:        "Run the experiment pipeline",
	Long:         `Run every configured pipeline phase in order, skipping stages whose outputs are fresh.`,
	RunE:         runPipeline,
	SilenceUsage: true,
	Args:         cobra.MaximumNArgs(1),
}

func runPipeline(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := config.NewLoader().Load(cmd, dir)
	if err != nil {
		return err
	}

	logger := newLogger()

	man := manifest.Load(cfg.BaseDir, filepath.Join(cfg.BaseDir, manifest.DefaultFileName))

	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	skipPlots, _ := cmd.Flags().GetBool("skip-plots")

	runner := pipeline.New(cfg, man,
		engine.NewRunner(logger),
		manifest.GitEngineFingerprint(cfg.Engine.Root),
		logger,
		pipeline.Options{
			Force:     force,
			DryRun:    dryRun,
			SkipPlots: skipPlots,
		})

	return runner.Run()
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
