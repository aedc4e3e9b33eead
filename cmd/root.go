package cmd

import (
	"fmt"
	"os"

	"github.com/harmonomino/hxp/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "hxp",
	Short:        "Harmonomino experiment pipeline",
	Long:         `Drives the harmonomino training, evaluation and analysis pipeline, skipping any stage whose outputs are still valid.`,
	RunE:         runPipeline,
	SilenceUsage: true,
	Args:         cobra.MaximumNArgs(1),
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the pipeline config file")
	rootCmd.PersistentFlags().String("engine-root", "", "Engine repository root")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolP("force", "f", false, "Rerun every stage regardless of cache freshness")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Report skip/rerun decisions without running anything")
	rootCmd.PersistentFlags().Bool("skip-plots", false, "Skip the plot regeneration phase")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cacheCmd)
}
