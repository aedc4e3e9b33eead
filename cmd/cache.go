package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/harmonomino/hxp/internal/manifest"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:          "cache",
	Short:        "Inspect or clear the pipeline cache",
	SilenceUsage: true,
}

var cacheStatusCmd = &cobra.Command{
	Use:          "status [experiments-dir]",
	Short:        "Show tracked outputs and their fingerprints",
	RunE:         runCacheStatus,
	SilenceUsage: true,
	Args:         cobra.MaximumNArgs(1),
}

var cacheClearCmd = &cobra.Command{
	Use:          "clear [experiments-dir]",
	Short:        "Forget all cached state, forcing a full rebuild",
	RunE:         runCacheClear,
	SilenceUsage: true,
	Args:         cobra.MaximumNArgs(1),
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func experimentsDir(args []string) string {
	if len(args) == 1 {
		return args[0]
	}

	return "."
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	dir := experimentsDir(args)
	man := manifest.Load(dir, filepath.Join(dir, manifest.DefaultFileName))

	fmt.Printf("Manifest: %s\n", man.Path())
	fmt.Printf("Engine fingerprint: %s\n", orDash(string(man.EngineFingerprint)))
	fmt.Printf("Tracked outputs: %d\n", len(man.Entries))

	identities := make([]string, 0, len(man.Entries))
	for id := range man.Entries {
		identities = append(identities, id)
	}

	sort.Strings(identities)

	for _, id := range identities {
		entry := man.Entries[id]
		state := "present"

		if manifest.IsVirtual(id) {
			state = "virtual"
		} else if _, err := os.Stat(filepath.Join(dir, id)); err != nil {
			state = "missing"
		}

		fmt.Printf("  %s  %s  %s  (%s)\n", entry.Fingerprint, entry.ProducedAt, id, state)
	}

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	dir := experimentsDir(args)
	man := manifest.Load(dir, filepath.Join(dir, manifest.DefaultFileName))

	man.ClearEntries()
	man.EngineFingerprint = ""

	if err := man.Save(); err != nil {
		return err
	}

	fmt.Println("Cache cleared.")
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
