package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `[training]
seeds = [1, 2, 3]

[hsa]
iterations = 500
memory_size = 30
accept_rate = 0.95
pitch_adj_rate = 0.3
bandwidth = 0.05
sim_length = 1000
n_weights = 8
averaged_runs = 3

[ces]
iterations = 80
n_samples = 100
n_elite = 10
initial_std_dev = 1.5
std_dev_floor = 0.02
sim_length = 1000
n_weights = 8
averaged_runs = 3

[baselines]
random_seed = 42
random_weights = 5

[evaluation]
seeds = [100, 200]
sim_length = 2000

[sweeps]
sim_length = 500
n_weights = 8
`

func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("engine-root", "", "")
	cmd.Flags().Bool("verbose", false, "")
	return cmd
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadsTOML(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	writeConfig(t, dir, sampleTOML)

	cfg, err := NewLoader().Load(testCommand(), dir)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, cfg.Training.Seeds)
	assert.Equal(t, 500, cfg.HSA.Iterations)
	assert.Equal(t, 0.05, cfg.HSA.Bandwidth)
	assert.Equal(t, int64(42), cfg.Baselines.RandomSeed)
	assert.Equal(t, []int{100, 200}, cfg.Evaluation.Seeds)
	assert.Equal(t, dir, cfg.BaseDir)
}

func TestLoader_OptionalSectionPresence(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	writeConfig(t, dir, sampleTOML)

	cfg, err := NewLoader().Load(testCommand(), dir)
	require.NoError(t, err)

	assert.True(t, cfg.Sweeps.Enabled(), "sweeps section is present in the file")
	assert.False(t, cfg.MassOptimize.Enabled(), "mass_optimize section is absent")
	assert.False(t, cfg.Consistency.Enabled())
	assert.False(t, cfg.Plots.Enabled())
	assert.False(t, cfg.HSA.HasEarlyStopTarget)
}

func TestLoader_EarlyStopTargetDetection(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()

	// early_stop_target is meaningful even at zero, so presence is
	// tracked separately from the value.
	content := strings.Replace(sampleTOML, "[ces]", "early_stop_target = 1200.0\n\n[ces]", 1)
	content += "\n[consistency]\nseed = 1\ngame_lengths = [10]\n"
	writeConfig(t, dir, content)

	cfg, err := NewLoader().Load(testCommand(), dir)
	require.NoError(t, err)

	assert.True(t, cfg.HSA.HasEarlyStopTarget)
	assert.Equal(t, 1200.0, cfg.HSA.EarlyStopTarget)
	assert.False(t, cfg.CES.HasEarlyStopTarget)
	assert.True(t, cfg.Consistency.Enabled())
}

func TestLoader_Defaults(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	writeConfig(t, dir, sampleTOML)

	cfg, err := NewLoader().Load(testCommand(), dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultTrainerBin, cfg.Engine.Trainer)
	assert.Equal(t, DefaultBenchmarkBin, cfg.Engine.Benchmark)
	assert.Equal(t, filepath.Dir(dir), cfg.Engine.Root, "engine root defaults to the experiments directory's parent")
	assert.Equal(t, DefaultInterpreter, cfg.Plots.Interpreter)
}

func TestLoader_MissingConfigFails(t *testing.T) {
	viper.Reset()

	_, err := NewLoader().Load(testCommand(), t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no config file found")
}

func TestLoader_InvalidConfigFails(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	writeConfig(t, dir, "[training]\nseeds = []\n")

	_, err := NewLoader().Load(testCommand(), dir)
	assert.Error(t, err)
}

func TestFindConfig(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "", FindConfig(dir))

	path := writeConfig(t, dir, sampleTOML)
	assert.Equal(t, path, FindConfig(dir))
}

func TestFindConfig_WalksUpForDotFile(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	dotfile := filepath.Join(root, ".hxp.toml")
	require.NoError(t, os.WriteFile(dotfile, []byte(sampleTOML), 0o644))

	assert.Equal(t, dotfile, FindConfig(sub))
}
