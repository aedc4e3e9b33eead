package engine

import (
	"path/filepath"
	"testing"

	"github.com/harmonomino/hxp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		BaseDir: "/exp",
		HSA: config.HSAConfig{
			Iterations: 500, MemorySize: 30, AcceptRate: 0.95,
			PitchAdjRate: 0.3, Bandwidth: 0.05,
			SimLength: 1000, NWeights: 8, AveragedRuns: 3,
		},
		CES: config.CESConfig{
			Iterations: 80, NSamples: 100, NElite: 10,
			InitialStdDev: 1.5, StdDevFloor: 0.02,
			SimLength: 1000, NWeights: 8, AveragedRuns: 3,
		},
		Sweeps:       config.SweepsConfig{SimLength: 500, NWeights: 8},
		MassOptimize: config.MassOptimizeConfig{Count: 50, SimLength: 500, NWeights: 8},
		Plots:        config.PlotsConfig{Interpreter: "python3", Script: "plot_results.py"},
		Engine: config.EngineConfig{
			Root:      "/engine",
			Trainer:   "target/release/harmonomino",
			Benchmark: "target/release/benchmark",
		},
	}
}

func TestTrainCommand_HSA(t *testing.T) {
	cfg := testConfig()

	sc, err := TrainCommand(cfg, config.AlgorithmHSA, 42)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/engine", "target/release/harmonomino"), sc.Path)
	assert.Equal(t, "/engine", sc.Dir)

	assert.Equal(t, []string{
		"--algorithm", "hsa",
		"--seed", "42",
		"--iterations", "500",
		"--memory-size", "30",
		"--accept-rate", "0.95",
		"--pitch-adj-rate", "0.3",
		"--bandwidth", "0.05",
		"--sim-length", "1000",
		"--n-weights", "8",
		"--averaged-runs", "3",
		"--output", filepath.Join("/exp", "weights", "hsa", "seed-42.txt"),
		"--log-csv", filepath.Join("/exp", "results", "convergence_hsa_seed-42.csv"),
	}, sc.Args)
}

func TestTrainCommand_CES(t *testing.T) {
	cfg := testConfig()

	sc, err := TrainCommand(cfg, config.AlgorithmCES, 7)
	require.NoError(t, err)

	// The engine spells cross-entropy "ce" even though outputs use "ces".
	assert.Contains(t, sc.Args, "ce")
	assert.Contains(t, sc.Args, "--n-samples")
	assert.Contains(t, sc.Args, "--initial-std-dev")
	assert.Contains(t, sc.Args, filepath.Join("/exp", "weights", "ces", "seed-7.txt"))
}

func TestTrainCommand_OptionalFlags(t *testing.T) {
	cfg := testConfig()
	cfg.HSA.Averaged = true
	cfg.HSA.EarlyStopPatience = 25
	cfg.HSA.HasEarlyStopTarget = true
	cfg.HSA.EarlyStopTarget = 1200

	sc, err := TrainCommand(cfg, config.AlgorithmHSA, 1)
	require.NoError(t, err)

	assert.Contains(t, sc.Args, "--averaged")
	assert.Contains(t, sc.Args, "--early-stop-patience")
	assert.Contains(t, sc.Args, "--early-stop-target")
	assert.Contains(t, sc.Args, "1200")
}

func TestTrainCommand_OptionalFlagsAbsentByDefault(t *testing.T) {
	sc, err := TrainCommand(testConfig(), config.AlgorithmHSA, 1)
	require.NoError(t, err)

	assert.NotContains(t, sc.Args, "--averaged")
	assert.NotContains(t, sc.Args, "--early-stop-patience")
	assert.NotContains(t, sc.Args, "--early-stop-target")
}

func TestTrainCommand_UnknownAlgorithm(t *testing.T) {
	_, err := TrainCommand(testConfig(), "genetic", 1)
	assert.Error(t, err)
}

func TestEvalCommand(t *testing.T) {
	cfg := testConfig()

	sc := EvalCommand(cfg, "/exp/results/eval_hsa.csv", []int{100, 200}, 1000, 8,
		[]string{"/exp/weights/hsa/seed-1.txt", "/exp/weights/hsa/seed-2.txt"})

	assert.Equal(t, filepath.Join("/engine", "target/release/benchmark"), sc.Path)
	assert.Equal(t, []string{
		"--eval",
		"--sim-length", "1000",
		"--n-weights", "8",
		"--output-csv", "/exp/results/eval_hsa.csv",
		"--seeds", "100,200",
		"--weights", "/exp/weights/hsa/seed-1.txt",
		"--weights", "/exp/weights/hsa/seed-2.txt",
	}, sc.Args)
}

func TestSweepCommand(t *testing.T) {
	sc := SweepCommand(testConfig(), "pitch-adj-rate")

	assert.Equal(t, []string{
		"--sweep", "pitch-adj-rate",
		"--sim-length", "500",
		"--n-weights", "8",
	}, sc.Args)
}

func TestMassOptimizeCommand(t *testing.T) {
	sc := MassOptimizeCommand(testConfig())

	assert.Equal(t, []string{
		"--mass-optimize", "50",
		"--sim-length", "500",
		"--n-weights", "8",
	}, sc.Args)
}

func TestPlotCommand(t *testing.T) {
	sc := PlotCommand(testConfig())

	assert.Equal(t, "python3", sc.Path)
	assert.Equal(t, "/exp", sc.Dir)
	assert.Equal(t, []string{filepath.Join("/exp", "plot_results.py")}, sc.Args)
}

func TestShellCommand_String(t *testing.T) {
	sc := &ShellCommand{Path: "bin", Args: []string{"--flag", "value"}}
	assert.Equal(t, "bin --flag value", sc.String())
}
