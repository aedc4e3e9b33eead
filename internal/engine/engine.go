// Package engine builds and runs invocations of the external optimization
// binaries. The engine is a black box: it receives a flat argument list,
// writes result files, and exits with a status code.
package engine

import (
	"fmt"
	"path/filepath"

	"github.com/harmonomino/hxp/internal/config"
	"github.com/harmonomino/hxp/internal/utils"
)

// ShellCommand is one fully-assembled engine invocation.
type ShellCommand struct {
	Path string
	Dir  string
	Args []string
}

// String renders the invocation for logging.
func (c *ShellCommand) String() string {
	s := c.Path
	for _, a := range c.Args {
		s += " " + a
	}

	return s
}

// TrainCommand assembles a trainer invocation for one algorithm and seed.
// Output paths are absolute so the engine's working directory (its repo
// root) does not matter for placement.
func TrainCommand(cfg *config.Config, algorithm string, seed int) (*ShellCommand, error) {
	output := filepath.Join(cfg.BaseDir, "weights", algorithm, fmt.Sprintf("seed-%d.txt", seed))
	logCSV := filepath.Join(cfg.BaseDir, "results", fmt.Sprintf("convergence_%s_seed-%d.csv", algorithm, seed))

	var args []string

	switch algorithm {
	case config.AlgorithmHSA:
		hsa := cfg.HSA
		args = append(args,
			"--algorithm", "hsa",
			"--seed", fmt.Sprintf("%d", seed),
			"--iterations", fmt.Sprintf("%d", hsa.Iterations),
			"--memory-size", fmt.Sprintf("%d", hsa.MemorySize),
			"--accept-rate", utils.FormatFloat(hsa.AcceptRate),
			"--pitch-adj-rate", utils.FormatFloat(hsa.PitchAdjRate),
			"--bandwidth", utils.FormatFloat(hsa.Bandwidth),
			"--sim-length", fmt.Sprintf("%d", hsa.SimLength),
			"--n-weights", fmt.Sprintf("%d", hsa.NWeights),
			"--averaged-runs", fmt.Sprintf("%d", hsa.AveragedRuns),
			"--output", output,
			"--log-csv", logCSV,
		)
		args = appendTrainOptions(args, hsa.Averaged, hsa.EarlyStopPatience, hsa.HasEarlyStopTarget, hsa.EarlyStopTarget)

	case config.AlgorithmCES:
		ces := cfg.CES
		args = append(args,
			"--algorithm", "ce",
			"--seed", fmt.Sprintf("%d", seed),
			"--iterations", fmt.Sprintf("%d", ces.Iterations),
			"--n-samples", fmt.Sprintf("%d", ces.NSamples),
			"--n-elite", fmt.Sprintf("%d", ces.NElite),
			"--initial-std-dev", utils.FormatFloat(ces.InitialStdDev),
			"--std-dev-floor", utils.FormatFloat(ces.StdDevFloor),
			"--sim-length", fmt.Sprintf("%d", ces.SimLength),
			"--n-weights", fmt.Sprintf("%d", ces.NWeights),
			"--averaged-runs", fmt.Sprintf("%d", ces.AveragedRuns),
			"--output", output,
			"--log-csv", logCSV,
		)
		args = appendTrainOptions(args, ces.Averaged, ces.EarlyStopPatience, ces.HasEarlyStopTarget, ces.EarlyStopTarget)

	default:
		return nil, fmt.Errorf("unknown training algorithm: %s", algorithm)
	}

	return &ShellCommand{
		Path: cfg.TrainerPath(),
		Dir:  cfg.Engine.Root,
		Args: args,
	}, nil
}

func appendTrainOptions(args []string, averaged bool, patience int, hasTarget bool, target float64) []string {
	if averaged {
		args = append(args, "--averaged")
	}

	if patience > 0 {
		args = append(args, "--early-stop-patience", fmt.Sprintf("%d", patience))
	}

	if hasTarget {
		args = append(args, "--early-stop-target", utils.FormatFloat(target))
	}

	return args
}

// EvalCommand assembles a benchmark invocation evaluating a group of weight
// files. outputCSV is absolute; weightPaths are absolute paths to the weight
// files under evaluation.
func EvalCommand(cfg *config.Config, outputCSV string, seeds []int, simLength, nWeights int, weightPaths []string) *ShellCommand {
	args := []string{
		"--eval",
		"--sim-length", fmt.Sprintf("%d", simLength),
		"--n-weights", fmt.Sprintf("%d", nWeights),
		"--output-csv", outputCSV,
		"--seeds", utils.FormatSeeds(seeds),
	}

	for _, path := range weightPaths {
		args = append(args, "--weights", path)
	}

	return &ShellCommand{
		Path: cfg.BenchmarkPath(),
		Dir:  cfg.Engine.Root,
		Args: args,
	}
}

// SweepCommand assembles a benchmark invocation sweeping one parameter.
// The engine writes its output under <root>/results/; the sweep driver
// moves it into the experiments directory afterwards.
func SweepCommand(cfg *config.Config, param string) *ShellCommand {
	return &ShellCommand{
		Path: cfg.BenchmarkPath(),
		Dir:  cfg.Engine.Root,
		Args: []string{
			"--sweep", param,
			"--sim-length", fmt.Sprintf("%d", cfg.Sweeps.SimLength),
			"--n-weights", fmt.Sprintf("%d", cfg.Sweeps.NWeights),
		},
	}
}

// MassOptimizeCommand assembles a benchmark invocation producing the bulk
// optimized-weights table. Like sweeps, the output lands under
// <root>/results/ and is moved by the driver.
func MassOptimizeCommand(cfg *config.Config) *ShellCommand {
	return &ShellCommand{
		Path: cfg.BenchmarkPath(),
		Dir:  cfg.Engine.Root,
		Args: []string{
			"--mass-optimize", fmt.Sprintf("%d", cfg.MassOptimize.Count),
			"--sim-length", fmt.Sprintf("%d", cfg.MassOptimize.SimLength),
			"--n-weights", fmt.Sprintf("%d", cfg.MassOptimize.NWeights),
		},
	}
}

// PlotCommand assembles the plot-script invocation.
func PlotCommand(cfg *config.Config) *ShellCommand {
	script := cfg.Plots.Script
	if !filepath.IsAbs(script) {
		script = filepath.Join(cfg.BaseDir, script)
	}

	return &ShellCommand{
		Path: cfg.Plots.Interpreter,
		Dir:  cfg.BaseDir,
		Args: []string{script},
	}
}
