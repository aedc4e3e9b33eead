package config

import (
	"fmt"
	"path/filepath"
)

// Algorithm tags used in output paths and engine arguments.
const (
	AlgorithmHSA = "hsa"
	AlgorithmCES = "ces"

	// TagRandom labels the random-baseline evaluation group.
	TagRandom = "random"
)

// SweepParams are the engine parameters the sweep phase benchmarks, in
// pipeline order. Names use the engine's flag spelling; output files use
// the underscored form.
var SweepParams = []string{"bandwidth", "iterations", "pitch-adj-rate"}

// Config holds the full experiment pipeline configuration.
type Config struct {
	// BaseDir is the experiments directory all outputs are relative to.
	// Resolved by the loader, not read from file.
	BaseDir string `json:"-" mapstructure:"-"`

	Training     TrainingConfig     `json:"training" mapstructure:"training"`
	HSA          HSAConfig          `json:"hsa" mapstructure:"hsa"`
	CES          CESConfig          `json:"ces" mapstructure:"ces"`
	Baselines    BaselinesConfig    `json:"baselines" mapstructure:"baselines"`
	Evaluation   EvaluationConfig   `json:"evaluation" mapstructure:"evaluation"`
	Sweeps       SweepsConfig       `json:"sweeps" mapstructure:"sweeps"`
	MassOptimize MassOptimizeConfig `json:"mass_optimize" mapstructure:"mass_optimize"`
	Consistency  ConsistencyConfig  `json:"consistency" mapstructure:"consistency"`
	Plots        PlotsConfig        `json:"plots" mapstructure:"plots"`
	Engine       EngineConfig       `json:"engine" mapstructure:"engine"`
}

// TrainingConfig lists the seeds each training algorithm runs with.
type TrainingConfig struct {
	Seeds []int `json:"seeds" mapstructure:"seeds"`
}

// HSAConfig parameterizes harmony-search training.
type HSAConfig struct {
	Iterations         int     `json:"iterations" mapstructure:"iterations"`
	MemorySize         int     `json:"memory_size" mapstructure:"memory_size"`
	AcceptRate         float64 `json:"accept_rate" mapstructure:"accept_rate"`
	PitchAdjRate       float64 `json:"pitch_adj_rate" mapstructure:"pitch_adj_rate"`
	Bandwidth          float64 `json:"bandwidth" mapstructure:"bandwidth"`
	SimLength          int     `json:"sim_length" mapstructure:"sim_length"`
	NWeights           int     `json:"n_weights" mapstructure:"n_weights"`
	AveragedRuns       int     `json:"averaged_runs" mapstructure:"averaged_runs"`
	Averaged           bool    `json:"averaged" mapstructure:"averaged"`
	EarlyStopPatience  int     `json:"early_stop_patience" mapstructure:"early_stop_patience"`
	EarlyStopTarget    float64 `json:"early_stop_target" mapstructure:"early_stop_target"`
	HasEarlyStopTarget bool    `json:"has_early_stop_target" mapstructure:"-"`
}

// CESConfig parameterizes cross-entropy training.
type CESConfig struct {
	// Seeds overrides Training.Seeds for CES runs when non-empty.
	Seeds []int `json:"seeds" mapstructure:"seeds"`

	Iterations         int     `json:"iterations" mapstructure:"iterations"`
	NSamples           int     `json:"n_samples" mapstructure:"n_samples"`
	NElite             int     `json:"n_elite" mapstructure:"n_elite"`
	InitialStdDev      float64 `json:"initial_std_dev" mapstructure:"initial_std_dev"`
	StdDevFloor        float64 `json:"std_dev_floor" mapstructure:"std_dev_floor"`
	SimLength          int     `json:"sim_length" mapstructure:"sim_length"`
	NWeights           int     `json:"n_weights" mapstructure:"n_weights"`
	AveragedRuns       int     `json:"averaged_runs" mapstructure:"averaged_runs"`
	Averaged           bool    `json:"averaged" mapstructure:"averaged"`
	EarlyStopPatience  int     `json:"early_stop_patience" mapstructure:"early_stop_patience"`
	EarlyStopTarget    float64 `json:"early_stop_target" mapstructure:"early_stop_target"`
	HasEarlyStopTarget bool    `json:"has_early_stop_target" mapstructure:"-"`
}

// BaselinesConfig parameterizes the in-process random baselines.
type BaselinesConfig struct {
	RandomSeed    int64 `json:"random_seed" mapstructure:"random_seed"`
	RandomWeights int   `json:"random_weights" mapstructure:"random_weights"`
}

// EvaluationConfig parameterizes the evaluation phase.
type EvaluationConfig struct {
	Seeds     []int `json:"seeds" mapstructure:"seeds"`
	SimLength int   `json:"sim_length" mapstructure:"sim_length"`
}

// SweepsConfig parameterizes parameter sweeps. The phase runs only when the
// section is present in the config file.
type SweepsConfig struct {
	Present bool `json:"-" mapstructure:"-"`

	SimLength int `json:"sim_length" mapstructure:"sim_length"`
	NWeights  int `json:"n_weights" mapstructure:"n_weights"`
}

func (c SweepsConfig) Enabled() bool { return c.Present }

// MassOptimizeConfig parameterizes the mass-optimization phase; a present
// section enables it.
type MassOptimizeConfig struct {
	Present bool `json:"-" mapstructure:"-"`

	Count     int `json:"count" mapstructure:"count"`
	SimLength int `json:"sim_length" mapstructure:"sim_length"`
	NWeights  int `json:"n_weights" mapstructure:"n_weights"`
}

func (c MassOptimizeConfig) Enabled() bool { return c.Present }

// ConsistencyConfig parameterizes the consistency test; a present section
// enables it.
type ConsistencyConfig struct {
	Present bool `json:"-" mapstructure:"-"`

	Seed        int   `json:"seed" mapstructure:"seed"`
	GameLengths []int `json:"game_lengths" mapstructure:"game_lengths"`
}

func (c ConsistencyConfig) Enabled() bool { return c.Present }

// PlotsConfig parameterizes the plot regeneration shellout; a present
// section enables it. The plotting layer itself only reads finished result
// files and never touches the cache.
type PlotsConfig struct {
	Present bool `json:"-" mapstructure:"-"`

	Interpreter string `json:"interpreter" mapstructure:"interpreter"`
	Script      string `json:"script" mapstructure:"script"`
}

func (c PlotsConfig) Enabled() bool { return c.Present }

// EngineConfig locates the external optimization engine.
type EngineConfig struct {
	// Root is the engine repository root, used as the working directory
	// for invocations and as the scope of the engine fingerprint probe.
	Root string `json:"-" mapstructure:"root"`

	// Trainer and Benchmark are the binary paths, relative to Root
	// unless absolute.
	Trainer   string `json:"-" mapstructure:"trainer"`
	Benchmark string `json:"-" mapstructure:"benchmark"`
}

// CESSeeds returns the seeds CES training runs with: its own list when set,
// otherwise the shared training seeds.
func (c *Config) CESSeeds() []int {
	if len(c.CES.Seeds) > 0 {
		return c.CES.Seeds
	}

	return c.Training.Seeds
}

// Validate checks the invariants the pipeline depends on and resolves the
// engine root to an absolute path.
func (c *Config) Validate() error {
	if len(c.Training.Seeds) == 0 {
		return fmt.Errorf("training.seeds must not be empty")
	}

	if c.HSA.NWeights <= 0 {
		return fmt.Errorf("hsa.n_weights must be positive")
	}

	if c.CES.NWeights <= 0 {
		return fmt.Errorf("ces.n_weights must be positive")
	}

	if c.Baselines.RandomWeights < 0 {
		return fmt.Errorf("baselines.random_weights must not be negative")
	}

	if len(c.Evaluation.Seeds) == 0 {
		return fmt.Errorf("evaluation.seeds must not be empty")
	}

	if c.Consistency.Enabled() && len(c.Consistency.GameLengths) == 0 {
		return fmt.Errorf("consistency.game_lengths must not be empty")
	}

	if c.Engine.Root != "" {
		abs, err := filepath.Abs(c.Engine.Root)
		if err != nil {
			return fmt.Errorf("invalid engine root: %w", err)
		}

		c.Engine.Root = abs
	}

	return nil
}

// TrainerPath returns the resolved path of the trainer binary.
func (c *Config) TrainerPath() string {
	return c.enginePath(c.Engine.Trainer)
}

// BenchmarkPath returns the resolved path of the benchmark binary.
func (c *Config) BenchmarkPath() string {
	return c.enginePath(c.Engine.Benchmark)
}

func (c *Config) enginePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(c.Engine.Root, p)
}
