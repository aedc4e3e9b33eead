package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultTrainerBin   = "target/release/harmonomino"
	DefaultBenchmarkBin = "target/release/benchmark"
	DefaultInterpreter  = "python3"
)

// Loader handles configuration loading from file and flags
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the pipeline configuration for the given experiments directory.
// The config file is either the one bound to the --config flag or the first
// discovered by FindConfig. Sections that gate optional phases are marked
// present based on the file contents.
func (l *Loader) Load(cmd *cobra.Command, dir string) (*Config, error) {
	l.setupViperDefaults()
	l.bindCommandFlags(cmd)

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve experiments directory: %w", err)
	}

	path := viper.GetString("config")
	if path == "" {
		path = FindConfig(absDir)
	}

	if path == "" {
		return nil, fmt.Errorf("no config file found in %s", absDir)
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.BaseDir = filepath.Dir(path)

	// Optional phases run only when their section appears in the file.
	// InConfig consults the file alone, so defaults and flags never make
	// a section look present.
	cfg.Sweeps.Present = viper.InConfig("sweeps")
	cfg.MassOptimize.Present = viper.InConfig("mass_optimize")
	cfg.Consistency.Present = viper.InConfig("consistency")
	cfg.Plots.Present = viper.InConfig("plots")
	cfg.HSA.HasEarlyStopTarget = viper.InConfig("hsa.early_stop_target")
	cfg.CES.HasEarlyStopTarget = viper.InConfig("ces.early_stop_target")

	l.applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills in values not present in the file.
func (l *Loader) applyDefaults(cfg *Config) {
	if cfg.Engine.Root == "" {
		// Experiments conventionally live one level inside the engine repo.
		cfg.Engine.Root = filepath.Dir(cfg.BaseDir)
	}

	if cfg.Engine.Trainer == "" {
		cfg.Engine.Trainer = DefaultTrainerBin
	}

	if cfg.Engine.Benchmark == "" {
		cfg.Engine.Benchmark = DefaultBenchmarkBin
	}

	if cfg.Plots.Interpreter == "" {
		cfg.Plots.Interpreter = DefaultInterpreter
	}
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("engine.trainer", DefaultTrainerBin)
	viper.SetDefault("engine.benchmark", DefaultBenchmarkBin)
	viper.SetDefault("plots.interpreter", DefaultInterpreter)
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("config", cmd.Flags().Lookup("config"))
	_ = viper.BindPFlag("engine.root", cmd.Flags().Lookup("engine-root"))
	_ = viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
}
