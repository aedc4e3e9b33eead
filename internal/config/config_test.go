package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		BaseDir:    "/exp",
		Training:   TrainingConfig{Seeds: []int{1, 2}},
		HSA:        HSAConfig{NWeights: 8},
		CES:        CESConfig{NWeights: 8},
		Baselines:  BaselinesConfig{RandomWeights: 5},
		Evaluation: EvaluationConfig{Seeds: []int{100}},
		Engine:     EngineConfig{Root: "/engine", Trainer: "trainer", Benchmark: "benchmark"},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no training seeds", func(c *Config) { c.Training.Seeds = nil }},
		{"bad hsa n_weights", func(c *Config) { c.HSA.NWeights = 0 }},
		{"bad ces n_weights", func(c *Config) { c.CES.NWeights = -1 }},
		{"negative baselines", func(c *Config) { c.Baselines.RandomWeights = -1 }},
		{"no eval seeds", func(c *Config) { c.Evaluation.Seeds = nil }},
		{"consistency without lengths", func(c *Config) {
			c.Consistency = ConsistencyConfig{Present: true}
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := validConfig()
			test.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCESSeeds_FallsBackToTrainingSeeds(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, []int{1, 2}, cfg.CESSeeds())

	cfg.CES.Seeds = []int{9}
	assert.Equal(t, []int{9}, cfg.CESSeeds())
}

func TestEnginePaths(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Trainer = "target/release/harmonomino"

	assert.Equal(t, filepath.Join("/engine", "target/release/harmonomino"), cfg.TrainerPath())

	cfg.Engine.Benchmark = "/usr/local/bin/benchmark"
	assert.Equal(t, "/usr/local/bin/benchmark", cfg.BenchmarkPath(), "absolute paths are used as-is")
}

func TestValidate_ResolvesEngineRoot(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Root = "relative/engine"

	require.NoError(t, cfg.Validate())
	assert.True(t, filepath.IsAbs(cfg.Engine.Root))
}
