package manifest

import (
	"fmt"
	"strings"

	"github.com/harmonomino/hxp/internal/config"
)

// Output naming is defined once here and used both by the stage drivers when
// producing files and by ExpectedOutputs when projecting what the current
// config will produce. Keeping a single source of truth is what makes orphan
// reconciliation safe: a second, diverging copy of these rules would either
// delete still-wanted outputs or leak stale ones.

// TrainWeights returns the weights output identity for one training run.
func TrainWeights(algorithm string, seed int) string {
	return fmt.Sprintf("weights/%s/seed-%d.txt", algorithm, seed)
}

// TrainConvergence returns the convergence-log identity for one training run.
func TrainConvergence(algorithm string, seed int) string {
	return fmt.Sprintf("results/convergence_%s_seed-%d.csv", algorithm, seed)
}

// BaselineWeights returns the identity of the i-th random baseline.
func BaselineWeights(i int) string {
	return fmt.Sprintf("weights/baselines/random-%02d.txt", i)
}

// EvalResults returns the evaluation output identity for a weight group tag.
func EvalResults(tag string) string {
	return fmt.Sprintf("results/eval_%s.csv", tag)
}

// SweepResults returns the benchmark output identity for a sweep parameter.
func SweepResults(param string) string {
	return fmt.Sprintf("results/benchmark_%s.csv", strings.ReplaceAll(param, "-", "_"))
}

// MassOptimizeResults is the mass-optimization output identity.
const MassOptimizeResults = "results/optimized_weights.csv"

// ConsistencyResults is the consistency-test output identity.
const ConsistencyResults = "results/consistency.csv"

// PlotsMarker is the virtual identity tracking plot regeneration. Not a
// file; exempt from existence checks and orphan deletion.
const PlotsMarker = "_plots"

// ExpectedOutputs enumerates every output identity the pipeline would
// produce under cfg. Anything tracked in the manifest but absent from this
// set is an orphan from an earlier configuration.
func ExpectedOutputs(cfg *config.Config) map[string]struct{} {
	expected := make(map[string]struct{})

	add := func(id string) { expected[id] = struct{}{} }

	for _, seed := range cfg.Training.Seeds {
		add(TrainWeights(config.AlgorithmHSA, seed))
		add(TrainConvergence(config.AlgorithmHSA, seed))
	}

	for _, seed := range cfg.CESSeeds() {
		add(TrainWeights(config.AlgorithmCES, seed))
		add(TrainConvergence(config.AlgorithmCES, seed))
	}

	for i := 0; i < cfg.Baselines.RandomWeights; i++ {
		add(BaselineWeights(i))
	}

	add(EvalResults(config.AlgorithmHSA))
	add(EvalResults(config.AlgorithmCES))
	add(EvalResults(config.TagRandom))

	if cfg.Sweeps.Enabled() {
		for _, param := range config.SweepParams {
			add(SweepResults(param))
		}
	}

	if cfg.MassOptimize.Enabled() {
		add(MassOptimizeResults)
	}

	if cfg.Consistency.Enabled() {
		add(ConsistencyResults)
	}

	return expected
}
