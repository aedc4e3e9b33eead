package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/harmonomino/hxp/internal/config"
	"github.com/harmonomino/hxp/internal/engine"
	"github.com/harmonomino/hxp/internal/manifest"
)

// runEvaluation benchmarks each weight group (hsa, ces, random) against the
// evaluation seeds. The effective input folds in the recorded fingerprint of
// every upstream weight file, so a retrained seed invalidates its group's
// evaluation without rehashing any artifact content.
func (r *Runner) runEvaluation() error {
	groups := []struct {
		tag      string
		nWeights int
		weights  []string
	}{
		{config.AlgorithmHSA, r.cfg.HSA.NWeights, r.hsaWeightIDs()},
		{config.AlgorithmCES, r.cfg.CES.NWeights, r.cesWeightIDs()},
		{config.TagRandom, r.cfg.HSA.NWeights, r.baselineWeightIDs()},
	}

	for _, g := range groups {
		if len(g.weights) == 0 {
			continue
		}

		if err := r.evalGroup(g.tag, g.nWeights, g.weights); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) evalGroup(tag string, nWeights int, weightIDs []string) error {
	fp, err := manifest.Hash(map[string]any{
		"tag":        tag,
		"evaluation": r.cfg.Evaluation,
		"n_weights":  nWeights,
		"upstream":   r.upstream(weightIDs),
	})
	if err != nil {
		return err
	}

	id := manifest.EvalResults(tag)
	if r.fresh(fp, id) {
		r.skip(id)
		return nil
	}

	r.logger.Info("evaluating", slog.String("group", tag))

	paths := make([]string, len(weightIDs))
	for i, wid := range weightIDs {
		paths[i] = r.abs(wid)
	}

	sc := engine.EvalCommand(r.cfg, r.abs(id), r.cfg.Evaluation.Seeds, r.cfg.Evaluation.SimLength, nWeights, paths)
	if err := r.invoke(sc); err != nil {
		return fmt.Errorf("evaluating %s: %w", tag, err)
	}

	r.record(fp, id)
	return nil
}

// upstream maps each consumed identity to its currently recorded
// fingerprint. The empty sentinel for never-produced upstreams participates
// like any other value, so "missing" is itself a distinct input.
func (r *Runner) upstream(identities []string) map[string]string {
	deps := make(map[string]string, len(identities))
	for _, id := range identities {
		deps[id] = string(r.man.HashOf(id))
	}

	return deps
}

func (r *Runner) hsaWeightIDs() []string {
	ids := make([]string, 0, len(r.cfg.Training.Seeds))
	for _, seed := range r.cfg.Training.Seeds {
		ids = append(ids, manifest.TrainWeights(config.AlgorithmHSA, seed))
	}

	return ids
}

func (r *Runner) cesWeightIDs() []string {
	seeds := r.cfg.CESSeeds()
	ids := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		ids = append(ids, manifest.TrainWeights(config.AlgorithmCES, seed))
	}

	return ids
}

func (r *Runner) baselineWeightIDs() []string {
	ids := make([]string, 0, r.cfg.Baselines.RandomWeights)
	for i := 0; i < r.cfg.Baselines.RandomWeights; i++ {
		ids = append(ids, manifest.BaselineWeights(i))
	}

	return ids
}
