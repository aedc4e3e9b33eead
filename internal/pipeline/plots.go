package pipeline

import (
	"fmt"

	"github.com/harmonomino/hxp/internal/config"
	"github.com/harmonomino/hxp/internal/engine"
	"github.com/harmonomino/hxp/internal/manifest"
)

// runPlots shells out to the plotting script when any result it reads has
// changed. Plots leave no single tracked file, so freshness is tracked under
// the virtual marker identity, which is exempt from on-disk checks.
func (r *Runner) runPlots() error {
	fp, err := manifest.Hash(map[string]any{
		"interpreter": r.cfg.Plots.Interpreter,
		"script":      r.cfg.Plots.Script,
		"upstream":    r.upstream(r.resultIDs()),
	})
	if err != nil {
		return err
	}

	if r.fresh(fp, manifest.PlotsMarker) {
		r.skip("plots")
		return nil
	}

	r.logger.Info("regenerating plots")

	if err := r.invoke(engine.PlotCommand(r.cfg)); err != nil {
		return fmt.Errorf("plots: %w", err)
	}

	r.record(fp, manifest.PlotsMarker)
	return nil
}

// resultIDs lists every result file the plotting layer reads.
func (r *Runner) resultIDs() []string {
	var ids []string

	for _, seed := range r.cfg.Training.Seeds {
		ids = append(ids, manifest.TrainConvergence(config.AlgorithmHSA, seed))
	}

	for _, seed := range r.cfg.CESSeeds() {
		ids = append(ids, manifest.TrainConvergence(config.AlgorithmCES, seed))
	}

	ids = append(ids,
		manifest.EvalResults(config.AlgorithmHSA),
		manifest.EvalResults(config.AlgorithmCES),
		manifest.EvalResults(config.TagRandom),
	)

	if r.cfg.Sweeps.Enabled() {
		for _, param := range config.SweepParams {
			ids = append(ids, manifest.SweepResults(param))
		}
	}

	if r.cfg.MassOptimize.Enabled() {
		ids = append(ids, manifest.MassOptimizeResults)
	}

	if r.cfg.Consistency.Enabled() {
		ids = append(ids, manifest.ConsistencyResults)
	}

	return ids
}
