package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/harmonomino/hxp/internal/config"
	"github.com/harmonomino/hxp/internal/engine"
	"github.com/harmonomino/hxp/internal/manifest"
)

// runTraining trains HSA weights for every training seed, then CES weights
// for the CES seeds. One trainer invocation produces two outputs, the weight
// vector and the convergence log, which share a fingerprint.
func (r *Runner) runTraining() error {
	for _, seed := range r.cfg.Training.Seeds {
		if err := r.trainOne(config.AlgorithmHSA, seed, r.cfg.HSA); err != nil {
			return err
		}
	}

	for _, seed := range r.cfg.CESSeeds() {
		if err := r.trainOne(config.AlgorithmCES, seed, r.cfg.CES); err != nil {
			return err
		}
	}

	return nil
}

// trainOne runs a single training invocation unless both of its outputs are
// fresh. params is the algorithm's config section; its full value is the
// relevant config subset for this stage.
func (r *Runner) trainOne(algorithm string, seed int, params any) error {
	fp, err := manifest.Hash(map[string]any{
		"algorithm": algorithm,
		"seed":      seed,
		"params":    params,
	})
	if err != nil {
		return err
	}

	weights := manifest.TrainWeights(algorithm, seed)
	convergence := manifest.TrainConvergence(algorithm, seed)

	if r.fresh(fp, weights, convergence) {
		r.skip(weights)
		return nil
	}

	r.logger.Info("training",
		slog.String("algorithm", algorithm),
		slog.Int("seed", seed))

	sc, err := engine.TrainCommand(r.cfg, algorithm, seed)
	if err != nil {
		return err
	}

	if err := r.invoke(sc); err != nil {
		return fmt.Errorf("training %s seed %d: %w", algorithm, seed, err)
	}

	r.record(fp, weights, convergence)
	return nil
}
