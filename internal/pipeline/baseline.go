package pipeline

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/harmonomino/hxp/internal/manifest"
	"github.com/harmonomino/hxp/internal/utils"
)

// runBaselines generates the random baseline weight files in-process. Each
// file gets its own RNG seeded from random_seed and its index, so a single
// stale file can be regenerated without replaying the draws for the others.
func (r *Runner) runBaselines() error {
	// Baselines share the weight-vector length of the HSA runs they are
	// compared against.
	n := r.cfg.HSA.NWeights

	for i := 0; i < r.cfg.Baselines.RandomWeights; i++ {
		fp, err := manifest.Hash(map[string]any{
			"kind":        "baseline",
			"index":       i,
			"random_seed": r.cfg.Baselines.RandomSeed,
			"n_weights":   n,
		})
		if err != nil {
			return err
		}

		id := manifest.BaselineWeights(i)
		if r.fresh(fp, id) {
			r.skip(id)
			continue
		}

		if r.opts.DryRun {
			r.logger.Info("would generate baseline", slog.String("path", id))
			continue
		}

		r.logger.Info("generating baseline", slog.String("path", id))

		rng := rand.New(rand.NewSource(r.cfg.Baselines.RandomSeed + int64(i)))
		weights := make([]float64, n)
		for j := range weights {
			weights[j] = rng.Float64()*2 - 1
		}

		if err := writeWeights(r.abs(id), weights); err != nil {
			return fmt.Errorf("baseline %d: %w", i, err)
		}

		r.record(fp, id)
	}

	return nil
}

// writeWeights writes one weight value per line.
func writeWeights(path string, weights []float64) error {
	var b strings.Builder
	for _, w := range weights {
		b.WriteString(utils.FormatFloat(w))
		b.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
