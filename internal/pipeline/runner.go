// Package pipeline drives the experiment phases in order, consulting the
// manifest cache before every engine invocation and checkpointing it after
// every phase.
//
// Execution is strictly sequential: one phase at a time, one manifest owner,
// no concurrent access. The manifest is read once at startup and rewritten
// wholesale at each checkpoint, so an interrupted run redoes at most the
// in-flight phase.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/harmonomino/hxp/internal/config"
	"github.com/harmonomino/hxp/internal/engine"
	"github.com/harmonomino/hxp/internal/manifest"
)

// Invoker runs one assembled engine invocation. Satisfied by engine.Runner;
// faked in tests.
type Invoker interface {
	Run(*engine.ShellCommand) error
}

// Options tune a pipeline run.
type Options struct {
	// Force reruns every phase regardless of recorded freshness.
	Force bool

	// DryRun reports skip/rerun decisions without invoking the engine or
	// mutating the manifest.
	DryRun bool

	// SkipPlots leaves the plots phase out even when configured.
	SkipPlots bool
}

// Runner owns the manifest handle for one pipeline invocation.
type Runner struct {
	cfg      *config.Config
	man      *manifest.Manifest
	invoker  Invoker
	engineFP manifest.EngineFingerprintFunc
	logger   *slog.Logger
	opts     Options
}

// New creates a pipeline runner. A nil engineFP disables the global
// invalidation gate; a nil logger falls back to slog.Default().
func New(cfg *config.Config, man *manifest.Manifest, invoker Invoker, engineFP manifest.EngineFingerprintFunc, logger *slog.Logger, opts Options) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	if engineFP == nil {
		engineFP = func() manifest.Fingerprint { return "" }
	}

	return &Runner{
		cfg:      cfg,
		man:      man,
		invoker:  invoker,
		engineFP: engineFP,
		logger:   logger,
		opts:     opts,
	}
}

// Run executes the full pipeline: engine gate, orphan reconciliation, then
// every phase in order with a manifest checkpoint after each.
func (r *Runner) Run() error {
	if err := r.ensureDirs(); err != nil {
		return err
	}

	if fp := r.engineFP(); fp == "" {
		r.logger.Info("engine fingerprint unavailable, skipping invalidation gate")
	} else if manifest.ApplyEngineGate(r.man, fp) {
		r.logger.Info("engine changed, invalidating all cached outputs",
			slog.String("engine_fingerprint", string(fp)))
	}

	if r.opts.DryRun {
		r.logger.Info("dry-run, skipping orphan reconciliation")
	} else {
		manifest.Reconcile(r.man, manifest.ExpectedOutputs(r.cfg), r.logger)
	}

	if err := r.checkpoint(); err != nil {
		return err
	}

	phases := []struct {
		name    string
		enabled bool
		run     func() error
	}{
		{"train", true, r.runTraining},
		{"baseline", true, r.runBaselines},
		{"evaluate", true, r.runEvaluation},
		{"sweep", r.cfg.Sweeps.Enabled(), r.runSweeps},
		{"mass-optimize", r.cfg.MassOptimize.Enabled(), r.runMassOptimize},
		{"consistency", r.cfg.Consistency.Enabled(), r.runConsistency},
		{"plots", r.cfg.Plots.Enabled() && !r.opts.SkipPlots, r.runPlots},
	}

	for _, phase := range phases {
		if !phase.enabled {
			continue
		}

		if err := phase.run(); err != nil {
			return fmt.Errorf("%s phase: %w", phase.name, err)
		}

		if err := r.checkpoint(); err != nil {
			return err
		}
	}

	return nil
}

// checkpoint persists the manifest so completed phases survive a crash.
func (r *Runner) checkpoint() error {
	if r.opts.DryRun {
		return nil
	}

	if err := r.man.Save(); err != nil {
		return fmt.Errorf("failed to checkpoint manifest: %w", err)
	}

	return nil
}

// fresh reports whether every given identity is fresh for fp, honoring
// --force.
func (r *Runner) fresh(fp manifest.Fingerprint, identities ...string) bool {
	if r.opts.Force {
		return false
	}

	for _, id := range identities {
		if !r.man.IsFresh(id, fp) {
			return false
		}
	}

	return true
}

// record stamps all identities with fp, unless dry-running.
func (r *Runner) record(fp manifest.Fingerprint, identities ...string) {
	if r.opts.DryRun {
		return
	}

	for _, id := range identities {
		r.man.Record(id, fp)
	}
}

// skip logs a cache hit.
func (r *Runner) skip(what string) {
	r.logger.Info("up to date, skipping", slog.String("target", what))
}

// invoke runs one engine command, honoring dry-run.
func (r *Runner) invoke(sc *engine.ShellCommand) error {
	if r.opts.DryRun {
		r.logger.Info("would run", slog.String("command", sc.String()))
		return nil
	}

	return r.invoker.Run(sc)
}

func (r *Runner) ensureDirs() error {
	dirs := []string{
		filepath.Join(r.cfg.BaseDir, "results"),
		filepath.Join(r.cfg.BaseDir, "plots"),
		filepath.Join(r.cfg.BaseDir, "weights", config.AlgorithmHSA),
		filepath.Join(r.cfg.BaseDir, "weights", config.AlgorithmCES),
		filepath.Join(r.cfg.BaseDir, "weights", "baselines"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return nil
}

// abs resolves an output identity to its on-disk path.
func (r *Runner) abs(identity string) string {
	return filepath.Join(r.cfg.BaseDir, identity)
}
