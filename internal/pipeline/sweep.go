package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/harmonomino/hxp/internal/config"
	"github.com/harmonomino/hxp/internal/engine"
	"github.com/harmonomino/hxp/internal/manifest"
)

// runSweeps benchmarks each sweep parameter. The engine writes its CSV under
// <engineRoot>/results/; the driver moves it into the experiments directory.
func (r *Runner) runSweeps() error {
	for _, param := range config.SweepParams {
		fp, err := manifest.Hash(map[string]any{
			"param":  param,
			"sweeps": r.cfg.Sweeps,
		})
		if err != nil {
			return err
		}

		id := manifest.SweepResults(param)
		if r.fresh(fp, id) {
			r.skip(id)
			continue
		}

		r.logger.Info("sweeping", slog.String("param", param))

		if err := r.invoke(engine.SweepCommand(r.cfg, param)); err != nil {
			return fmt.Errorf("sweep %s: %w", param, err)
		}

		if !r.opts.DryRun {
			if err := r.collectEngineResult(filepath.Base(id)); err != nil {
				return fmt.Errorf("sweep %s: %w", param, err)
			}
		}

		r.record(fp, id)
	}

	return nil
}

// runMassOptimize produces the bulk optimized-weights table used for weight
// analysis.
func (r *Runner) runMassOptimize() error {
	fp, err := manifest.Hash(map[string]any{
		"mass_optimize": r.cfg.MassOptimize,
	})
	if err != nil {
		return err
	}

	id := manifest.MassOptimizeResults
	if r.fresh(fp, id) {
		r.skip(id)
		return nil
	}

	r.logger.Info("mass-optimizing", slog.Int("count", r.cfg.MassOptimize.Count))

	if err := r.invoke(engine.MassOptimizeCommand(r.cfg)); err != nil {
		return fmt.Errorf("mass-optimize: %w", err)
	}

	if !r.opts.DryRun {
		if err := r.collectEngineResult(filepath.Base(id)); err != nil {
			return fmt.Errorf("mass-optimize: %w", err)
		}
	}

	r.record(fp, id)
	return nil
}

// collectEngineResult moves <engineRoot>/results/<name> into the experiments
// results directory. A missing source is not an error; the engine may have
// written directly to the destination.
func (r *Runner) collectEngineResult(name string) error {
	src := filepath.Join(r.cfg.Engine.Root, "results", name)
	dst := filepath.Join(r.cfg.BaseDir, "results", name)

	if _, err := os.Stat(src); err != nil {
		return nil
	}

	return moveFile(src, dst)
}

// moveFile renames src onto dst, falling back to copy-and-delete when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return err
	}

	if err := dstFile.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
