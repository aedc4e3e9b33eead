package pipeline

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/harmonomino/hxp/internal/config"
	"github.com/harmonomino/hxp/internal/engine"
	"github.com/harmonomino/hxp/internal/manifest"
)

// runConsistency evaluates the first HSA weight vector at each configured
// game length and aggregates the scores into one CSV. Depends on that weight
// file's recorded fingerprint, so retraining the seed invalidates the test.
func (r *Runner) runConsistency() error {
	weightID := manifest.TrainWeights(config.AlgorithmHSA, r.cfg.Training.Seeds[0])

	fp, err := manifest.Hash(map[string]any{
		"consistency": r.cfg.Consistency,
		"n_weights":   r.cfg.HSA.NWeights,
		"upstream":    r.upstream([]string{weightID}),
	})
	if err != nil {
		return err
	}

	id := manifest.ConsistencyResults
	if r.fresh(fp, id) {
		r.skip(id)
		return nil
	}

	if r.opts.DryRun {
		r.logger.Info("would run consistency test")
		return nil
	}

	r.logger.Info("running consistency test", slog.String("weights", weightID))

	type row struct {
		length int
		score  int
	}

	var rows []row

	for _, length := range r.cfg.Consistency.GameLengths {
		tmpCSV := filepath.Join(r.cfg.BaseDir, "results", fmt.Sprintf("_consistency_tmp_%d.csv", length))

		sc := engine.EvalCommand(r.cfg, tmpCSV,
			[]int{r.cfg.Consistency.Seed}, length, r.cfg.HSA.NWeights,
			[]string{r.abs(weightID)})

		if err := r.invoker.Run(sc); err != nil {
			return fmt.Errorf("consistency at length %d: %w", length, err)
		}

		scores, err := readScores(tmpCSV)
		if err != nil {
			return fmt.Errorf("consistency at length %d: %w", length, err)
		}

		for _, score := range scores {
			rows = append(rows, row{length, score})
		}

		os.Remove(tmpCSV)
	}

	out, err := os.Create(r.abs(id))
	if err != nil {
		return fmt.Errorf("consistency output: %w", err)
	}

	w := csv.NewWriter(out)
	for _, rec := range rows {
		if err := w.Write([]string{strconv.Itoa(rec.length), strconv.Itoa(rec.score)}); err != nil {
			out.Close()
			return fmt.Errorf("consistency output: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		out.Close()
		return fmt.Errorf("consistency output: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("consistency output: %w", err)
	}

	r.record(fp, id)
	return nil
}

// readScores extracts the rows_cleared column from an evaluation CSV.
func readScores(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty evaluation CSV %s", path)
	}

	col := -1
	for i, name := range records[0] {
		if name == "rows_cleared" {
			col = i
			break
		}
	}

	if col < 0 {
		return nil, fmt.Errorf("no rows_cleared column in %s", path)
	}

	scores := make([]int, 0, len(records)-1)
	for _, rec := range records[1:] {
		score, err := strconv.Atoi(rec[col])
		if err != nil {
			return nil, fmt.Errorf("bad rows_cleared value %q in %s: %w", rec[col], path, err)
		}

		scores = append(scores, score)
	}

	return scores, nil
}
