package manifest

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// Reconcile deletes outputs tracked in the manifest that the current config
// no longer expects: the file is removed from disk, then the entry from the
// manifest. Virtual markers are never orphans. Runs once per pipeline
// invocation, before any stage, so a config change that drops a seed or
// sweep both frees disk space and leaves the manifest tracking only
// currently-requested outputs.
//
// A failed delete is logged and skips the entry removal, so the next run
// retries; it never aborts reconciliation of the remaining orphans.
func Reconcile(m *Manifest, expected map[string]struct{}, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	var orphans []string
	for identity := range m.Entries {
		if IsVirtual(identity) {
			continue
		}

		if _, ok := expected[identity]; !ok {
			orphans = append(orphans, identity)
		}
	}

	sort.Strings(orphans)

	for _, identity := range orphans {
		full := filepath.Join(m.BaseDir(), identity)

		if _, err := os.Stat(full); err == nil {
			logger.Info("removing orphaned output", slog.String("path", identity))

			if err := os.Remove(full); err != nil {
				logger.Warn("failed to remove orphaned output",
					slog.String("path", identity),
					slog.Any("error", err))
				continue
			}
		}

		m.Remove(identity)
	}
}
