package manifest

import (
	"os/exec"
	"strings"
)

// EngineFingerprintFunc probes the current state of the optimization engine.
// An empty result means "could not determine", which skips the global
// invalidation gate — absence of information must not trigger a wipe.
// Injectable so tests substitute deterministic values without real tooling.
type EngineFingerprintFunc func() Fingerprint

// GitEngineFingerprint returns a probe that fingerprints the engine via the
// last commit touching its source and build inputs. The engine is an opaque
// external binary, so no per-stage fingerprint can account for changes
// inside it; the commit hash stands in for its build identity.
func GitEngineFingerprint(root string) EngineFingerprintFunc {
	return func() Fingerprint {
		cmd := execCommand("git", "log", "-1", "--format=%H", "--", "src/", "Cargo.toml", "Cargo.lock")
		cmd.Dir = root

		out, err := cmd.Output()
		if err != nil {
			return ""
		}

		hash := strings.TrimSpace(string(out))
		if len(hash) > FingerprintLen {
			hash = hash[:FingerprintLen]
		}

		return Fingerprint(hash)
	}
}

// execCommand is swappable in tests.
var execCommand = exec.Command

// ApplyEngineGate compares the probed engine fingerprint against the
// manifest's stored one. On a non-empty mismatch every entry is cleared
// before any stage runs: an engine change invalidates all prior artifacts
// unconditionally. An empty probe result skips the gate entirely. Returns
// whether the manifest was wiped.
func ApplyEngineGate(m *Manifest, current Fingerprint) bool {
	if current == "" {
		return false
	}

	wiped := false
	if m.EngineFingerprint != current && len(m.Entries) > 0 {
		m.ClearEntries()
		wiped = true
	}

	m.EngineFingerprint = current
	return wiped
}
