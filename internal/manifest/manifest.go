// Package manifest implements the incremental build cache for the experiment
// pipeline.
//
// Every pipeline stage shells out to the optimization engine and leaves files
// behind. The manifest tracks, per output file, the fingerprint of the
// effective input (relevant config subset plus recorded fingerprints of
// upstream outputs) that last produced it. On the next run a stage is skipped
// when every output it owns is fresh: recorded fingerprint matches the
// current one and the file is still on disk.
//
// The manifest file is the sole durable state. It is loaded once at process
// start, mutated as stages complete, and rewritten wholesale after each
// phase so an interrupted run loses at most the in-flight phase.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultFileName is the manifest file name inside the experiments
	// directory.
	DefaultFileName = ".manifest.json"

	// Version is the current manifest schema version.
	Version = 1

	// VirtualPrefix marks identities that represent non-file cache state
	// (e.g. "plots regenerated"). Virtual identities are exempt from
	// on-disk existence checks and orphan deletion.
	VirtualPrefix = "_"
)

// Entry records that one output was last produced from an effective input
// hashing to Fingerprint.
type Entry struct {
	// Fingerprint of the effective input that produced the output
	Fingerprint Fingerprint `json:"fingerprint"`

	// ProducedAt is when the output was recorded, UTC, RFC 3339
	ProducedAt string `json:"produced_at"`
}

// Manifest maps output identities (paths relative to the experiments
// directory) to their last-known fingerprints, plus one global fingerprint
// for the engine itself.
type Manifest struct {
	Version           int              `json:"version"`
	EngineFingerprint Fingerprint      `json:"engine_fingerprint"`
	Entries           map[string]Entry `json:"entries"`

	// baseDir resolves identities to on-disk paths; not persisted.
	baseDir string

	// path is where Save writes; not persisted.
	path string

	// now is the clock for ProducedAt stamps, swappable in tests.
	now func() time.Time
}

// New returns an empty manifest rooted at baseDir, persisting to path.
func New(baseDir, path string) *Manifest {
	return &Manifest{
		Version: Version,
		Entries: make(map[string]Entry),
		baseDir: baseDir,
		path:    path,
		now:     time.Now,
	}
}

// Load reads a manifest from path. A missing, truncated, or malformed file
// is not an error: it yields an empty manifest and therefore a full rebuild.
// The cache never blocks the pipeline on its own corruption.
func Load(baseDir, path string) *Manifest {
	m := New(baseDir, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return m
	}

	var raw Manifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return m
	}

	if raw.Version != 0 {
		m.Version = raw.Version
	}

	m.EngineFingerprint = raw.EngineFingerprint
	if raw.Entries != nil {
		m.Entries = raw.Entries
	}

	return m
}

// Save writes the manifest atomically: a temp file in the same directory is
// renamed over the target so a concurrent reader never sees a half-written
// file. Entries serialize in sorted key order for stable diffs.
func (m *Manifest) Save() error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	data = append(data, '\n')

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp manifest: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace manifest: %w", err)
	}

	return nil
}

// Record upserts the entry for identity with the given fingerprint and the
// current time.
func (m *Manifest) Record(identity string, fp Fingerprint) {
	if m.now == nil {
		m.now = time.Now
	}

	m.Entries[identity] = Entry{
		Fingerprint: fp,
		ProducedAt:  m.now().UTC().Format(time.RFC3339),
	}
}

// Remove deletes the entry for identity if present.
func (m *Manifest) Remove(identity string) {
	delete(m.Entries, identity)
}

// HashOf returns the last recorded fingerprint for identity, or the empty
// sentinel if never recorded. Used for dependency chaining: downstream
// stages fold this value into their own effective input, so "never produced"
// is distinguishable from any real fingerprint.
func (m *Manifest) HashOf(identity string) Fingerprint {
	return m.Entries[identity].Fingerprint
}

// IsFresh reports whether identity's recorded fingerprint equals expected
// byte-for-byte and, for non-virtual identities, the file still exists on
// disk. A manifest entry whose file was deleted out-of-band must never be
// reported fresh: the question is "is the artifact usable right now".
func (m *Manifest) IsFresh(identity string, expected Fingerprint) bool {
	entry, ok := m.Entries[identity]
	if !ok || entry.Fingerprint != expected {
		return false
	}

	if IsVirtual(identity) {
		return true
	}

	_, err := os.Stat(filepath.Join(m.baseDir, identity))
	return err == nil
}

// ClearEntries drops every entry, keeping the manifest object and its
// engine fingerprint.
func (m *Manifest) ClearEntries() {
	m.Entries = make(map[string]Entry)
}

// BaseDir returns the directory identities are resolved against.
func (m *Manifest) BaseDir() string {
	return m.baseDir
}

// Path returns the file Save writes to.
func (m *Manifest) Path() string {
	return m.path
}

// IsVirtual reports whether identity is a virtual marker rather than a file.
func IsVirtual(identity string) bool {
	return strings.HasPrefix(identity, VirtualPrefix)
}
