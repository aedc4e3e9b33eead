package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// FingerprintLen is the truncated hex length of a fingerprint.
// At hundreds of manifest entries the collision probability at
// 64 bits is negligible.
const FingerprintLen = 16

// Fingerprint is a short deterministic digest of an effective input.
// The empty string is the "never recorded" sentinel.
type Fingerprint string

// Hash fingerprints an arbitrary JSON-representable value.
//
// The value is reduced to canonical form by a JSON round-trip, so map key
// order and the concrete types used to build the value (struct vs map) never
// affect the result. Structurally equal inputs always hash identically; this
// is the cache's central correctness property.
//
// A value that cannot be serialized is a contract violation by the caller
// and returns an error rather than a degraded fingerprint.
func Hash(v any) (Fingerprint, error) {
	blob, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint input not serializable: %w", err)
	}

	// Round-trip through any so struct field order collapses to the same
	// sorted-key encoding a map would produce.
	var canonical any
	if err := json.Unmarshal(blob, &canonical); err != nil {
		return "", fmt.Errorf("fingerprint input not canonicalizable: %w", err)
	}

	blob, err = json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("fingerprint input not canonicalizable: %w", err)
	}

	sum := sha256.Sum256(blob)
	return Fingerprint(hex.EncodeToString(sum[:])[:FingerprintLen]), nil
}

// MustHash is Hash for inputs known to be serializable, such as literals in
// tests and config subsets built from decoded files. Panics on error.
func MustHash(v any) Fingerprint {
	fp, err := Hash(v)
	if err != nil {
		panic(err)
	}

	return fp
}
