package fingerprint

import (
	"errors"
	"fmt"
)

// ErrMismatch is returned by Compare when two fingerprints differ.
var ErrMismatch = errors.New("schema fingerprint mismatch")

// Compare returns an error wrapping ErrMismatch unless both fingerprints
// carry the same hash.
func Compare(expected, actual *SchemaFingerprint) error {
	if expected.Hash == actual.Hash {
		return nil
	}

	return fmt.Errorf("%w - expected: %s, actual: %s",
		ErrMismatch, preview(expected.Hash), preview(actual.Hash))
}

func preview(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
