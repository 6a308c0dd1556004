// Package fingerprint hashes schema states so a plan can detect that the
// database changed between planning and applying.
package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// SchemaFingerprint represents a fingerprint of a schema state
type SchemaFingerprint struct {
	Hash string `json:"hash"` // SHA256 of the JSON encoding
}

// ComputeFingerprint generates a fingerprint for a declared schema or a live
// snapshot. The value must encode deterministically, i.e. maps or sorted
// slices.
func ComputeFingerprint(state any) (*SchemaFingerprint, error) {
	hash, err := hashObject(state)
	if err != nil {
		return nil, fmt.Errorf("failed to compute schema hash: %w", err)
	}
	return &SchemaFingerprint{Hash: hash}, nil
}

// hashObject computes a SHA256 hash of any object
func hashObject(obj any) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// String returns a human-readable representation of the fingerprint
func (f *SchemaFingerprint) String() string {
	if len(f.Hash) >= 8 {
		return fmt.Sprintf("Schema fingerprint: %s", f.Hash[:8])
	}
	return fmt.Sprintf("Schema fingerprint: %s", f.Hash)
}
