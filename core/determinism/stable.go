// Package determinism provides stable iteration order and content
// fingerprints. Quotations for equal inputs under one parameter snapshot
// must hash identically.
package determinism

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}

// Fingerprint hashes the JSON encoding of v. encoding/json writes struct
// fields in declaration order and map keys sorted, so equal values give
// equal fingerprints.
func Fingerprint(v any) (ContentHash, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return ContentHash{}, fmt.Errorf("fingerprint: %w", err)
	}
	return ComputeHash(data), nil
}

// SortedKeys returns the keys of m in ascending order
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
