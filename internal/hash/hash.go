// Package hash fingerprints decoded data and digests evidence files.
package hash

import (
	"encoding/hex"
	"io"

	"github.com/arloliu/realmrecover/object"
	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// Value computes the xxHash64 of a value's canonical rendering.
// Equal values always share a fingerprint; a nil value hashes like "null".
func Value(v object.Value) uint64 {
	if v == nil {
		return xxhash.Sum64String("null")
	}

	return xxhash.Sum64String(v.String())
}

// FileDigest computes the hex BLAKE3-256 digest of everything read from r.
func FileDigest(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
