// Package checksum fingerprints artifact and output contents so unchanged
// inputs skip regeneration and unchanged outputs are not rewritten.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Set returns a digest over path/checksum pairs, independent of map order.
func Set(sums map[string]string) string {
	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte(0)
		b.WriteString(sums[k])
		b.WriteByte('\n')
	}
	return Sum([]byte(b.String()))
}
