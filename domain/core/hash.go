package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// AnalysisHash identifies one exact (rows, columns, target, config) input.
type AnalysisHash Hash

func (h AnalysisHash) String() string { return Hash(h).String() }

// ComputeAnalysisHash returns an exact-match key for an analysis input.
// encoding/json sorts map keys, so row key order never changes the result
// while row order, value types and config do.
func ComputeAnalysisHash(rows any, columns []string, target string, config any) AnalysisHash {
	var data strings.Builder

	data.WriteString("columns:")
	data.WriteString(strings.Join(columns, "\x1f"))
	data.WriteString("|target:")
	data.WriteString(target)
	data.WriteString("|config:")
	data.WriteString(canonical(config))
	data.WriteString("|rows:")
	data.WriteString(canonical(rows))

	return AnalysisHash(NewHash([]byte(data.String())))
}

func canonical(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// NaN and Inf are not representable in JSON
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
