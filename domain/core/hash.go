package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
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

// Short returns the first 12 hex characters, enough for display and ETags
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// CohortHash identifies a set of dataset rows independent of their order
type CohortHash Hash

func (h CohortHash) String() string { return Hash(h).String() }

// ComputeCohortHash hashes the sorted row indexes of a cohort.
// The input slice is not modified.
func ComputeCohortHash(rowIndexes []int) CohortHash {
	sorted := append([]int(nil), rowIndexes...)
	sort.Ints(sorted)

	var data strings.Builder
	for i, idx := range sorted {
		if i > 0 {
			data.WriteByte(',')
		}
		data.WriteString(strconv.Itoa(idx))
	}
	return CohortHash(NewHash([]byte(data.String())))
}
