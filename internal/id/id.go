// Package id mints transaction ids and recurring-series keys.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator returns a new globally unique identifier on each call.
type Generator interface {
	New() string
}

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// New returns a fresh UUID string.
func (UUID) New() string {
	return uuid.NewString()
}

// Sequence generates "<prefix>-0001", "<prefix>-0002", ... in order.
// Deterministic, for tests and reproducible imports.
type Sequence struct {
	prefix string
	n      int
}

// NewSequence creates a Sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// New returns the next id in the sequence.
func (s *Sequence) New() string {
	s.n++
	return FormatSeq(s.prefix, s.n)
}

// FormatSeq returns an id like "txn-0042".
func FormatSeq(prefix string, n int) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// Short returns the first 8 characters of an id, for terminal display.
func Short(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
