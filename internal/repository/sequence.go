package repository

import (
	"math"
	"sync/atomic"
)

// IdentitySequence mints monotonically increasing uint64 ids for one
// kind of entity. Ids start at 1; zero is never issued, which lets
// the zero value of an id field mean "unset".
//
// The counter is a single atomic word. Next and Observe use
// compare-and-swap loops, so concurrent callers can never receive the
// same id and a bulk load can raise the counter past restored ids
// without racing new issuance.
type IdentitySequence struct {
	last atomic.Uint64
}

// NewIdentitySequence returns a sequence whose first Next is 1.
func NewIdentitySequence() *IdentitySequence {
	return &IdentitySequence{}
}

// Next returns the next unused id. When the counter would reach the
// numeric maximum it returns ErrIDExhausted and leaves the sequence
// pinned; wrapping around to reissue old ids is never an option.
func (s *IdentitySequence) Next() (uint64, error) {
	for {
		cur := s.last.Load()
		if cur >= math.MaxUint64-1 {
			return 0, ErrIDExhausted
		}
		if s.last.CompareAndSwap(cur, cur+1) {
			return cur + 1, nil
		}
	}
}

// Observe raises the sequence to at least id. Loaders call it for
// every restored entity so that ids minted afterwards never collide
// with persisted ones. Observing an id at or below the current
// watermark is a no-op.
func (s *IdentitySequence) Observe(id uint64) {
	for {
		cur := s.last.Load()
		if id <= cur || s.last.CompareAndSwap(cur, id) {
			return
		}
	}
}

// Current returns the highest id issued or observed so far.
func (s *IdentitySequence) Current() uint64 {
	return s.last.Load()
}
