package edit

import "math"

// MaxSelections caps the number of configured selection ranges.
const MaxSelections = 512

// Range selects either a single sequence number (Inclusive false, First
// only) or the inclusive span [First, Second]. An open-ended "N-" range is
// stored with Second == math.MaxUint32.
type Range struct {
	First     uint32
	Second    uint32
	Inclusive bool
}

// Matches reports whether the 1-based sequence number falls in the range.
func (r Range) Matches(n uint32) bool {
	if r.Inclusive {
		return r.First <= n && n <= r.Second
	}
	return n == r.First
}

// Selector decides whether a packet's sequence number is in scope. Keep
// false (the default) deletes the selected packets, Keep true keeps them.
type Selector struct {
	Ranges []Range
	Keep   bool
}

// Selected reports whether any configured range matches n. An empty list
// matches nothing.
func (s *Selector) Selected(n uint32) bool {
	for _, r := range s.Ranges {
		if r.Matches(n) {
			return true
		}
	}
	return false
}

// Emit reports whether the packet with sequence number n should be written.
func (s *Selector) Emit(n uint32) bool {
	return s.Selected(n) == s.Keep
}

// MaxPacketNumber returns the highest sequence number that can still be
// emitted; reading past it cannot produce output. In delete mode every
// packet after the ranges is still emitted, so there is no bound.
func (s *Selector) MaxPacketNumber() uint32 {
	if !s.Keep {
		return math.MaxUint32
	}
	var max uint32
	for _, r := range s.Ranges {
		n := r.First
		if r.Inclusive {
			n = r.Second
		}
		if n > max {
			max = n
		}
	}
	return max
}
