package edit

// Adjustment is a signed time delta: a sign flag plus non-negative seconds
// and nanoseconds in [0, 1e9). For the strict adjuster the Negative flag is
// a mode switch, not a literal subtraction.
type Adjustment struct {
	Secs     int64
	Nsecs    int64
	Negative bool
}

// IsZero reports whether the delta magnitude is zero.
func (a Adjustment) IsZero() bool { return a.Secs == 0 && a.Nsecs == 0 }

// Shift applies the fixed relative adjustment to a copy of the record, with
// carry/borrow across the one-billion-nanosecond boundary in both
// directions. Records without a timestamp pass through unchanged.
func (a Adjustment) Shift(r Record) Record {
	if !r.HasTS {
		return r
	}
	if a.Secs != 0 {
		if a.Negative {
			r.Ts.Secs -= a.Secs
		} else {
			r.Ts.Secs += a.Secs
		}
	}
	if a.Nsecs != 0 {
		if a.Negative {
			if r.Ts.Nsecs < a.Nsecs {
				// borrow
				r.Ts.Secs--
				r.Ts.Nsecs += OneBillion
			}
			r.Ts.Nsecs -= a.Nsecs
		} else {
			if r.Ts.Nsecs+a.Nsecs >= OneBillion {
				// carry
				r.Ts.Secs++
				r.Ts.Nsecs += a.Nsecs - OneBillion
			} else {
				r.Ts.Nsecs += a.Nsecs
			}
		}
	}
	return r
}

// StrictAdjuster enforces chronological order across the run's output
// timestamps. It owns the "previous output timestamp" state, which persists
// across rotated output files.
//
// In non-negative mode, a packet whose timestamp precedes the previous
// output timestamp is rewritten to previous + delta. In negative mode every
// packet is unconditionally rewritten to previous + |delta|, giving the
// whole trace a fixed inter-packet gap; a delta of zero then collapses all
// packets onto the first packet's timestamp.
type StrictAdjuster struct {
	Adj Adjustment

	prev    Timestamp
	prevSet bool
}

// Apply returns a copy of the record with the strict adjustment applied.
// The first timestamped record passes through unchanged and seeds the
// previous-timestamp state. Records without a timestamp are ignored
// entirely: they neither change nor observe the state.
func (s *StrictAdjuster) Apply(r Record) Record {
	if !r.HasTS {
		return r
	}
	if s.prevSet {
		if s.Adj.Negative {
			r.Ts = s.next()
		} else if r.Ts.Sub(s.prev).IsNegative() {
			// Out of order: force this packet after its predecessor.
			r.Ts = s.next()
		}
	}
	s.prev = r.Ts
	s.prevSet = true
	return r
}

// next computes previous + delta with nanosecond carry.
func (s *StrictAdjuster) next() Timestamp {
	ts := Timestamp{Secs: s.prev.Secs + s.Adj.Secs, Nsecs: s.prev.Nsecs}
	if ts.Nsecs+s.Adj.Nsecs >= OneBillion {
		ts.Secs++
		ts.Nsecs += s.Adj.Nsecs - OneBillion
	} else {
		ts.Nsecs += s.Adj.Nsecs
	}
	return ts
}
