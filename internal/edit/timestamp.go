package edit

import "time"

// OneBillion is the nanosecond carry boundary.
const OneBillion = 1_000_000_000

// Timestamp is a fixed-point capture timestamp: whole seconds since the
// epoch plus nanoseconds. Arithmetic keeps Nsecs in [0, 1e9) via explicit
// carry/borrow so results match the capture file representation bit for bit.
type Timestamp struct {
	Secs  int64
	Nsecs int64
}

// Sub returns t - o, normalized so that Secs and Nsecs carry the same sign.
func (t Timestamp) Sub(o Timestamp) Timestamp {
	d := Timestamp{Secs: t.Secs - o.Secs, Nsecs: t.Nsecs - o.Nsecs}
	if d.Secs > 0 && d.Nsecs < 0 {
		d.Nsecs += OneBillion
		d.Secs--
	} else if d.Secs < 0 && d.Nsecs > 0 {
		d.Nsecs -= OneBillion
		d.Secs++
	}
	return d
}

// IsNegative reports whether the (normalized) value lies before zero.
func (t Timestamp) IsNegative() bool { return t.Secs < 0 || t.Nsecs < 0 }

// Cmp compares t against o, returning -1, 0 or 1.
func (t Timestamp) Cmp(o Timestamp) int {
	switch {
	case t.Secs < o.Secs:
		return -1
	case t.Secs > o.Secs:
		return 1
	case t.Nsecs < o.Nsecs:
		return -1
	case t.Nsecs > o.Nsecs:
		return 1
	}
	return 0
}

// Time converts to the standard library representation.
func (t Timestamp) Time() time.Time { return time.Unix(t.Secs, t.Nsecs) }

// FromTime converts from the standard library representation.
func FromTime(t time.Time) Timestamp {
	return Timestamp{Secs: t.Unix(), Nsecs: int64(t.Nanosecond())}
}
