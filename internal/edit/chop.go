package edit

// Chop accumulates up to two chopping regions: one given by a positive
// length at the front of the packet, one by a negative length at the back.
// Offsets may be specified relative to either end; repeated chop directives
// add into the same six magnitudes. The zero value chops nothing.
type Chop struct {
	LenBegin    int
	OffBeginPos int
	OffBeginNeg int
	LenEnd      int
	OffEndPos   int
	OffEndNeg   int
}

// IsZero reports whether no chopping was requested.
func (c Chop) IsZero() bool { return c.LenBegin == 0 && c.LenEnd == 0 }

// Apply normalizes the chop spec against the record's captured length and
// removes the resulting regions. With adjustLen the reported length shrinks
// by the same amount, clamping at zero. Oversized or crossed requests
// degrade to smaller chops or to a no-op; Apply never fails.
func (c Chop) Apply(r *Record, adjustLen bool) {
	caplen := len(r.Data)

	// A region of length zero has no meaningful offset.
	if c.LenBegin == 0 {
		c.OffBeginPos, c.OffBeginNeg = 0, 0
	}
	if c.LenEnd == 0 {
		c.OffEndPos, c.OffEndNeg = 0, 0
	}

	// Rebase end-relative front offsets and begin-relative back offsets so
	// that the front offset is always positive and the back offset always
	// negative.
	if c.OffBeginNeg < 0 {
		c.OffBeginPos += caplen + c.OffBeginNeg
		c.OffBeginNeg = 0
	}
	if c.OffEndPos > 0 {
		c.OffEndNeg += c.OffEndPos - caplen
		c.OffEndPos = 0
	}

	// If the two regions cross, swap them so the "front" region is the one
	// closer to byte 0.
	if c.LenBegin != 0 && c.LenEnd != 0 {
		if c.OffBeginPos > caplen+c.OffEndNeg {
			tmpOff := caplen + c.OffEndNeg + c.LenEnd
			tmpLen := -c.LenEnd

			c.OffEndNeg = c.LenBegin + c.OffBeginPos - caplen
			c.LenEnd = -c.LenBegin

			c.LenBegin = tmpLen
			c.OffBeginPos = tmpOff
		}
	}

	// Never remove more than is available. Offsets that leave either
	// region outside the packet (including degenerate post-swap states)
	// zero the whole request; an oversized total is trimmed to what fits.
	if c.OffBeginPos < 0 || c.OffEndNeg > 0 ||
		caplen+c.OffEndNeg < 0 ||
		caplen < c.OffBeginPos-c.OffEndNeg {
		c.LenBegin = 0
		c.LenEnd = 0
	}
	if c.LenBegin-c.LenEnd > caplen-(c.OffBeginPos-c.OffEndNeg) {
		c.LenBegin = caplen - (c.OffBeginPos - c.OffEndNeg)
		c.LenEnd = 0
	}

	// Front region. With an offset the preserved prefix stays in place and
	// the tail shifts left; at offset zero the slice start simply advances.
	if c.LenBegin > 0 {
		if c.OffBeginPos > 0 {
			copy(r.Data[c.OffBeginPos:], r.Data[c.OffBeginPos+c.LenBegin:])
			r.Data = r.Data[:caplen-c.LenBegin]
		} else {
			r.Data = r.Data[c.LenBegin:]
		}
		if adjustLen {
			if r.Len > uint32(c.LenBegin) {
				r.Len -= uint32(c.LenBegin)
			} else {
				r.Len = 0
			}
		}
		caplen = len(r.Data)
	}

	// Back region. A kept tail piece shifts left over the removed bytes.
	if c.LenEnd < 0 {
		if c.OffEndNeg < 0 {
			copy(r.Data[caplen+c.LenEnd+c.OffEndNeg:], r.Data[caplen+c.OffEndNeg:caplen])
		}
		r.Data = r.Data[:caplen+c.LenEnd]
		if adjustLen {
			if int(r.Len)+c.LenEnd > 0 {
				r.Len = uint32(int(r.Len) + c.LenEnd)
			} else {
				r.Len = 0
			}
		}
	}
}
