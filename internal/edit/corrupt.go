package edit

import "math/rand"

// Relative weights of the corruption outcomes.
const (
	errWtBit   = 5 // flip one random bit
	errWtByte  = 5 // substitute a random byte
	errWtAlnum = 5 // substitute a random alphanumeric character
	errWtFmt   = 2 // substitute the literal "%s"
	errWtFill  = 1 // fill the rest of the packet with fillByte and stop
	errWtTotal = errWtBit + errWtByte + errWtAlnum + errWtFmt + errWtFill
)

const alnumChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const fillByte = 0xAA

// Corrupter injects random per-byte errors for fuzz-style negative testing.
// Every draw comes from the seeded generator, so a run is reproducible given
// the same seed, input and options.
type Corrupter struct {
	// Prob is the per-byte corruption probability in [0, 1].
	Prob float64
	// Offset is the first byte eligible for corruption.
	Offset int

	rng *rand.Rand
}

// NewCorrupter returns a corrupter driven by its own generator seeded with
// seed.
func NewCorrupter(prob float64, offset int, seed int64) *Corrupter {
	return &Corrupter{
		Prob:   prob,
		Offset: offset,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Apply mutates the record's bytes in place from Offset to the end of the
// captured region. It reports false, leaving the record untouched, when the
// offset lies beyond the captured length.
func (c *Corrupter) Apply(r *Record) bool {
	if c.Offset > len(r.Data) {
		return false
	}
	for i := c.Offset; i < len(r.Data); i++ {
		if c.rng.Float64() >= c.Prob {
			continue
		}
		// One uniform draw against the cumulative weight table.
		switch draw := c.rng.Intn(errWtTotal); {
		case draw < errWtBit:
			r.Data[i] ^= 1 << c.rng.Intn(8)
		case draw < errWtBit+errWtByte:
			r.Data[i] = byte(c.rng.Intn(256))
		case draw < errWtBit+errWtByte+errWtAlnum:
			r.Data[i] = alnumChars[c.rng.Intn(len(alnumChars))]
		case draw < errWtBit+errWtByte+errWtAlnum+errWtFmt:
			if i < len(r.Data)-2 {
				r.Data[i] = '%'
				r.Data[i+1] = 's'
			}
		default:
			// Terminal for this packet.
			for j := i; j < len(r.Data); j++ {
				r.Data[j] = fillByte
			}
			return true
		}
	}
	return true
}
