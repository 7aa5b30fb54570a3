// Package edit implements the per-packet transformations applied by the
// pipeline: selection, chopping, VLAN stripping, duplicate detection,
// timestamp adjustment and random corruption.
package edit

import "github.com/google/gopacket/layers"

// Record is one captured packet as it moves through the pipeline. The
// pipeline owns it exclusively for the duration of one iteration; stages
// either mutate the pipeline's copy or return an updated value, never an
// alias of the reader's buffer.
type Record struct {
	// Data holds the captured bytes. len(Data) is the captured length.
	Data []byte
	// Len is the reported (on-the-wire) length, which may exceed len(Data).
	Len uint32
	// Ts is the capture timestamp, meaningful only when HasTS is set.
	Ts    Timestamp
	HasTS bool
	// Link is the encapsulation of the frame.
	Link layers.LinkType
	// Comment is an optional per-frame comment.
	Comment string
}

// CapLen returns the captured length.
func (r *Record) CapLen() int { return len(r.Data) }

// Clone returns a deep copy of the record. The reader's buffer is copied
// exactly once per iteration through this.
func (r *Record) Clone() Record {
	c := *r
	c.Data = make([]byte, len(r.Data))
	copy(c.Data, r.Data)
	return c
}
