// Package split decides when the output file must be rotated and derives
// the fileset member names.
package split

import (
	"fmt"
	"os"
	"strings"

	"github.com/netkestrel/pcapedit/internal/edit"
)

// Splitter rotates the output either every PacketInterval written packets
// or whenever a packet's timestamp passes the active time block's boundary.
// The two modes are mutually exclusive; with both zero the splitter is
// inert and Filename always returns the original output path.
type Splitter struct {
	PacketInterval int
	SecsPerBlock   int64

	outfile string
	prefix  string
	suffix  string

	blockStart edit.Timestamp
	blockSet   bool
	idx        int
}

// New builds a splitter for the given output path. The prefix/suffix pair
// is extracted once up front: the changing part of the name goes before the
// extension of the last path component.
func New(outfile string, packetInterval int, secsPerBlock int64) *Splitter {
	s := &Splitter{
		PacketInterval: packetInterval,
		SecsPerBlock:   secsPerBlock,
		outfile:        outfile,
	}
	if s.Enabled() {
		s.prefix, s.suffix = splitPath(outfile)
	}
	return s
}

// Enabled reports whether any rotation mode is configured.
func (s *Splitter) Enabled() bool { return s.PacketInterval != 0 || s.SecsPerBlock != 0 }

// CountDue reports whether the count mode requires a rotation before the
// next packet is written, given the number written so far.
func (s *Splitter) CountDue(written int) bool {
	return s.PacketInterval != 0 && written > 0 && written%s.PacketInterval == 0
}

// TimeDue reports whether ts lies past the current time block and, if so,
// advances the block start by one interval. A packet far beyond the block
// triggers several rotations, so callers loop until it returns false. The
// first timestamp seen starts the first block. Packets without a timestamp
// never rotate; pass only timestamps that are present.
func (s *Splitter) TimeDue(ts edit.Timestamp) bool {
	if s.SecsPerBlock == 0 {
		return false
	}
	if !s.blockSet {
		s.blockStart = ts
		s.blockSet = true
		return false
	}
	if ts.Secs-s.blockStart.Secs > s.SecsPerBlock ||
		(ts.Secs-s.blockStart.Secs == s.SecsPerBlock && ts.Nsecs >= s.blockStart.Nsecs) {
		s.blockStart.Secs += s.SecsPerBlock
		return true
	}
	return false
}

// Filename returns the name for the next fileset member and advances the
// rotation index. The name carries the zero-padded index and, when the
// record has a timestamp, a local-time suffix at one-second resolution.
func (s *Splitter) Filename(r *edit.Record) string {
	if !s.Enabled() {
		return s.outfile
	}
	idx := s.idx
	s.idx++
	if r.HasTS {
		return fmt.Sprintf("%s_%05d_%s%s",
			s.prefix, idx, r.Ts.Time().Format("20060102150405"), s.suffix)
	}
	return fmt.Sprintf("%s_%05d%s", s.prefix, idx, s.suffix)
}

// splitPath splits the output path at the extension of its last component.
func splitPath(path string) (prefix, suffix string) {
	dot := strings.LastIndexByte(path, '.')
	sep := strings.LastIndexByte(path, os.PathSeparator)
	if dot > sep {
		return path[:dot], path[dot:]
	}
	return path, ""
}
