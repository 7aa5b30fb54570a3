package edit

import (
	"crypto/md5"
	"encoding/binary"
)

const (
	// DefaultWindow is the content-window depth used when none is given.
	DefaultWindow = 5
	// MaxWindow is the hard maximum ring capacity. The time-window variant
	// always uses it, since its window is measured in time, not count.
	MaxWindow = 1_000_000
)

// radiotap headers carry their own length as a little-endian u16 at bytes
// [2:4] of the header.
const radiotapLenOffset = 2

// fingerprint is one dedup ring entry: a digest over the hashed sub-range,
// the full captured length, and (time-window variant only) the timestamp.
type fingerprint struct {
	digest [md5.Size]byte
	caplen int
	ts     Timestamp
	tsSet  bool
}

// Deduper detects repeated packet content against a bounded sliding window.
// A single Deduper serves one of the two variants per run: IsDuplicate for
// the content-count window, IsDuplicateWithin for the time window.
type Deduper struct {
	ring   []fingerprint
	window int
	cur    int

	ignoreBytes  int
	skipRadiotap bool
	timeWindow   Timestamp
}

// NewDeduper returns a content-window deduper. window must already be
// validated into [0, MaxWindow]. ignoreBytes skips a fixed prefix before
// hashing; skipRadiotap instead derives the prefix from the frame's own
// radiotap header length (the two are mutually exclusive at config time).
func NewDeduper(window, ignoreBytes int, skipRadiotap bool) *Deduper {
	size := window
	if size < 1 {
		// A zero window still fingerprints each packet (useful with
		// verbose output) but can never report a duplicate.
		size = 1
	}
	return &Deduper{
		ring:         make([]fingerprint, size),
		window:       window,
		ignoreBytes:  ignoreBytes,
		skipRadiotap: skipRadiotap,
	}
}

// NewTimeDeduper returns a time-window deduper with the ring sized at
// MaxWindow.
func NewTimeDeduper(window Timestamp, ignoreBytes int) *Deduper {
	return &Deduper{
		ring:        make([]fingerprint, MaxWindow),
		window:      MaxWindow,
		ignoreBytes: ignoreBytes,
		timeWindow:  window,
	}
}

// TimeWindow returns the configured time window.
func (d *Deduper) TimeWindow() Timestamp { return d.timeWindow }

// Window returns the configured count window.
func (d *Deduper) Window() int { return d.window }

// LastFingerprint returns the digest and captured length recorded for the
// most recently fingerprinted packet.
func (d *Deduper) LastFingerprint() ([md5.Size]byte, int) {
	return d.ring[d.cur].digest, d.ring[d.cur].caplen
}

// hashOffset computes how many leading bytes to skip before hashing. Both
// the fixed ignore count and a radiotap length that would consume the whole
// packet fall back to offset 0.
func (d *Deduper) hashOffset(data []byte) int {
	offset := d.ignoreBytes
	if len(data) <= d.ignoreBytes {
		offset = 0
	}
	if d.skipRadiotap {
		if len(data) >= radiotapLenOffset+2 {
			offset = int(binary.LittleEndian.Uint16(data[radiotapLenOffset:]))
		}
		if offset >= len(data) {
			offset = 0
		}
	}
	return offset
}

// record advances the ring cursor and stores the fingerprint of data at the
// new slot.
func (d *Deduper) record(data []byte) {
	d.cur++
	if d.cur >= len(d.ring) {
		d.cur = 0
	}
	e := &d.ring[d.cur]
	e.digest = md5.Sum(data[d.hashOffset(data):])
	e.caplen = len(data)
	e.tsSet = false
}

// IsDuplicate fingerprints the packet and reports whether any other entry in
// the window carries the same captured length and digest. Cost is
// O(window); the result is deterministic for a fixed window and input order.
func (d *Deduper) IsDuplicate(data []byte) bool {
	d.record(data)
	cand := &d.ring[d.cur]
	for i := 0; i < d.window; i++ {
		if i == d.cur {
			continue
		}
		if d.ring[i].caplen == cand.caplen && d.ring[i].digest == cand.digest {
			return true
		}
	}
	return false
}

// IsDuplicateWithin fingerprints the packet together with its timestamp and
// scans backward from the newest entry for a content match no older than the
// time window.
//
// The walk stops at a never-written slot or once a delta exceeds the window
// (older entries can only be further away, assuming a non-decreasing trace).
// A negative delta means the trace is out of order there; that candidate is
// skipped and the walk continues with the next older one. Out-of-order input
// therefore degrades matching, it never corrupts the scan.
func (d *Deduper) IsDuplicateWithin(data []byte, current Timestamp) bool {
	d.record(data)
	cand := &d.ring[d.cur]
	cand.ts = current
	cand.tsSet = true

	for i := d.cur - 1; ; i-- {
		if i < 0 {
			i = d.window - 1
		}
		if i == d.cur {
			// Walked all the way around.
			break
		}
		e := &d.ring[i]
		if !e.tsSet {
			break
		}
		delta := current.Sub(e.ts)
		if delta.IsNegative() {
			continue
		}
		if delta.Cmp(d.timeWindow) > 0 {
			break
		}
		if e.caplen == cand.caplen && e.digest == cand.digest {
			return true
		}
	}
	return false
}
