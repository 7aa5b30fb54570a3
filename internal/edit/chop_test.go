package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func chopRecord(n int) Record {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	return Record{Data: data, Len: uint32(n)}
}

func TestChopFront(t *testing.T) {
	r := chopRecord(10)
	Chop{LenBegin: 3}.Apply(&r, true)

	assert.Equal(t, []byte{3, 4, 5, 6, 7, 8, 9}, r.Data)
	assert.Equal(t, uint32(7), r.Len)
}

func TestChopFrontWithOffset(t *testing.T) {
	r := chopRecord(10)
	Chop{LenBegin: 3, OffBeginPos: 2}.Apply(&r, false)

	assert.Equal(t, []byte{0, 1, 5, 6, 7, 8, 9}, r.Data)
	// Reported length untouched without the adjust option.
	assert.Equal(t, uint32(10), r.Len)
}

func TestChopFrontNegativeOffset(t *testing.T) {
	// Offset -4 on a 10-byte packet rebases to offset 6.
	r := chopRecord(10)
	Chop{LenBegin: 2, OffBeginNeg: -4}.Apply(&r, false)

	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 8, 9}, r.Data)
}

func TestChopBack(t *testing.T) {
	r := chopRecord(10)
	Chop{LenEnd: -3}.Apply(&r, true)

	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6}, r.Data)
	assert.Equal(t, uint32(7), r.Len)
}

func TestChopBackWithOffset(t *testing.T) {
	// Remove 3 bytes ending 2 before the packet end: region [5, 8).
	r := chopRecord(10)
	Chop{LenEnd: -3, OffEndNeg: -2}.Apply(&r, false)

	assert.Equal(t, []byte{0, 1, 2, 3, 4, 8, 9}, r.Data)
}

func TestChopBothEnds(t *testing.T) {
	r := chopRecord(10)
	Chop{LenBegin: 2, LenEnd: -2}.Apply(&r, true)

	assert.Equal(t, []byte{2, 3, 4, 5, 6, 7}, r.Data)
	assert.Equal(t, uint32(6), r.Len)
}

func TestChopCrossedRegionsSwap(t *testing.T) {
	// Front region [8, 10) and back region [2, 4) cross; after
	// normalization the effective regions are [2, 4) and [8, 10).
	r := chopRecord(10)
	Chop{LenBegin: 2, OffBeginPos: 8, LenEnd: -2, OffEndNeg: -6}.Apply(&r, false)

	assert.Equal(t, []byte{0, 1, 4, 5, 6, 7}, r.Data)
}

func TestChopOffsetBeyondPacketIsNoop(t *testing.T) {
	// The lenient fallback: an offset past the captured length leaves the
	// packet unchanged rather than corrupting it.
	r := chopRecord(10)
	Chop{LenBegin: 2, OffBeginPos: 12}.Apply(&r, true)

	assert.Equal(t, chopRecord(10).Data, r.Data)
	assert.Equal(t, uint32(10), r.Len)
}

func TestChopOversizedTrimsToAvailable(t *testing.T) {
	r := chopRecord(10)
	Chop{LenBegin: 20}.Apply(&r, true)

	assert.Empty(t, r.Data)
	assert.Equal(t, uint32(0), r.Len)
}

func TestChopReportedLengthUnderflowClampsToZero(t *testing.T) {
	r := chopRecord(10)
	r.Len = 5
	Chop{LenBegin: 7}.Apply(&r, true)

	assert.Equal(t, uint32(0), r.Len)
	assert.Len(t, r.Data, 3)
}

func TestChopNeverGrowsCapturedLength(t *testing.T) {
	specs := []Chop{
		{},
		{LenBegin: 1},
		{LenBegin: 100},
		{LenEnd: -100},
		{LenBegin: 5, OffBeginPos: 5, LenEnd: -5, OffEndNeg: -5},
		{LenBegin: 9, OffBeginPos: 9, LenEnd: -9, OffEndNeg: -9},
		{LenBegin: 3, OffBeginNeg: -1},
		{LenEnd: -3, OffEndPos: 1},
	}
	for _, spec := range specs {
		r := chopRecord(10)
		spec.Apply(&r, true)
		assert.LessOrEqual(t, len(r.Data), 10, "spec %+v", spec)
		assert.GreaterOrEqual(t, len(r.Data), 0, "spec %+v", spec)
	}
}
