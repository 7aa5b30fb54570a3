package edit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectorSelected(t *testing.T) {
	tests := []struct {
		name   string
		ranges []Range
		n      uint32
		want   bool
	}{
		{
			name:   "empty list matches nothing",
			ranges: nil,
			n:      1,
			want:   false,
		},
		{
			name:   "single number match",
			ranges: []Range{{First: 7}},
			n:      7,
			want:   true,
		},
		{
			name:   "single number miss",
			ranges: []Range{{First: 7}},
			n:      8,
			want:   false,
		},
		{
			name:   "range lower bound",
			ranges: []Range{{First: 3, Second: 5, Inclusive: true}},
			n:      3,
			want:   true,
		},
		{
			name:   "range upper bound",
			ranges: []Range{{First: 3, Second: 5, Inclusive: true}},
			n:      5,
			want:   true,
		},
		{
			name:   "range miss above",
			ranges: []Range{{First: 3, Second: 5, Inclusive: true}},
			n:      6,
			want:   false,
		},
		{
			name:   "open-ended range",
			ranges: []Range{{First: 10, Second: math.MaxUint32, Inclusive: true}},
			n:      1000000,
			want:   true,
		},
		{
			name:   "second of several ranges",
			ranges: []Range{{First: 1}, {First: 40, Second: 50, Inclusive: true}},
			n:      42,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Selector{Ranges: tt.ranges}
			assert.Equal(t, tt.want, s.Selected(tt.n))
		})
	}
}

func TestSelectorEmit(t *testing.T) {
	s := Selector{Ranges: []Range{{First: 3, Second: 5, Inclusive: true}}, Keep: true}
	assert.False(t, s.Emit(2))
	assert.True(t, s.Emit(4))

	s.Keep = false
	assert.True(t, s.Emit(2))
	assert.False(t, s.Emit(4))
}

func TestSelectorMaxPacketNumber(t *testing.T) {
	del := Selector{Ranges: []Range{{First: 3}}}
	assert.Equal(t, uint32(math.MaxUint32), del.MaxPacketNumber())

	keep := Selector{
		Ranges: []Range{{First: 3, Second: 5, Inclusive: true}, {First: 9}},
		Keep:   true,
	}
	assert.Equal(t, uint32(9), keep.MaxPacketNumber())

	empty := Selector{Keep: true}
	assert.Equal(t, uint32(0), empty.MaxPacketNumber())
}
