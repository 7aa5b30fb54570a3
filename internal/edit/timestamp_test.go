package edit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestampSubNormalizes(t *testing.T) {
	tests := []struct {
		name string
		a, b Timestamp
		want Timestamp
	}{
		{
			name: "simple",
			a:    Timestamp{Secs: 10, Nsecs: 500},
			b:    Timestamp{Secs: 4, Nsecs: 200},
			want: Timestamp{Secs: 6, Nsecs: 300},
		},
		{
			name: "positive borrows",
			a:    Timestamp{Secs: 10, Nsecs: 100},
			b:    Timestamp{Secs: 4, Nsecs: 200},
			want: Timestamp{Secs: 5, Nsecs: 999_999_900},
		},
		{
			name: "negative carries",
			a:    Timestamp{Secs: 4, Nsecs: 200},
			b:    Timestamp{Secs: 10, Nsecs: 100},
			want: Timestamp{Secs: -5, Nsecs: -999_999_900},
		},
		{
			name: "zero",
			a:    Timestamp{Secs: 7, Nsecs: 7},
			b:    Timestamp{Secs: 7, Nsecs: 7},
			want: Timestamp{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Sub(tt.b))
		})
	}
}

func TestTimestampIsNegative(t *testing.T) {
	assert.False(t, Timestamp{}.IsNegative())
	assert.False(t, Timestamp{Secs: 1}.IsNegative())
	assert.True(t, Timestamp{Secs: -1}.IsNegative())
	assert.True(t, Timestamp{Nsecs: -1}.IsNegative())
}

func TestTimestampCmp(t *testing.T) {
	assert.Equal(t, 0, Timestamp{Secs: 1, Nsecs: 2}.Cmp(Timestamp{Secs: 1, Nsecs: 2}))
	assert.Equal(t, -1, Timestamp{Secs: 1}.Cmp(Timestamp{Secs: 2}))
	assert.Equal(t, 1, Timestamp{Secs: 1, Nsecs: 3}.Cmp(Timestamp{Secs: 1, Nsecs: 2}))
}

func TestTimestampTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 6, 1, 12, 0, 0, 123456789, time.UTC)
	ts := FromTime(in)
	assert.Equal(t, Timestamp{Secs: in.Unix(), Nsecs: 123456789}, ts)
	assert.True(t, ts.Time().Equal(in))
}
