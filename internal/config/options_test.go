package config

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netkestrel/pcapedit/internal/edit"
)

func TestValidateDefaults(t *testing.T) {
	assert.NoError(t, NewOptions().Validate())
}

func TestValidateConflicts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{
			name: "both split modes",
			mutate: func(o *Options) {
				o.SplitPacketCount = 10
				o.SecsPerBlock = 60
			},
		},
		{
			name: "ignore bytes with skip radiotap",
			mutate: func(o *Options) {
				o.IgnoreBytes = 4
				o.SkipRadiotap = true
			},
		},
		{
			name: "both dedup variants",
			mutate: func(o *Options) {
				o.DupDetect = true
				o.DupDetectByTime = true
			},
		},
		{
			name:   "dedup window too large",
			mutate: func(o *Options) { o.DupWindow = edit.MaxWindow + 1 },
		},
		{
			name:   "negative dedup window",
			mutate: func(o *Options) { o.DupWindow = -1 },
		},
		{
			name:   "error probability above one",
			mutate: func(o *Options) { o.ErrProb = 1.5 },
		},
		{
			name: "start after stop",
			mutate: func(o *Options) {
				o.CheckStartStop = true
				var err error
				o.StartTime, err = ParseAbsTime("2024-06-02 00:00:00")
				if err != nil {
					panic(err)
				}
				o.StopTime, err = ParseAbsTime("2024-06-01 00:00:00")
				if err != nil {
					panic(err)
				}
			},
		},
		{
			name:   "unknown output format",
			mutate: func(o *Options) { o.OutputFormat = "erf" },
		},
		{
			name:   "negative snaplen",
			mutate: func(o *Options) { o.Snaplen = -1 },
		},
		{
			name:   "negative change offset",
			mutate: func(o *Options) { o.ChangeOffset = -1 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.mutate(o)
			assert.Error(t, o.Validate())
		})
	}
}

func TestAddRange(t *testing.T) {
	o := NewOptions()
	require.NoError(t, o.AddRange("3-5"))
	require.NoError(t, o.AddRange("9"))
	assert.Len(t, o.Ranges, 2)

	assert.Error(t, o.AddRange("nope"))
}

func TestAddRangeCap(t *testing.T) {
	o := NewOptions()
	for i := 0; i < edit.MaxSelections; i++ {
		require.NoError(t, o.AddRange(fmt.Sprint(i+1)))
	}
	assert.Error(t, o.AddRange("9999"))
}
