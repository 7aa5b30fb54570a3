// Package config holds the run configuration and the parsers for the CLI's
// value syntaxes. All configuration errors are detected here, before any
// packet is processed.
package config

import (
	"fmt"
	"time"

	"github.com/google/gopacket/layers"

	"github.com/netkestrel/pcapedit/internal/capture"
	"github.com/netkestrel/pcapedit/internal/edit"
)

// Options is the validated configuration of one run.
type Options struct {
	Infile  string
	Outfile string

	// Selection.
	Ranges []edit.Range
	Keep   bool

	// Absolute time filter; active when CheckStartStop is set.
	CheckStartStop bool
	StartTime      time.Time
	StopTime       time.Time

	// Duplicate detection, at most one variant per run.
	DupDetect       bool
	DupWindow       int
	DupDetectByTime bool
	DupTimeWindow   edit.Timestamp
	IgnoreBytes     int
	SkipRadiotap    bool

	// Byte surgery.
	Snaplen   int
	AdjustLen bool
	Chop      edit.Chop
	StripVLAN bool

	// Timestamp adjustment.
	TimeAdj    edit.Adjustment
	StrictAdj  edit.Adjustment
	StrictTime bool

	// Random corruption; ErrProb < 0 disables the stage.
	ErrProb      float64
	ChangeOffset int
	Seed         int64

	// Per-frame comments keyed by 1-based sequence number.
	Comments map[uint32]string

	// Output splitting, mutually exclusive modes.
	SplitPacketCount int
	SecsPerBlock     int64

	// Output container and encapsulation. EncapSet selects EncapOverride.
	OutputFormat  string
	EncapOverride layers.LinkType
	EncapSet      bool

	Verbose bool
	LogFile string
}

// NewOptions returns options with the documented defaults.
func NewOptions() *Options {
	return &Options{
		ErrProb:      -1,
		OutputFormat: capture.FormatPcap,
		Comments:     make(map[uint32]string),
	}
}

// AddRange parses and appends one selection directive, enforcing the
// configuration-time cap.
func (o *Options) AddRange(s string) error {
	if len(o.Ranges) >= edit.MaxSelections {
		return fmt.Errorf("out of room for packet selections (max %d)", edit.MaxSelections)
	}
	r, err := ParseRange(s)
	if err != nil {
		return err
	}
	o.Ranges = append(o.Ranges, r)
	return nil
}

// Validate rejects conflicting or out-of-bounds settings.
func (o *Options) Validate() error {
	if o.SplitPacketCount != 0 && o.SecsPerBlock != 0 {
		return fmt.Errorf("can't split on both packet count and time interval at the same time")
	}
	if o.IgnoreBytes != 0 && o.SkipRadiotap {
		return fmt.Errorf("can't skip radiotap headers and %d byte(s) at the start of packet at the same time", o.IgnoreBytes)
	}
	if o.DupDetect && o.DupDetectByTime {
		return fmt.Errorf("duplicate detection by count and by time window are mutually exclusive")
	}
	if o.DupWindow < 0 || o.DupWindow > edit.MaxWindow {
		return fmt.Errorf("duplicate window value must be between 0 and %d inclusive", edit.MaxWindow)
	}
	if o.ErrProb > 1.0 {
		return fmt.Errorf("error probability must be between 0.0 and 1.0")
	}
	if o.CheckStartStop && o.StartTime.After(o.StopTime) {
		return fmt.Errorf("start time is after the stop time")
	}
	if o.OutputFormat != capture.FormatPcap && o.OutputFormat != capture.FormatPcapng {
		return fmt.Errorf("%q isn't a valid capture file type", o.OutputFormat)
	}
	if o.Snaplen < 0 {
		return fmt.Errorf("snapshot length must be positive")
	}
	if o.ChangeOffset < 0 {
		return fmt.Errorf("change offset must be positive")
	}
	return nil
}
