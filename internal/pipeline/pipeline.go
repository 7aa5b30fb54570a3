// Package pipeline drives records through the editing stages, one record at
// a time: selection, byte-region chopping, VLAN stripping, duplicate
// detection, timestamp adjustment, random corruption and output rotation.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/google/gopacket/layers"
	"github.com/sirupsen/logrus"

	"github.com/netkestrel/pcapedit/internal/capture"
	"github.com/netkestrel/pcapedit/internal/config"
	"github.com/netkestrel/pcapedit/internal/edit"
	"github.com/netkestrel/pcapedit/internal/split"
)

// FileError marks a failure opening, reading, writing or closing a capture
// file, as opposed to a configuration problem.
type FileError struct {
	Err error
}

func (e *FileError) Error() string { return e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

// Stats counts what one run did.
type Stats struct {
	Read       uint64
	Written    uint64
	Duplicates uint64
}

// Pipeline owns all run-lifetime state: the dedup ring, the strict
// adjuster's previous output timestamp, the rotation block and the
// statistics. None of it resets when the output file rotates.
type Pipeline struct {
	opts      *config.Options
	selector  edit.Selector
	deduper   *edit.Deduper
	strict    *edit.StrictAdjuster
	corrupter *edit.Corrupter
	splitter  *split.Splitter

	stats Stats
}

// New assembles a pipeline from validated options.
func New(opts *config.Options) *Pipeline {
	p := &Pipeline{
		opts:     opts,
		selector: edit.Selector{Ranges: opts.Ranges, Keep: opts.Keep},
		splitter: split.New(opts.Outfile, opts.SplitPacketCount, opts.SecsPerBlock),
	}
	switch {
	case opts.DupDetect:
		p.deduper = edit.NewDeduper(opts.DupWindow, opts.IgnoreBytes, opts.SkipRadiotap)
	case opts.DupDetectByTime:
		p.deduper = edit.NewTimeDeduper(opts.DupTimeWindow, opts.IgnoreBytes)
	}
	if opts.StrictTime {
		p.strict = &edit.StrictAdjuster{Adj: opts.StrictAdj}
	}
	if opts.ErrProb >= 0 {
		p.corrupter = edit.NewCorrupter(opts.ErrProb, opts.ChangeOffset, opts.Seed)
	}
	return p
}

// Run reads every input record, transforms it through the stages and writes
// or drops it, strictly sequentially. It returns the statistics together
// with the first error that aborted the run, if any.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	opts := p.opts

	r, err := capture.OpenReader(opts.Infile)
	if err != nil {
		return p.stats, &FileError{Err: err}
	}
	defer r.Close()
	logrus.Debugf("file %s is a %s capture file", opts.Infile, r.Format())

	if opts.SkipRadiotap && r.LinkType() != layers.LinkTypeIEEE80211Radio {
		return p.stats, fmt.Errorf(
			"can't skip radiotap header: expected %s input, got %s",
			layers.LinkTypeIEEE80211Radio, r.LinkType())
	}

	outLink := r.LinkType()
	if opts.EncapSet {
		outLink = opts.EncapOverride
	}
	snaplen := r.Snaplen()
	if opts.Snaplen > 0 && uint32(opts.Snaplen) < snaplen {
		snaplen = uint32(opts.Snaplen)
	}

	var w *capture.Writer
	openNext := func(rec *edit.Record) error {
		name := p.splitter.Filename(rec)
		var err error
		if w, err = capture.OpenWriter(name, opts.OutputFormat, outLink, snaplen); err != nil {
			return &FileError{Err: err}
		}
		return nil
	}
	rotate := func(rec *edit.Record) error {
		if err := w.Close(); err != nil {
			w = nil
			return &FileError{Err: err}
		}
		w = nil
		if err := openNext(rec); err != nil {
			return err
		}
		logrus.Debugf("continuing writing in file %s", w.Path())
		return nil
	}
	defer func() {
		if w != nil {
			w.Close()
		}
	}()

	maxPacket := uint64(p.selector.MaxPacketNumber())
	var seq uint32 = 1
	written := 0

	for {
		if err := ctx.Err(); err != nil {
			return p.stats, err
		}
		rec, err := r.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return p.stats, &FileError{Err: fmt.Errorf("read %s: %w", opts.Infile, err)}
		}
		if p.stats.Read >= maxPacket {
			// Nothing past the highest selected packet can be emitted.
			break
		}
		p.stats.Read++

		if !p.tsOkay(&rec) || !p.selector.Emit(seq) {
			seq++
			continue
		}

		// Truncate to the snapshot length before chopping.
		if opts.Snaplen > 0 && len(rec.Data) > opts.Snaplen {
			rec.Data = rec.Data[:opts.Snaplen]
			if opts.AdjustLen && rec.Len > uint32(opts.Snaplen) {
				rec.Len = uint32(opts.Snaplen)
			}
		}
		if !opts.Chop.IsZero() {
			opts.Chop.Apply(&rec, opts.AdjustLen)
		}
		if opts.StripVLAN {
			edit.StripVLAN(&rec)
		}

		if p.deduper != nil {
			if p.duplicate(&rec, seq) {
				p.stats.Duplicates++
				seq++
				continue
			}
		} else {
			logrus.Debugf("packet: %d", seq)
		}

		if p.strict != nil {
			rec = p.strict.Apply(rec)
		}
		if !opts.TimeAdj.IsZero() {
			rec = opts.TimeAdj.Shift(rec)
		}

		if p.corrupter != nil && !p.corrupter.Apply(&rec) {
			logrus.Warnf("change offset %d is longer than caplen %d in packet %d",
				opts.ChangeOffset, len(rec.Data), seq)
		}

		if comment, ok := opts.Comments[seq]; ok {
			rec.Comment = comment
		}

		if w == nil {
			if rec.HasTS {
				// Seed the first time block.
				p.splitter.TimeDue(rec.Ts)
			}
			if err := openNext(&rec); err != nil {
				return p.stats, err
			}
		} else {
			if p.splitter.CountDue(written) {
				if err := rotate(&rec); err != nil {
					return p.stats, err
				}
			}
			if rec.HasTS {
				// A gap spanning several blocks rotates once per block.
				for p.splitter.TimeDue(rec.Ts) {
					if err := rotate(&rec); err != nil {
						return p.stats, err
					}
				}
			}
		}

		if err := w.Write(&rec); err != nil {
			return p.stats, &FileError{Err: err}
		}
		written++
		p.stats.Written++
		seq++
	}

	// Even a run that selects nothing produces a valid capture file.
	if w == nil {
		if w, err = capture.OpenWriter(opts.Outfile, opts.OutputFormat, outLink, snaplen); err != nil {
			return p.stats, &FileError{Err: err}
		}
	}
	if err := w.Close(); err != nil {
		w = nil
		return p.stats, &FileError{Err: err}
	}
	w = nil

	p.logSummary()
	return p.stats, nil
}

// duplicate runs the configured dedup variant and logs the fingerprint.
func (p *Pipeline) duplicate(rec *edit.Record, seq uint32) bool {
	dup := false
	if p.opts.DupDetect {
		dup = p.deduper.IsDuplicate(rec.Data)
	} else if rec.HasTS {
		dup = p.deduper.IsDuplicateWithin(rec.Data, rec.Ts)
	} else {
		// The time-window variant needs a timestamp to compare against.
		logrus.Debugf("packet: %d (no timestamp, dedup skipped)", seq)
		return false
	}
	digest, caplen := p.deduper.LastFingerprint()
	if dup {
		logrus.Debugf("skipped: %d, len: %d, digest: %x", seq, caplen, digest)
	} else {
		logrus.Debugf("packet: %d, len: %d, digest: %x", seq, caplen, digest)
	}
	return dup
}

// tsOkay applies the absolute time filter. Without a timestamp a packet
// cannot be inside the window.
func (p *Pipeline) tsOkay(rec *edit.Record) bool {
	if !p.opts.CheckStartStop {
		return true
	}
	if !rec.HasTS {
		return false
	}
	return rec.Ts.Secs >= p.opts.StartTime.Unix() && rec.Ts.Secs < p.opts.StopTime.Unix()
}

func (p *Pipeline) logSummary() {
	switch {
	case p.opts.DupDetect:
		logrus.Infof("%d packets seen, %d packets skipped with duplicate window of %d packets",
			p.stats.Read, p.stats.Duplicates, p.deduper.Window())
	case p.opts.DupDetectByTime:
		tw := p.deduper.TimeWindow()
		logrus.Infof("%d packets seen, %d packets skipped with duplicate time window equal to or less than %d.%09d seconds",
			p.stats.Read, p.stats.Duplicates, tw.Secs, tw.Nsecs)
	}
}
