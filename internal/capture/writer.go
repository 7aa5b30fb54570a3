package capture

import (
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/sirupsen/logrus"

	"github.com/netkestrel/pcapedit/internal/edit"
)

// Writer appends records to one output sink in the configured container
// format. Rotation is handled by the caller: close this writer and open a
// new one.
type Writer struct {
	f      *os.File
	path   string
	pcap   *pcapgo.Writer
	pcapng *pcapgo.NgWriter
}

// OpenWriter creates path and writes the container's file header for the
// given encapsulation and snapshot length.
func OpenWriter(path, format string, link layers.LinkType, snaplen uint32) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	w := &Writer{f: f, path: path}
	switch format {
	case FormatPcap:
		pw := pcapgo.NewWriter(f)
		if err := pw.WriteFileHeader(snaplen, link); err != nil {
			f.Close()
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		w.pcap = pw
	case FormatPcapng:
		intf := pcapgo.NgInterface{
			Name:       path,
			LinkType:   link,
			SnapLength: snaplen,
		}
		nw, err := pcapgo.NewNgWriterInterface(f, intf, pcapgo.DefaultNgWriterOptions)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		w.pcapng = nw
	default:
		f.Close()
		return nil, fmt.Errorf("write %s: unknown output format %q", path, format)
	}
	return w, nil
}

// Write appends one record.
func (w *Writer) Write(r *edit.Record) error {
	ci := gopacket.CaptureInfo{
		CaptureLength: len(r.Data),
		Length:        int(r.Len),
	}
	if r.HasTS {
		ci.Timestamp = r.Ts.Time()
	}
	if r.Comment != "" {
		// pcapgo has no per-packet option blocks, so injected comments
		// cannot be stored in the sink.
		logrus.Debugf("dropping comment on write to %s: %q", w.path, r.Comment)
	}

	var err error
	if w.pcap != nil {
		err = w.pcap.WritePacket(ci, r.Data)
	} else {
		err = w.pcapng.WritePacket(ci, r.Data)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	return nil
}

// Path returns the sink's file name.
func (w *Writer) Path() string { return w.path }

// Close flushes and closes the sink.
func (w *Writer) Close() error {
	if w.pcapng != nil {
		if err := w.pcapng.Flush(); err != nil {
			w.f.Close()
			return fmt.Errorf("close %s: %w", w.path, err)
		}
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", w.path, err)
	}
	return nil
}
