// Package capture adapts capture-file I/O to the pipeline's record type.
// Reading and writing run on gopacket's pure-Go pcapgo codecs, so both the
// pcap and pcapng container formats work without libpcap.
package capture

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/netkestrel/pcapedit/internal/edit"
)

// Container format names.
const (
	FormatPcap   = "pcap"
	FormatPcapng = "pcapng"
)

// DefaultSnapLen stands in when the input does not declare a snapshot
// length.
const DefaultSnapLen = 262144

const (
	magicPcap     = 0xa1b2c3d4
	magicPcapNano = 0xa1b23c4d
	magicPcapng   = 0x0a0d0d0a
)

// Reader yields one record per call from a capture file: a lazy, finite,
// forward-only sequence. It is not restartable.
type Reader struct {
	f      *os.File
	pcap   *pcapgo.Reader
	pcapng *pcapgo.NgReader

	format  string
	link    layers.LinkType
	snaplen uint32
}

// OpenReader opens path, sniffs the container format from the leading magic
// number and prepares the matching decoder.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		f.Close()
		return nil, fmt.Errorf("read %s: not a capture file: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	r := &Reader{f: f}
	le := binary.LittleEndian.Uint32(magic[:])
	be := binary.BigEndian.Uint32(magic[:])
	switch {
	case le == magicPcapng:
		ng, err := pcapgo.NewNgReader(f, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		r.pcapng = ng
		r.format = FormatPcapng
		r.link = ng.LinkType()
		r.snaplen = DefaultSnapLen
	case le == magicPcap || be == magicPcap || le == magicPcapNano || be == magicPcapNano:
		pr, err := pcapgo.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		r.pcap = pr
		r.format = FormatPcap
		r.link = pr.LinkType()
		r.snaplen = pr.Snaplen()
		if r.snaplen == 0 {
			r.snaplen = DefaultSnapLen
		}
	default:
		f.Close()
		return nil, fmt.Errorf("read %s: unrecognized capture file format", path)
	}
	return r, nil
}

// ReadNext returns the next record, or io.EOF at the end of the stream. The
// record's buffer is a private copy.
func (r *Reader) ReadNext() (edit.Record, error) {
	var (
		data []byte
		ci   gopacket.CaptureInfo
		err  error
	)
	if r.pcap != nil {
		data, ci, err = r.pcap.ReadPacketData()
	} else {
		data, ci, err = r.pcapng.ReadPacketData()
	}
	if err != nil {
		return edit.Record{}, err
	}

	rec := edit.Record{
		Data:  make([]byte, len(data)),
		Len:   uint32(ci.Length),
		Link:  r.link,
		HasTS: !ci.Timestamp.IsZero(),
	}
	copy(rec.Data, data)
	if rec.HasTS {
		rec.Ts = edit.FromTime(ci.Timestamp)
	}
	return rec, nil
}

// Format returns the detected container format.
func (r *Reader) Format() string { return r.format }

// LinkType returns the file's encapsulation.
func (r *Reader) LinkType() layers.LinkType { return r.link }

// Snaplen returns the file's snapshot length.
func (r *Reader) Snaplen() uint32 { return r.snaplen }

// Close releases the underlying file.
func (r *Reader) Close() error { return r.f.Close() }
