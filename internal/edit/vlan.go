package edit

import (
	"encoding/binary"

	"github.com/google/gopacket/layers"
)

const (
	sllEtherTypeOffset = 14
	vlanTagSize        = 4
	etherTypeVLAN      = 0x8100
)

// StripVLAN removes the 802.1Q tag from a Linux cooked-capture (SLL) frame.
// This is a single hard-coded special case: for every other encapsulation it
// is a no-op, and frames without a VLAN ether type are left alone.
func StripVLAN(r *Record) {
	if r.Link != layers.LinkTypeLinuxSLL {
		return
	}
	if len(r.Data) < sllEtherTypeOffset+vlanTagSize {
		return
	}
	if binary.BigEndian.Uint16(r.Data[sllEtherTypeOffset:]) != etherTypeVLAN {
		return
	}
	copy(r.Data[sllEtherTypeOffset:], r.Data[sllEtherTypeOffset+vlanTagSize:])
	r.Data = r.Data[:len(r.Data)-vlanTagSize]
}
