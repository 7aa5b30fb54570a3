package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/gopacket/layers"

	"github.com/netkestrel/pcapedit/internal/edit"
)

// AbsTimeLayout is the format of the -A/-B absolute time filters.
const AbsTimeLayout = "2006-01-02 15:04:05"

// DefaultStopTime bounds the time filter when only a start is given.
func DefaultStopTime() time.Time {
	return time.Date(2035, time.December, 31, 0, 0, 0, 0, time.Local)
}

// ParseRange parses a selection directive: a single packet number "7", an
// inclusive range "3-5", or an open-ended range "3-". A range end of zero is
// treated as open-ended.
func ParseRange(s string) (edit.Range, error) {
	first, second, isRange := strings.Cut(s, "-")
	if !isRange {
		n, err := parseUint32(s, "packet number")
		if err != nil {
			return edit.Range{}, err
		}
		return edit.Range{First: n}, nil
	}

	f, err := parseUint32(first, "beginning of packet range")
	if err != nil {
		return edit.Range{}, err
	}
	var sec uint32 = math.MaxUint32
	if second != "" {
		sec, err = parseUint32(second, "end of packet range")
		if err != nil {
			return edit.Range{}, err
		}
		if sec == 0 {
			sec = math.MaxUint32
		}
	}
	return edit.Range{First: f, Second: sec, Inclusive: true}, nil
}

// ParseChopInto parses one "[offset:]length" chop directive and accumulates
// it into c. Positive lengths chop at the packet beginning, negative ones at
// the end; positive offsets count from the beginning, negative ones from the
// end.
func ParseChopInto(c *edit.Chop, s string) error {
	var (
		choplen, chopoff int
		err              error
	)
	if off, length, ok := strings.Cut(s, ":"); ok {
		if chopoff, err = strconv.Atoi(off); err != nil {
			return fmt.Errorf("%q isn't a valid chop length or offset:length", s)
		}
		if choplen, err = strconv.Atoi(length); err != nil {
			return fmt.Errorf("%q isn't a valid chop length or offset:length", s)
		}
	} else {
		if choplen, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("%q isn't a valid chop length or offset:length", s)
		}
	}

	switch {
	case choplen > 0:
		c.LenBegin += choplen
		if chopoff > 0 {
			c.OffBeginPos += chopoff
		} else {
			c.OffBeginNeg += chopoff
		}
	case choplen < 0:
		c.LenEnd += choplen
		if chopoff > 0 {
			c.OffEndPos += chopoff
		} else {
			c.OffEndNeg += chopoff
		}
	}
	return nil
}

// ParseAdjustment parses a signed decimal seconds value ("-0.5", ".25",
// "1") into a time adjustment. Fractions beyond nanosecond resolution are
// truncated. A leading minus on a zero magnitude is preserved: "-0" is a
// meaningful strict-adjustment mode flag.
func ParseAdjustment(s string) (edit.Adjustment, error) {
	var a edit.Adjustment
	v := strings.TrimSpace(s)
	if strings.HasPrefix(v, "-") {
		a.Negative = true
		v = v[1:]
	}

	secs, frac, hasFrac := strings.Cut(v, ".")
	if secs == "" && !hasFrac {
		return a, fmt.Errorf("%q isn't a valid time adjustment", s)
	}
	if secs != "" {
		n, err := strconv.ParseInt(secs, 10, 64)
		if err != nil || n < 0 {
			return a, fmt.Errorf("%q isn't a valid time adjustment", s)
		}
		a.Secs = n
	}
	if hasFrac && frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		n, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || n < 0 {
			return a, fmt.Errorf("%q isn't a valid time adjustment", s)
		}
		for i := len(frac); i < 9; i++ {
			n *= 10
		}
		a.Nsecs = n
	}
	return a, nil
}

// ParseTimeWindow parses the dedup time window. The window is a magnitude;
// a leading sign is ignored.
func ParseTimeWindow(s string) (edit.Timestamp, error) {
	a, err := ParseAdjustment(s)
	if err != nil {
		return edit.Timestamp{}, fmt.Errorf("%q isn't a valid rel time value", s)
	}
	return edit.Timestamp{Secs: a.Secs, Nsecs: a.Nsecs}, nil
}

// ParseAbsTime parses a -A/-B filter boundary in local time.
func ParseAbsTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(AbsTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q isn't a valid time format", s)
	}
	return t, nil
}

// ParseComment parses a "<frame>:<comment>" directive. The comment itself
// may contain colons.
func ParseComment(s string) (uint32, string, error) {
	num, comment, ok := strings.Cut(s, ":")
	if !ok {
		return 0, "", fmt.Errorf("%q isn't a valid <frame>:<comment>", s)
	}
	frame, err := parseUint32(num, "frame number")
	if err != nil {
		return 0, "", fmt.Errorf("%q isn't a valid <frame>:<comment>", s)
	}
	return frame, comment, nil
}

// linkTypeNames maps the supported -T encapsulation names.
var linkTypeNames = map[string]layers.LinkType{
	"ether":                layers.LinkTypeEthernet,
	"rawip":                layers.LinkTypeRaw,
	"loop":                 layers.LinkTypeLoop,
	"ppp":                  layers.LinkTypePPP,
	"fddi":                 layers.LinkTypeFDDI,
	"ieee-802-11":          layers.LinkTypeIEEE802_11,
	"ieee-802-11-radiotap": layers.LinkTypeIEEE80211Radio,
	"linux-sll":            layers.LinkTypeLinuxSLL,
	"frelay":               layers.LinkTypeFRelay,
}

// ParseLinkType resolves an encapsulation name or numeric link type value.
func ParseLinkType(s string) (layers.LinkType, error) {
	if lt, ok := linkTypeNames[strings.ToLower(s)]; ok {
		return lt, nil
	}
	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		return layers.LinkType(n), nil
	}
	return 0, fmt.Errorf("%q isn't a valid encapsulation type", s)
}

func parseUint32(s, what string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%q isn't a valid %s", s, what)
	}
	return uint32(n), nil
}
