package iplist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/upflare/tracker/geo"
)

// Parses one record of a range file: range,country,latitude,longitude[,region[,city]]. The range
// is either first-last, a CIDR prefix, or a single address.
func ParseRecord(record []string) (r Range, err error) {
	if len(record) < 4 || len(record) > 6 {
		err = fmt.Errorf("expected 4 to 6 fields, got %d", len(record))
		return
	}
	r.First, r.Last, err = parseRange(strings.TrimSpace(record[0]))
	if err != nil {
		return
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		err = fmt.Errorf("parsing latitude: %w", err)
		return
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil {
		err = fmt.Errorf("parsing longitude: %w", err)
		return
	}
	r.Location = geo.NewLocation(strings.TrimSpace(record[1]), lat, lon)
	if len(record) > 4 {
		r.Location.Region = strings.TrimSpace(record[4])
	}
	if len(record) > 5 {
		r.Location.City = strings.TrimSpace(record[5])
	}
	return
}

func parseRange(s string) (first, last netip.Addr, err error) {
	if strings.Contains(s, "/") {
		var p netip.Prefix
		p, err = netip.ParsePrefix(s)
		if err != nil {
			return
		}
		first, last = PrefixRange(p)
		first, last = first.Unmap(), last.Unmap()
		return
	}
	firstStr, lastStr, ok := strings.Cut(s, "-")
	if !ok {
		lastStr = firstStr
	}
	first, err = netip.ParseAddr(strings.TrimSpace(firstStr))
	if err != nil {
		return
	}
	last, err = netip.ParseAddr(strings.TrimSpace(lastStr))
	if err != nil {
		return
	}
	first, last = first.Unmap(), last.Unmap()
	if first.Is4() != last.Is4() {
		err = fmt.Errorf("range %q mixes address families", s)
		return
	}
	if last.Less(first) {
		err = fmt.Errorf("range %q is reversed", s)
	}
	return
}

// Reads a range file. Blank lines and lines starting with # are skipped.
func NewFromReader(f io.Reader) (ret *IPList, err error) {
	cr := csv.NewReader(f)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	var ranges []Range
	for {
		var record []string
		record, err = cr.Read()
		if errors.Is(err, io.EOF) {
			err = nil
			break
		}
		if err != nil {
			return
		}
		var r Range
		r, err = ParseRecord(record)
		if err != nil {
			line, _ := cr.FieldPos(0)
			err = fmt.Errorf("line %d: %w", line, err)
			return
		}
		ranges = append(ranges, r)
	}
	ret = New(ranges)
	return
}

func LoadFile(path string) (*IPList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	l, err := NewFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return l, nil
}
