package signals

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Frame is a raw delimited table: a header and string cells.
type Frame struct {
	Header []string
	Rows   [][]string
}

// ReadCSV reads a comma separated file whose first record is the header.
// Short rows are padded with empty cells.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty file: no header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	// Excel exports lead with a byte order mark.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	f := &Frame{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(f.Rows)+1, err)
		}
		if len(rec) < len(header) {
			rec = append(rec, make([]string, len(header)-len(rec))...)
		}
		f.Rows = append(f.Rows, rec[:len(header)])
	}
	return f, nil
}

// Index returns the position of column name, or -1.
func (f *Frame) Index(name string) int {
	for i, h := range f.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// CommonColumns returns the columns present in both frames, in a's order.
func CommonColumns(a, b *Frame) []string {
	var out []string
	for _, h := range a.Header {
		if b.Index(h) >= 0 {
			out = append(out, h)
		}
	}
	return out
}

const keySep = "\x1f"

func rowKey(row []string, idx []int) string {
	parts := make([]string, len(idx))
	for i, j := range idx {
		parts[i] = row[j]
	}
	return strings.Join(parts, keySep)
}

// Join performs an inner join of left and right on keys. With no keys the
// frames are joined on every column they share. Output rows keep left order;
// a left row matching several right rows appears once per match. Non-key
// columns present on both sides are suffixed _x and _y.
func Join(left, right *Frame, keys []string) (*Frame, error) {
	if len(keys) == 0 {
		keys = CommonColumns(left, right)
	}
	if len(keys) == 0 {
		return nil, errors.New("no common columns to join on")
	}

	li := make([]int, len(keys))
	ri := make([]int, len(keys))
	for k, name := range keys {
		if li[k] = left.Index(name); li[k] < 0 {
			return nil, fmt.Errorf("join key %q missing from left table", name)
		}
		if ri[k] = right.Index(name); ri[k] < 0 {
			return nil, fmt.Errorf("join key %q missing from right table", name)
		}
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	header := make([]string, 0, len(left.Header)+len(right.Header))
	for _, h := range left.Header {
		if !isKey[h] && right.Index(h) >= 0 {
			h += "_x"
		}
		header = append(header, h)
	}
	var rightCols []int
	for j, h := range right.Header {
		if isKey[h] {
			continue
		}
		if left.Index(h) >= 0 {
			h += "_y"
		}
		header = append(header, h)
		rightCols = append(rightCols, j)
	}

	byKey := make(map[string][]int, len(right.Rows))
	for j, row := range right.Rows {
		k := rowKey(row, ri)
		byKey[k] = append(byKey[k], j)
	}

	out := &Frame{Header: header}
	for _, lrow := range left.Rows {
		for _, j := range byKey[rowKey(lrow, li)] {
			rrow := right.Rows[j]
			merged := make([]string, 0, len(header))
			merged = append(merged, lrow...)
			for _, c := range rightCols {
				merged = append(merged, rrow[c])
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out, nil
}
