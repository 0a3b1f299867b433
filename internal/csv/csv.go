package csv

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn is returned by Row.Get when the requested column is absent.
var ErrMissingColumn = errors.New("missing column")

type CSV struct {
	Header []string
	Body   [][]string
	// Lines holds the 1-based input line each record (header first) starts
	// on. It is only set by Load.
	Lines []int
}

func NewCSV(records [][]string) (*CSV, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}
	return &CSV{
		Header: records[0],
		Body:   records[1:],
	}, nil
}

// Row is a single body line keyed by trimmed header name.
type Row map[string]string

// Rows maps every body line onto the header. Values are trimmed; cells beyond
// the header width are dropped.
func (c *CSV) Rows() []Row {
	header := make([]string, len(c.Header))
	for i, h := range c.Header {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(c.Body))
	for _, line := range c.Body {
		row := make(Row, len(header))
		for i, value := range line {
			if i < len(header) {
				row[header[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (r Row) Get(column string) (string, error) {
	v, ok := r[column]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrMissingColumn, column)
	}
	return v, nil
}

// Line returns the input line body row i starts on. Without recorded
// positions it assumes one line per record after the header.
func (c *CSV) Line(i int) int {
	if i+1 < len(c.Lines) {
		return c.Lines[i+1]
	}
	return i + 2
}

// Lookup returns the value of an optional column, empty when absent.
func (r Row) Lookup(column string) string {
	return r[column]
}
