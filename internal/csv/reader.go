package csv

import (
	"bytes"
	"encoding/csv"
	"io"
)

var bom = []byte{0xef, 0xbb, 0xbf}

type readOptions struct {
	comma rune
}

// Option configures Read.
type Option func(*readOptions)

// WithComma sets the field delimiter. Zero keeps the default ','.
func WithComma(r rune) Option {
	return func(o *readOptions) {
		if r != 0 {
			o.comma = r
		}
	}
}

func Read(r io.Reader, opts ...Option) ([][]string, error) {
	records, _, err := read(r, opts...)
	return records, err
}

// Load reads r like Read and keeps the input line each record starts on, so
// errors can point at the file even across blank lines and quoted newlines.
func Load(r io.Reader, opts ...Option) (*CSV, error) {
	records, lines, err := read(r, opts...)
	if err != nil {
		return nil, err
	}
	c, err := NewCSV(records)
	if err != nil {
		return nil, err
	}
	c.Lines = lines
	return c, nil
}

func read(r io.Reader, opts ...Option) ([][]string, []int, error) {
	o := readOptions{comma: ','}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	data = bytes.TrimPrefix(data, bom)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = o.comma
	// bank exports occasionally carry trailing empty columns on some rows
	reader.FieldsPerRecord = -1

	var (
		records [][]string
		lines   []int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
	return records, lines, nil
}
