package csv

import (
	"encoding/csv"
	"io"
)

func Write(w io.Writer, data *CSV) error {
	writer := csv.NewWriter(w)
	// importers expect the RFC 4180 line ending
	writer.UseCRLF = true
	if err := writer.Write(data.Header); err != nil {
		return err
	}
	if err := writer.WriteAll(data.Body); err != nil {
		return err
	}
	return writer.Error()
}
