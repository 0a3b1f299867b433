// Package report prints tables for the human-readable output mode.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pit38-assistant/community/internal/csv"
)

func Render(w io.Writer, data *csv.CSV) error {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.Header(data.Header)
	for _, row := range data.Body {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, tableString.String())
	return err
}
