package csv

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	// CSV data with a BOM
	bom := []byte{0xef, 0xbb, 0xbf}
	csvData := []byte(`header1,header2
value1,value2
`)
	dataWithBom := append(bom, csvData...)

	reader := bytes.NewReader(dataWithBom)
	records, err := Read(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := [][]string{
		{"header1", "header2"},
		{"value1", "value2"},
	}

	if !reflect.DeepEqual(records, expected) {
		t.Errorf("expected %v, but got %v", expected, records)
	}
}

func TestRead_WithComma(t *testing.T) {
	records, err := Read(strings.NewReader("\"Date\";\"Amount\"\n\"2026-01-25\";\"1,234.56\"\n"), WithComma(';'))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := [][]string{
		{"Date", "Amount"},
		{"2026-01-25", "1,234.56"},
	}
	if !reflect.DeepEqual(records, expected) {
		t.Errorf("expected %v, but got %v", expected, records)
	}
}

func TestRead_RaggedRows(t *testing.T) {
	records, err := Read(strings.NewReader("a,b,c\n1,2\n1,2,3,4\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, but got %d", len(records))
	}
	if len(records[1]) != 2 || len(records[2]) != 4 {
		t.Errorf("unexpected record widths: %v", records)
	}
}

func TestRead_Malformed(t *testing.T) {
	_, err := Read(strings.NewReader("a,b\n\"unterminated,1\n"))
	if err == nil {
		t.Fatal("expected error, but got nil")
	}
}

func TestLoad_Lines(t *testing.T) {
	data := "Date,Amount,Description\n" +
		"\n" +
		"2026-01-03,-12.50,\"Card\npayment\"\n" +
		"2026-01-25,n/a,bunq Payday 2026-01-25 EUR\n"

	c, err := Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []int{1, 3, 5}
	if !reflect.DeepEqual(c.Lines, expected) {
		t.Errorf("expected lines %v, but got %v", expected, c.Lines)
	}
	if got := c.Line(0); got != 3 {
		t.Errorf("expected body row 0 on line 3, but got %d", got)
	}
	if got := c.Line(1); got != 5 {
		t.Errorf("expected body row 1 on line 5, but got %d", got)
	}
}

func TestLoad_Empty(t *testing.T) {
	if _, err := Load(strings.NewReader("")); err == nil {
		t.Fatal("expected error, but got nil")
	}
}
