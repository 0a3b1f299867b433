package csv

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestNewCSV(t *testing.T) {
	records := [][]string{
		{"header1", "header2"},
		{"value1", "value2"},
		{"value3", "value4"},
	}
	csv, err := NewCSV(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectedHeader := []string{"header1", "header2"}
	if !reflect.DeepEqual(csv.Header, expectedHeader) {
		t.Errorf("expected header %v, but got %v", expectedHeader, csv.Header)
	}
	expectedBody := [][]string{
		{"value1", "value2"},
		{"value3", "value4"},
	}
	if !reflect.DeepEqual(csv.Body, expectedBody) {
		t.Errorf("expected body %v, but got %v", expectedBody, csv.Body)
	}
}

func TestNewCSV_empty(t *testing.T) {
	_, err := NewCSV([][]string{})
	if err == nil {
		t.Fatal("expected error, but got nil")
	}
}

func TestCSV_Rows(t *testing.T) {
	csv := &CSV{
		Header: []string{" Date", "Amount ", "Description"},
		Body: [][]string{
			{"2026-01-25 ", " 0.42", " bunq Payday 2026-01-25 EUR "},
			{"2026-01-26", "1.00"},
		},
	}

	rows := csv.Rows()
	expected := []Row{
		{"Date": "2026-01-25", "Amount": "0.42", "Description": "bunq Payday 2026-01-25 EUR"},
		{"Date": "2026-01-26", "Amount": "1.00"},
	}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("expected %v, but got %v", expected, rows)
	}
}

func TestRow_Get(t *testing.T) {
	row := Row{"Date": "2026-01-25"}

	v, err := row.Get("Date")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "2026-01-25" {
		t.Errorf("expected 2026-01-25, but got %s", v)
	}

	_, err = row.Get("Amount")
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, but got %v", err)
	}

	if got := row.Lookup("Amount"); got != "" {
		t.Errorf("expected empty lookup, but got %q", got)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, &CSV{
		Header: []string{"broker", "symbol"},
		Body:   [][]string{{"BUNQ", "EUR-INT"}, {"BUNQ", "needs, quoting"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "broker,symbol\r\nBUNQ,EUR-INT\r\nBUNQ,\"needs, quoting\"\r\n"
	if buf.String() != expected {
		t.Errorf("expected %q, but got %q", expected, buf.String())
	}
}

func TestCSV_Line_WithoutPositions(t *testing.T) {
	c := &CSV{Header: []string{"a"}, Body: [][]string{{"1"}, {"2"}}}
	if got := c.Line(1); got != 3 {
		t.Errorf("expected line 3, but got %d", got)
	}
}
