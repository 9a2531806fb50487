package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Headers: []string{"Number", "Subject", "Status"},
		Rows: [][]string{
			{"TCK-1", "Router down", "OPEN"},
			{"TCK-2", `Printer says "jam", again`, "CLOSED"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTable()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Number,Subject,Status" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.Contains(lines[2], `"Printer says ""jam"", again"`) {
		t.Fatalf("quotes not escaped: %q", lines[2])
	}
}

func TestWriteCSVEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	table := Table{Headers: []string{"A", "B"}}
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.TrimRight(buf.String(), "\n"); got != "A,B" {
		t.Fatalf("output = %q, want header only", got)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	table := sampleTable()
	if err := WriteXLSX(&buf, "Tickets", table); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Tickets" {
		t.Fatalf("sheets = %v, want [Tickets]", sheets)
	}

	rows, err := f.GetRows("Tickets")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3", len(rows))
	}
	for i, want := range table.Headers {
		if rows[0][i] != want {
			t.Fatalf("header cell %d = %q, want %q", i, rows[0][i], want)
		}
	}
	if rows[1][0] != "TCK-1" || rows[2][2] != "CLOSED" {
		t.Fatalf("data rows = %v", rows[1:])
	}
}
