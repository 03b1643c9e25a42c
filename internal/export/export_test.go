package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

var attendanceHeaders = []string{"Date", "Check In", "Check Out", "Hours", "Status"}

func TestWriteExcelWithRows(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{
		{"2025-03-03", "09:00", "18:10", "9.17", "PRESENT"},
		{"2025-03-04", "10:00", "14:30", "4.50", "HALF_DAY"},
	}
	if err := WriteExcel(&buf, "Attendance", attendanceHeaders, rows); err != nil {
		t.Fatalf("WriteExcel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(got))
	}
	if got[0][0] != "Date" || got[0][4] != "Status" {
		t.Fatalf("header row = %v", got[0])
	}
	if got[2][3] != "4.50" {
		t.Fatalf("hours cell = %q, want pre-formatted 4.50", got[2][3])
	}
}

func TestWriteExcelEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExcel(&buf, "Attendance", attendanceHeaders, nil); err != nil {
		t.Fatalf("WriteExcel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("Attendance")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want header only", len(got))
	}
}

func TestWritePDFProducesDocument(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{{"2025-03-03", "09:00", "18:10", "9.17", "PRESENT"}}
	if err := WritePDF(&buf, "Attendance Report", attendanceHeaders, rows); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF")
	}
}

func TestWritePDFEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, "Payroll Report", []string{"Employee", "Net"}, nil); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty output for header-only document")
	}
}
