package sink

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/law-makers/reviewcrawl/pkg/models"
	"github.com/xuri/excelize/v2"
)

var sampleRows = []models.ReviewRow{
	{ProductName: "Boot", ProductURL: "https://x.test/p?asin=A", Tag: "Comfort", Review: "warm \n and soft"},
	{ProductName: "Boot", ProductURL: "https://x.test/p?asin=A", Tag: "Fit", Review: `runs "small", size up`},
}

func writeAll(t *testing.T, s Sink, rows []models.ReviewRow) {
	t.Helper()
	for _, r := range rows {
		if err := s.WriteRow(r); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestCSVSink_HeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	s, err := NewCSVSink(path, false)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, s, sampleRows)

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	header := []string{"Product name", "Product URL", "Product Tag", "Review"}
	for i, h := range header {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	if records[1][3] != "warm \n and soft" {
		t.Errorf("newlines in reviews should survive, got %q", records[1][3])
	}
	if records[2][3] != `runs "small", size up` {
		t.Errorf("quoting mismatch: %q", records[2][3])
	}
}

func TestCSVSink_RowVisibleBeforeClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	s, err := NewCSVSink(path, false)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.WriteRow(sampleRows[0]); err != nil {
		t.Fatal(err)
	}
	if n := len(readCSV(t, path)); n != 2 {
		t.Errorf("expected the row on disk immediately, got %d records", n)
	}
}

func TestCSVSink_AppendSkipsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")

	s, _ := NewCSVSink(path, false)
	writeAll(t, s, sampleRows[:1])

	s, err := NewCSVSink(path, true)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, s, sampleRows[1:])

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected one header and 2 rows, got %d records", len(records))
	}
	if records[2][2] != "Fit" {
		t.Errorf("unexpected appended row %v", records[2])
	}
}

func TestCSVSink_TruncatesWithoutAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")

	s, _ := NewCSVSink(path, false)
	writeAll(t, s, sampleRows)

	s, _ = NewCSVSink(path, false)
	writeAll(t, s, sampleRows[:1])

	if n := len(readCSV(t, path)); n != 2 {
		t.Errorf("expected a fresh file, got %d records", n)
	}
}

func TestXLSXSink_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.xlsx")

	s, err := NewXLSXSink(path, false)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, s, sampleRows[:1])

	s, err = NewXLSXSink(path, true)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, s, sampleRows[1:])

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Reviews")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Product name" || rows[2][2] != "Fit" {
		t.Errorf("unexpected sheet contents %v", rows)
	}
}

func TestJSONLSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.jsonl")
	s, err := NewJSONLSink(path, false)
	if err != nil {
		t.Fatal(err)
	}
	writeAll(t, s, sampleRows)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var got []models.ReviewRow
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var row models.ReviewRow
		if err := json.Unmarshal(sc.Bytes(), &row); err != nil {
			t.Fatal(err)
		}
		got = append(got, row)
	}
	if len(got) != 2 || got[1].Tag != "Fit" {
		t.Errorf("unexpected rows %+v", got)
	}
}

func TestOpen_FormatFromPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		want string
	}{
		{"out.csv", "*sink.CSVSink"},
		{"out.xlsx", "*sink.XLSXSink"},
		{"out.jsonl", "*sink.JSONLSink"},
		{"out.txt", "*sink.CSVSink"},
	}

	for _, tt := range tests {
		s, err := Open(filepath.Join(dir, tt.name), "", false)
		if err != nil {
			t.Fatalf("Open(%s): %v", tt.name, err)
		}
		var got string
		switch s.(type) {
		case *CSVSink:
			got = "*sink.CSVSink"
		case *XLSXSink:
			got = "*sink.XLSXSink"
		case *JSONLSink:
			got = "*sink.JSONLSink"
		}
		s.Close()
		if got != tt.want {
			t.Errorf("Open(%s) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("XLSX"); err != nil || f != FormatXLSX {
		t.Errorf("ParseFormat(XLSX) = %q, %v", f, err)
	}
	if _, err := ParseFormat("parquet"); err == nil {
		t.Error("expected error for unknown format")
	}
}
