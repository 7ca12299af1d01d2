package export

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/worklens/internal/report"
	"github.com/sadopc/worklens/internal/sheet"
	"github.com/sadopc/worklens/internal/store"
)

func sampleDashboard() store.Dashboard {
	return store.NewSample(nil).Snapshot()
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
		t.Fatalf("read csv: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	d := sampleDashboard()
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(d.Schema, d.Table, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 11 {
		t.Fatalf("expected 11 rows (1 header + 10 data), got %d", len(records))
	}

	expectedHeader := []string{"Date", "Task", "Subcategory", "Duration", "Outcome"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	want := []string{"2023/01/01", "Task A", "Sub A", "1.50 hours", "Result A"}
	for i := range want {
		if row[i] != want[i] {
			t.Fatalf("row[%d] = %q, want %q", i, row[i], want[i])
		}
	}
}

func TestToCSVV3Columns(t *testing.T) {
	rows := []report.TableRow{{
		Date:       "2024/03/01",
		Path:       []string{"Alpha", "Design"},
		Duration:   "2.00 hours",
		Attributes: map[string]string{"plan": "draft", "progress": "50%"},
	}}
	path := filepath.Join(t.TempDir(), "v3.csv")

	if err := ToCSV(sheet.SchemaV3, rows, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	header := strings.Join(records[0], ",")
	if header != "Date,Project,Task,Subtask,Duration,Plan,Progress" {
		t.Fatalf("header = %q", header)
	}
	// The short path leaves the subtask column blank.
	if records[1][3] != "" {
		t.Fatalf("subtask = %q, want empty", records[1][3])
	}
	if records[1][5] != "draft" || records[1][6] != "50%" {
		t.Fatalf("attributes = %v", records[1][5:])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(sheet.SchemaV1, nil, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(sheet.SchemaV1, nil, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	rows := []report.TableRow{{
		Date:       "2023/01/01",
		Path:       []string{`Task "Special"`, "Sub, A"},
		Duration:   "1.00 hours",
		Attributes: map[string]string{"outcome": `notes with "quotes" and, commas`},
	}}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(sheet.SchemaV1, rows, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][1] != `Task "Special"` {
		t.Fatalf("task mangled: %q", records[1][1])
	}
	if records[1][2] != "Sub, A" {
		t.Fatalf("subcategory mangled: %q", records[1][2])
	}
	if records[1][4] != `notes with "quotes" and, commas` {
		t.Fatalf("outcome mangled: %q", records[1][4])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	d := sampleDashboard()
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(d, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 10 || len(result.Rows) != 10 {
		t.Fatalf("count = %d rows = %d, want 10", result.Count, len(result.Rows))
	}
	if result.Schema != "v1" || result.Unit != "hours" {
		t.Fatalf("schema = %q unit = %q", result.Schema, result.Unit)
	}
	if result.Total != 21 {
		t.Fatalf("total = %v, want 21", result.Total)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	overview := result.Charts["overview"]
	if len(overview.Labels) != 3 || overview.Labels[0] != "Task C" {
		t.Fatalf("overview labels = %v", overview.Labels)
	}
	if overview.Colors[0] != report.BasePalette[0] {
		t.Fatalf("overview color = %q", overview.Colors[0])
	}
	if len(result.Tree) != 3 || result.Tree[0].Label != "Task A" {
		t.Fatalf("tree = %+v", result.Tree)
	}
	if _, ok := result.Rows[0].Attributes["serial_date"]; ok {
		t.Fatal("serial_date should not be exported as an attribute")
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(store.New().Snapshot(), path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"rows": []`) {
		t.Fatalf("empty export should carry an empty rows array:\n%s", data)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be pretty-printed")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(store.New().Snapshot(), "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// SQLite
// ============================================================

func TestToSQLite(t *testing.T) {
	d := sampleDashboard()
	path := filepath.Join(t.TempDir(), "snap", "test.db")

	if err := ToSQLite(d, path); err != nil {
		t.Fatalf("ToSQLite: %v", err)
	}
	// A second export replaces the first rather than appending to it.
	if err := ToSQLite(d, path); err != nil {
		t.Fatalf("ToSQLite again: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("records = %d, want 10", n)
	}

	var label string
	var total float64
	err = db.QueryRow(`SELECT label, total FROM buckets WHERE chart = 'overview' AND rank = 1`).Scan(&label, &total)
	if err != nil {
		t.Fatal(err)
	}
	if label != "Task C" || total != 9 {
		t.Fatalf("top bucket = %q %v, want Task C 9", label, total)
	}

	var schema string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'schema'`).Scan(&schema); err != nil {
		t.Fatal(err)
	}
	if schema != "v1" {
		t.Fatalf("schema = %q, want v1", schema)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != snapshotVersion {
		t.Fatalf("user_version = %d, want %d", version, snapshotVersion)
	}
}

func TestToSQLiteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if err := ToSQLite(store.New().Snapshot(), path); err != nil {
		t.Fatalf("ToSQLite: %v", err)
	}
}

// ============================================================
// Formats and WriteAll
// ============================================================

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"csv", CSV, true},
		{"JSON", JSON, true},
		{" sqlite ", SQLite, true},
		{"db", SQLite, true},
		{"xml", CSV, false},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseFormat(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	day := time.Date(2024, time.February, 29, 15, 0, 0, 0, time.Local)
	if got := FileName(SQLite, day); got != "worklens-export-2024-02-29.db" {
		t.Fatalf("FileName = %q", got)
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.Local)

	paths, err := WriteAll(context.Background(), sampleDashboard(), dir, now)
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if len(paths) != len(Formats) {
		t.Fatalf("paths = %v", paths)
	}
	for i, p := range paths {
		if filepath.Ext(p) != "."+Formats[i].Ext() {
			t.Errorf("path %q does not match format %v", p, Formats[i])
		}
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}

func TestWriteAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WriteAll(ctx, sampleDashboard(), t.TempDir(), time.Now())
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
