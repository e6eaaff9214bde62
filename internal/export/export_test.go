package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pointr/internal/points"
)

func sampleReport() points.Report {
	return points.Report{
		Rows: []points.Row{
			{
				AssignmentID: "a1",
				TaskID:       "t1",
				Label:        "Welding",
				Reference:    "W-1",
				Date:         "2024-01-05",
				Coefficient:  2.5,
				Quantity:     3,
				Points:       7.5,
			},
			{
				AssignmentID: "a2",
				TaskID:       "t2",
				Label:        "Painting",
				Date:         "2024-01-06",
				Coefficient:  1,
				Quantity:     2,
				Points:       2,
			},
			{
				// Task deleted upstream: raw id as label, zero points.
				AssignmentID: "a3",
				TaskID:       "ghost",
				Label:        "ghost",
				Date:         "2024-01-06",
				Quantity:     4,
			},
		},
		Total: 9.5,
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleReport(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows + total row
	if len(records) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(records))
	}

	header := records[0]
	expectedHeader := []string{"Date", "Task", "Reference", "Coefficient", "Quantity", "Points"}
	for i, h := range expectedHeader {
		if header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, header[i], h)
		}
	}

	row := records[1]
	if row[0] != "2024-01-05" || row[1] != "Welding" || row[2] != "W-1" {
		t.Fatalf("unexpected first row: %v", row)
	}
	if row[3] != "2.5" || row[4] != "3" || row[5] != "7.5" {
		t.Fatalf("numeric columns mangled: %v", row)
	}

	// Deleted-task row keeps the raw id and exports zero points.
	ghost := records[3]
	if ghost[1] != "ghost" || ghost[5] != "0" {
		t.Fatalf("unexpected ghost row: %v", ghost)
	}

	total := records[4]
	if total[1] != "Total" || total[5] != "9.5" {
		t.Fatalf("unexpected total row: %v", total)
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(points.Report{}, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, _ := r.ReadAll()
	// header + total row
	if len(records) != 2 {
		t.Fatalf("expected 2 rows (header + total), got %d", len(records))
	}
	if records[1][5] != "0" {
		t.Fatalf("empty report total should be 0, got %q", records[1][5])
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(points.Report{}, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	rep := points.Report{
		Rows: []points.Row{
			{Label: `Grinding, "rough"`, Reference: "R,1", Quantity: 1},
		},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(rep, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `Grinding, "rough"` {
		t.Fatalf("task label mangled: %q", records[1][1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleReport(), path); err != nil {
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

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if result.Total != 9.5 {
		t.Fatalf("total = %v, want 9.5", result.Total)
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}

	r := result.Rows[0]
	if r.Task != "Welding" || r.TaskID != "t1" || r.Points != 7.5 {
		t.Fatalf("unexpected first row: %+v", r)
	}

	ghost := result.Rows[2]
	if ghost.Task != "ghost" || ghost.Points != 0 {
		t.Fatalf("unexpected ghost row: %+v", ghost)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(points.Report{}, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Rows != nil {
		t.Fatal("rows should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(points.Report{}, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(points.Report{}, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") {
		t.Fatal("JSON should be pretty-printed with newlines")
	}
	if !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented with spaces")
	}
}

func TestToJSONValidTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ts.json")
	ToJSON(sampleReport(), path)

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
}

// ============================================================
// formatNumber (internal helper)
// ============================================================

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{2.5, "2.5"},
		{7.25, "7.25"},
		{100, "100"},
	}

	for _, tt := range tests {
		got := formatNumber(tt.v)
		if got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
