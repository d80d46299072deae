package export

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tom7523326/studyplan/pkg/models"
)

func sampleTasks() []models.Task {
	start := time.Date(2025, 7, 14, 9, 0, 0, 0, time.Local)
	end := time.Date(2025, 7, 14, 9, 30, 0, 0, time.Local)
	return []models.Task{
		{
			ID:              "t1",
			Name:            "Reading, with notes",
			Category:        models.CategoryChinese,
			ExpectedMinutes: 40,
			ActualMinutes:   30,
			Date:            time.Date(2025, 7, 14, 0, 0, 0, 0, time.Local),
			Status:          models.TaskStatusCompleted,
			StartedAt:       &start,
			CompletedAt:     &end,
		},
		{
			ID:              "t2",
			Name:            "Math drills",
			Category:        models.CategoryMath,
			ExpectedMinutes: 20,
			Date:            time.Date(2025, 7, 15, 0, 0, 0, 0, time.Local),
			Status:          models.TaskStatusPending,
		},
	}
}

func TestCSV(t *testing.T) {
	e := New(t.TempDir())
	now := time.Date(2025, 7, 20, 12, 0, 0, 0, time.Local)

	path, err := e.CSV(sampleTasks(), now)
	if err != nil {
		t.Fatalf("CSV export failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open export: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	header := strings.Join(rows[0], ",")
	if header != "date,name,category,expectedDuration,actualDuration,status,startTime,endTime" {
		t.Errorf("unexpected header: %s", header)
	}

	first := rows[1]
	if first[0] != "2025-07-14" || first[1] != "Reading, with notes" || first[6] != "09:00:00" || first[7] != "09:30:00" {
		t.Errorf("unexpected first row: %v", first)
	}

	second := rows[2]
	if second[6] != "" || second[7] != "" {
		t.Errorf("expected empty times for pending task, got %v", second)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	e := New(t.TempDir())
	now := time.Now()
	tasks := sampleTasks()

	path, err := e.JSON(tasks, now)
	if err != nil {
		t.Fatalf("JSON export failed: %v", err)
	}

	imported, err := e.ImportJSON(path)
	if err != nil {
		t.Fatalf("JSON import failed: %v", err)
	}
	if len(imported) != len(tasks) {
		t.Fatalf("expected %d tasks, got %d", len(tasks), len(imported))
	}
	if imported[0].ID != tasks[0].ID || imported[0].ActualMinutes != 30 {
		t.Errorf("round trip mangled task: %+v", imported[0])
	}
	if imported[0].StartedAt == nil || !imported[0].StartedAt.Equal(*tasks[0].StartedAt) {
		t.Errorf("round trip mangled start time: %v", imported[0].StartedAt)
	}
}

func TestImportJSONBadFile(t *testing.T) {
	e := New(t.TempDir())

	if _, err := e.ImportJSON("/no/such/file.json"); err == nil {
		t.Error("expected error for missing file")
	}

	bad := e.Dir + "/bad.json"
	os.WriteFile(bad, []byte("{not json"), 0644)
	if _, err := e.ImportJSON(bad); err == nil {
		t.Error("expected error for malformed json")
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(sampleTasks())

	for _, want := range []string{
		"Total tasks: 2",
		"Completed tasks: 1",
		"Completion rate: 50.0%",
		"chinese:",
		"Total time: 30 minutes",
		"Efficiency: 75.0%",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	// Math has no completed tasks and is omitted from the breakdown.
	if strings.Contains(report, "math:") {
		t.Errorf("report should omit categories without completed tasks:\n%s", report)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil)
	if !strings.Contains(report, "Completion rate: 0.0%") {
		t.Errorf("expected zero completion rate, got:\n%s", report)
	}
}
