package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tom7523326/studyplan/pkg/models"
)

// Exporter writes task data to files under Dir. It is a stateless
// service passed by reference to whoever needs it.
type Exporter struct {
	Dir string
}

func New(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

// writeAtomic writes data through a temp file and renames it into place.
func (e *Exporter) writeAtomic(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	tempFile, err := os.CreateTemp(e.Dir, "export-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempFile.Name())
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return "", fmt.Errorf("failed to sync export: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close export: %w", err)
	}

	tempName := tempFile.Name()
	tempFile = nil // Prevent defer from removing it

	path := filepath.Join(e.Dir, name)
	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName)
		return "", fmt.Errorf("failed to rename export: %w", err)
	}
	return path, nil
}

// CSV writes all tasks as a CSV file and returns its path.
func (e *Exporter) CSV(tasks []models.Task, now time.Time) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	w.Write([]string{"date", "name", "category", "expectedDuration", "actualDuration", "status", "startTime", "endTime"})
	for _, t := range tasks {
		w.Write([]string{
			t.Date.Format("2006-01-02"),
			t.Name,
			string(t.Category),
			strconv.Itoa(t.ExpectedMinutes),
			strconv.Itoa(t.ActualMinutes),
			string(t.Status),
			clock(t.StartedAt),
			clock(t.CompletedAt),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to encode csv: %w", err)
	}

	return e.writeAtomic(fmt.Sprintf("study_data_%d.csv", now.Unix()), []byte(sb.String()))
}

func clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04:05")
}

// JSON writes all tasks as a pretty-printed JSON array and returns its path.
func (e *Exporter) JSON(tasks []models.Task, now time.Time) (string, error) {
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	data = append(data, '\n')
	return e.writeAtomic(fmt.Sprintf("study_data_%d.json", now.Unix()), data)
}

// ImportJSON reads a JSON array of tasks. The caller feeds the result
// through the store's merge-or-update import.
func (e *Exporter) ImportJSON(path string) ([]models.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}
	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode import file: %w", err)
	}
	return tasks, nil
}

// Report writes the human-readable study report and returns its path.
func (e *Exporter) Report(tasks []models.Task, now time.Time) (string, error) {
	return e.writeAtomic(fmt.Sprintf("study_report_%d.txt", now.Unix()), []byte(BuildReport(tasks)))
}

// BuildReport renders aggregate counts, the completion rate, and
// per-category time and efficiency. Ratios over empty sets are 0.
func BuildReport(tasks []models.Task) string {
	var completed []models.Task
	totalExpected, totalActual := 0, 0
	for _, t := range tasks {
		totalExpected += t.ExpectedMinutes
		if t.Status == models.TaskStatusCompleted {
			completed = append(completed, t)
			totalActual += t.ActualMinutes
		}
	}

	completionRate := 0.0
	if len(tasks) > 0 {
		completionRate = float64(len(completed)) / float64(len(tasks)) * 100
	}

	var sb strings.Builder
	sb.WriteString("Study Report\n")
	sb.WriteString("==================\n\n")
	sb.WriteString("Overview:\n")
	fmt.Fprintf(&sb, "- Total tasks: %d\n", len(tasks))
	fmt.Fprintf(&sb, "- Completed tasks: %d\n", len(completed))
	fmt.Fprintf(&sb, "- Completion rate: %.1f%%\n", completionRate)
	fmt.Fprintf(&sb, "- Expected time: %d minutes\n", totalExpected)
	fmt.Fprintf(&sb, "- Actual time: %d minutes\n", totalActual)
	sb.WriteString("\nBy subject:\n")

	for _, cat := range models.Categories() {
		count, actual, expected := 0, 0, 0
		for _, t := range completed {
			if t.Category != cat {
				continue
			}
			count++
			actual += t.ActualMinutes
			expected += t.ExpectedMinutes
		}
		if count == 0 {
			continue
		}
		efficiency := 0.0
		if expected > 0 {
			efficiency = float64(actual) / float64(expected) * 100
		}
		fmt.Fprintf(&sb, "\n%s:\n", cat)
		fmt.Fprintf(&sb, "- Completed tasks: %d\n", count)
		fmt.Fprintf(&sb, "- Total time: %d minutes\n", actual)
		fmt.Fprintf(&sb, "- Efficiency: %.1f%%\n", efficiency)
	}

	return sb.String()
}
