package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tom7523326/studyplan/pkg/models"
)

// seedNamespace fixes the uuid namespace for seed task ids. Seed ids must
// be stable across runs so that persisted progress can be reconciled onto
// a freshly regenerated seed set.
var seedNamespace = uuid.MustParse("7b1ce1f6-8a34-4a6e-9a6b-d1d1f3a0c9e2")

// TaskTemplate is a recurring task definition replicated across the seed
// date range.
type TaskTemplate struct {
	Name            string
	Category        models.TaskCategory
	ExpectedMinutes int
}

type SeedConfig struct {
	Templates []TaskTemplate
	Start     time.Time
	End       time.Time
}

// DefaultSeedConfig is the built-in summer study plan.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Templates: []TaskTemplate{
			{Name: "Handwriting practice (three sheets)", Category: models.CategoryChinese, ExpectedMinutes: 20},
			{Name: "Reading comprehension (one passage)", Category: models.CategoryChinese, ExpectedMinutes: 10},
			{Name: "Essay writing (two per three days)", Category: models.CategoryChinese, ExpectedMinutes: 30},
			{Name: "Read a book and copy good sentences", Category: models.CategoryChinese, ExpectedMinutes: 40},
			{Name: "Number sense workbook (one page)", Category: models.CategoryMath, ExpectedMinutes: 10},
			{Name: "Math exploration (one topic)", Category: models.CategoryMath, ExpectedMinutes: 20},
			{Name: "Video lessons (two episodes)", Category: models.CategoryEnglish, ExpectedMinutes: 30},
			{Name: "Dubbing practice", Category: models.CategoryEnglish, ExpectedMinutes: 10},
			{Name: "Self-introduction, three times", Category: models.CategoryEnglish, ExpectedMinutes: 10},
			{Name: "Scales and daily piece", Category: models.CategoryPiano, ExpectedMinutes: 30},
		},
		Start: time.Date(2025, 7, 12, 0, 0, 0, 0, time.Local),
		End:   time.Date(2025, 8, 10, 0, 0, 0, 0, time.Local),
	}
}

// GenerateSeed materializes one task per template per day across the
// closed date range. Deterministic: the same config always yields the
// same ids.
func GenerateSeed(cfg SeedConfig) []models.Task {
	start, end := models.Day(cfg.Start), models.Day(cfg.End)
	if end.Before(start) {
		return nil
	}

	var tasks []models.Task
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for _, tpl := range cfg.Templates {
			id := uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("%s|%s", tpl.Name, d.Format("2006-01-02"))))
			tasks = append(tasks, models.Task{
				ID:              id.String(),
				Name:            tpl.Name,
				Category:        tpl.Category,
				ExpectedMinutes: tpl.ExpectedMinutes,
				Date:            d,
				Status:          models.TaskStatusPending,
			})
		}
	}
	return tasks
}

// Reconcile overlays persisted progress onto a freshly generated seed set.
// Only the mutable progress fields carry over; everything else comes from
// the seed. Persisted ids absent from the seed are dropped, new seed
// tasks start pending.
func Reconcile(seed, persisted []models.Task) []models.Task {
	if len(persisted) == 0 {
		return seed
	}
	byID := make(map[string]models.Task, len(persisted))
	for _, t := range persisted {
		byID[t.ID] = t
	}
	for i := range seed {
		if p, ok := byID[seed[i].ID]; ok {
			seed[i].Status = p.Status
			seed[i].ActualMinutes = p.ActualMinutes
			seed[i].StartedAt = p.StartedAt
			seed[i].CompletedAt = p.CompletedAt
		}
	}
	return seed
}
