// Package testutil provides shared dataset fixtures for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/learning-intelligence/backend/internal/models"
)

// SampleCSV is a small but realistic learner activity dataset: alice is a
// strong student, bob is struggling, chapter "ch3" is hard for everyone.
const SampleCSV = `student_id,chapter,completion,score,time_spent_minutes,attempts
alice,ch1,1.0,92,34,1
alice,ch2,1.0,88,41,1
alice,ch3,0.8,71,66,2
bob,ch1,0.6,55,18,3
bob,ch2,0.3,42,12,4
bob,ch3,0.1,20,9,5
carol,ch1,0.9,78,29,1
carol,ch2,0.8,74,35,2
carol,ch3,0.4,51,48,3
`

// SampleJSON mirrors SampleCSV's first rows as a JSON dataset.
const SampleJSON = `[
  {"student_id":"alice","chapter":"ch1","completion":1.0,"score":92,"time_spent_minutes":34,"attempts":1},
  {"student_id":"bob","chapter":"ch1","completion":0.6,"score":55,"time_spent_minutes":18,"attempts":3}
]`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

// SampleDataset returns the SampleCSV content as a parsed dataset.
func SampleDataset() *models.Dataset {
	mk := func(student, chapter string, completion, score, minutes, attempts float64) models.ActivityRecord {
		return models.ActivityRecord{
			StudentID:        student,
			Chapter:          chapter,
			Completion:       completion,
			Score:            score,
			TimeSpentMinutes: minutes,
			Attempts:         attempts,
		}
	}
	return &models.Dataset{
		Columns: []string{"student_id", "chapter", "completion", "score", "time_spent_minutes", "attempts"},
		Records: []models.ActivityRecord{
			mk("alice", "ch1", 1.0, 92, 34, 1),
			mk("alice", "ch2", 1.0, 88, 41, 1),
			mk("alice", "ch3", 0.8, 71, 66, 2),
			mk("bob", "ch1", 0.6, 55, 18, 3),
			mk("bob", "ch2", 0.3, 42, 12, 4),
			mk("bob", "ch3", 0.1, 20, 9, 5),
			mk("carol", "ch1", 0.9, 78, 29, 1),
			mk("carol", "ch2", 0.8, 74, 35, 2),
			mk("carol", "ch3", 0.4, 51, 48, 3),
		},
	}
}

// WideDataset returns a dataset with n distinct students, all of them weak
// performers, for exercising response truncation.
func WideDataset(n int) *models.Dataset {
	ds := &models.Dataset{
		Columns: []string{"student_id", "chapter", "completion", "score", "time_spent_minutes", "attempts"},
	}
	for i := 0; i < n; i++ {
		for c := 0; c < 7; c++ {
			ds.Records = append(ds.Records, models.ActivityRecord{
				StudentID:        fmt.Sprintf("s%03d", i),
				Chapter:          fmt.Sprintf("ch%d", c),
				Completion:       0.1 + float64(i%5)*0.02,
				Score:            20 + float64(i%10),
				TimeSpentMinutes: 10,
				Attempts:         4,
			})
		}
	}
	return ds
}
