package models

// ActivityRecord is one row of learner activity: a student's interaction
// with a single chapter.
type ActivityRecord struct {
	StudentID        string  `json:"student_id"`
	Chapter          string  `json:"chapter"`
	Completion       float64 `json:"completion"` // 0..1
	Score            float64 `json:"score"`      // 0..100
	TimeSpentMinutes float64 `json:"time_spent_minutes"`
	Attempts         float64 `json:"attempts"`
}

// Dataset is an in-memory tabular view of an uploaded file.
type Dataset struct {
	Records []ActivityRecord `json:"records"`
	Columns []string         `json:"columns"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
