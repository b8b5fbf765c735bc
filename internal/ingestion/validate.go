package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/learning-intelligence/backend/internal/models"
)

// ValidateInputFormat checks an uploaded file before it is accepted for
// prediction. Format problems come back as an invalid result with a
// human-readable message; only unexpected I/O failures return an error.
func ValidateInputFormat(path string) (*models.ValidationResult, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".json" {
		return invalid(fmt.Sprintf("unsupported file format: %s", ext)), nil
	}

	ds, err := LoadData(path)
	if err != nil {
		return invalid(fmt.Sprintf("could not parse file: %v", err)), nil
	}

	if missing := missingColumns(ds.Columns); len(missing) > 0 {
		return invalid(fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))), nil
	}

	if ds.Len() == 0 {
		return invalid("file contains no records"), nil
	}

	students := make(map[string]struct{})
	chapters := make(map[string]struct{})
	missingValues := 0
	for _, rec := range ds.Records {
		if rec.StudentID == "" || rec.Chapter == "" {
			missingValues++
			continue
		}
		students[rec.StudentID] = struct{}{}
		chapters[rec.Chapter] = struct{}{}
	}

	if len(students) == 0 {
		return invalid("no usable records: every row is missing student_id or chapter"), nil
	}

	return &models.ValidationResult{
		Valid:   true,
		Message: "file is valid",
		Statistics: map[string]interface{}{
			"total_records":   ds.Len(),
			"unique_students": len(students),
			"unique_chapters": len(chapters),
			"missing_values":  missingValues,
			"columns":         ds.Columns,
		},
	}, nil
}

func missingColumns(cols []string) []string {
	have := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		have[c] = struct{}{}
	}
	var missing []string
	for _, req := range RequiredColumns {
		if _, ok := have[req]; !ok {
			missing = append(missing, req)
		}
	}
	return missing
}

func invalid(msg string) *models.ValidationResult {
	return &models.ValidationResult{
		Valid:      false,
		Message:    msg,
		Statistics: map[string]interface{}{},
	}
}
