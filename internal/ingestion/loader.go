// Package ingestion loads and validates uploaded learner activity datasets.
package ingestion

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/learning-intelligence/backend/internal/models"
)

// RequiredColumns are the columns a dataset must provide.
var RequiredColumns = []string{
	"student_id",
	"chapter",
	"completion",
	"score",
	"time_spent_minutes",
	"attempts",
}

// LoadData reads an uploaded file into a Dataset. The format is inferred
// from the file extension (.csv or .json).
func LoadData(path string) (*models.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".json":
		return loadJSON(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}

func loadCSV(path string) (*models.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		cols[i] = name
		index[name] = i
	}

	ds := &models.Dataset{Columns: cols}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		rec := models.ActivityRecord{
			StudentID: cell(row, index, "student_id"),
			Chapter:   cell(row, index, "chapter"),
		}
		rec.Completion = numCell(row, index, "completion")
		rec.Score = numCell(row, index, "score")
		rec.TimeSpentMinutes = numCell(row, index, "time_spent_minutes")
		rec.Attempts = numCell(row, index, "attempts")
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

func loadJSON(path string) (*models.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}

	var records []models.ActivityRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	// JSON carries the full schema by construction.
	return &models.Dataset{
		Records: records,
		Columns: append([]string(nil), RequiredColumns...),
	}, nil
}

func cell(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func numCell(row []string, index map[string]int, col string) float64 {
	v, err := strconv.ParseFloat(cell(row, index, col), 64)
	if err != nil {
		return 0
	}
	return v
}
