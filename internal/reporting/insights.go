// Package reporting turns prediction results into report artifacts.
package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/learning-intelligence/backend/internal/models"
)

// Artifact names within an output directory.
const (
	JSONReportName = "predictions.json"
	TextReportName = "analysis_report.txt"
	CSVReportsDir  = "csv_reports"
)

// InsightGenerator materializes prediction results as JSON, CSV and text
// report artifacts on disk.
type InsightGenerator struct{}

// NewInsightGenerator creates a new generator.
func NewInsightGenerator() *InsightGenerator {
	return &InsightGenerator{}
}

// jsonReport is the on-disk shape of predictions.json: the full results plus
// report metadata.
type jsonReport struct {
	ReportID    string          `json:"report_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Results     *models.Results `json:"results"`
}

// SaveJSONReport writes the full results as pretty-printed JSON.
func (g *InsightGenerator) SaveJSONReport(results *models.Results, path string) error {
	report := jsonReport{
		ReportID:    uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Results:     results,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing JSON report: %w", err)
	}
	return nil
}

// SaveCSVReports writes one CSV per tabular section plus a summary CSV into
// dir, creating it if needed. Existing files are overwritten.
func (g *InsightGenerator) SaveCSVReports(results *models.Results, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating CSV reports directory: %w", err)
	}

	if err := writeCSV(filepath.Join(dir, "high_risk_students.csv"),
		[]string{"student_id", "risk_score", "avg_score", "completion_rate", "avg_attempts", "chapters_seen"},
		len(results.HighRiskStudents),
		func(i int) []string {
			s := results.HighRiskStudents[i]
			return []string{s.StudentID, ftoa(s.RiskScore), ftoa(s.AvgScore), ftoa(s.CompletionRate), ftoa(s.AvgAttempts), strconv.Itoa(s.ChaptersSeen)}
		}); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, "difficult_chapters.csv"),
		[]string{"chapter", "difficulty_index", "avg_score", "completion_rate", "avg_attempts", "students"},
		len(results.DifficultChapters),
		func(i int) []string {
			c := results.DifficultChapters[i]
			return []string{c.Chapter, ftoa(c.DifficultyIndex), ftoa(c.AvgScore), ftoa(c.CompletionRate), ftoa(c.AvgAttempts), strconv.Itoa(c.Students)}
		}); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(dir, "feature_importance.csv"),
		[]string{"feature", "importance"},
		len(results.CompletionFeatureImportance),
		func(i int) []string {
			f := results.CompletionFeatureImportance[i]
			return []string{f.Feature, ftoa(f.Importance)}
		}); err != nil {
		return err
	}

	// Summary stats: stable key order.
	keys := make([]string, 0, len(results.SummaryStats))
	for k := range results.SummaryStats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return writeCSV(filepath.Join(dir, "summary_stats.csv"),
		[]string{"metric", "value"},
		len(keys),
		func(i int) []string {
			return []string{keys[i], fmt.Sprintf("%v", results.SummaryStats[keys[i]])}
		})
}

func writeCSV(path string, header []string, rows int, row func(i int) []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	for i := 0; i < rows; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
		}
	}
	w.Flush()
	return w.Error()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
