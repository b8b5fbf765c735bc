// Package inference turns a learner activity dataset into risk and
// difficulty predictions.
package inference

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/learning-intelligence/backend/internal/models"
)

// Engine runs predictions over uploaded datasets. Construct it once at
// startup and share it; model weights are loaded lazily on first use behind
// a mutex, so concurrent first predictions load exactly once.
type Engine struct {
	weightsPath string

	mu      sync.RWMutex
	weights *Weights
}

// NewEngine creates an engine that will load its weights from weightsPath.
// No I/O happens until LoadModels or the first Predict call.
func NewEngine(weightsPath string) *Engine {
	return &Engine{weightsPath: weightsPath}
}

// LoadModels loads the model weights. Idempotent: subsequent calls are
// no-ops once a load has succeeded.
func (e *Engine) LoadModels() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.weights != nil {
		return nil
	}

	w, err := LoadWeights(e.weightsPath)
	if err != nil {
		return fmt.Errorf("loading models: %w", err)
	}
	e.weights = w
	return nil
}

// Loaded reports whether the model weights have been loaded.
func (e *Engine) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.weights != nil
}

// studentAgg accumulates per-student aggregates.
type studentAgg struct {
	id       string
	records  int
	score    float64
	complete float64
	time     float64
	attempts float64
	chapters map[string]struct{}
}

// chapterAgg accumulates per-chapter aggregates.
type chapterAgg struct {
	name     string
	records  int
	score    float64
	complete float64
	attempts float64
	students map[string]struct{}
}

// Predict runs the risk and difficulty models over the dataset and returns
// the full results. Tabular sections are sorted most severe first.
func (e *Engine) Predict(ds *models.Dataset) (*models.Results, error) {
	if err := e.LoadModels(); err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("dataset has no records")
	}

	e.mu.RLock()
	w := e.weights
	e.mu.RUnlock()

	students := make(map[string]*studentAgg)
	chapters := make(map[string]*chapterAgg)
	usable := 0

	for _, rec := range ds.Records {
		if rec.StudentID == "" || rec.Chapter == "" {
			continue
		}
		usable++

		s, ok := students[rec.StudentID]
		if !ok {
			s = &studentAgg{id: rec.StudentID, chapters: make(map[string]struct{})}
			students[rec.StudentID] = s
		}
		s.records++
		s.score += rec.Score
		s.complete += rec.Completion
		s.time += rec.TimeSpentMinutes
		s.attempts += rec.Attempts
		s.chapters[rec.Chapter] = struct{}{}

		ch, ok := chapters[rec.Chapter]
		if !ok {
			ch = &chapterAgg{name: rec.Chapter, students: make(map[string]struct{})}
			chapters[rec.Chapter] = ch
		}
		ch.records++
		ch.score += rec.Score
		ch.complete += rec.Completion
		ch.attempts += rec.Attempts
		ch.students[rec.StudentID] = struct{}{}
	}

	if usable == 0 {
		return nil, fmt.Errorf("dataset has no usable records")
	}

	risks, features := e.scoreStudents(w, students)
	difficulties := e.scoreChapters(w, chapters)
	importance := e.featureImportance(w, features)

	highRisk := make([]models.StudentRisk, 0, len(risks))
	for _, r := range risks {
		if r.RiskScore >= w.Risk.Threshold {
			highRisk = append(highRisk, r)
		}
	}

	var scoreSum, completeSum float64
	for _, r := range risks {
		scoreSum += r.AvgScore
		completeSum += r.CompletionRate
	}
	n := float64(len(risks))

	summary := map[string]interface{}{
		"total_records":       ds.Len(),
		"usable_records":      usable,
		"total_students":      len(students),
		"total_chapters":      len(chapters),
		"high_risk_count":     len(highRisk),
		"high_risk_rate":      round4(float64(len(highRisk)) / n),
		"avg_score":           round4(scoreSum / n),
		"avg_completion_rate": round4(completeSum / n),
		"model_version":       w.Version,
	}

	return &models.Results{
		SummaryStats:                summary,
		HighRiskStudents:            highRisk,
		DifficultChapters:           difficulties,
		CompletionFeatureImportance: importance,
	}, nil
}

// scoreStudents computes the risk table, sorted by risk descending, plus the
// normalized feature vectors used for importance estimation.
func (e *Engine) scoreStudents(w *Weights, students map[string]*studentAgg) ([]models.StudentRisk, map[string][]float64) {
	features := map[string][]float64{
		FeatureAvgScore:       nil,
		FeatureCompletionRate: nil,
		FeatureAvgTimeSpent:   nil,
		FeatureAvgAttempts:    nil,
	}

	risks := make([]models.StudentRisk, 0, len(students))
	for _, s := range students {
		n := float64(s.records)
		avgScore := s.score / n
		completionRate := s.complete / n
		avgTime := s.time / n
		avgAttempts := s.attempts / n

		// Normalize features to comparable scales before applying the
		// logistic model.
		fv := map[string]float64{
			FeatureAvgScore:       avgScore / 100,
			FeatureCompletionRate: completionRate,
			FeatureAvgTimeSpent:   avgTime / 60,
			FeatureAvgAttempts:    avgAttempts / 5,
		}
		z := w.Risk.Intercept
		for name, coef := range w.Risk.Coefficients {
			z += coef * fv[name]
		}

		for name := range features {
			features[name] = append(features[name], fv[name])
		}

		risks = append(risks, models.StudentRisk{
			StudentID:      s.id,
			RiskScore:      round4(sigmoid(z)),
			AvgScore:       round4(avgScore),
			CompletionRate: round4(completionRate),
			AvgAttempts:    round4(avgAttempts),
			ChaptersSeen:   len(s.chapters),
		})
	}

	sort.Slice(risks, func(i, j int) bool {
		if risks[i].RiskScore != risks[j].RiskScore {
			return risks[i].RiskScore > risks[j].RiskScore
		}
		return risks[i].StudentID < risks[j].StudentID
	})

	return risks, features
}

// scoreChapters computes the difficulty table, sorted by difficulty descending.
func (e *Engine) scoreChapters(w *Weights, chapters map[string]*chapterAgg) []models.ChapterDifficulty {
	out := make([]models.ChapterDifficulty, 0, len(chapters))
	for _, ch := range chapters {
		n := float64(ch.records)
		avgScore := ch.score / n
		completionRate := ch.complete / n
		avgAttempts := ch.attempts / n

		idx := w.Difficulty.ScoreWeight*(1-avgScore/100) +
			w.Difficulty.CompletionWeight*(1-completionRate) +
			w.Difficulty.AttemptsWeight*clamp01(avgAttempts/5)

		out = append(out, models.ChapterDifficulty{
			Chapter:         ch.name,
			DifficultyIndex: round4(clamp01(idx)),
			AvgScore:        round4(avgScore),
			CompletionRate:  round4(completionRate),
			AvgAttempts:     round4(avgAttempts),
			Students:        len(ch.students),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DifficultyIndex != out[j].DifficultyIndex {
			return out[i].DifficultyIndex > out[j].DifficultyIndex
		}
		return out[i].Chapter < out[j].Chapter
	})

	return out
}

// featureImportance estimates each feature's contribution to completion risk
// as |coefficient| times the feature's spread across students, normalized to
// sum to one. Sorted descending.
func (e *Engine) featureImportance(w *Weights, features map[string][]float64) []models.FeatureImportance {
	raw := make(map[string]float64, len(features))
	var total float64
	for name, values := range features {
		imp := math.Abs(w.Risk.Coefficients[name]) * stddev(values)
		raw[name] = imp
		total += imp
	}

	out := make([]models.FeatureImportance, 0, len(raw))
	for name, imp := range raw {
		if total > 0 {
			imp /= total
		}
		out = append(out, models.FeatureImportance{Feature: name, Importance: round4(imp)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Importance != out[j].Importance {
			return out[i].Importance > out[j].Importance
		}
		return out[i].Feature < out[j].Feature
	})

	return out
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
