package inference

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/learning-intelligence/backend/internal/models"
	"github.com/learning-intelligence/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	// Nonexistent weights file falls back to compiled-in defaults.
	return NewEngine(filepath.Join(t.TempDir(), "weights.yaml"))
}

func TestEngineLazyLoad(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.Loaded())

	require.NoError(t, e.LoadModels())
	assert.True(t, e.Loaded())

	// Idempotent.
	require.NoError(t, e.LoadModels())
	assert.True(t, e.Loaded())
}

func TestEngineConcurrentFirstLoad(t *testing.T) {
	e := newTestEngine(t)
	ds := testutil.SampleDataset()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Predict(ds)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.True(t, e.Loaded())
}

func TestEnginePredict(t *testing.T) {
	e := newTestEngine(t)
	results, err := e.Predict(testutil.SampleDataset())
	require.NoError(t, err)

	assert.Equal(t, 3, results.SummaryStats["total_students"])
	assert.Equal(t, 3, results.SummaryStats["total_chapters"])
	assert.Equal(t, 9, results.SummaryStats["total_records"])

	// bob is the weakest student and must be flagged.
	require.NotEmpty(t, results.HighRiskStudents)
	assert.Equal(t, "bob", results.HighRiskStudents[0].StudentID)
	// alice is strong and must not be flagged.
	for _, s := range results.HighRiskStudents {
		assert.NotEqual(t, "alice", s.StudentID)
	}

	// ch3 has the lowest scores and completion across students.
	require.Len(t, results.DifficultChapters, 3)
	assert.Equal(t, "ch3", results.DifficultChapters[0].Chapter)

	require.Len(t, results.CompletionFeatureImportance, 4)
}

func TestEnginePredictOrdering(t *testing.T) {
	e := newTestEngine(t)
	results, err := e.Predict(testutil.WideDataset(40))
	require.NoError(t, err)

	for i := 1; i < len(results.HighRiskStudents); i++ {
		assert.GreaterOrEqual(t,
			results.HighRiskStudents[i-1].RiskScore,
			results.HighRiskStudents[i].RiskScore)
	}
	for i := 1; i < len(results.DifficultChapters); i++ {
		assert.GreaterOrEqual(t,
			results.DifficultChapters[i-1].DifficultyIndex,
			results.DifficultChapters[i].DifficultyIndex)
	}
	for i := 1; i < len(results.CompletionFeatureImportance); i++ {
		assert.GreaterOrEqual(t,
			results.CompletionFeatureImportance[i-1].Importance,
			results.CompletionFeatureImportance[i].Importance)
	}
}

func TestEnginePredictImportanceNormalized(t *testing.T) {
	e := newTestEngine(t)
	results, err := e.Predict(testutil.SampleDataset())
	require.NoError(t, err)

	var sum float64
	for _, f := range results.CompletionFeatureImportance {
		assert.GreaterOrEqual(t, f.Importance, 0.0)
		sum += f.Importance
	}
	assert.InDelta(t, 1.0, sum, 0.01)
}

func TestEnginePredictEmptyDataset(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Predict(&models.Dataset{})
	assert.Error(t, err)

	_, err = e.Predict(&models.Dataset{
		Records: []models.ActivityRecord{{StudentID: "", Chapter: ""}},
	})
	assert.Error(t, err)
}

func TestLoadWeightsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "weights.yaml", `
version: test-2
risk:
  intercept: 1.5
  threshold: 0.5
  coefficients:
    avg_score: -2.0
    completion_rate: -2.0
    avg_time_spent: -0.1
    avg_attempts: 0.9
difficulty:
  score_weight: 0.5
  completion_weight: 0.3
  attempts_weight: 0.2
`)

	w, err := LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, "test-2", w.Version)
	assert.Equal(t, 0.5, w.Risk.Threshold)
	assert.Equal(t, -2.0, w.Risk.Coefficients[FeatureAvgScore])
}

func TestLoadWeightsInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadWeights(testutil.WriteFile(t, dir, "bad.yaml", "risk: [unclosed"))
	assert.Error(t, err)

	_, err = LoadWeights(testutil.WriteFile(t, dir, "nocoef.yaml", "version: x\nrisk:\n  threshold: 0.5\n"))
	assert.Error(t, err)

	_, err = LoadWeights(testutil.WriteFile(t, dir, "badthresh.yaml", `
risk:
  threshold: 1.5
  coefficients:
    avg_score: -1.0
`))
	assert.Error(t, err)
}

func TestLoadWeightsMissingFileUsesDefaults(t *testing.T) {
	w, err := LoadWeights(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultWeights().Version, w.Version)
}
