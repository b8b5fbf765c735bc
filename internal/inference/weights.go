package inference

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Feature names used by the risk model. These are the keys expected in the
// weights file and reported in the feature importance table.
const (
	FeatureAvgScore       = "avg_score"
	FeatureCompletionRate = "completion_rate"
	FeatureAvgTimeSpent   = "avg_time_spent"
	FeatureAvgAttempts    = "avg_attempts"
)

// Weights holds the trained model parameters loaded from YAML.
type Weights struct {
	Version    string          `yaml:"version"`
	Risk       RiskModel       `yaml:"risk"`
	Difficulty DifficultyModel `yaml:"difficulty"`
}

// RiskModel is a logistic model over per-student aggregate features.
type RiskModel struct {
	Intercept    float64            `yaml:"intercept"`
	Coefficients map[string]float64 `yaml:"coefficients"`
	Threshold    float64            `yaml:"threshold"` // risk score at or above which a student is flagged
}

// DifficultyModel weights the per-chapter aggregates into a difficulty index.
type DifficultyModel struct {
	ScoreWeight      float64 `yaml:"score_weight"`
	CompletionWeight float64 `yaml:"completion_weight"`
	AttemptsWeight   float64 `yaml:"attempts_weight"`
}

// DefaultWeights returns the compiled-in model parameters, used when no
// weights file has been deployed alongside the server.
func DefaultWeights() *Weights {
	return &Weights{
		Version: "builtin-1",
		Risk: RiskModel{
			Intercept: 2.4,
			Coefficients: map[string]float64{
				FeatureAvgScore:       -3.2,
				FeatureCompletionRate: -2.6,
				FeatureAvgTimeSpent:   -0.4,
				FeatureAvgAttempts:    1.1,
			},
			Threshold: 0.6,
		},
		Difficulty: DifficultyModel{
			ScoreWeight:      0.4,
			CompletionWeight: 0.4,
			AttemptsWeight:   0.2,
		},
	}
}

// LoadWeights reads model parameters from a YAML file. A missing file is not
// an error: the compiled-in defaults are returned instead.
func LoadWeights(path string) (*Weights, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultWeights(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading weights file: %w", err)
	}

	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing weights file: %w", err)
	}
	if len(w.Risk.Coefficients) == 0 {
		return nil, fmt.Errorf("weights file %s has no risk coefficients", path)
	}
	if w.Risk.Threshold <= 0 || w.Risk.Threshold >= 1 {
		return nil, fmt.Errorf("weights file %s has invalid risk threshold %v", path, w.Risk.Threshold)
	}
	return &w, nil
}
