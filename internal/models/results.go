package models

// StudentRisk is one row of the high-risk students table.
type StudentRisk struct {
	StudentID      string  `json:"student_id" msgpack:"student_id"`
	RiskScore      float64 `json:"risk_score" msgpack:"risk_score"` // 0..1
	AvgScore       float64 `json:"avg_score" msgpack:"avg_score"`
	CompletionRate float64 `json:"completion_rate" msgpack:"completion_rate"`
	AvgAttempts    float64 `json:"avg_attempts" msgpack:"avg_attempts"`
	ChaptersSeen   int     `json:"chapters_seen" msgpack:"chapters_seen"`
}

// ChapterDifficulty is one row of the difficult chapters table.
type ChapterDifficulty struct {
	Chapter         string  `json:"chapter" msgpack:"chapter"`
	DifficultyIndex float64 `json:"difficulty_index" msgpack:"difficulty_index"` // 0..1
	AvgScore        float64 `json:"avg_score" msgpack:"avg_score"`
	CompletionRate  float64 `json:"completion_rate" msgpack:"completion_rate"`
	AvgAttempts     float64 `json:"avg_attempts" msgpack:"avg_attempts"`
	Students        int     `json:"students" msgpack:"students"`
}

// FeatureImportance is one row of the completion feature importance table.
type FeatureImportance struct {
	Feature    string  `json:"feature" msgpack:"feature"`
	Importance float64 `json:"importance" msgpack:"importance"` // normalized, sums to 1
}

// Results holds everything the inference engine produces for one dataset.
// The tabular sections are sorted by the engine, most severe/relevant first.
type Results struct {
	SummaryStats                map[string]interface{} `json:"summary_stats" msgpack:"summary_stats"`
	HighRiskStudents            []StudentRisk          `json:"high_risk_students" msgpack:"high_risk_students"`
	DifficultChapters           []ChapterDifficulty    `json:"difficult_chapters" msgpack:"difficult_chapters"`
	CompletionFeatureImportance []FeatureImportance    `json:"completion_feature_importance" msgpack:"completion_feature_importance"`
}
