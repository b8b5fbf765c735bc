package models

// ValidationResult is the outcome of checking an uploaded file before it is
// accepted for prediction. Never persisted.
type ValidationResult struct {
	Valid      bool                   `json:"valid"`
	Message    string                 `json:"message"`
	Statistics map[string]interface{} `json:"statistics"`
}
