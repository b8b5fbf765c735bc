// handlers_predict.go - Prediction operation handlers
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/learning-intelligence/backend/internal/ingestion"
	"github.com/learning-intelligence/backend/internal/models"
	"github.com/learning-intelligence/backend/internal/reporting"
	"github.com/learning-intelligence/backend/internal/storage"
)

// Response truncation limits. Full tables are always available through the
// generated report artifacts.
const (
	maxHighRiskStudents   = 10
	maxDifficultChapters  = 5
	maxImportanceFeatures = 5
)

// PredictHandlerImpl implements the PredictHandler interface
type PredictHandlerImpl struct {
	uploads   *storage.UploadStore
	outputs   *storage.OutputStore
	engine    Predictor
	generator *reporting.InsightGenerator
}

// NewPredictHandler creates a new predict handler instance
func NewPredictHandler(uploads *storage.UploadStore, outputs *storage.OutputStore, engine Predictor, generator *reporting.InsightGenerator) PredictHandler {
	return &PredictHandlerImpl{
		uploads:   uploads,
		outputs:   outputs,
		engine:    engine,
		generator: generator,
	}
}

type predictRequest struct {
	Filename string `json:"filename"`
}

type predictResponse struct {
	Success              bool                       `json:"success"`
	Summary              map[string]interface{}     `json:"summary"`
	HighRiskStudents     []models.StudentRisk       `json:"high_risk_students"`
	DifficultChapters    []models.ChapterDifficulty `json:"difficult_chapters"`
	CompletionImportance []models.FeatureImportance `json:"completion_importance"`
	OutputDir            string                     `json:"output_dir"`
	TextReport           string                     `json:"text_report"`
}

// HandlePredict runs the inference engine over a previously uploaded file and
// materializes report artifacts into a per-prediction output directory.
func (h *PredictHandlerImpl) HandlePredict(c echo.Context) error {
	var req predictRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Filename == "" {
		return NewValidationError("filename")
	}

	path, err := h.uploads.Path(req.Filename)
	if err != nil {
		return NewBadRequestError("invalid filename", err)
	}
	if !h.uploads.Exists(req.Filename) {
		return NewNotFoundError("file", req.Filename)
	}

	ds, err := ingestion.LoadData(path)
	if err != nil {
		return NewInternalError("failed to load data", err)
	}

	results, err := h.engine.Predict(ds)
	if err != nil {
		return NewInternalError("prediction failed", err)
	}

	dirName := storage.DirNameFor(req.Filename)
	dir, err := h.outputs.EnsureDir(dirName)
	if err != nil {
		return NewInternalError("failed to create output directory", err)
	}

	if err := h.generator.SaveJSONReport(results, filepath.Join(dir, reporting.JSONReportName)); err != nil {
		return NewInternalError("failed to save JSON report", err)
	}
	if err := h.generator.SaveCSVReports(results, filepath.Join(dir, reporting.CSVReportsDir)); err != nil {
		return NewInternalError("failed to save CSV reports", err)
	}

	cleanReport := reporting.StripANSI(h.generator.GenerateTextReport(results))
	if err := os.WriteFile(filepath.Join(dir, reporting.TextReportName), []byte(cleanReport), 0644); err != nil {
		return NewInternalError("failed to save text report", err)
	}

	if err := reporting.SaveResultsCache(results, filepath.Join(dir, reporting.ResultsCacheName)); err != nil {
		return NewInternalError("failed to save results cache", err)
	}

	return c.JSON(http.StatusOK, buildPredictResponse(results, dirName, cleanReport))
}

// HandleResults re-serves the truncated summary for a past prediction from
// the cached results, without re-running inference.
func (h *PredictHandlerImpl) HandleResults(c echo.Context) error {
	dirName := c.Param("output_dir")
	dir, err := h.outputs.Dir(dirName)
	if err != nil {
		return NewBadRequestError("invalid output directory", err)
	}
	if !h.outputs.Exists(dirName) {
		return NewNotFoundError("output directory", dirName)
	}

	results, err := reporting.LoadResultsCache(filepath.Join(dir, reporting.ResultsCacheName))
	if err != nil {
		return NewNotFoundError("results cache", dirName)
	}

	cleanReport := reporting.StripANSI(h.generator.GenerateTextReport(results))
	return c.JSON(http.StatusOK, buildPredictResponse(results, dirName, cleanReport))
}

func buildPredictResponse(results *models.Results, dirName, textReport string) predictResponse {
	return predictResponse{
		Success:              true,
		Summary:              results.SummaryStats,
		HighRiskStudents:     truncateStudents(results.HighRiskStudents, maxHighRiskStudents),
		DifficultChapters:    truncateChapters(results.DifficultChapters, maxDifficultChapters),
		CompletionImportance: truncateFeatures(results.CompletionFeatureImportance, maxImportanceFeatures),
		OutputDir:            dirName,
		TextReport:           textReport,
	}
}

func truncateStudents(s []models.StudentRisk, n int) []models.StudentRisk {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func truncateChapters(s []models.ChapterDifficulty, n int) []models.ChapterDifficulty {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func truncateFeatures(s []models.FeatureImportance, n int) []models.FeatureImportance {
	if len(s) > n {
		return s[:n]
	}
	return s
}
