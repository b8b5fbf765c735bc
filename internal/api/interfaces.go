// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/learning-intelligence/backend/internal/models"
)

// UploadHandler handles dataset upload operations
type UploadHandler interface {
	HandleUploadFile(c echo.Context) error
	HandleRecentUploads(c echo.Context) error
}

// PredictHandler handles prediction operations
type PredictHandler interface {
	HandlePredict(c echo.Context) error
	HandleResults(c echo.Context) error
}

// DownloadHandler handles report artifact downloads
type DownloadHandler interface {
	HandleDownload(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// Predictor is the inference engine surface the web layer consumes.
// This allows mocking in tests.
type Predictor interface {
	LoadModels() error
	Loaded() bool
	Predict(ds *models.Dataset) (*models.Results, error)
}
