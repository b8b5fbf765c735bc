// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/learning-intelligence/backend/internal/reporting"
	"github.com/learning-intelligence/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Uploads   *storage.UploadStore
	Outputs   *storage.OutputStore
	Engine    Predictor
	Generator *reporting.InsightGenerator
	Version   string
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Upload   UploadHandler
	Predict  PredictHandler
	Download DownloadHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Engine, deps.Version),
		Upload:   NewUploadHandler(deps.Uploads),
		Predict:  NewPredictHandler(deps.Uploads, deps.Outputs, deps.Engine, deps.Generator),
		Download: NewDownloadHandler(deps.Outputs),
	}
}

// RegisterRoutes registers all API routes with the Echo instance.
// Paths are fixed: the upload/predict/download/health surface is what the
// frontend and existing clients expect.
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/health", handlers.Health.HandleHealth)

	e.POST("/upload", handlers.Upload.HandleUploadFile)
	e.GET("/uploads/recent", handlers.Upload.HandleRecentUploads)

	e.POST("/predict", handlers.Predict.HandlePredict)
	e.GET("/results/:output_dir", handlers.Predict.HandleResults)

	e.GET("/download/:output_dir/:report_type", handlers.Download.HandleDownload)
}
