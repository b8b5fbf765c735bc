// handlers_upload.go - Dataset upload operation handlers
package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/learning-intelligence/backend/internal/ingestion"
	"github.com/learning-intelligence/backend/internal/storage"
)

// allowedExtensions is the upload allow-list, matched case-insensitively.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".json": true,
}

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	store *storage.UploadStore
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(store *storage.UploadStore) UploadHandler {
	return &UploadHandlerImpl{store: store}
}

// HandleUploadFile accepts a multipart dataset upload, persists it under a
// timestamped name and validates it. A file the validator rejects is deleted
// before responding.
func (h *UploadHandlerImpl) HandleUploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file uploaded", err)
	}

	if file.Filename == "" {
		return NewBadRequestError("no file selected", nil)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return NewBadRequestError("invalid file format, please upload a CSV or JSON file", nil)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.store.Save(src, ext)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}

	path, err := h.store.Path(info.Name)
	if err != nil {
		return NewInternalError("failed to resolve upload path", err)
	}

	validation, err := ingestion.ValidateInputFormat(path)
	if err != nil {
		h.store.Delete(info.Name)
		return NewInternalError("failed to validate file", err)
	}
	if !validation.Valid {
		if err := h.store.Delete(info.Name); err != nil {
			c.Logger().Errorf("failed to delete rejected upload %s: %v", info.Name, err)
		}
		return NewBadRequestError(validation.Message, nil)
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Success:    true,
		Filename:   info.Name,
		Statistics: validation.Statistics,
	})
}

// HandleRecentUploads returns metadata for recently uploaded datasets.
func (h *UploadHandlerImpl) HandleRecentUploads(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.List(20))
}

type uploadResponse struct {
	Success    bool                   `json:"success"`
	Filename   string                 `json:"filename"`
	Statistics map[string]interface{} `json:"statistics"`
}
