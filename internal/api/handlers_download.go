// handlers_download.go - Report artifact download handlers
package api

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/learning-intelligence/backend/internal/reporting"
	"github.com/learning-intelligence/backend/internal/storage"
)

// DownloadHandlerImpl implements the DownloadHandler interface
type DownloadHandlerImpl struct {
	outputs *storage.OutputStore
}

// NewDownloadHandler creates a new download handler instance
func NewDownloadHandler(outputs *storage.OutputStore) DownloadHandler {
	return &DownloadHandlerImpl{outputs: outputs}
}

// HandleDownload serves a generated report artifact as an attachment.
// report_type selects the artifact: json, text, or csv (a zip of every CSV
// report assembled in memory).
func (h *DownloadHandlerImpl) HandleDownload(c echo.Context) error {
	dirName := c.Param("output_dir")
	reportType := c.Param("report_type")

	dir, err := h.outputs.Dir(dirName)
	if err != nil {
		return NewBadRequestError("invalid output directory", err)
	}
	if !h.outputs.Exists(dirName) {
		return NewNotFoundError("output directory", dirName)
	}

	switch reportType {
	case "json":
		return h.sendFile(c, filepath.Join(dir, reporting.JSONReportName), reporting.JSONReportName)
	case "text":
		return h.sendFile(c, filepath.Join(dir, reporting.TextReportName), reporting.TextReportName)
	case "csv":
		return h.sendCSVZip(c, filepath.Join(dir, reporting.CSVReportsDir))
	default:
		return NewBadRequestError("invalid report type", nil)
	}
}

func (h *DownloadHandlerImpl) sendFile(c echo.Context, path, name string) error {
	if _, err := os.Stat(path); err != nil {
		return NewNotFoundError("report", name)
	}
	return c.Attachment(path, name)
}

// sendCSVZip bundles every *.csv in dir into an in-memory zip archive. An
// empty directory still yields a valid (empty) archive.
func (h *DownloadHandlerImpl) sendCSVZip(c echo.Context, dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return NewInternalError("failed to list CSV reports", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, path := range matches {
		if err := addZipEntry(zw, path); err != nil {
			zw.Close()
			return NewInternalError("failed to assemble zip archive", err)
		}
	}
	if err := zw.Close(); err != nil {
		return NewInternalError("failed to finalize zip archive", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="csv_reports.zip"`)
	return c.Blob(http.StatusOK, "application/zip", buf.Bytes())
}

func addZipEntry(zw *zip.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	// Deflate is the zip.Writer default.
	entry, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, file)
	return err
}
