// Package web provides the embedded single-page frontend.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed static/*
var staticFiles embed.FS

// GetFileSystem returns the embedded filesystem with the static folder as root.
func GetFileSystem() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
}

// RegisterStaticRoutes registers the frontend routes with Echo. API routes
// should be registered before calling this function.
func RegisterStaticRoutes(e *echo.Echo) error {
	staticFS, err := GetFileSystem()
	if err != nil {
		return err
	}

	e.GET("/", func(c echo.Context) error {
		content, err := fs.ReadFile(staticFS, "index.html")
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "index.html not found")
		}
		return c.HTMLBlob(http.StatusOK, content)
	})

	return nil
}
