package models

import "time"

// FileInfo represents metadata about an uploaded dataset file.
type FileInfo struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"` // on-disk name, e.g. upload_20240101_120000.csv
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}
