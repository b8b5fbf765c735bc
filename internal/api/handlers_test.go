package api

import (
	"bytes"
	"mime/multipart"
	"path/filepath"
	"testing"

	"github.com/learning-intelligence/backend/internal/inference"
	"github.com/learning-intelligence/backend/internal/reporting"
	"github.com/learning-intelligence/backend/internal/storage"
	"github.com/stretchr/testify/require"
)

// testEnv wires real stores and a real engine against temp directories.
type testEnv struct {
	handlers *Handlers
	uploads  *storage.UploadStore
	outputs  *storage.OutputStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	base := t.TempDir()

	uploads, err := storage.NewUploadStore(filepath.Join(base, "uploads"))
	require.NoError(t, err)
	outputs, err := storage.NewOutputStore(filepath.Join(base, "outputs"))
	require.NoError(t, err)

	engine := inference.NewEngine(filepath.Join(base, "weights.yaml"))

	handlers := NewHandlers(&Dependencies{
		Uploads:   uploads,
		Outputs:   outputs,
		Engine:    engine,
		Generator: reporting.NewInsightGenerator(),
		Version:   "test",
	})

	return &testEnv{
		handlers: handlers,
		uploads:  uploads,
		outputs:  outputs,
	}
}

// multipartFile builds a multipart body with a single "file" field.
func multipartFile(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}
