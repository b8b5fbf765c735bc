// handlers_health_test.go - Tests for the health handler
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/learning-intelligence/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthStatus(t *testing.T, env *testEnv) map[string]interface{} {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, env.handlers.Health.HandleHealth(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthHandler_ModelsLoadedTransition(t *testing.T) {
	env := newTestEnv(t)

	// Before any prediction the engine has not loaded its models.
	body := healthStatus(t, env)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["models_loaded"])

	// One successful prediction loads them for the rest of the process.
	name := seedUpload(t, env, testutil.SampleCSV)
	_, err := doPredict(t, env, fmt.Sprintf(`{"filename":%q}`, name))
	require.NoError(t, err)

	body = healthStatus(t, env)
	assert.Equal(t, true, body["models_loaded"])

	// Stays loaded on subsequent checks.
	body = healthStatus(t, env)
	assert.Equal(t, true, body["models_loaded"])
}
