package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geekthedev/korra/coordinator"
)

func newTestCoordinator(t *testing.T) *coordinator.Coordinator {
	t.Helper()
	c, err := coordinator.New(coordinator.Config{
		AuditDSN:        ":memory:",
		SnapshotBaseDir: t.TempDir(),
		WorkerPoolSize:  2,
	})
	require.NoError(t, err)
	t.Cleanup(c.Stop)
	return c
}

func TestRegisterAndListAgents(t *testing.T) {
	e := echo.New()
	coord := newTestCoordinator(t)
	h := NewHandler(coord)

	body := `{"agent_id":"a1","name":"Analyzer One","kind":"ANALYZER","version":"1.0.0"}`
	req := httptest.NewRequest(http.MethodPost, "/api/agents", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.RegisterAgent(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
	listRec := httptest.NewRecorder()
	listCtx := e.NewContext(listReq, listRec)

	require.NoError(t, h.ListAgents(listCtx))
	assert.Equal(t, http.StatusOK, listRec.Code)
	assert.Contains(t, listRec.Body.String(), "a1")
}

func TestRegisterAgentRejectsMissingFields(t *testing.T) {
	e := echo.New()
	coord := newTestCoordinator(t)
	h := NewHandler(coord)

	req := httptest.NewRequest(http.MethodPost, "/api/agents", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.RegisterAgent(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	e := echo.New()
	coord := newTestCoordinator(t)
	h := NewHandler(coord)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
