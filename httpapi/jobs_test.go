package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geekthedev/korra/domain"
)

func TestSubmitJobNoCapableNodeReturnsBadRequest(t *testing.T) {
	e := echo.New()
	coord := newTestCoordinator(t)
	coord.Start(context.Background())
	h := NewHandler(coord)

	coord.Agents.Register(domain.Agent{ID: "a1", Version: domain.Version{Major: 1}})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(`{"agent_id":"a1","input":"hi"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitJob(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitJobHappyPath(t *testing.T) {
	e := echo.New()
	coord := newTestCoordinator(t)
	coord.Start(context.Background())
	h := NewHandler(coord)

	coord.Agents.Register(domain.Agent{ID: "a1", Version: domain.Version{Major: 1}})
	coord.RegisterNode(domain.Node{ID: "n1", Capabilities: map[string]string{"agent:a1": ""}})

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(`{"agent_id":"a1","input":"hi"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitJob(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jobId")
}
