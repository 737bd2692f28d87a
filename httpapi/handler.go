// Package httpapi exposes the coordinator's admin HTTP surface: agents,
// nodes, jobs, proofs, snapshots, audit history, metrics, and a live event
// feed.
package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Geekthedev/korra/coordinator"
)

// Handler holds the coordinator dependency shared by every route.
type Handler struct {
	coord *coordinator.Coordinator
}

// NewHandler constructs a Handler bound to coord.
func NewHandler(coord *coordinator.Coordinator) *Handler {
	return &Handler{coord: coord}
}

// NewServer builds a fully configured echo server for the admin API.
func NewServer(coord *coordinator.Coordinator) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h := NewHandler(coord)
	h.RegisterRoutes(e)
	return e
}

// RegisterRoutes wires every admin endpoint onto e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	e.GET("/api/agents", h.ListAgents)
	e.POST("/api/agents", h.RegisterAgent)

	e.GET("/api/nodes", h.ListNodes)
	e.POST("/api/nodes", h.RegisterNode)

	e.GET("/api/jobs", h.ListJobs)
	e.POST("/api/jobs", h.SubmitJob)
	e.POST("/api/jobs/:jobId/cancel", h.CancelJob)

	e.GET("/api/proofs", h.ListProofs)
	e.POST("/api/proofs", h.RegisterProof)
	e.POST("/api/proofs/:proofId/validate", h.ValidateProof)

	e.GET("/api/audit", h.ListAudit)

	e.GET("/api/snapshots", h.ListSnapshots)
	e.POST("/api/snapshots", h.CreateSnapshot)
	e.GET("/api/snapshots/:snapshotId", h.GetSnapshot)
	e.DELETE("/api/snapshots/:snapshotId", h.DeleteSnapshot)

	e.GET("/metrics", h.Metrics())
	e.GET("/ws", h.coord.Feed().HandleUpgrade)
}

// Health reports process liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// Metrics returns an echo.HandlerFunc serving the Prometheus text exposition
// for the coordinator's registry.
func (h *Handler) Metrics() echo.HandlerFunc {
	handler := promhttp.HandlerFor(h.coord.Metrics.Gatherer(), promhttp.HandlerOpts{})
	return echo.WrapHandler(handler)
}
