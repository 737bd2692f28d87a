package httpapi

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Geekthedev/korra/domain"
)

// SnapshotCreateRequest is the body accepted by POST /api/snapshots.
type SnapshotCreateRequest struct {
	ComponentID string `json:"component_id"`
	Payload     string `json:"payload"` // base64-standard encoded
}

// CreateSnapshot persists a base64-encoded payload under component_id.
// POST /api/snapshots
func (h *Handler) CreateSnapshot(c echo.Context) error {
	var req SnapshotCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ComponentID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "component_id is required"})
	}
	payload, err := base64.StdEncoding.DecodeString(req.Payload)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "payload must be base64-encoded"})
	}

	id, err := h.coord.CreateSnapshot(req.ComponentID, payload)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"snapshotId": id})
}

// ListSnapshots lists the snapshots recorded for ?component_id.
// GET /api/snapshots?component_id=...
func (h *Handler) ListSnapshots(c echo.Context) error {
	componentID := c.QueryParam("component_id")
	if componentID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "component_id query parameter is required"})
	}
	metas := h.coord.ListSnapshots(componentID)
	out := make([]map[string]interface{}, len(metas))
	for i, m := range metas {
		out[i] = map[string]interface{}{
			"snapshotId":  m.SnapshotID,
			"componentId": m.ComponentID,
			"timestamp":   m.Timestamp,
			"size":        m.Size,
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"snapshots": out})
}

// GetSnapshot returns a snapshot's base64-encoded payload by id.
// GET /api/snapshots/:snapshotId
func (h *Handler) GetSnapshot(c echo.Context) error {
	snapshotID := c.Param("snapshotId")
	payload, err := h.coord.LoadSnapshot(snapshotID)
	if err != nil {
		if err == domain.ErrNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "snapshot not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"snapshotId": snapshotID,
		"payload":    base64.StdEncoding.EncodeToString(payload),
	})
}

// DeleteSnapshot removes a snapshot by id.
// DELETE /api/snapshots/:snapshotId
func (h *Handler) DeleteSnapshot(c echo.Context) error {
	snapshotID := c.Param("snapshotId")
	ok := h.coord.DeleteSnapshot(snapshotID)
	return c.JSON(http.StatusOK, map[string]interface{}{"deleted": ok})
}
