package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Geekthedev/korra/domain"
)

// NodeRegisterRequest is the body accepted by POST /api/nodes.
type NodeRegisterRequest struct {
	NodeID       string            `json:"node_id"`
	Hostname     string            `json:"hostname"`
	Address      string            `json:"address"`
	Port         int               `json:"port"`
	Capabilities map[string]string `json:"capabilities,omitempty"`
}

// RegisterNode registers a node with the coordinator.
// POST /api/nodes
func (h *Handler) RegisterNode(c echo.Context) error {
	var req NodeRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.NodeID == "" || req.Hostname == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "node_id and hostname are required"})
	}

	node := domain.Node{
		ID:           req.NodeID,
		Hostname:     req.Hostname,
		Address:      req.Address,
		Port:         req.Port,
		Capabilities: req.Capabilities,
	}
	h.coord.RegisterNode(node)

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// ListNodes lists every known node.
// GET /api/nodes
func (h *Handler) ListNodes(c echo.Context) error {
	nodes := h.coord.Nodes.All()
	out := make([]map[string]interface{}, len(nodes))
	for i, n := range nodes {
		out[i] = map[string]interface{}{
			"nodeId":   n.ID,
			"hostname": n.Hostname,
			"address":  n.Address,
			"port":     n.Port,
			"status":   n.Status,
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"nodes": out})
}
