package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Geekthedev/korra/domain"
)

// AgentRegisterRequest is the body accepted by POST /api/agents.
type AgentRegisterRequest struct {
	AgentID       string            `json:"agent_id"`
	Name          string            `json:"name"`
	Kind          string            `json:"kind"`
	Version       string            `json:"version"`
	Description   string            `json:"description,omitempty"`
	ModuleLocator string            `json:"module_locator,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// RegisterAgent registers or updates an agent record.
// POST /api/agents
func (h *Handler) RegisterAgent(c echo.Context) error {
	var req AgentRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.AgentID == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "agent_id and name are required"})
	}
	version, err := domain.ParseVersion(req.Version)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	agent := domain.Agent{
		ID:            req.AgentID,
		Name:          req.Name,
		Kind:          domain.AgentKind(req.Kind),
		Version:       version,
		Description:   req.Description,
		ModuleLocator: req.ModuleLocator,
		Metadata:      req.Metadata,
		Status:        domain.AgentStatusInactive,
		RegisteredAt:  time.Now(),
	}
	h.coord.Agents.Register(agent)

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// ListAgents lists every registered agent.
// GET /api/agents
func (h *Handler) ListAgents(c echo.Context) error {
	agents := h.coord.Agents.All()
	out := make([]map[string]interface{}, len(agents))
	for i, a := range agents {
		out[i] = map[string]interface{}{
			"agentId": a.ID,
			"name":    a.Name,
			"type":    a.Kind,
			"version": a.Version.String(),
			"status":  a.Status,
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"agents": out})
}
