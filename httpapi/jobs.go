package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Geekthedev/korra/domain"
)

// JobSubmitRequest is the body accepted by POST /api/jobs.
type JobSubmitRequest struct {
	AgentID  string            `json:"agent_id"`
	Input    string            `json:"input"` // used verbatim as the job's input bytes; not base64-decoded
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SubmitJob places a job onto a capable node.
// POST /api/jobs
func (h *Handler) SubmitJob(c echo.Context) error {
	var req JobSubmitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.AgentID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "agent_id is required"})
	}

	result := h.coord.Submit(c.Request().Context(), domain.Job{
		AgentID:  req.AgentID,
		Input:    []byte(req.Input),
		Metadata: req.Metadata,
	})
	if !result.Placed {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": result.Reason})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"jobId": result.JobID})
}

// ListJobs lists every job the router currently tracks.
// GET /api/jobs
func (h *Handler) ListJobs(c echo.Context) error {
	jobs := h.coord.Jobs.All()
	out := make([]map[string]interface{}, len(jobs))
	for i, j := range jobs {
		entry := map[string]interface{}{
			"jobId":     j.ID,
			"agentId":   j.AgentID,
			"status":    j.Status,
			"createdAt": j.CreatedAt,
		}
		if !j.StartedAt.IsZero() {
			entry["startedAt"] = j.StartedAt
		}
		if !j.CompletedAt.IsZero() {
			entry["completedAt"] = j.CompletedAt
		}
		if j.ExecutedByNodeID != "" {
			entry["executedByNodeId"] = j.ExecutedByNodeID
		}
		if j.ErrorMessage != "" {
			entry["errorMessage"] = j.ErrorMessage
		}
		out[i] = entry
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"jobs": out})
}

// CancelJob cancels a pending or running job.
// POST /api/jobs/:jobId/cancel
func (h *Handler) CancelJob(c echo.Context) error {
	jobID := c.Param("jobId")
	cancelled := h.coord.Jobs.Cancel(jobID)
	return c.JSON(http.StatusOK, map[string]interface{}{"cancelled": cancelled})
}
