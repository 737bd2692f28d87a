package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Geekthedev/korra/proof"
)

// ProofRegisterRequest is the body accepted by POST /api/proofs.
type ProofRegisterRequest struct {
	ProofID   string `json:"proof_id"`
	AgentID   string `json:"agent_id"`
	Timestamp int64  `json:"timestamp"`
	Input     string `json:"input"`
	Output    string `json:"output"`
}

// RegisterProof computes and stores a proof from raw input/output bytes.
// POST /api/proofs
func (h *Handler) RegisterProof(c echo.Context) error {
	var req ProofRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.ProofID == "" || req.AgentID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "proof_id and agent_id are required"})
	}

	p := proof.NewProof(req.ProofID, req.AgentID, req.Timestamp, []byte(req.Input), []byte(req.Output))
	ok := h.coord.Proofs.Register(p)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"firstWriter": ok,
		"proofHash":   p.ProofHash,
	})
}

// ListProofs lists every stored proof.
// GET /api/proofs
func (h *Handler) ListProofs(c echo.Context) error {
	proofs := h.coord.Proofs.All()
	out := make([]map[string]interface{}, len(proofs))
	for i, p := range proofs {
		out[i] = map[string]interface{}{
			"proofId":    p.ID,
			"agentId":    p.AgentID,
			"timestamp":  p.Timestamp,
			"inputHash":  p.InputHash,
			"outputHash": p.OutputHash,
			"proofHash":  p.ProofHash,
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"proofs": out})
}

// ProofValidateRequest is the body accepted by POST /api/proofs/:proofId/validate.
type ProofValidateRequest struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// ValidateProof checks candidate input/output bytes against a stored proof.
// POST /api/proofs/:proofId/validate
func (h *Handler) ValidateProof(c echo.Context) error {
	proofID := c.Param("proofId")
	var req ProofValidateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	result := h.coord.Proofs.Validate(proofID, []byte(req.Input), []byte(req.Output))
	return c.JSON(http.StatusOK, map[string]interface{}{"result": result})
}
