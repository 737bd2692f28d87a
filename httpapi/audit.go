package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Geekthedev/korra/audit"
)

// ListAudit surfaces the durable audit history for inspection tooling.
// GET /api/audit?subjectId=&kind=&limit=
func (h *Handler) ListAudit(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	events, err := h.coord.Audit().Query(c.Request().Context(), audit.Filter{
		SubjectID: c.QueryParam("subjectId"),
		Kind:      c.QueryParam("kind"),
		Limit:     limit,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"events": events})
}
