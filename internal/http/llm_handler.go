package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-tree-system.com/task-tree-system/internal/data_models"
)

// SuggestSubtasks takes the goal from ?goal= or from a JSON/form body.
func (h *Handler) SuggestSubtasks(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}

	var req dto.SuggestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if req.Goal == "" {
		req.Goal = c.QueryParam("goal")
	}

	suggested, err := h.suggestService.Suggest(c.Request().Context(), req.Goal)
	if err != nil {
		return httpError(err, "failed to suggest subtasks")
	}

	return c.JSON(http.StatusOK, dto.SuggestResponse{Suggested: suggested})
}

func (h *Handler) BreakdownTask(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	node, err := h.suggestService.Breakdown(c.Request().Context(), ownerID, id)
	if err != nil {
		return httpError(err, "failed to break down task")
	}

	return c.JSON(http.StatusOK, node)
}
