package validators

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	dto "task-tree-system.com/task-tree-system/internal/data_models"
)

const (
	maxTitleLength       = 255
	maxDescriptionLength = 4000
)

// ValidateCreateTaskRequest covers what struct tags cannot express.
func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	return nil
}

// ValidateUpdateTaskRequest checks only the fields present in the body.
// Title and weight cannot be cleared.
func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) error {
	if r.Title.Set {
		if r.Title.Value == nil || strings.TrimSpace(*r.Title.Value) == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "title is required")
		}
		if utf8.RuneCountInString(*r.Title.Value) > maxTitleLength {
			return echo.NewHTTPError(http.StatusBadRequest, "title must be at most 255 characters")
		}
	}
	if r.Description.Set && r.Description.Value != nil &&
		utf8.RuneCountInString(*r.Description.Value) > maxDescriptionLength {
		return echo.NewHTTPError(http.StatusBadRequest, "description must be at most 4000 characters")
	}
	if r.Weight.Set {
		if r.Weight.Value == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "weight cannot be null")
		}
		if *r.Weight.Value < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "weight must be at least 1")
		}
	}
	if r.ParentID.Set && r.ParentID.Value != nil && *r.ParentID.Value == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "parent_id must be at least 1")
	}
	return nil
}
