package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	dto "task-tree-system.com/task-tree-system/internal/data_models"
	apperrors "task-tree-system.com/task-tree-system/internal/errors"
	"task-tree-system.com/task-tree-system/internal/hierarchy"
	middleware "task-tree-system.com/task-tree-system/internal/http/middlewares"
	"task-tree-system.com/task-tree-system/internal/http/validators"
	"task-tree-system.com/task-tree-system/internal/services"
)

type Handler struct {
	taskService    *services.TaskService
	authService    *services.AuthService
	suggestService *services.SuggestService
}

func NewHandler(taskService *services.TaskService, authService *services.AuthService, suggestService *services.SuggestService) *Handler {
	return &Handler{
		taskService:    taskService,
		authService:    authService,
		suggestService: suggestService,
	}
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) ListTasks(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var includeOrphans bool
	if err := echo.QueryParamsBinder(c).Bool("include_orphans", &includeOrphans).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "include_orphans must be a boolean")
	}

	forest, err := h.taskService.ListTree(c.Request().Context(), ownerID, includeOrphans)
	if err != nil {
		return httpError(err, "failed to list tasks")
	}

	return c.JSON(http.StatusOK, forest)
}

func (h *Handler) TopUrgentTasks(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	limit := hierarchy.DefaultTopN
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil || limit < 1 {
		return httpError(apperrors.ErrInvalidLimit, "")
	}

	tasks, err := h.taskService.TopUrgent(c.Request().Context(), ownerID, limit)
	if err != nil {
		return httpError(err, "failed to rank tasks")
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	node, err := h.taskService.GetTask(c.Request().Context(), ownerID, id)
	if err != nil {
		return httpError(err, "failed to load task")
	}

	return c.JSON(http.StatusOK, node)
}

func (h *Handler) CreateTask(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	node, err := h.taskService.CreateTask(c.Request().Context(), ownerID, req.Input())
	if err != nil {
		return httpError(err, "failed to create task")
	}

	return c.JSON(http.StatusCreated, node)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return err
	}

	node, err := h.taskService.UpdateTask(c.Request().Context(), ownerID, id, req.Patch())
	if err != nil {
		return httpError(err, "failed to update task")
	}

	return c.JSON(http.StatusOK, node)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), ownerID, id); err != nil {
		return httpError(err, "failed to delete task")
	}

	return c.JSON(http.StatusOK, dto.DeleteTaskResponse{OK: true})
}

func currentUserID(c echo.Context) (uint, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return 0, httpError(apperrors.ErrUnauthorized, "")
	}
	return user.ID, nil
}

func taskID(c echo.Context) (uint, error) {
	var id uint
	if err := echo.PathParamsBinder(c).MustUint("id", &id).BindError(); err != nil || id == 0 {
		return 0, httpError(apperrors.ErrTaskIDRequired, "")
	}
	return id, nil
}

// httpError maps err to its HTTP status. Unexpected failures are logged and
// answered with fallback.
func httpError(err error, fallback string) error {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error(fallback, "err", err)
	}
	return echo.NewHTTPError(status, apperrors.Message(err, fallback))
}
