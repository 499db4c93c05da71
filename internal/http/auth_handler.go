package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-tree-system.com/task-tree-system/internal/data_models"
	apperrors "task-tree-system.com/task-tree-system/internal/errors"
	middleware "task-tree-system.com/task-tree-system/internal/http/middlewares"
)

func (h *Handler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err, "failed to register user")
	}

	return c.JSON(http.StatusOK, dto.UserResponse{ID: user.ID, Email: user.Email})
}

// Login accepts JSON or an OAuth2 password form.
func (h *Handler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid login payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return httpError(err, "failed to log in")
	}

	return c.JSON(http.StatusOK, token)
}

func (h *Handler) Me(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return httpError(apperrors.ErrUnauthorized, "")
	}

	return c.JSON(http.StatusOK, dto.UserResponse{ID: user.ID, Email: user.Email})
}
