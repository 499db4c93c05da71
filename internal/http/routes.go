package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	middleware "task-tree-system.com/task-tree-system/internal/http/middlewares"
	"task-tree-system.com/task-tree-system/internal/http/validators"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Validator = validators.New()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger())

	limit := middleware.RateLimiter(rateLimitPerMinute, time.Minute)
	auth := middleware.JWTAuth(h.authService)

	e.GET("/health", h.Health)

	e.POST("/register", h.Register, limit)
	e.POST("/login", h.Login, limit)
	e.GET("/me", h.Me, auth, limit)

	e.GET("/tasks", h.ListTasks, auth, limit)
	e.GET("/tasks/top-urgent", h.TopUrgentTasks, auth, limit)
	e.GET("/tasks/:id", h.GetTask, auth, limit)
	e.POST("/tasks", h.CreateTask, auth, limit)
	e.PUT("/tasks/:id", h.UpdateTask, auth, limit)
	e.DELETE("/tasks/:id", h.DeleteTask, auth, limit)

	e.POST("/llm/suggest-subtasks", h.SuggestSubtasks, auth, limit)
	e.POST("/tasks/:id/breakdown", h.BreakdownTask, auth, limit)
}
