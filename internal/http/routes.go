package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "todo-list.com/todo-list/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, writesPerMinute int) {
	e.Use(middleware.WriteRateLimiter(writesPerMinute, time.Minute))

	e.GET("/tasks", h.ListTasks)
	e.POST("/tasks", h.CreateTask)
	e.GET("/tasks/:id", h.GetTask)
	e.PUT("/tasks/:id", h.UpdateTask)
	e.DELETE("/tasks/:id", h.DeleteTask)
	e.PATCH("/tasks/:id/toggle", h.ToggleTask)
	e.GET("/tasks/:id/share", h.ShareTask)
	e.POST("/import", h.ImportTasks)
}
