package validators

import (
	"strings"

	"github.com/labstack/echo/v4"

	dto "todo-list.com/todo-list/internal/data_models"
	apperrors "todo-list.com/todo-list/internal/errors"
)

// ValidateTaskRequest rejects blank titles; the description is optional.
func ValidateTaskRequest(r *dto.TaskRequestData) error {
	if strings.TrimSpace(r.Title) == "" {
		return echo.NewHTTPError(apperrors.ErrTitleRequired.StatusCode, apperrors.ErrTitleRequired.Message)
	}
	return nil
}
