package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "todo-list.com/todo-list/internal/data_models"
	apperrors "todo-list.com/todo-list/internal/errors"
	"todo-list.com/todo-list/internal/http/validators"
	model "todo-list.com/todo-list/internal/models"
	"todo-list.com/todo-list/internal/services"
)

type Handler struct {
	store    *services.TaskStore
	importer *services.ImportService
}

func NewHandler(store *services.TaskStore, importer *services.ImportService) *Handler {
	return &Handler{
		store:    store,
		importer: importer,
	}
}

func (h *Handler) ListTasks(c echo.Context) error {
	ctx := c.Request().Context()

	var tasks []model.Task
	if q := c.QueryParam("q"); q != "" {
		tasks = h.store.Search(ctx, q)
	} else {
		tasks = h.store.ListAll(ctx)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
		"stats": h.store.Stats(ctx),
	})
}

func (h *Handler) GetTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ShareTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.store.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"text": model.ShareText(task)})
}

func (h *Handler) CreateTask(c echo.Context) error {
	req, err := bindTaskRequest(c)
	if err != nil {
		return err
	}

	task, err := h.store.Create(c.Request().Context(), req.Title, req.Description)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	req, err := bindTaskRequest(c)
	if err != nil {
		return err
	}

	task, err := h.store.Update(c.Request().Context(), id, req.Title, req.Description)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ToggleTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.store.ToggleCompletion(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.store.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ImportTasks(c echo.Context) error {
	res, err := h.importer.Run(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, res)
}

func bindTaskRequest(c echo.Context) (*dto.TaskRequestData, error) {
	var req dto.TaskRequestData
	if err := c.Bind(&req); err != nil {
		return nil, toHTTPError(apperrors.ErrInvalidJSON)
	}
	if err := validators.ValidateTaskRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func taskID(c echo.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", toHTTPError(apperrors.ErrTaskIDRequired)
	}
	return id, nil
}

func toHTTPError(err error) error {
	return echo.NewHTTPError(apperrors.StatusCode(err), apperrors.Message(err))
}
