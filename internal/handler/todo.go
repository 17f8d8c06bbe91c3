package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/taskvault/internal/middleware"
	"github.com/iliyamo/taskvault/internal/model"
	"github.com/iliyamo/taskvault/internal/repository"
)

// TodoHandler serves the per-user task CRUD.  Every operation, including
// update and delete, is scoped to the authenticated user's id; a task id
// belonging to someone else is indistinguishable from a missing one.
type TodoHandler struct {
	Todos *repository.TodoRepo
}

func NewTodoHandler(t *repository.TodoRepo) *TodoHandler { return &TodoHandler{Todos: t} }

type createTodoReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
type updateTodoReq struct {
	Status string `json:"status"`
}

type todoResp struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func todoOf(t model.Todo) todoResp {
	return todoResp{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Create adds a task for the authenticated user.
func (h *TodoHandler) Create(c echo.Context) error {
	uid, ok := middleware.ActorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createTodoReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Todos.Create(ctx, uid, req.Title, req.Description)
	if err != nil {
		c.Logger().Errorf("create todo: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, todoOf(t))
}

// List returns all tasks owned by the authenticated user.
func (h *TodoHandler) List(c echo.Context) error {
	uid, ok := middleware.ActorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	todos, err := h.Todos.ListByUser(ctx, uid)
	if err != nil {
		c.Logger().Errorf("list todos: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]todoResp, 0, len(todos))
	for _, t := range todos {
		out = append(out, todoOf(t))
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateStatus sets the status of one of the user's own tasks.
func (h *TodoHandler) UpdateStatus(c echo.Context) error {
	uid, ok := middleware.ActorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid todo id"})
	}
	var req updateTodoReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Todos.UpdateStatus(ctx, id, uid, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		c.Logger().Errorf("update todo: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, todoOf(t))
}

// Delete removes one of the user's own tasks.
func (h *TodoHandler) Delete(c echo.Context) error {
	uid, ok := middleware.ActorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid todo id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Todos.Delete(ctx, id, uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "todo not found"})
		}
		c.Logger().Errorf("delete todo: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "todo deleted"})
}
