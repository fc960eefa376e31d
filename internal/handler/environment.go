package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nebeng/nebeng-api/internal/model"
	"github.com/nebeng/nebeng-api/internal/repository"
)

// EnvironmentHandler serves the neighborhood group ("lingkungan")
// reference data.  Listing is public; create and delete are admin
// only.
type EnvironmentHandler struct {
	Environments *repository.EnvironmentRepo
}

func NewEnvironmentHandler(e *repository.EnvironmentRepo) *EnvironmentHandler {
	return &EnvironmentHandler{Environments: e}
}

type environmentReq struct {
	Name string `json:"name"`
}

// List returns all environments ordered by name (public).
func (h *EnvironmentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	envs, err := h.Environments.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, envs)
}

// Create adds an environment (admin).
func (h *EnvironmentHandler) Create(c echo.Context) error {
	var req environmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e := &model.Environment{Name: req.Name}
	if err := h.Environments.Create(ctx, e); err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create environment failed"})
	}
	return c.JSON(http.StatusCreated, e)
}

// Delete removes an environment (admin).
func (h *EnvironmentHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.Environments.Delete(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete environment failed"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "environment not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "environment deleted"})
}
