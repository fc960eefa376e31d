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

// MassHandler serves the mass schedule.  Listing is public; create,
// update and delete are admin only.
type MassHandler struct {
	Masses *repository.MassRepo
}

func NewMassHandler(m *repository.MassRepo) *MassHandler {
	return &MassHandler{Masses: m}
}

type massReq struct {
	Name     string    `json:"name"`
	Datetime time.Time `json:"datetime"`
	Special  bool      `json:"special"`
}

// List returns all masses in chronological order (public).
func (h *MassHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	masses, err := h.Masses.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, masses)
}

// Get returns one mass by id (public).
func (h *MassHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Masses.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrMassNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mass not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Create adds a mass to the schedule (admin).
func (h *MassHandler) Create(c echo.Context) error {
	var req massReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Datetime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/datetime required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := &model.Mass{Name: req.Name, Datetime: req.Datetime, Special: req.Special}
	if err := h.Masses.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create mass failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update overwrites a mass's fields (admin).
func (h *MassHandler) Update(c echo.Context) error {
	var req massReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Datetime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/datetime required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Masses.Update(ctx, c.Param("id"), req.Name, req.Datetime, req.Special)
	if err != nil {
		if err == repository.ErrMassNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "mass not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update mass failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete removes a mass (admin).  Masses still referenced by rides
// cannot be deleted.
func (h *MassHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	deleted, err := h.Masses.Delete(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "mass has rides"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete mass failed"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "mass not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "mass deleted"})
}
