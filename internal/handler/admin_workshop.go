package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
)

// WorkshopAdminStore is the slice of the workshop repository the
// staff CRUD needs.  Update must enforce the ledger rule: a capacity
// below the seats already taken is refused with
// repository.ErrConflict.
type WorkshopAdminStore interface {
	List(ctx context.Context, activeOnly bool) ([]model.Workshop, error)
	GetByID(ctx context.Context, id uint64) (model.Workshop, error)
	Create(ctx context.Context, w model.Workshop) (model.Workshop, error)
	Update(ctx context.Context, w model.Workshop) error
	Delete(ctx context.Context, id uint64) error
}

// AdminWorkshopHandler is the staff-side workshop CRUD.  Responses
// include the raw ledger (total_seats, seats_taken), unlike the public
// catalog.
type AdminWorkshopHandler struct {
	Workshops WorkshopAdminStore
}

func NewAdminWorkshopHandler(w WorkshopAdminStore) *AdminWorkshopHandler {
	return &AdminWorkshopHandler{Workshops: w}
}

type workshopReq struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	Category    string     `json:"category"`
	PriceCents  uint32     `json:"price_cents"`
	Active      *bool      `json:"active"`
	ImageURL    *string    `json:"image_url"`
	Location    *string    `json:"location"`
	TotalSeats  uint32     `json:"total_seats"`
}

func (r workshopReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	switch r.Category {
	case model.CategoryPublic, model.CategoryBusiness, model.CategoryKit:
	default:
		return "category must be PUBLIC, BUSINESS or KIT"
	}
	if r.TotalSeats == 0 {
		return "total_seats must be positive"
	}
	return ""
}

func (r workshopReq) toModel() model.Workshop {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return model.Workshop{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		StartsAt:    r.StartsAt,
		Category:    r.Category,
		PriceCents:  r.PriceCents,
		Active:      active,
		ImageURL:    r.ImageURL,
		Location:    r.Location,
		TotalSeats:  r.TotalSeats,
	}
}

// List returns every workshop including retired ones.
func (h *AdminWorkshopHandler) List(c echo.Context) error {
	ws, err := h.Workshops.List(c.Request().Context(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ws})
}

// Get returns one workshop with its full ledger.
func (h *AdminWorkshopHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	w, err := h.Workshops.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrWorkshopNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, w)
}

// Create adds a workshop with an empty ledger.
func (h *AdminWorkshopHandler) Create(c echo.Context) error {
	var req workshopReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	w, err := h.Workshops.Create(c.Request().Context(), req.toModel())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, w)
}

// Update rewrites a workshop's descriptive fields and capacity.
// Lowering total_seats below the seats already taken is rejected with
// 409 so the ledger can never go negative.
func (h *AdminWorkshopHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req workshopReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	w := req.toModel()
	w.ID = id
	if err := h.Workshops.Update(c.Request().Context(), w); err != nil {
		switch err {
		case repository.ErrWorkshopNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "total_seats below seats already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Workshops.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a workshop.  Workshops with live enrollments cannot
// be removed; retire them with active=false instead.
func (h *AdminWorkshopHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Workshops.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrWorkshopNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "workshop has enrollments"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
