package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
)

// CatalogHandler serves the public read-only surface: workshops and
// products.  Responses hide the raw seats_taken counter and expose a
// derived seats_free instead.
type CatalogHandler struct {
	Workshops *repository.WorkshopRepo
	Products  *repository.ProductRepo
}

func NewCatalogHandler(w *repository.WorkshopRepo, p *repository.ProductRepo) *CatalogHandler {
	return &CatalogHandler{Workshops: w, Products: p}
}

// PublicWorkshop is a workshop as shown to unauthenticated visitors.
type PublicWorkshop struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	Category    string     `json:"category"`
	PriceCents  uint32     `json:"price_cents"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Location    *string    `json:"location,omitempty"`
	TotalSeats  uint32     `json:"total_seats"`
	SeatsFree   uint32     `json:"seats_free"`
}

func publicWorkshop(w model.Workshop) PublicWorkshop {
	return PublicWorkshop{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		StartsAt:    w.StartsAt,
		Category:    w.Category,
		PriceCents:  w.PriceCents,
		ImageURL:    w.ImageURL,
		Location:    w.Location,
		TotalSeats:  w.TotalSeats,
		SeatsFree:   w.SeatsFree(),
	}
}

// ListWorkshops returns the catalog.  ?active=false includes retired
// workshops; the default shows active ones only.
func (h *CatalogHandler) ListWorkshops(c echo.Context) error {
	activeOnly := c.QueryParam("active") != "false"
	ws, err := h.Workshops.List(c.Request().Context(), activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicWorkshop, 0, len(ws))
	for _, w := range ws {
		out = append(out, publicWorkshop(w))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetWorkshop returns one workshop by id.
func (h *CatalogHandler) GetWorkshop(c echo.Context) error {
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
	return c.JSON(http.StatusOK, publicWorkshop(w))
}

// ListProducts returns the shop catalog, active products by default.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	activeOnly := c.QueryParam("active") != "false"
	ps, err := h.Products.List(c.Request().Context(), activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ps})
}

// GetProduct returns one product by id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, p)
}
