package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
)

// AdminStoreHandler covers the rest of the staff surface: product
// CRUD, the order list, the contact inbox and the dashboard.
type AdminStoreHandler struct {
	Workshops *repository.WorkshopRepo
	Products  *repository.ProductRepo
	Orders    *repository.OrderRepo
	Messages  *repository.ContactRepo
}

func NewAdminStoreHandler(w *repository.WorkshopRepo, p *repository.ProductRepo, o *repository.OrderRepo, m *repository.ContactRepo) *AdminStoreHandler {
	return &AdminStoreHandler{Workshops: w, Products: p, Orders: o, Messages: m}
}

type productReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  uint32  `json:"price_cents"`
	Stock       uint32  `json:"stock"`
	Active      *bool   `json:"active"`
	ImageURL    *string `json:"image_url"`
}

func (r productReq) toModel() model.Product {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return model.Product{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Stock:       r.Stock,
		Active:      active,
		ImageURL:    r.ImageURL,
	}
}

// ListProducts returns every product including inactive ones.
func (h *AdminStoreHandler) ListProducts(c echo.Context) error {
	ps, err := h.Products.List(c.Request().Context(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": ps})
}

// CreateProduct adds a product to the shop.
func (h *AdminStoreHandler) CreateProduct(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	p, err := h.Products.Create(c.Request().Context(), req.toModel())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct rewrites a product including its stock level.
func (h *AdminStoreHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	p := req.toModel()
	p.ID = id
	if err := h.Products.Update(c.Request().Context(), p); err != nil {
		if err == repository.ErrProductNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Products.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteProduct removes a product; ones referenced by orders answer
// 409.
func (h *AdminStoreHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Products.Delete(c.Request().Context(), id); err != nil {
		switch err {
		case repository.ErrProductNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "product has orders"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOrders returns all orders with their items, newest first.
func (h *AdminStoreHandler) ListOrders(c echo.Context) error {
	orders, err := h.Orders.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": orders})
}

// ListMessages returns the contact inbox, newest first.
func (h *AdminStoreHandler) ListMessages(c echo.Context) error {
	msgs, err := h.Messages.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": msgs})
}

// MarkMessageRead flags one inbox message as handled.
func (h *AdminStoreHandler) MarkMessageRead(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Messages.MarkRead(c.Request().Context(), id); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Dashboard returns the staff landing aggregates: counts plus the
// upcoming event calendar.
func (h *AdminStoreHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	activeWorkshops, totalCustomers, err := h.Workshops.DashboardCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	upcoming, err := h.Workshops.UpcomingEvents(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"active_workshops": activeWorkshops,
		"total_customers":  totalCustomers,
		"upcoming_events":  upcoming,
	})
}
