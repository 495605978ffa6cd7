package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/workshop-studio/internal/repository"
	"github.com/atelierhq/workshop-studio/internal/service"
)

// CheckoutHandler exposes cart checkout.
type CheckoutHandler struct {
	Checkout *service.CheckoutService
}

func NewCheckoutHandler(s *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{Checkout: s}
}

type checkoutReq struct {
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Items []service.CartItem `json:"items"`
}

// CreateOrder turns a cart into a paid order, failing atomically when
// any line cannot be satisfied from stock.
func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	order, err := h.Checkout.Checkout(c.Request().Context(), req.Name, req.Email, req.Items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/items required"})
		case errors.Is(err, repository.ErrProductNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		case errors.Is(err, repository.ErrOutOfStock):
			return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient stock"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
	}
	return c.JSON(http.StatusCreated, order)
}
