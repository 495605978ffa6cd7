// Package handler exposes the HTTP layer: request binding, error to
// status mapping and response shaping.  Invariant-bearing flows
// (enrollment, registration, checkout) go through services; plain
// reads and admin CRUD talk to repositories directly.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness for load balancers and monitors.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
