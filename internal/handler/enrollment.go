package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/workshop-studio/internal/repository"
	"github.com/atelierhq/workshop-studio/internal/service"
)

// EnrollmentHandler exposes the seat-counted enrollment flow.
type EnrollmentHandler struct {
	Enrollments *service.EnrollmentService
}

func NewEnrollmentHandler(s *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{Enrollments: s}
}

type enrollReq struct {
	WorkshopID uint64 `json:"workshop_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Interests  string `json:"interests"`
}

type enrollResp struct {
	EnrollmentID uint64 `json:"enrollment_id"`
	WorkshopName string `json:"workshop_name"`
	SeatsFree    uint32 `json:"seats_free"`
	Message      string `json:"message"`
}

// Enroll takes one seat in a workshop.  No authentication: walk-in
// customers enroll with just name and email, and a guest contact row
// is created for them when the email is new.
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	var req enrollReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	res, err := h.Enrollments.Enroll(c.Request().Context(), service.EnrollRequest{
		WorkshopID: req.WorkshopID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Interests:  req.Interests,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "workshop_id/name/email required"})
		case errors.Is(err, repository.ErrWorkshopNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		case errors.Is(err, repository.ErrCapacityExceeded):
			return c.JSON(http.StatusConflict, echo.Map{"error": "workshop is full"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "enrollment failed"})
	}

	// The workshop snapshot predates the seat increment, so subtract
	// the seat this request consumed.
	free := res.Workshop.SeatsFree()
	if free > 0 {
		free--
	}
	return c.JSON(http.StatusCreated, enrollResp{
		EnrollmentID: res.Enrollment.ID,
		WorkshopName: res.Workshop.Name,
		SeatsFree:    free,
		Message:      "enrollment confirmed, check your email",
	})
}

// Cancel releases the seat behind a cancellation token.  The token is
// the sole credential; unknown and already-used tokens answer with the
// same 404 so the URL leaks nothing.
func (h *EnrollmentHandler) Cancel(c echo.Context) error {
	token := c.Param("token")
	d, err := h.Enrollments.CancelByToken(c.Request().Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
		case errors.Is(err, repository.ErrEnrollmentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "enrollment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancellation failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "enrollment cancelled",
		"workshop_name": d.WorkshopName,
		"customer_name": d.CustomerName,
	})
}
