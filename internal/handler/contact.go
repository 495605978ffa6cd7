package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/workshop-studio/internal/repository"
)

// ContactHandler accepts contact-form submissions.
type ContactHandler struct {
	Messages *repository.ContactRepo
}

func NewContactHandler(m *repository.ContactRepo) *ContactHandler {
	return &ContactHandler{Messages: m}
}

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit stores a message for the studio staff to read in the admin
// inbox.  No email is sent to the submitter.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/message required"})
	}
	msg, err := h.Messages.Create(c.Request().Context(), req.Name, req.Email, req.Message)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, msg)
}
