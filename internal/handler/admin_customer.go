package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/workshop-studio/internal/repository"
)

// AdminCustomerHandler is the CRM surface: customer search, contact
// detail edits, enrollment history and loyalty notes.
type AdminCustomerHandler struct {
	Customers   *repository.CustomerRepo
	Enrollments *repository.EnrollmentRepo
	Notes       *repository.NoteRepo
}

func NewAdminCustomerHandler(c *repository.CustomerRepo, e *repository.EnrollmentRepo, n *repository.NoteRepo) *AdminCustomerHandler {
	return &AdminCustomerHandler{Customers: c, Enrollments: e, Notes: n}
}

// Search lists customers with enrollment counts.  Query parameters:
// q (name/email substring), from/to (registration date, YYYY-MM-DD)
// and workshop_id.
func (h *AdminCustomerHandler) Search(c echo.Context) error {
	f := repository.SearchFilter{Query: strings.TrimSpace(c.QueryParam("q"))}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		// Inclusive upper bound: cover the whole day.
		t = t.Add(24*time.Hour - time.Second)
		f.To = &t
	}
	if v := c.QueryParam("workshop_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid workshop_id"})
		}
		f.WorkshopID = id
	}

	items, err := h.Customers.Search(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get returns one customer record.
func (h *AdminCustomerHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cust, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCustomerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, cust)
}

type customerUpdateReq struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Interests string `json:"interests"`
}

// Update edits a customer's contact details.  Changing the email to
// one already in use answers 409.
func (h *AdminCustomerHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req customerUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email required"})
	}
	if err := h.Customers.Update(c.Request().Context(), id, req.Name, req.Email, req.Phone, req.Interests); err != nil {
		switch err {
		case repository.ErrCustomerNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case repository.ErrEmailExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	cust, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, cust)
}

// History lists the customer's enrollments, newest first.
func (h *AdminCustomerHandler) History(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Customers.GetByID(c.Request().Context(), id); err != nil {
		if err == repository.ErrCustomerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	entries, err := h.Enrollments.HistoryByCustomer(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": entries})
}

// ListNotes returns the loyalty notes attached to a customer.
func (h *AdminCustomerHandler) ListNotes(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	notes, err := h.Notes.ListByCustomer(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": notes})
}

type noteReq struct {
	Body string `json:"body"`
}

// AddNote appends a loyalty note to a customer.
func (h *AdminCustomerHandler) AddNote(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req noteReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Body) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body required"})
	}
	note, err := h.Notes.Append(c.Request().Context(), id, strings.TrimSpace(req.Body))
	if err != nil {
		if err == repository.ErrCustomerNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, note)
}
