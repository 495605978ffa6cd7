package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/workshop-studio/internal/handler"
	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/service"
	"github.com/atelierhq/workshop-studio/internal/service/servicetest"
)

func newEnrollmentHandler(t *testing.T) (*servicetest.MemStore, *handler.EnrollmentHandler) {
	t.Helper()
	store := servicetest.NewMemStore()
	svc := service.NewEnrollmentService(store, servicetest.NewRecordingNotifier())
	return store, handler.NewEnrollmentHandler(svc)
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEnrollEndpointCreated(t *testing.T) {
	store, h := newEnrollmentHandler(t)
	w := store.AddWorkshop(model.Workshop{
		Name: "Raku Firing", Category: model.CategoryPublic,
		Active: true, TotalSeats: 10,
	})
	e := echo.New()

	c, rec := postJSON(e, "/v1/enrollments",
		`{"workshop_id":`+jsonID(w.ID)+`,"name":"Ines","email":"ines@example.com"}`)
	require.NoError(t, h.Enroll(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		EnrollmentID uint64 `json:"enrollment_id"`
		WorkshopName string `json:"workshop_name"`
		SeatsFree    uint32 `json:"seats_free"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.EnrollmentID)
	assert.Equal(t, "Raku Firing", resp.WorkshopName)
	assert.Equal(t, uint32(9), resp.SeatsFree)
}

func TestEnrollEndpointStatusMapping(t *testing.T) {
	store, h := newEnrollmentHandler(t)
	full := store.AddWorkshop(model.Workshop{
		Name: "Full Class", Category: model.CategoryPublic,
		Active: true, TotalSeats: 2, SeatsTaken: 2,
	})
	e := echo.New()

	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing fields", `{"workshop_id":1,"name":"","email":""}`, http.StatusBadRequest},
		{"unknown workshop", `{"workshop_id":9999,"name":"A","email":"a@b.c"}`, http.StatusNotFound},
		{"full workshop", `{"workshop_id":` + jsonID(full.ID) + `,"name":"A","email":"a@b.c"}`, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(e, "/v1/enrollments", tc.body)
			require.NoError(t, h.Enroll(c))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestCancelEndpoint(t *testing.T) {
	store, h := newEnrollmentHandler(t)
	svc := service.NewEnrollmentService(store, servicetest.NewRecordingNotifier())
	w := store.AddWorkshop(model.Workshop{
		Name: "Raku Firing", Category: model.CategoryPublic,
		Active: true, TotalSeats: 10,
	})
	res, err := svc.Enroll(c0(), service.EnrollRequest{
		WorkshopID: w.ID, Name: "Ines", Email: "ines@example.com",
	})
	require.NoError(t, err)
	e := echo.New()

	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/enrollments/cancel/"+token, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("token")
		c.SetParamValues(token)
		require.NoError(t, h.Cancel(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, get(res.Enrollment.CancelToken).Code)
	// Same token again and a never-issued token both answer 404.
	assert.Equal(t, http.StatusNotFound, get(res.Enrollment.CancelToken).Code)
	assert.Equal(t, http.StatusNotFound, get("not-a-token").Code)
}
