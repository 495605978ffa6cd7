package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/workshop-studio/internal/handler"
	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/repository"
)

// fakeWorkshopStore applies the same conditional-update rule as the
// SQL repository: an update only lands when the new capacity still
// covers the seats already taken, otherwise repository.ErrConflict.
type fakeWorkshopStore struct {
	rows map[uint64]model.Workshop
}

func newFakeWorkshopStore(ws ...model.Workshop) *fakeWorkshopStore {
	f := &fakeWorkshopStore{rows: map[uint64]model.Workshop{}}
	for _, w := range ws {
		f.rows[w.ID] = w
	}
	return f
}

func (f *fakeWorkshopStore) List(_ context.Context, activeOnly bool) ([]model.Workshop, error) {
	out := []model.Workshop{}
	for _, w := range f.rows {
		if !activeOnly || w.Active {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWorkshopStore) GetByID(_ context.Context, id uint64) (model.Workshop, error) {
	w, ok := f.rows[id]
	if !ok {
		return model.Workshop{}, repository.ErrWorkshopNotFound
	}
	return w, nil
}

func (f *fakeWorkshopStore) Create(_ context.Context, w model.Workshop) (model.Workshop, error) {
	w.ID = uint64(len(f.rows) + 1)
	f.rows[w.ID] = w
	return w, nil
}

func (f *fakeWorkshopStore) Update(_ context.Context, w model.Workshop) error {
	cur, ok := f.rows[w.ID]
	if !ok {
		return repository.ErrWorkshopNotFound
	}
	if cur.SeatsTaken > w.TotalSeats {
		return repository.ErrConflict
	}
	w.SeatsTaken = cur.SeatsTaken
	f.rows[w.ID] = w
	return nil
}

func (f *fakeWorkshopStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrWorkshopNotFound
	}
	delete(f.rows, id)
	return nil
}

func putJSON(e *echo.Echo, path, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestAdminWorkshopUpdateCannotShrinkBelowTakenSeats(t *testing.T) {
	store := newFakeWorkshopStore(model.Workshop{
		ID: 1, Name: "Wheel Throwing Basics", Category: model.CategoryPublic,
		Active: true, TotalSeats: 8, SeatsTaken: 2,
	})
	h := handler.NewAdminWorkshopHandler(store)
	e := echo.New()

	c, rec := putJSON(e, "/v1/admin/workshops/1", "1",
		`{"name":"Wheel Throwing Basics","category":"PUBLIC","total_seats":1}`)
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The rejected update must leave the row untouched.
	w, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), w.TotalSeats)
	assert.Equal(t, uint32(2), w.SeatsTaken)
}

func TestAdminWorkshopUpdateAtTakenBoundary(t *testing.T) {
	store := newFakeWorkshopStore(model.Workshop{
		ID: 1, Name: "Glazing Night", Category: model.CategoryPublic, Active: true,
		TotalSeats: 8, SeatsTaken: 2,
	})
	h := handler.NewAdminWorkshopHandler(store)
	e := echo.New()

	// Shrinking exactly to the consumed count is allowed.
	c, rec := putJSON(e, "/v1/admin/workshops/1", "1",
		`{"name":"Glazing Night","category":"PUBLIC","total_seats":2}`)
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	w, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), w.TotalSeats)
	assert.Equal(t, uint32(2), w.SeatsTaken)
}

func TestAdminWorkshopUpdateStatusMapping(t *testing.T) {
	store := newFakeWorkshopStore(model.Workshop{
		ID: 1, Name: "Raku", Category: model.CategoryPublic, Active: true,
		TotalSeats: 8,
	})
	h := handler.NewAdminWorkshopHandler(store)
	e := echo.New()

	cases := []struct {
		name string
		id   string
		body string
		code int
	}{
		{"unknown id", "99", `{"name":"X","category":"PUBLIC","total_seats":4}`, http.StatusNotFound},
		{"bad category", "1", `{"name":"X","category":"OTHER","total_seats":4}`, http.StatusBadRequest},
		{"zero capacity", "1", `{"name":"X","category":"PUBLIC","total_seats":0}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := putJSON(e, "/v1/admin/workshops/"+tc.id, tc.id, tc.body)
			require.NoError(t, h.Update(c))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
