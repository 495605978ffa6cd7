package handler_test

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/workshop-studio/internal/handler"
	"github.com/atelierhq/workshop-studio/internal/model"
	"github.com/atelierhq/workshop-studio/internal/service"
	"github.com/atelierhq/workshop-studio/internal/service/servicetest"
)

func TestCreateOrderEndpoint(t *testing.T) {
	store := servicetest.NewMemStore()
	svc := service.NewCheckoutService(store, servicetest.NewRecordingNotifier())
	h := handler.NewCheckoutHandler(svc)
	mug := store.AddProduct(model.Product{Name: "Mug", PriceCents: 2200, Stock: 2, Active: true})
	e := echo.New()

	cases := []struct {
		name string
		body string
		code int
	}{
		{"created", `{"name":"Ada","email":"ada@example.com","items":[{"product_id":` + jsonID(mug.ID) + `,"quantity":1}]}`, http.StatusCreated},
		{"out of stock", `{"name":"Ada","email":"ada@example.com","items":[{"product_id":` + jsonID(mug.ID) + `,"quantity":5}]}`, http.StatusConflict},
		{"unknown product", `{"name":"Ada","email":"ada@example.com","items":[{"product_id":999,"quantity":1}]}`, http.StatusNotFound},
		{"empty cart", `{"name":"Ada","email":"ada@example.com","items":[]}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(e, "/v1/orders", tc.body)
			require.NoError(t, h.CreateOrder(c))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
