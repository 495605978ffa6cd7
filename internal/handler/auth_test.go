package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/workshop-studio/internal/config"
	"github.com/atelierhq/workshop-studio/internal/handler"
	"github.com/atelierhq/workshop-studio/internal/service"
	"github.com/atelierhq/workshop-studio/internal/service/servicetest"
)

func newAuthHandler(t *testing.T) (*servicetest.MemStore, *handler.AuthHandler) {
	t.Helper()
	store := servicetest.NewMemStore()
	svc := service.NewAccountService(store, servicetest.NewRecordingNotifier(), 4)
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15}
	return store, handler.NewAuthHandler(cfg, svc)
}

func TestRegisterEndpoint(t *testing.T) {
	_, h := newAuthHandler(t)
	e := echo.New()

	c, rec := postJSON(e, "/v1/auth/register",
		`{"name":"Noor","email":"noor@example.com","password":"s3cret!pass"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Customer struct {
			ID    uint64 `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"customer"`
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Customer.ID)
	assert.Equal(t, "CUSTOMER", resp.Customer.Role)
	assert.NotEmpty(t, resp.Access.Token)

	// Same email again conflicts.
	c, rec = postJSON(e, "/v1/auth/register",
		`{"name":"Noor","email":"noor@example.com","password":"other-pass"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	_, h := newAuthHandler(t)
	e := echo.New()

	c, rec := postJSON(e, "/v1/auth/register",
		`{"name":"Liv","email":"liv@example.com","password":"correct-horse"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = postJSON(e, "/v1/auth/login",
		`{"email":"liv@example.com","password":"correct-horse"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Wrong password and unknown email answer identically.
	c, rec = postJSON(e, "/v1/auth/login",
		`{"email":"liv@example.com","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = postJSON(e, "/v1/auth/login",
		`{"email":"ghost@example.com","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestForgotEndpointNeverLeaks(t *testing.T) {
	_, h := newAuthHandler(t)
	e := echo.New()

	c, rec := postJSON(e, "/v1/auth/forgot-password", `{"email":"nobody@example.com"}`)
	require.NoError(t, h.Forgot(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = postJSON(e, "/v1/auth/forgot-password", `{"email":""}`)
	require.NoError(t, h.Forgot(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
