package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelierhq/workshop-studio/internal/utils"
)

func runChain(t *testing.T, mws []echo.MiddlewareFunc, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	require.NoError(t, h(c))
	return rec
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 7, "a@b.c", "ADMIN", 15)
	require.NoError(t, err)

	rec := runChain(t, []echo.MiddlewareFunc{JWTAuth("secret")}, "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejects(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, "a@b.c", "ADMIN", 15)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + at.Token},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := runChain(t, []echo.MiddlewareFunc{JWTAuth("secret")}, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	admin, err := utils.NewAccessToken("secret", 1, "staff@example.com", "ADMIN", 15)
	require.NoError(t, err)
	customer, err := utils.NewAccessToken("secret", 2, "c@example.com", "CUSTOMER", 15)
	require.NoError(t, err)

	chain := []echo.MiddlewareFunc{JWTAuth("secret"), RequireRole("ADMIN")}

	rec := runChain(t, chain, "Bearer "+admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runChain(t, chain, "Bearer "+customer.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
