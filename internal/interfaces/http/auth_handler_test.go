package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, target, body string) *http.Response {
	t.Helper()
	app := buildDashboardApp(stubStats{}, stubUsers{})
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestLogin_Validacion(t *testing.T) {
	resp := postJSON(t, "/api/auth/login", `{"email":"no-es-email","password":"123"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Message, "email debe ser un email válido")
	assert.Contains(t, e.Message, "password debe tener al menos 8 caracteres")
}

func TestLogin_CuerpoInvalido(t *testing.T) {
	resp := postJSON(t, "/api/auth/login", `{`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

func TestLogin_UsuarioInexistente_Retorna401(t *testing.T) {
	resp := postJSON(t, "/api/auth/login", `{"email":"nadie@tienda.co","password":"clave-segura"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)
}

func TestMe_SinToken_Retorna401(t *testing.T) {
	app := buildDashboardApp(stubStats{}, stubUsers{})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
