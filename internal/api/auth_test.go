package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calidad/internal/token"
)

func registerUser(t *testing.T, app *fiber.App, overrides map[string]any) map[string]any {
	t.Helper()
	body := map[string]any{
		"name":     "Ana García",
		"email":    "ana@example.com",
		"password": "secreto-123",
	}
	for k, v := range overrides {
		body[k] = v
	}
	resp := doRequest(t, app, "POST", "/api/auth/register", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody(t, resp)
}

func TestRegister(t *testing.T) {
	app, _ := newTestApp(t)

	body := registerUser(t, app, nil)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "org-001", user["organization_id"])
	assert.Equal(t, true, user["is_active"])
	assert.NotContains(t, user, "password_hash")
}

func TestRegister_Duplicate(t *testing.T) {
	app, _ := newTestApp(t)

	registerUser(t, app, nil)

	resp := doRequest(t, app, "POST", "/api/auth/register", map[string]any{
		"name": "Ana Otra", "email": "ana@example.com", "password": "secreto-123",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "El usuario ya existe", body["error"])
}

func TestRegister_WeakPassword(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "POST", "/api/auth/register", map[string]any{
		"name": "Ana", "email": "ana@example.com", "password": "corta",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Datos de entrada inválidos", body["error"])
}

func TestLogin(t *testing.T) {
	app, _ := newTestApp(t)

	registerUser(t, app, map[string]any{"role": "admin", "organization_id": "org-042"})

	resp := doRequest(t, app, "POST", "/api/auth/login", map[string]any{
		"email": "ana@example.com", "password": "secreto-123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	// The token carries the identity claims.
	tokens := token.NewManager("test-secret", "calidad", 0)
	claims, err := tokens.Verify(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "org-042", claims.OrganizationID)
}

func TestLogin_UnknownEmail(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "POST", "/api/auth/login", map[string]any{
		"email": "nadie@example.com", "password": "secreto-123",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Credenciales inválidas", body["error"])
}

func TestLogin_WrongPassword(t *testing.T) {
	app, _ := newTestApp(t)

	registerUser(t, app, nil)

	resp := doRequest(t, app, "POST", "/api/auth/login", map[string]any{
		"email": "ana@example.com", "password": "incorrecta-99",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Credenciales inválidas", body["error"])
}

func TestLogin_InactiveUser(t *testing.T) {
	app, repo := newTestApp(t)

	registerUser(t, app, nil)

	repo.mu.Lock()
	u := repo.users["ana@example.com"]
	u.IsActive = false
	repo.users["ana@example.com"] = u
	repo.mu.Unlock()

	resp := doRequest(t, app, "POST", "/api/auth/login", map[string]any{
		"email": "ana@example.com", "password": "secreto-123",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Usuario inactivo", body["error"])
}

func TestLogin_MissingFields(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "POST", "/api/auth/login", map[string]any{
		"email": "ana@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerify(t *testing.T) {
	app, _ := newTestApp(t)

	body := registerUser(t, app, nil)
	signed := body["token"].(string)

	req := httptest.NewRequest("GET", "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decodeBody(t, resp)
	user := got["user"].(map[string]any)
	assert.Equal(t, "ana@example.com", user["email"])
}

func TestVerify_MissingHeader(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "GET", "/api/auth/verify", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Token de autorización requerido", body["error"])
}

func TestVerify_BadToken(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Token inválido", body["error"])
}

func TestVerify_InactiveUser(t *testing.T) {
	app, repo := newTestApp(t)

	body := registerUser(t, app, nil)
	signed := body["token"].(string)

	repo.mu.Lock()
	u := repo.users["ana@example.com"]
	u.IsActive = false
	repo.users["ana@example.com"] = u
	repo.mu.Unlock()

	req := httptest.NewRequest("GET", "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	got := decodeBody(t, resp)
	assert.Equal(t, "Usuario no encontrado o inactivo", got["error"])
}
