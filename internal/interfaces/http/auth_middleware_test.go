package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	apphttp "github.com/jhoicas/medical-farma-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/medical-farma-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testEmail     = "ana@medicalfarma.test"
	testIssuer    = "medical-farma-api-test"
	testExpMin    = 60
)

// buildTestApp app mínima con AuthMiddleware + RequireRole y un handler que devuelve 200.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":    true,
				"role":  apphttp.GetRole(c),
				"email": apphttp.GetEmail(c),
				"actor": ports.ActorFrom(c.UserContext()),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &m), "el cuerpo debe ser JSON: %s", body)
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware / RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_RolPermitido(t *testing.T) {
	app := buildTestApp("facturacion")
	resp := doRequest(t, app, tokenForRole(t, "facturacion"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "facturacion", body["role"])
	assert.Equal(t, testEmail, body["email"])
	assert.Equal(t, testUserID, body["actor"], "el actor queda en el contexto de usuario")
}

func TestRequireRole_GerenciaPasaSiempre(t *testing.T) {
	app := buildTestApp("despacho")
	resp := doRequest(t, app, tokenForRole(t, "gerencia"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_RolNoPermitido(t *testing.T) {
	app := buildTestApp("facturacion", "despacho")
	resp := doRequest(t, app, tokenForRole(t, "cliente"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "FORBIDDEN", body["code"])
	assert.Equal(t, false, body["success"])
}

func TestRequireRole_TokenSinRol(t *testing.T) {
	app := buildTestApp("vendedor")
	resp := doRequest(t, app, tokenForRole(t, ""))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", decodeBody(t, resp)["code"])
}

func TestAuthMiddleware_SinToken(t *testing.T) {
	app := buildTestApp("vendedor")
	resp := doRequest(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeBody(t, resp)["code"])
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := buildTestApp("vendedor")
	resp := doRequest(t, app, "Bearer esto.no.es.un.jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeBody(t, resp)["code"])
}

func TestAuthMiddleware_FirmaDeOtroSecreto(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secreto", testUserID, testEmail, "gerencia", testIssuer, testExpMin)
	require.NoError(t, err)
	resp := doRequest(t, buildTestApp(), "Bearer "+tok)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoSinBearer(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testEmail, "vendedor", testIssuer, testExpMin)
	require.NoError(t, err)
	resp := doRequest(t, buildTestApp("vendedor"), tok)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeBody(t, resp)["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

type fakeChecker struct {
	allowed map[string]bool
	err     error
	calls   int
}

func (f *fakeChecker) HasPermission(_ context.Context, userID, code string) (bool, error) {
	f.calls++
	return f.allowed[userID+"|"+code], f.err
}

func buildPermApp(checker *fakeChecker) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission(apphttp.PermBilling, checker),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequirePermission_ConPermiso(t *testing.T) {
	checker := &fakeChecker{allowed: map[string]bool{testUserID + "|" + apphttp.PermBilling: true}}
	resp := doRequest(t, buildPermApp(checker), tokenForRole(t, "facturacion"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, checker.calls)
}

func TestRequirePermission_SinPermiso(t *testing.T) {
	resp := doRequest(t, buildPermApp(&fakeChecker{}), tokenForRole(t, "vendedor"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeBody(t, resp)["code"])
}

func TestRequirePermission_GerenciaNoConsulta(t *testing.T) {
	checker := &fakeChecker{}
	resp := doRequest(t, buildPermApp(checker), tokenForRole(t, "gerencia"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Zero(t, checker.calls)
}

func TestRequirePermission_FalloDeConsulta(t *testing.T) {
	resp := doRequest(t, buildPermApp(&fakeChecker{err: errors.New("db caída")}), tokenForRole(t, "facturacion"))
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "PERMISSION_CHECK_FAILED", decodeBody(t, resp)["code"])
}
