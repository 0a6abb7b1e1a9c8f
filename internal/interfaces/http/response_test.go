package http

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/domain"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: nombre es requerido", domain.ErrInvalidInput), 400, "VALIDATION"},
		{domain.ErrPasswordMismatch, 400, "VALIDATION"},
		{fmt.Errorf("producto: %w", domain.ErrNotFound), 404, "NOT_FOUND"},
		{domain.ErrUserNotFound, 404, "NOT_FOUND"},
		{domain.ErrEmailAlreadyExists, 409, "DUPLICATE"},
		{domain.ErrConflict, 409, "CONFLICT"},
		{domain.ErrInvalidTransition, 422, "INVALID_TRANSITION"},
		{domain.ErrInvalidCredentials, 401, "UNAUTHORIZED"},
		{domain.ErrAccountNotApproved, 403, "FORBIDDEN"},
		{errors.New("conexión rechazada"), 500, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := errorStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestHandleError_OcultaDetalleInterno(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return handleError(c, errors.New("pq: password authentication failed")) })
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 500, resp.StatusCode)
	assert.NotContains(t, string(body), "password")
	assert.Contains(t, string(body), `"success":false`)
}

func TestFailList_DevuelveDataVacia(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return failList(c, errors.New(`list productos: ERROR: relation "productos" does not exist (SQLSTATE 42P01)`))
	})
	app.Get("/validacion", func(c *fiber.Ctx) error {
		return failList(c, fmt.Errorf("%w: estado desconocido", domain.ErrInvalidInput))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":false,"code":"INTERNAL","error":"error interno del servidor","data":[]}`, string(body),
		"el detalle de la base no sale en un 500")

	resp, err = app.Test(httptest.NewRequest("GET", "/validacion", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "estado desconocido")
}
