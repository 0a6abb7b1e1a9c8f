package http_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/application/inventory"
	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	apphttp "github.com/jhoicas/medical-farma-api/internal/interfaces/http"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *captureNotifier) Notify(event string, _ map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

type captureAudit struct {
	actors []string
	ips    []string
}

func (a *captureAudit) Record(ctx context.Context, userID, _, _ string, _ map[string]interface{}) {
	a.actors = append(a.actors, userID)
	a.ips = append(a.ips, ports.ClientIPFrom(ctx))
}

func buildRouterApp(deps apphttp.RouterDeps) *fiber.App {
	app := fiber.New()
	deps.JWTSecret = testJWTSecret
	deps.Log = zerolog.Nop()
	apphttp.Router(app, deps)
	return app
}

func TestHealth(t *testing.T) {
	app := buildRouterApp(apphttp.RouterDeps{})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	down := buildRouterApp(apphttp.RouterDeps{HealthCheck: func(context.Context) error { return errors.New("sin conexión") }})
	resp, err = down.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestRutaProtegidaSinToken(t *testing.T) {
	app := buildRouterApp(apphttp.RouterDeps{})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/billing/pending", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestStockImport_Multipart(t *testing.T) {
	notifier := &captureNotifier{}
	audit := &captureAudit{}
	app := buildRouterApp(apphttp.RouterDeps{StockUC: inventory.NewStockTransferUseCase(notifier, audit)})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "stock.csv")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("nombre;categoria;precio_unitario;stock_actual;stock_minimo\nGasas;Curaciones;100;5;10\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/stock/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", tokenForRole(t, "gerencia"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["filas"])
	assert.Equal(t, []string{ports.EventImportStock}, notifier.events)
	assert.Equal(t, []string{testUserID}, audit.actors, "el actor del token llega a la auditoría")
	assert.NotEmpty(t, audit.ips[0])
}

func TestStockImport_CuerpoVacio(t *testing.T) {
	app := buildRouterApp(apphttp.RouterDeps{StockUC: inventory.NewStockTransferUseCase(nil, nil)})
	req := httptest.NewRequest(http.MethodPost, "/api/stock/import", nil)
	req.Header.Set("Authorization", tokenForRole(t, "gerencia"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_FILE", decodeBody(t, resp)["code"])
}

func TestStockImport_CSVSinFilas(t *testing.T) {
	app := buildRouterApp(apphttp.RouterDeps{StockUC: inventory.NewStockTransferUseCase(nil, nil)})
	req := httptest.NewRequest(http.MethodPost, "/api/stock/import", bytes.NewBufferString("nombre;categoria\n"))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", tokenForRole(t, "gerencia"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeBody(t, resp)["code"])
}

func TestStockExport_RolNoPermitido(t *testing.T) {
	app := buildRouterApp(apphttp.RouterDeps{StockUC: inventory.NewStockTransferUseCase(nil, nil)})
	req := httptest.NewRequest(http.MethodPost, "/api/stock/export", nil)
	req.Header.Set("Authorization", tokenForRole(t, "cliente"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestWhatsAppWebhook(t *testing.T) {
	app := buildRouterApp(apphttp.RouterDeps{WhatsAppVerifyToken: "s3creto"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet,
		"/api/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=s3creto&hub.challenge=12345", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "12345", string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		"/api/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=otro&hub.challenge=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/whatsapp/webhook",
		bytes.NewBufferString(`{"entry":[{"changes":[{"value":{"messages":[{"from":"5491100000000","type":"text","text":{"body":"hola"}}]}}]}]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
