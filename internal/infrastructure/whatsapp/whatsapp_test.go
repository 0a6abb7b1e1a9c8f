package whatsapp_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/internal/infrastructure/whatsapp"
	"github.com/jhoicas/medical-farma-api/pkg/config"
)

func TestSendText_TruncaYNormalizaNumero(t *testing.T) {
	var path, auth string
	var body struct {
		To   string `json:"to"`
		Text struct {
			Body string `json:"body"`
		} `json:"text"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, auth = r.URL.Path, r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := whatsapp.NewClient(config.WhatsAppConfig{Token: "tok", PhoneID: "123"}, srv.URL)
	err := c.SendText(context.Background(), "+54 343 513-6855", strings.Repeat("á", 5000))
	require.NoError(t, err)
	assert.Equal(t, "/123/messages", path)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "543435136855", body.To)
	assert.Equal(t, whatsapp.MaxTextLength, len([]rune(body.Text.Body)))
}

func TestSendText_SinConfiguracion(t *testing.T) {
	c := whatsapp.NewClient(config.WhatsAppConfig{}, "")
	assert.ErrorIs(t, c.SendText(context.Background(), "1", "hola"), whatsapp.ErrNotConfigured)
}

func TestSendText_ErrorDeLaAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token vencido", http.StatusUnauthorized)
	}))
	defer srv.Close()
	c := whatsapp.NewClient(config.WhatsAppConfig{Token: "t", PhoneID: "1"}, srv.URL)
	err := c.SendText(context.Background(), "1", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

type fakeMessenger struct{ to, text []string }

func (m *fakeMessenger) SendText(_ context.Context, to, text string) error {
	m.to = append(m.to, to)
	m.text = append(m.text, text)
	return nil
}

type fakeTemplates struct{ content map[string]string }

func (f fakeTemplates) Render(_ context.Context, code string, vars map[string]string) (string, bool, error) {
	c, ok := f.content[code]
	if !ok {
		return "", false, nil
	}
	for k, v := range vars {
		c = strings.ReplaceAll(c, "{{"+k+"}}", v)
	}
	return c, true, nil
}

func TestEventNotifier_UsaPlantillaDelPedido(t *testing.T) {
	m := &fakeMessenger{}
	tpl := fakeTemplates{content: map[string]string{"nuevo_pedido": "Pedido {{numero_pedido}} total {{total}}"}}
	n := whatsapp.NewEventNotifier(m, tpl, "5491100000000", zerolog.Nop()).Sync()

	n.Notify(ports.EventNewOrder, map[string]interface{}{"numero_pedido": "PED-000001", "total": "1210"})
	n.Notify(ports.EventOrderStatus, map[string]interface{}{"estado": "entregado"})
	n.Notify(ports.EventLowStock, map[string]interface{}{"nombre": "Gasas", "stock_actual": 2, "stock_minimo": 10})

	require.Len(t, m.text, 2, "estado-pedido no va por WhatsApp")
	assert.Equal(t, "Pedido PED-000001 total 1210", m.text[0])
	assert.Equal(t, "Stock bajo: Gasas (actual 2, mínimo 10)", m.text[1], "sin plantilla usa el texto por defecto")
	assert.Equal(t, "5491100000000", m.to[0])
}

func TestEventNotifier_SinDestinoNoEnvia(t *testing.T) {
	m := &fakeMessenger{}
	whatsapp.NewEventNotifier(m, nil, "", zerolog.Nop()).Sync().Notify(ports.EventNewOrder, nil)
	assert.Empty(t, m.text)
}
