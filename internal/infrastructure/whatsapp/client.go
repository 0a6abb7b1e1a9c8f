package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/pkg/config"
)

var _ ports.Messenger = (*Client)(nil)

const (
	defaultAPIURL = "https://graph.facebook.com/v18.0"
	// MaxTextLength límite de caracteres de un mensaje de texto.
	MaxTextLength = 4096
)

// ErrNotConfigured falta token o phone id.
var ErrNotConfigured = errors.New("whatsapp: no configurado")

// Client envía mensajes de texto por la Cloud API de WhatsApp.
type Client struct {
	apiURL  string
	token   string
	phoneID string
	http    *http.Client
}

// NewClient crea el cliente. apiURL vacío usa la Graph API pública.
func NewClient(cfg config.WhatsAppConfig, apiURL string) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Client{
		apiURL:  strings.TrimRight(apiURL, "/"),
		token:   cfg.Token,
		phoneID: cfg.PhoneID,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured indica si hay credenciales.
func (c *Client) Configured() bool { return c.token != "" && c.phoneID != "" }

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// SendText envía texto al número indicado (solo dígitos), truncado a MaxTextLength.
func (c *Client) SendText(ctx context.Context, to, text string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	msg := textMessage{MessagingProduct: "whatsapp", To: digitsOnly(to), Type: "text"}
	msg.Text.Body = Truncate(text, MaxTextLength)
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/%s/messages", c.apiURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("whatsapp: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}

// Truncate corta s a max runas.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
