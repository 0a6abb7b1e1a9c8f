package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/pkg/config"
)

var (
	// ErrNoAPIKey el proveedor no tiene clave configurada.
	ErrNoAPIKey = errors.New("AI: API key no configurada")
	// ErrEmptyAnswer el modelo no devolvió texto.
	ErrEmptyAnswer = errors.New("AI: el modelo devolvió una respuesta vacía")
)

// NewFromConfig elige el proveedor según AI_PROVIDER. Devuelve nil si no hay clave para el elegido.
func NewFromConfig(cfg config.AIConfig) ports.LLMService {
	switch strings.ToLower(cfg.Provider) {
	case "anthropic", "claude":
		if cfg.AnthropicAPIKey == "" {
			return nil
		}
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		if cfg.GeminiAPIKey == "" {
			return nil
		}
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}

func doRequest(ctx context.Context, c *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := c.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, 0, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, 0, fmt.Errorf("AI: leer respuesta: %w", err)
	}
	return raw, resp.StatusCode, nil
}
