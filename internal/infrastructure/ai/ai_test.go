package ai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/infrastructure/ai"
	"github.com/jhoicas/medical-farma-api/pkg/config"
)

func TestGemini_Ask(t *testing.T) {
	var path, key string
	var req map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, key = r.URL.Path, r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&req)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" Tenemos guantes "},{"text":"de látex."}]}}]}`))
	}))
	defer srv.Close()

	s := ai.NewGeminiService("k1", "gemini-1.5-flash").WithBaseURL(srv.URL)
	answer, err := s.Ask(context.Background(), "catálogo", "¿hay guantes?")
	require.NoError(t, err)
	assert.Equal(t, "Tenemos guantes de látex.", answer)
	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", path)
	assert.Equal(t, "k1", key)
	assert.Contains(t, req, "system_instruction")
}

func TestGemini_ErrorDeAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota"}}`))
	}))
	defer srv.Close()
	_, err := ai.NewGeminiService("k", "m").WithBaseURL(srv.URL).Ask(context.Background(), "", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestAnthropic_Ask(t *testing.T) {
	var version string
	var req struct {
		System   string `json:"system"`
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version = r.Header.Get("anthropic-version")
		_ = json.NewDecoder(r.Body).Decode(&req)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Sí, hay stock."}]}`))
	}))
	defer srv.Close()

	answer, err := ai.NewAnthropicService("k", "claude").WithBaseURL(srv.URL).Ask(context.Background(), "catálogo", "¿stock?")
	require.NoError(t, err)
	assert.Equal(t, "Sí, hay stock.", answer)
	assert.Equal(t, "2023-06-01", version)
	assert.Equal(t, "catálogo", req.System)
	assert.Equal(t, "¿stock?", req.Messages[0].Content)
}

func TestAnthropic_RespuestaVacia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()
	_, err := ai.NewAnthropicService("k", "m").WithBaseURL(srv.URL).Ask(context.Background(), "", "x")
	assert.ErrorIs(t, err, ai.ErrEmptyAnswer)
}

func TestNewFromConfig(t *testing.T) {
	assert.Nil(t, ai.NewFromConfig(config.AIConfig{Provider: "gemini"}))
	assert.IsType(t, &ai.AnthropicService{}, ai.NewFromConfig(config.AIConfig{Provider: "anthropic", AnthropicAPIKey: "k"}))
	assert.IsType(t, &ai.GeminiService{}, ai.NewFromConfig(config.AIConfig{GeminiAPIKey: "k"}))
	_, err := ai.NewGeminiService("", "m").Ask(context.Background(), "", "x")
	assert.ErrorIs(t, err, ai.ErrNoAPIKey)
}
