package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/medical-farma-api/internal/application/ports"
	"github.com/jhoicas/medical-farma-api/pkg/config"
)

var _ ports.FileStorage = (*SupabaseStorage)(nil)

// ErrNotConfigured falta SUPABASE_URL o la service key.
var ErrNotConfigured = errors.New("storage: supabase no configurado")

// SupabaseStorage sube archivos a Supabase Storage por REST.
type SupabaseStorage struct {
	baseURL string
	key     string
	http    *http.Client
}

// NewSupabaseStorage crea el adaptador.
func NewSupabaseStorage(cfg config.StorageConfig) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL: strings.TrimRight(cfg.SupabaseURL, "/"),
		key:     cfg.ServiceKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload POST /storage/v1/object/{bucket}/{path}; sobrescribe si ya existe.
func (s *SupabaseStorage) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	if s.baseURL == "" || s.key == "" {
		return "", ErrNotConfigured
	}
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, escapePath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("apikey", s.key)
	req.Header.Set("x-upsert", "true")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: subir %s/%s: %w", bucket, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("storage: subir %s/%s: status %d: %s", bucket, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return s.PublicURL(bucket, path), nil
}

// PublicURL URL pública del objeto.
func (s *SupabaseStorage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, escapePath(path))
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
