package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medical-farma-api/internal/infrastructure/storage"
	"github.com/jhoicas/medical-farma-api/pkg/config"
)

func TestUpload_DevuelveURLPublica(t *testing.T) {
	var path, key, ctype string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, key, ctype = r.URL.Path, r.Header.Get("Authorization"), r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := storage.NewSupabaseStorage(config.StorageConfig{SupabaseURL: srv.URL + "/", ServiceKey: "svc"})
	url, err := s.Upload(context.Background(), "imagenes", "productos/p1-1700000000.png", "image/png", []byte("png"))
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/imagenes/productos/p1-1700000000.png", path)
	assert.Equal(t, "Bearer svc", key)
	assert.Equal(t, "image/png", ctype)
	assert.Equal(t, []byte("png"), body)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/imagenes/productos/p1-1700000000.png", url)
}

func TestUpload_ErrorDelServidor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Bucket not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()
	s := storage.NewSupabaseStorage(config.StorageConfig{SupabaseURL: srv.URL, ServiceKey: "svc"})
	_, err := s.Upload(context.Background(), "documentos", "x.pdf", "application/pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestUpload_SinConfiguracion(t *testing.T) {
	_, err := storage.NewSupabaseStorage(config.StorageConfig{}).Upload(context.Background(), "b", "p", "", nil)
	assert.ErrorIs(t, err, storage.ErrNotConfigured)
}
