// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTransport создаёт httpTransport, направленный на тестовый сервер
func newTestTransport(t *testing.T, router chi.Router) *httpTransport {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	transport := NewHTTPTransport(HTTPTransportConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, logger.Nop())
	return transport.(*httpTransport)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "client",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// ── Send ─────────────────────────────────────────────────────────────────────

func TestSend_GetSuccess(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/items/1", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"uuid":"id-1"}`))
	})

	tr := newTestTransport(t, router)
	resp, err := tr.Send(context.Background(), http.MethodGet, "/api/items/1", nil)

	require.NoError(t, err)
	assert.True(t, resp.Successful)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"uuid":"id-1"}`, string(resp.Body))
}

func TestSend_AttachesBearerToken(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/items/1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer my-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})

	tr := newTestTransport(t, router)
	tr.SetToken("  my-token  ")
	assert.Equal(t, "my-token", tr.Token())

	resp, err := tr.Send(context.Background(), http.MethodGet, "/api/items/1", nil)
	require.NoError(t, err)
	assert.True(t, resp.Successful)
}

func TestSend_PatchCarriesJSONBody(t *testing.T) {
	router := chi.NewRouter()
	router.Patch("/api/items/1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var ops []map[string]any
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&ops)) {
			assert.Len(t, ops, 1)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	tr := newTestTransport(t, router)
	body := []byte(`[{"op":"replace","path":"/title","value":"x"}]`)
	resp, err := tr.Send(context.Background(), http.MethodPatch, "/api/items/1", body)

	require.NoError(t, err)
	assert.True(t, resp.Successful)
	assert.Equal(t, http.StatusNoContent, resp.Status)
}

func TestSend_ErrorStatusIsNotATransportError(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/items/1", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such item"))
	})

	tr := newTestTransport(t, router)
	resp, err := tr.Send(context.Background(), http.MethodGet, "/api/items/1", nil)

	require.NoError(t, err)
	assert.False(t, resp.Successful)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "http 404: no such item", resp.ErrorMessage)
}

func TestSend_EmptyErrorBodyUsesStatusText(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/api/items/1", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	tr := newTestTransport(t, router)
	resp, err := tr.Send(context.Background(), http.MethodGet, "/api/items/1", nil)

	require.NoError(t, err)
	assert.Equal(t, "http 503: Service Unavailable", resp.ErrorMessage)
}

func TestSend_UnsupportedMethod(t *testing.T) {
	tr := newTestTransport(t, chi.NewRouter())

	_, err := tr.Send(context.Background(), http.MethodTrace, "/api/items/1", nil)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestSend_ConnectionFailure(t *testing.T) {
	tr := NewHTTPTransport(HTTPTransportConfig{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	}, logger.Nop())

	_, err := tr.Send(context.Background(), http.MethodGet, "/api/items/1", nil)
	assert.ErrorIs(t, err, ErrTransportFailure)
}

// ── TokenExpired ─────────────────────────────────────────────────────────────

func TestTokenExpired(t *testing.T) {
	tr := newTestTransport(t, chi.NewRouter())

	// Без токена считаем, что проверять нечего
	assert.False(t, tr.TokenExpired())

	tr.SetToken(signedToken(t, time.Now().Add(time.Hour)))
	assert.False(t, tr.TokenExpired())

	tr.SetToken(signedToken(t, time.Now().Add(-time.Hour)))
	assert.True(t, tr.TokenExpired())

	// Непарсибельный токен не блокирует отправку
	tr.SetToken("not-a-jwt")
	assert.False(t, tr.TokenExpired())
}
