package revalidate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPInvalidator_Invalidate(t *testing.T) {
	ctx := context.Background()

	t.Run("posts path with secret header", func(t *testing.T) {
		var gotPath, gotSecret, gotContentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			gotSecret = r.Header.Get("X-Revalidate-Secret")
			gotContentType = r.Header.Get("Content-Type")
			var body revalidateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotPath = body.Path
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		inv, err := NewInvalidator(InvalidatorConfig{Provider: "http", URL: server.URL, Secret: "s3cret"})
		require.NoError(t, err)

		require.NoError(t, inv.Invalidate(ctx, "/events"))
		require.Equal(t, "/events", gotPath)
		require.Equal(t, "s3cret", gotSecret)
		require.Equal(t, "application/json", gotContentType)
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		inv, err := NewInvalidator(InvalidatorConfig{Provider: "http", URL: server.URL})
		require.NoError(t, err)
		require.Error(t, inv.Invalidate(ctx, "/events"))
	})

	t.Run("unreachable endpoint is an error", func(t *testing.T) {
		inv, err := NewInvalidator(InvalidatorConfig{Provider: "http", URL: "http://127.0.0.1:1"})
		require.NoError(t, err)
		require.Error(t, inv.Invalidate(ctx, "/events"))
	})
}

func TestNewInvalidator(t *testing.T) {
	t.Run("http provider requires url", func(t *testing.T) {
		inv, err := NewInvalidator(InvalidatorConfig{Provider: "http"})
		require.Error(t, err)
		require.Nil(t, inv)
	})

	t.Run("noop provider", func(t *testing.T) {
		inv, err := NewInvalidator(InvalidatorConfig{Provider: "noop"})
		require.NoError(t, err)
		require.NoError(t, inv.Invalidate(context.Background(), "/events"))
	})

	t.Run("unknown provider falls back to noop", func(t *testing.T) {
		inv, err := NewInvalidator(InvalidatorConfig{Provider: "carrier-pigeon"})
		require.NoError(t, err)
		require.NoError(t, inv.Invalidate(context.Background(), "/events"))
	})
}
