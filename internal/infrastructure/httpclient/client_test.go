package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/bank-products/internal/domain"
	"github.com/mrops-br/bank-products/internal/infrastructure/telemetry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", time.Second, discardLogger())
}

func TestClient_GetDecodesBody(t *testing.T) {
	var gotHeaders http.Header
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[1,2,3]}`))
	})

	var out struct {
		Data []int `json:"data"`
	}
	require.NoError(t, c.Get(context.Background(), "/bp/products", &out))

	assert.Equal(t, "/bp/products", gotPath)
	assert.Equal(t, []int{1, 2, 3}, out.Data)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	_, err := uuid.Parse(gotHeaders.Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestClient_ReusesContextRequestID(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := telemetry.WithRequestID(context.Background(), "req-42")
	require.NoError(t, c.Delete(ctx, "/bp/products/a", nil))
	assert.Equal(t, "req-42", got)
}

func TestClient_PostSendsJSON(t *testing.T) {
	var received map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	var out struct{ Message string }
	require.NoError(t, c.Post(context.Background(), "/bp/products", map[string]string{"id": "abc"}, &out))

	assert.Equal(t, "abc", received["id"])
	assert.Equal(t, "ok", out.Message)
}

func TestClient_ErrorNormalization(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    domain.ErrorKind
		message string
	}{
		{"not found with message", http.StatusNotFound, `{"error":"not_found","message":"Not product found with that identifier"}`, domain.KindNotFound, "Not product found with that identifier"},
		{"not found without body", http.StatusNotFound, ``, domain.KindNotFound, "Not Found"},
		{"conflict message", http.StatusConflict, `{"error":"conflict","message":"product already exists"}`, domain.KindTransport, "product already exists"},
		{"server error falls back to status text", http.StatusInternalServerError, `<html>oops</html>`, domain.KindTransport, "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			err := c.Get(context.Background(), "/bp/products/x", nil)

			var de *domain.Error
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tc.kind, de.Kind)
			assert.Equal(t, tc.message, de.Message)
			assert.Equal(t, tc.status, de.StatusCode)
		})
	}
}

func TestClient_NoResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, discardLogger())
	err := c.Get(context.Background(), "/bp/products", nil)

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.KindTransport, de.Kind)
	assert.Equal(t, MsgNoResponse, de.Message)
	assert.Zero(t, de.StatusCode)
	assert.Equal(t, MsgNoResponse, domain.Message(err))
}

func TestClient_CancelledContextHasNoResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/bp/products", nil)
	assert.Equal(t, MsgNoResponse, domain.Message(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})

	var out map[string]any
	err := c.Get(context.Background(), "/bp/products", &out)

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Contains(t, de.Message, "decode response")
	assert.Equal(t, http.StatusOK, de.StatusCode)
}

func TestNew_DefaultTimeout(t *testing.T) {
	c := New("http://localhost:3002", 0, discardLogger())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Equal(t, "http://localhost:3002", c.baseURL)

	hc := &http.Client{}
	c = New("http://localhost:3002", 0, discardLogger(), WithHTTPClient(hc))
	assert.Same(t, hc, c.http)
}
