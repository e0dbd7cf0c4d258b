package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/bank-products/internal/app/service"
	"github.com/mrops-br/bank-products/internal/domain"
	"github.com/mrops-br/bank-products/internal/infrastructure/config"
	"github.com/mrops-br/bank-products/internal/infrastructure/http/handler"
	"github.com/mrops-br/bank-products/internal/infrastructure/http/response"
	"github.com/mrops-br/bank-products/internal/infrastructure/repository/memory"
)

const validBody = `{
	"id": "trj-crd",
	"name": "Tarjeta de Credito",
	"description": "Tarjeta de consumo bajo la modalidad de credito",
	"logo": "https://example.com/logo.png",
	"date_release": "2026-11-01",
	"date_revision": "2027-11-01"
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	meter := metricnoop.NewMeterProvider()

	repo := memory.NewProductRepository(tracer, logger)
	svc := service.NewProductService(repo, tracer, meter.Meter("test"), logger)
	srv := NewServer(&config.ServerConfig{Host: "127.0.0.1", Port: "0"}, handler.NewProductHandler(svc, logger), meter, logger)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeError(t *testing.T, data []byte) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestServer_ProductLifecycle(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/bp/products"

	resp, data := do(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(data))

	resp, data = do(t, http.MethodGet, base+"/verification/trj-crd", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "false", string(bytes.TrimSpace(data)))

	resp, data = do(t, http.MethodPost, base, validBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, validBody, string(data))

	resp, data = do(t, http.MethodGet, base+"/verification/trj-crd", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", string(bytes.TrimSpace(data)))

	updated := bytes.Replace([]byte(validBody), []byte("Tarjeta de Credito"), []byte("Tarjeta Platinum"), 1)
	resp, data = do(t, http.MethodPut, base+"/trj-crd", string(updated))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "Tarjeta Platinum")

	resp, data = do(t, http.MethodGet, base+"/trj-crd", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "Tarjeta Platinum")

	resp, data = do(t, http.MethodDelete, base+"/trj-crd", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Product removed successfully"}`, string(data))

	resp, _ = do(t, http.MethodGet, base+"/trj-crd", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ErrorStatuses(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/bp/products"

	resp, _ := do(t, http.MethodPost, base, validBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("duplicate id conflicts", func(t *testing.T) {
		resp, data := do(t, http.MethodPost, base, validBody)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		body := decodeError(t, data)
		assert.Equal(t, "conflict", body.Error)
		assert.Equal(t, handler.MsgProductExists, body.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, data := do(t, http.MethodPost, base, `{"id":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, handler.MsgInvalidBody, decodeError(t, data).Message)
	})

	t.Run("validation failure", func(t *testing.T) {
		invalid := bytes.Replace([]byte(validBody), []byte("2027-11-01"), []byte("2028-05-01"), 1)
		resp, data := do(t, http.MethodPost, base, string(bytes.Replace(invalid, []byte("trj-crd"), []byte("trj-2"), 1)))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, domain.ErrInvalidRevisionDate.Error(), decodeError(t, data).Message)
	})

	t.Run("id mismatch on update", func(t *testing.T) {
		resp, _ := do(t, http.MethodPut, base+"/other-id", validBody)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("update unknown id", func(t *testing.T) {
		body := bytes.Replace([]byte(validBody), []byte("trj-crd"), []byte("missing"), 1)
		resp, data := do(t, http.MethodPut, base+"/missing", string(body))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, handler.MsgProductNotFound, decodeError(t, data).Message)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		resp, _ := do(t, http.MethodDelete, base+"/missing", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_HealthAndRequestID(t *testing.T) {
	ts := newTestServer(t)

	resp, data := do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(data))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/bp/products", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "client-req-7")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "client-req-7", resp.Header.Get("X-Request-ID"))
}
