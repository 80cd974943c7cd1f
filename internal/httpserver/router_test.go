package httpserver_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"postgen/internal/httpserver"
	"postgen/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoutes struct {
	hits map[string]int
}

func (s *stubRoutes) hit(name string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.hits[name]++
		w.WriteHeader(status)
	}
}

func (s *stubRoutes) Generate(w http.ResponseWriter, r *http.Request) {
	s.hit("generate", http.StatusOK)(w, r)
}

func (s *stubRoutes) GetCredential(w http.ResponseWriter, r *http.Request) {
	s.hit("get_credential", http.StatusOK)(w, r)
}

func (s *stubRoutes) PutCredential(w http.ResponseWriter, r *http.Request) {
	s.hit("put_credential", http.StatusNoContent)(w, r)
}

func (s *stubRoutes) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	s.hit("delete_credential", http.StatusNoContent)(w, r)
}

func (s *stubRoutes) State(w http.ResponseWriter, r *http.Request) {
	panic("state exploded")
}

func newServer(t *testing.T) (*httptest.Server, *stubRoutes, *metrics.Metrics) {
	t.Helper()
	routes := &stubRoutes{hits: map[string]int{}}
	m := metrics.New()
	router := httpserver.NewRouter(httpserver.RouterDeps{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		API:      routes,
		Recorder: m,
		Metrics:  m.Handler(),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, routes, m
}

func send(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPing(t *testing.T) {
	srv, _, _ := newServer(t)

	resp := send(t, http.MethodGet, srv.URL+"/ping")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "pong", string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestAPIRoutes(t *testing.T) {
	srv, routes, m := newServer(t)

	assert.Equal(t, http.StatusOK, send(t, http.MethodPost, srv.URL+"/api/generate").StatusCode)
	assert.Equal(t, http.StatusOK, send(t, http.MethodGet, srv.URL+"/api/credential").StatusCode)
	assert.Equal(t, http.StatusNoContent, send(t, http.MethodPut, srv.URL+"/api/credential").StatusCode)
	assert.Equal(t, http.StatusNoContent, send(t, http.MethodDelete, srv.URL+"/api/credential").StatusCode)
	assert.Equal(t, http.StatusMethodNotAllowed, send(t, http.MethodGet, srv.URL+"/api/generate").StatusCode)

	assert.Equal(t, map[string]int{
		"generate":          1,
		"get_credential":    1,
		"put_credential":    1,
		"delete_credential": 1,
	}, routes.hits)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/api/generate", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("PUT", "/api/credential", "204")))
}

func TestPanicReturnsJSONError(t *testing.T) {
	srv, _, _ := newServer(t)

	resp := send(t, http.MethodGet, srv.URL+"/api/state")

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":{"code":"internal","message":"internal error"}}`, string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newServer(t)
	send(t, http.MethodPost, srv.URL+"/api/generate")

	resp := send(t, http.MethodGet, srv.URL+"/metrics")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "postgen_http_requests_total")
}

func TestRequestIDIsPropagated(t *testing.T) {
	srv, _, _ := newServer(t)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/ping", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
}
