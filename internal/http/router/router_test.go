package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	appuser "github.com/tommy-mor/spare/internal/app/user"
	"github.com/tommy-mor/spare/internal/cache"
	"github.com/tommy-mor/spare/internal/db"
	"github.com/tommy-mor/spare/internal/db/repository"
	"github.com/tommy-mor/spare/internal/http/handlers/health"
	userhandler "github.com/tommy-mor/spare/internal/http/handlers/user"
	"github.com/tommy-mor/spare/internal/logging"
)

func newTestRouter(metrics *Metrics) chi.Router {
	logger := logging.NewNop()
	svc := appuser.NewService(
		repository.NewMemoryUserRepository(),
		cache.NoopUserCache{},
		db.NoopTransactor{},
		appuser.NoopEvents{},
		logger,
	)
	return NewRouter(logger, health.NewHandler(nil, nil), userhandler.NewHandler(svc, logger), metrics)
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(NewMetrics(prometheus.NewRegistry()))

	var routes []string
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+strings.TrimSuffix(route, "/"))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(routes)

	require.Subset(t, routes, []string{
		"DELETE /api/v1/users/{id}",
		"GET /api/v1/health",
		"GET /api/v1/users",
		"GET /api/v1/users/{id}",
		"GET /metrics",
		"GET /swagger/*",
		"POST /api/v1/users",
		"PUT /api/v1/users/{id}",
	})
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUserScenario(t *testing.T) {
	r := newTestRouter(nil)

	rec := serve(r, http.MethodPost, "/api/v1/users", `{"email":"test@example.com","name":"Test User"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	require.Equal(t, "test@example.com", created["email"])
	id, ok := created["id"].(string)
	require.True(t, ok)

	rec = serve(r, http.MethodGet, "/api/v1/users/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, id, decodeBody(t, rec)["id"])

	rec = serve(r, http.MethodPut, "/api/v1/users/"+id, `{"name":"Updated Name"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Updated Name", decodeBody(t, rec)["name"])

	rec = serve(r, http.MethodDelete, "/api/v1/users/"+id, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(r, http.MethodPost, "/api/v1/users", `{"email":"invalid","name":"Test"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid email", decodeBody(t, rec)["error"])

	rec = serve(r, http.MethodGet, "/api/v1/users/nonexistent", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "User not found", decodeBody(t, rec)["error"])
}

func TestFallbackHandlers(t *testing.T) {
	r := newTestRouter(nil)

	rec := serve(r, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Resource not found", decodeBody(t, rec)["error"])

	rec = serve(r, http.MethodPatch, "/api/v1/users/abc", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "Method not allowed", decodeBody(t, rec)["error"])
}

func TestHealthWithoutBackends(t *testing.T) {
	r := newTestRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "disabled", body["db"])
	require.Equal(t, "disabled", body["redis"])
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(NewMetrics(prometheus.NewRegistry()))

	serve(r, http.MethodGet, "/api/v1/users/nonexistent", "")

	rec := serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `http_requests_total{code="404",method="GET",route="/api/v1/users/{id}"} 1`)
	require.Contains(t, rec.Body.String(), "http_request_duration_seconds")
}

func TestMetricsDisabled(t *testing.T) {
	r := newTestRouter(nil)

	rec := serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSwaggerDoc(t *testing.T) {
	r := newTestRouter(nil)

	rec := serve(r, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/users/{id}")
	require.Contains(t, rec.Body.String(), "/api/v1")
}
