package health

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/tommy-mor/spare/internal/http/apidocs"
	"github.com/tommy-mor/spare/internal/http/responses"
)

const (
	statusOK       = "ok"
	statusError    = "error"
	statusDisabled = "disabled"
	statusDegraded = "degraded"

	pingTimeout = 2 * time.Second
)

// Pinger is satisfied by *db.Client and *cache.RedisClient.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db    Pinger
	cache Pinger
}

// NewHandler accepts nil for backends that are not configured.
func NewHandler(db Pinger, cache Pinger) *Handler {
	return &Handler{
		db:    db,
		cache: cache,
	}
}

// Check GET /health
//
// @Summary  Service health
// @Tags     health
// @Produce  json
// @Success  200  {object} apidocs.HealthResponse
// @Failure  503  {object} apidocs.HealthResponse
// @Router   /health [get]
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	resp := apidocs.HealthResponse{
		Status: statusOK,
		DB:     ping(ctx, h.db),
		Redis:  ping(ctx, h.cache),
	}
	if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
		resp.TraceID = sc.TraceID().String()
	}

	status := http.StatusOK
	if resp.DB == statusError || resp.Redis == statusError {
		resp.Status = statusDegraded
		status = http.StatusServiceUnavailable
	}

	responses.WriteJSON(w, status, resp)
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return statusDisabled
	}
	if err := p.Ping(ctx); err != nil {
		return statusError
	}
	return statusOK
}
