package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/tommy-mor/spare/internal/http/apidocs"
	"github.com/tommy-mor/spare/internal/http/handlers/health"
	userhandler "github.com/tommy-mor/spare/internal/http/handlers/user"
	"github.com/tommy-mor/spare/internal/http/responses"
	"github.com/tommy-mor/spare/internal/logging"
)

const APIBasePath = "/api/v1"

// NewRouter wires every HTTP route. metrics may be nil, in which case
// neither the middleware nor /metrics is installed.
func NewRouter(
	logger logging.Logger,
	healthHandler *health.Handler,
	userHandler *userhandler.Handler,
	metrics *Metrics,
) chi.Router {
	r := chi.NewRouter()

	useBaseMiddlewares(r, logger, metrics)

	r.Route(APIBasePath, func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Get("/{id}", userHandler.GetByID)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	apidocs.SwaggerInfo.BasePath = APIBasePath
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.NotFound(responses.WriteNotFound)
	r.MethodNotAllowed(responses.WriteMethodNotAllowed)

	return r
}
