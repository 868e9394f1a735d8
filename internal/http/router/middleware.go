package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tommy-mor/spare/internal/logging"
)

const requestTimeout = 60 * time.Second

func useBaseMiddlewares(r chi.Router, logger logging.Logger, metrics *Metrics) {
	// Request ID / Real IP / Recover
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(requestLogger(logger.With("component", "http")))
	if metrics != nil {
		r.Use(metrics.middleware)
	}

	r.Use(middleware.Timeout(requestTimeout))
}
