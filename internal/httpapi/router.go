package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopifyoauth/internal/api"
	"shopifyoauth/internal/auth"
	"shopifyoauth/internal/metrics"
	"shopifyoauth/pkg/config"
	"shopifyoauth/pkg/logger"
)

type Dependencies struct {
	Cfg     config.Config
	Log     *zap.SugaredLogger
	Metrics *metrics.Collector
	Tracer  *api.Tracer

	// Exchanger overrides the production token exchanger (tests).
	Exchanger auth.TokenExchanger
}

func NewRouter(deps Dependencies) http.Handler {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	r := chi.NewRouter()
	r.Use(api.RequestID())
	r.Use(api.RequestLogger(deps.Log))
	r.Use(api.Recover(deps.Log))
	r.Use(deps.Tracer.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	authHandlers := auth.NewHandlers(deps.Cfg.Shopify, deps.Log, deps.Metrics)
	if deps.Exchanger != nil {
		authHandlers.Exchanger = deps.Exchanger
	}

	// Apps registered before the /v1 prefix existed redirect here.
	r.Get("/auth/callback", authHandlers.Callback)

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Get("/auth/install", authHandlers.Install)
		r.Get("/auth/callback", authHandlers.Callback)
	})

	return r
}
