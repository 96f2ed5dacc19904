package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/bher20/tariffmanager/docs" // registers the swagger spec

	"github.com/bher20/tariffmanager/internal/auth"
	"github.com/bher20/tariffmanager/internal/billing"
	"github.com/bher20/tariffmanager/internal/catalog"
	"github.com/bher20/tariffmanager/internal/compare"
	"github.com/bher20/tariffmanager/internal/config"
	"github.com/bher20/tariffmanager/internal/notification"
	"github.com/bher20/tariffmanager/internal/tariff"
)

// Pinger reports storage readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogSyncer runs the catalog sync job on demand.
type CatalogSyncer interface {
	RunJob(ctx context.Context) (ran bool, added int, err error)
}

// Deps are the services the HTTP layer exposes. Auth and Syncer may be nil;
// a nil Auth serves every route unauthenticated.
type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Storage Pinger
	Catalog *catalog.Store
	Compare *compare.Service
	Mailer  *notification.Service
	Auth    *auth.Service
	Syncer  CatalogSyncer
}

// Handler holds the API endpoints.
type Handler struct {
	catalog   *catalog.Store
	compare   *compare.Service
	mailer    *notification.Service
	syncer    CatalogSyncer
	regulated billing.Regulated
	segment   tariff.Segment
	logger    *zap.Logger
}

// NewRouter builds the chi router with middleware, probes, metrics,
// swagger and the /api/v1 routes.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := d.Config

	h := &Handler{
		catalog:   d.Catalog,
		compare:   d.Compare,
		mailer:    d.Mailer,
		syncer:    d.Syncer,
		regulated: cfg.Regulated,
		segment:   tariff.SegmentResidential,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Recovery(logger))
	r.Use(Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}))
	if cfg.Server.RateLimit > 0 {
		r.Use(httprate.LimitByIP(cfg.Server.RateLimit, time.Minute))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Storage != nil {
			if err := d.Storage.Ping(r.Context()); err != nil {
				logger.Warn("readyz: storage ping failed", zap.Error(err))
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())
	if cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	require := func(obj, act string) func(http.Handler) http.Handler {
		if d.Auth == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return d.Auth.RequirePermission(obj, act)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if d.Auth != nil {
			r.Use(d.Auth.Middleware)
		}
		if cfg.Server.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.Server.RequestTimeoutDuration()))
		}

		r.Route("/tariffs", func(r chi.Router) {
			r.With(require(auth.ObjTariffs, auth.ActRead)).Get("/", h.ListTariffs)
			r.With(require(auth.ObjTariffs, auth.ActWrite)).Post("/", h.CreateTariff)
			r.With(require(auth.ObjTariffs, auth.ActRead)).Get("/{id}", h.GetTariff)
			r.With(require(auth.ObjTariffs, auth.ActWrite)).Patch("/{id}", h.UpdateTariff)
			r.With(require(auth.ObjTariffs, auth.ActWrite)).Delete("/{id}", h.DeleteTariff)
		})

		r.Route("/comparisons", func(r chi.Router) {
			r.With(require(auth.ObjComparisons, auth.ActRead)).Post("/evaluate", h.EvaluateComparison)
			r.With(require(auth.ObjComparisons, auth.ActWrite)).Post("/", h.SaveComparison)
			r.With(require(auth.ObjComparisons, auth.ActRead)).Get("/", h.ListComparisons)
			r.With(require(auth.ObjComparisons, auth.ActRead)).Get("/{id}", h.GetComparison)
			r.With(require(auth.ObjComparisons, auth.ActRead)).Get("/{id}/pdf", h.ComparisonPDF)
			r.With(require(auth.ObjComparisons, auth.ActRead)).Get("/{id}/xlsx", h.ComparisonXLSX)
			r.With(require(auth.ObjComparisons, auth.ActWrite)).Post("/{id}/send", h.SendComparison)
		})

		r.With(require(auth.ObjInvoices, auth.ActWrite)).Post("/invoices/parse", h.ParseInvoice)
		r.With(require(auth.ObjCatalogSync, auth.ActWrite)).Post("/catalog/sync", h.SyncCatalog)
	})

	return r
}
