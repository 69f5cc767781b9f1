package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"livestock-records/docs"
	mem "livestock-records/internal/adapters/storage/memory"
	"livestock-records/internal/domain/breeds"
	"livestock-records/internal/domain/counters"
	"livestock-records/internal/domain/medicines"
	"livestock-records/internal/domain/records"
	"livestock-records/internal/domain/tags"
	"livestock-records/internal/domain/users"
	"livestock-records/internal/domain/vendors"
	"livestock-records/internal/middleware"
	"livestock-records/internal/platform/logger"
	"livestock-records/internal/ports/changes"
	"livestock-records/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si viene nil, store in-memory.
	Store store.Store
	// Opcional: si viene nil, los eventos de cambio se descartan.
	Publisher changes.Publisher
	Logger    logger.Logger

	// APIPrefix agrupa las rutas de registros y usuarios (default "/api").
	APIPrefix          string
	CORSAllowedOrigins []string
	RateLimit          middleware.RateLimiterConfig
	// Metrics opcional; si viene nil se crea uno propio.
	Metrics *middleware.Metrics
}

func NewRouter(ctx context.Context, opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	st := opts.Store
	if st == nil {
		memStore, err := mem.NewStore()
		if err != nil {
			return nil, err
		}
		st = memStore
	}

	prefix := "/" + strings.Trim(opts.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api"
	}

	origins := opts.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = middleware.NewMetrics("livestock")
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", chimw.RequestIDHeader},
		ExposedHeaders: []string{chimw.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware)
	r.Use(middleware.NewRateLimiter(opts.RateLimit).Middleware)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		pingCtx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := st.Ping(pingCtx); err != nil {
			log.Warn("health: store ping failed", map[string]any{"err": err})
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())

	docs.SwaggerInfo.BasePath = prefix
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	deps := records.Deps{Publisher: opts.Publisher, Logger: log}

	// Services por módulo
	breedsSvc, err := breeds.NewService(ctx, st, deps)
	if err != nil {
		return nil, fmt.Errorf("breeds: %w", err)
	}
	medicinesSvc, err := medicines.NewService(ctx, st, deps)
	if err != nil {
		return nil, fmt.Errorf("medicines: %w", err)
	}
	vendorsSvc, err := vendors.NewService(ctx, st, deps)
	if err != nil {
		return nil, fmt.Errorf("vendors: %w", err)
	}
	tagsSvc, err := tags.NewService(ctx, st, deps)
	if err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}
	usersSvc, err := users.NewService(ctx, st, log)
	if err != nil {
		return nil, err
	}
	countersSvc := counters.NewService(st)

	// Rutas por módulo
	r.Route(prefix, func(api chi.Router) {
		breeds.RegisterRoutes(api, breedsSvc)
		medicines.RegisterRoutes(api, medicinesSvc)
		vendors.RegisterRoutes(api, vendorsSvc)
		tags.RegisterRoutes(api, tagsSvc)
		users.RegisterRoutes(api, usersSvc)
		counters.RegisterRoutes(api, countersSvc)
	})

	return r, nil
}
