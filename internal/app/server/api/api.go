// Package api exposes a flat key-value store over HTTP:
//
//	GET  /api/v1/health     # service and storage reachability
//	GET  /api/v1/kv/{key}   # read an entry, 404 when absent
//	PUT  /api/v1/kv/{key}   # replace an entry, last writer wins
//	GET  /metrics           # prometheus exposition
//
// There are no transactions, list operations or conditional writes.
package api

import (
	healthAPI "adledger/internal/app/server/api/http/health"
	kvAPI "adledger/internal/app/server/api/http/kv"
	"adledger/internal/app/server/api/http/middleware"
	"adledger/internal/app/server/api/http/middleware/logger"
	metricsMW "adledger/internal/app/server/api/http/middleware/metrics"
	"adledger/internal/infrastructure/kv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"
)

const defaultMaxValueBytes = 1 << 20

type Handlers struct {
	Health *healthAPI.Handler
	KV     *kvAPI.Handler
}

type Options struct {
	MaxValueBytes int64
}

// New создает *chi.Mux со всеми операциями, зарегистрированными через huma.
func New(store kv.Store, log *slog.Logger, opts Options) *chi.Mux {
	if opts.MaxValueBytes <= 0 {
		opts.MaxValueBytes = defaultMaxValueBytes
	}

	mux := chi.NewMux()
	mux.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	mux.Handle("/metrics", promhttp.Handler())

	config := huma.DefaultConfig("Ad Ledger Store API", "1.0.0")
	API := humachi.New(mux, config)

	h := handlers(store, log, opts)
	h.Health.SetupRoutes(API)
	h.KV.SetupRoutes(API)

	return mux
}

func handlers(store kv.Store, log *slog.Logger, opts Options) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(store, log, middlewares.GetAllAndClear())

	middlewares.Add(metricsMW.Middleware())
	middlewares.Add(loggerMW.Middleware())
	kvHandler := kvAPI.NewHandler(store, log, middlewares.GetAllAndClear(), opts.MaxValueBytes)

	return &Handlers{
		Health: healthHandler,
		KV:     kvHandler,
	}
}
