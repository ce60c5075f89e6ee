package health

import (
	"context"
	"time"

	"adledger/internal/infrastructure/kv"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	store      kv.Store
	log        *slog.Logger
	middleware huma.Middlewares
	now        func() time.Time
}

func NewHandler(store kv.Store, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		store:      store,
		log:        log.With("component", "health_handler"),
		middleware: middleware,
		now:        time.Now,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.checkOp(), h.check)
}

func (h *Handler) check(ctx context.Context, _ *Input) (*Output, error) {
	started := h.now()
	err := kv.Ping(ctx, h.store)
	latency := h.now().Sub(started)

	if err != nil {
		h.log.Error("storage check failed", "error", err, "latency", latency)
		return nil, huma.Error503ServiceUnavailable("storage unavailable")
	}

	return &Output{
		Body: Response{
			Status:    "OK",
			Storage:   "ok",
			LatencyMS: latency.Milliseconds(),
		},
	}, nil
}
