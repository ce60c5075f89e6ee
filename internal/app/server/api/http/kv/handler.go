package kv

import (
	"context"
	"fmt"
	"net/http"

	"adledger/internal/infrastructure/kv"
	"adledger/internal/metrics"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	store         kv.Store
	log           *slog.Logger
	middleware    huma.Middlewares
	maxValueBytes int64
}

func NewHandler(store kv.Store, log *slog.Logger, mws huma.Middlewares, maxValueBytes int64) *Handler {
	return &Handler{
		store:         store,
		log:           log.With("component", "kv_handler"),
		middleware:    mws,
		maxValueBytes: maxValueBytes,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.putOp(), h.put)
}

func (h *Handler) get(ctx context.Context, input *getInput) (*getOutput, error) {
	value, err := h.store.Get(ctx, input.Key)
	if err != nil {
		metrics.KVOperationsTotal.WithLabelValues("get", metrics.ResultError).Inc()
		h.log.Error("failed to read entry", "key", input.Key, "error", err)
		return nil, huma.Error503ServiceUnavailable("storage unavailable")
	}
	if value == nil {
		metrics.KVOperationsTotal.WithLabelValues("get", metrics.ResultMiss).Inc()
		return nil, huma.Error404NotFound(fmt.Sprintf("no entry for key %q", input.Key))
	}

	metrics.KVOperationsTotal.WithLabelValues("get", metrics.ResultHit).Inc()
	return &getOutput{
		Body: entryResponse{Key: input.Key, Value: value},
	}, nil
}

func (h *Handler) put(ctx context.Context, input *putInput) (*putOutput, error) {
	if int64(len(input.Body.Value)) > h.maxValueBytes {
		return nil, huma.NewError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("value exceeds %d bytes", h.maxValueBytes))
	}

	if err := h.store.Set(ctx, input.Key, input.Body.Value); err != nil {
		metrics.KVOperationsTotal.WithLabelValues("set", metrics.ResultError).Inc()
		h.log.Error("failed to write entry", "key", input.Key, "error", err)
		return nil, huma.Error503ServiceUnavailable("storage unavailable")
	}

	metrics.KVOperationsTotal.WithLabelValues("set", metrics.ResultOK).Inc()
	metrics.KVValueBytes.Observe(float64(len(input.Body.Value)))
	h.log.Debug("entry stored", "key", input.Key, "bytes", len(input.Body.Value))

	return &putOutput{
		Body: putResponse{Key: input.Key, Status: "stored"},
	}, nil
}
