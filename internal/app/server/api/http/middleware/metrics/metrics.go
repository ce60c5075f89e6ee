package metrics

import (
	"strconv"
	"time"

	"adledger/internal/metrics"

	"github.com/danielgtaylor/huma/v2"
)

// Middleware records request count and latency per operation.
func Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		operation := "unknown"
		if op := ctx.Operation(); op != nil {
			operation = op.OperationID
		}
		status := ctx.Status()
		if status == 0 {
			status = 200
		}

		metrics.HTTPRequestsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
