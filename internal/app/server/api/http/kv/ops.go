package kv

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "kv-get",
		Method:      http.MethodGet,
		Path:        "/api/v1/kv/{key}",
		Summary:     "Read an entry",
		Description: "Returns the bytes stored under key, or 404 when the key has never been written.",
		Tags:        []string{"kv"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) putOp() huma.Operation {
	return huma.Operation{
		OperationID:  "kv-put",
		Method:       http.MethodPut,
		Path:         "/api/v1/kv/{key}",
		Summary:      "Write an entry",
		Description:  "Replaces the value under key. There is no conditional write; the last writer wins.",
		Tags:         []string{"kv"},
		MaxBodyBytes: h.maxValueBytes*4/3 + 1024,
		Middlewares:  h.middleware,
	}
}
