package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/j-evans1/CPR/internal/usecase"
)

const maxJobRequestBytes = 64 << 10

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

type warmCacheRequest struct {
	Sources    []string `json:"sources" validate:"omitempty,dive,required"`
	MaxWorkers int      `json:"max_workers" validate:"omitempty,gte=1,lte=64"`
}

func (h *Handler) RunWarmCacheJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWarmCacheJob")
	defer span.End()

	if h.cacheWarmService == nil {
		writeError(ctx, w, fmt.Errorf("%w: cache warm job is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeWarmCacheRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.cacheWarmService.Warm(ctx, usecase.CacheWarmInput{
		Sources:    req.Sources,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run warm cache job failed", "sources", req.Sources, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cacheWarmToDTO(result))
}

// decodeWarmCacheRequest accepts an empty body as "warm everything".
func decodeWarmCacheRequest(r *http.Request) (warmCacheRequest, error) {
	var req warmCacheRequest
	if r.Body == nil {
		return req, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxJobRequestBytes+1))
	if err != nil {
		return req, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) > maxJobRequestBytes {
		return req, fmt.Errorf("%w: request body too large", usecase.ErrInvalidInput)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	if err := strictJSON.Unmarshal(body, &req); err != nil {
		return warmCacheRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return req, nil
}
