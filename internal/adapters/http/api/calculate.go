package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/pokecalc/internal/domain/model"
)

// CalculateDependencies defines the interface for calculation operations.
type CalculateDependencies interface {
	Calculate(ctx context.Context, req model.Request) (model.Record, error)
	CalculateBatch(ctx context.Context, reqs []model.Request) ([]model.BatchItem, error)
}

// CalculateHandler handles calculation requests.
type CalculateHandler struct {
	deps CalculateDependencies
}

// NewCalculateHandler creates a new calculate handler.
func NewCalculateHandler(deps CalculateDependencies) *CalculateHandler {
	return &CalculateHandler{deps: deps}
}

// HandleCalculate handles POST /calculate requests.
func (h *CalculateHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "api.calculate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req model.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateRequest(req); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	rec, err := h.deps.Calculate(r.Context(), req)
	if err != nil {
		writeKindError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleBatch handles POST /calculate/batch requests.
func (h *CalculateHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.calculate_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var body batchRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	for i, req := range body.Requests {
		if err := validateRequest(req); err != nil {
			writeKindError(w, WrapKind(op, ErrBadRequest, fmt.Errorf("requests[%d]: %w", i, err)))
			return
		}
	}

	items, err := h.deps.CalculateBatch(r.Context(), body.Requests)
	if err != nil {
		writeKindError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Items: items})
}
