package api

import (
	"context"
	"net/http"

	"github.com/okian/pokecalc/internal/domain/policy"
)

// ChooseDependencies picks the next action for a battle state.
type ChooseDependencies interface {
	Choose(ctx context.Context, st policy.State) (policy.Decision, error)
}

// ChooseHandler handles move-choice requests.
type ChooseHandler struct {
	deps ChooseDependencies
}

// NewChooseHandler creates a new choose handler.
func NewChooseHandler(deps ChooseDependencies) *ChooseHandler {
	return &ChooseHandler{deps: deps}
}

// HandleChoose handles POST /choose requests.
func (h *ChooseHandler) HandleChoose(w http.ResponseWriter, r *http.Request) {
	const op = "api.choose"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var st policy.State
	if err := decodeJSON(w, r, &st); err != nil {
		writeKindError(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	d, err := h.deps.Choose(r.Context(), st)
	if err != nil {
		writeKindError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, d)
}
