package api

import (
	"context"
	"net/http"

	"github.com/okian/pokecalc/internal/domain/model"
)

// ExampleDependencies runs the built-in example matchup.
type ExampleDependencies interface {
	Example(ctx context.Context) (model.Record, error)
}

// ExampleHandler handles example requests.
type ExampleHandler struct {
	deps ExampleDependencies
}

// NewExampleHandler creates a new example handler.
func NewExampleHandler(deps ExampleDependencies) *ExampleHandler {
	return &ExampleHandler{deps: deps}
}

// HandleExample handles GET /example requests.
func (h *ExampleHandler) HandleExample(w http.ResponseWriter, r *http.Request) {
	const op = "api.example"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rec, err := h.deps.Example(r.Context())
	if err != nil {
		writeKindError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
