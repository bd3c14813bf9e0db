// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/pokecalc/internal/domain/model"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CalculateDependencies
	HistoryDependencies
	ExampleDependencies
	ChooseDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	calculateHandler *CalculateHandler
	historyHandler   *HistoryHandler
	exampleHandler   *ExampleHandler
	chooseHandler    *ChooseHandler
}

// NewServer creates a new API server with all handlers.
// maxLimit caps the limit accepted by GET /calculations.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		calculateHandler: NewCalculateHandler(deps),
		historyHandler:   NewHistoryHandler(deps, maxLimit),
		exampleHandler:   NewExampleHandler(deps),
		chooseHandler:    NewChooseHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/calculate", MetricsMiddleware(s.calculateHandler.HandleCalculate, "calculate"))
	mux.HandleFunc("/calculate/batch", MetricsMiddleware(s.calculateHandler.HandleBatch, "calculate_batch"))
	mux.HandleFunc("/calculations", MetricsMiddleware(s.historyHandler.HandleList, "calculations"))
	mux.HandleFunc("/calculations/", MetricsMiddleware(s.historyHandler.HandleGet, "calculation"))
	mux.HandleFunc("/example", MetricsMiddleware(s.exampleHandler.HandleExample, "example"))
	mux.HandleFunc("/choose", MetricsMiddleware(s.chooseHandler.HandleChoose, "choose"))
}

// batchRequest is the body of POST /calculate/batch.
type batchRequest struct {
	Requests []model.Request `json:"requests"`
}

type batchResponse struct {
	Items []model.BatchItem `json:"items"`
}

type listResponse struct {
	Calculations []model.Record `json:"calculations"`
}

// validateRequest checks the fields the calculator cannot default.
func validateRequest(req model.Request) error {
	switch {
	case strings.TrimSpace(req.Attacker.Name) == "":
		return errors.New("missing attacker.name")
	case strings.TrimSpace(req.Defender.Name) == "":
		return errors.New("missing defender.name")
	case strings.TrimSpace(req.Move.Name) == "":
		return errors.New("missing move.name")
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeKindError picks the status from the error's kind.
func writeKindError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrUnprocessable):
		writeError(w, http.StatusUnprocessableEntity, "invalid_calculation", err)
	case errors.Is(err, ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
