package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rfaria/buildplan/pkg/infrastructure/repositories/sqlite"
	"github.com/rfaria/buildplan/pkg/planner"
)

// Handler holds all dependencies for HTTP handlers. The store serves both
// as the source of record sets and the sink for persisted plan runs.
type Handler struct {
	Store         *sqlite.Store
	DefaultConfig planner.EngineConfig
}

// NewHandler creates a new handler backed by the given store
func NewHandler(store *sqlite.Store, defaults planner.EngineConfig) *Handler {
	return &Handler{
		Store:         store,
		DefaultConfig: defaults,
	}
}

// RunPlan executes a planning run against the stored record sets, persists
// the result and returns it.
// POST /api/plans
func (h *Handler) RunPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	engineConfig, err := h.engineConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plan request", err)
		return
	}

	engine := planner.NewEngineWithConfig(h.Store, h.Store, h.Store, h.Store, engineConfig)
	result, err := engine.Plan(ctx)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "planning run failed", err)
		return
	}

	if err := h.Store.SavePlanResult(ctx, result); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to persist plan", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPlanDTO(result))
}

// GetPlan returns a previously persisted planning run.
// GET /api/plans/{runID}
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid run ID", err)
		return
	}

	result, err := h.Store.GetPlanResult(ctx, runID)
	if err != nil {
		if errors.Is(err, sqlite.ErrPlanNotFound) {
			writeError(w, http.StatusNotFound, "plan not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load plan", err)
		return
	}

	writeJSON(w, http.StatusOK, toPlanDTO(result))
}

// Health reports service liveness.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// engineConfig merges request overrides into the server defaults
func (h *Handler) engineConfig(r *http.Request) (planner.EngineConfig, error) {
	cfg := h.DefaultConfig
	if r.Body == nil || r.ContentLength == 0 {
		return cfg, nil
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return cfg, err
	}

	if req.Unconstrained != "" {
		policy, err := planner.ParseUnconstrainedPolicy(req.Unconstrained)
		if err != nil {
			return cfg, err
		}
		cfg.Unconstrained = policy
	}
	if req.Reservation != "" {
		strategy, err := planner.ParseReservationStrategy(req.Reservation)
		if err != nil {
			return cfg, err
		}
		cfg.Reservation = strategy
	}
	if req.FulfillmentLedger != "" {
		source, err := planner.ParseLedgerSource(req.FulfillmentLedger)
		if err != nil {
			return cfg, err
		}
		cfg.FulfillmentLedger = source
	}
	if req.FulfillOrders != nil {
		cfg.FulfillOrders = *req.FulfillOrders
	}
	if req.EmitZeroRows != nil {
		cfg.EmitZeroRows = *req.EmitZeroRows
	}
	return cfg, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
