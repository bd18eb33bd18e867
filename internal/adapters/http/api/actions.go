package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/outgoing/internal/domain/types"
)

// ActionDependencies defines the action ledger operations.
type ActionDependencies interface {
	Actions(ctx context.Context) []types.ActionCategory
	LogAction(ctx context.Context, actionID, requestID string) (types.LogResult, error)
	Log(ctx context.Context, limit int) ([]types.LogEntry, error)
	MaxLogLimit() int
}

// ActionsHandler handles the action catalog and log routes.
type ActionsHandler struct {
	deps ActionDependencies
}

// NewActionsHandler creates a new actions handler.
func NewActionsHandler(deps ActionDependencies) *ActionsHandler {
	return &ActionsHandler{deps: deps}
}

// HandleListActions handles GET /actions.
func (h *ActionsHandler) HandleListActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Actions(r.Context()))
}

// HandleLogAction handles POST /actions/{id}/log. The body is optional.
func (h *ActionsHandler) HandleLogAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.log_action"

	var req types.LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.LogAction(r.Context(), chi.URLParam(r, "id"), req.RequestID)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	status := http.StatusCreated
	if res.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

// HandleGetLog handles GET /log?limit=N. Without limit the configured maximum is used.
func (h *ActionsHandler) HandleGetLog(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_log"

	limit := h.deps.MaxLogLimit()
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			fail(w, r, WrapKind(op, ErrBadRequest, err))
			return
		}
		limit = n
	}

	entries, err := h.deps.Log(r.Context(), limit)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
