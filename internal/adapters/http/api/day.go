package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/outgoing/internal/domain/types"
)

// DayDependencies defines the view selection and day rollover operations.
type DayDependencies interface {
	View(ctx context.Context) types.ViewState
	SelectView(ctx context.Context, view string) (types.ViewState, error)
	StartNewDay(ctx context.Context) types.Rollover
}

// DayHandler handles the view and rollover routes.
type DayHandler struct {
	deps DayDependencies
}

// NewDayHandler creates a new day handler.
func NewDayHandler(deps DayDependencies) *DayHandler {
	return &DayHandler{deps: deps}
}

// HandleGetView handles GET /view.
func (h *DayHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.View(r.Context()))
}

// HandlePutView handles PUT /view.
func (h *DayHandler) HandlePutView(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_view"

	var req types.ViewState
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	v, err := h.deps.SelectView(r.Context(), req.View)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleRollover handles POST /day/rollover.
func (h *DayHandler) HandleRollover(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.StartNewDay(r.Context()))
}
