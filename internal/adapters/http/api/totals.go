package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/outgoing/internal/domain/types"
)

const defaultHistoryDays = 7

// TotalsDependencies defines the points read models.
type TotalsDependencies interface {
	Totals(ctx context.Context) types.Totals
	History(ctx context.Context, days int) (types.History, error)
}

// TotalsHandler handles the totals and history routes.
type TotalsHandler struct {
	deps TotalsDependencies
}

// NewTotalsHandler creates a new totals handler.
func NewTotalsHandler(deps TotalsDependencies) *TotalsHandler {
	return &TotalsHandler{deps: deps}
}

// HandleGetTotals handles GET /totals.
func (h *TotalsHandler) HandleGetTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Totals(r.Context()))
}

// HandleGetHistory handles GET /history?days=N.
func (h *TotalsHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"

	days := defaultHistoryDays
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			fail(w, r, WrapKind(op, ErrBadRequest, err))
			return
		}
		days = n
	}

	hist, err := h.deps.History(r.Context(), days)
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, hist)
}
