package api

import (
	"context"
	"net/http"

	"github.com/okian/outgoing/internal/domain/types"
)

// ChallengeDependencies defines the challenge tracker operations.
type ChallengeDependencies interface {
	CurrentChallenge(ctx context.Context) (types.Challenge, error)
	CompleteChallenge(ctx context.Context) (types.Completion, error)
	Progress(ctx context.Context) []types.ProgressDay
}

// ChallengeHandler handles the seven-day challenge routes.
type ChallengeHandler struct {
	deps ChallengeDependencies
}

// NewChallengeHandler creates a new challenge handler.
func NewChallengeHandler(deps ChallengeDependencies) *ChallengeHandler {
	return &ChallengeHandler{deps: deps}
}

// HandleGetChallenge handles GET /challenge.
func (h *ChallengeHandler) HandleGetChallenge(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_challenge"
	cur, err := h.deps.CurrentChallenge(r.Context())
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, cur)
}

// HandleComplete handles POST /challenge/complete.
func (h *ChallengeHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	const op = "api.complete_challenge"
	res, err := h.deps.CompleteChallenge(r.Context())
	if err != nil {
		fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGetProgress handles GET /progress.
func (h *ChallengeHandler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Progress(r.Context()))
}
