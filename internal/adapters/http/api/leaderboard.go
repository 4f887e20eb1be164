package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/westcairo/scoreboard/internal/adapters/repository"
	"github.com/westcairo/scoreboard/internal/domain/leaderboard"
	"github.com/westcairo/scoreboard/pkg/datekey"
)

// LeaderboardHandler serves the aggregated leaderboard views.
type LeaderboardHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewLeaderboardHandler creates a leaderboard handler. maxLimit caps the
// number of entries returned per view.
func NewLeaderboardHandler(deps Dependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetLeaderboard serves GET /leaderboard.
//
// Query parameters: date (day key, defaults to all days), teamId, subTeamId,
// limit (capped at the configured maximum).
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := repository.Filter{
		Date:      q.Get("date"),
		TeamID:    q.Get("teamId"),
		SubTeamID: q.Get("subTeamId"),
	}
	if f.Date != "" && !datekey.Valid(f.Date) {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: date must look like %s", ErrBadRequest, datekey.Layout))
		return
	}

	limit := h.maxLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request",
				fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if n < limit {
			limit = n
		}
	}

	views, err := h.deps.Leaderboard(r.Context(), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views.Achievers = capEntries(views.Achievers, limit)
	views.All = capEntries(views.All, limit)
	writeJSON(w, http.StatusOK, views)
}

func capEntries(entries []leaderboard.Entry, limit int) []leaderboard.Entry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
