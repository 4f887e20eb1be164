package api

import (
	"net/http"

	"github.com/westcairo/scoreboard/internal/adapters/repository"
	"github.com/westcairo/scoreboard/internal/domain/model"
)

// ScoresHandler manages score submission and review.
type ScoresHandler struct {
	deps Dependencies
}

// NewScoresHandler creates a scores handler.
func NewScoresHandler(deps Dependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleListScores serves GET /scores. Query parameters: date, teamId,
// subTeamId, memberId.
func (h *ScoresHandler) HandleListScores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.Filter{
		Date:      q.Get("date"),
		TeamID:    q.Get("teamId"),
		SubTeamID: q.Get("subTeamId"),
		MemberID:  q.Get("memberId"),
	}
	scores, err := h.deps.Scores(r.Context(), roleFrom(r, h.deps), f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if scores == nil {
		scores = []model.ScoreRecord{}
	}
	writeJSON(w, http.StatusOK, scores)
}

// HandlePostScore serves POST /scores.
func (h *ScoresHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	var rec model.ScoreRecord
	if !decodeBody(w, r, &rec) {
		return
	}
	created, err := h.deps.SubmitScore(r.Context(), roleFrom(r, h.deps), rec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type updateScoreRequest struct {
	Scores      map[string]int `json:"scores"`
	Unavailable bool           `json:"unavailable"`
}

// HandleUpdateScore serves PUT /scores/{scoreID}.
func (h *ScoresHandler) HandleUpdateScore(w http.ResponseWriter, r *http.Request) {
	var req updateScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.deps.UpdateScore(r.Context(), roleFrom(r, h.deps),
		r.PathValue("scoreID"), req.Scores, req.Unavailable)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reviewScoreRequest struct {
	ReviewedScores map[string]int `json:"reviewedScores"`
}

// HandleReviewScore serves PUT /scores/{scoreID}/review.
func (h *ScoresHandler) HandleReviewScore(w http.ResponseWriter, r *http.Request) {
	var req reviewScoreRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.deps.ReviewScore(r.Context(), roleFrom(r, h.deps),
		r.PathValue("scoreID"), req.ReviewedScores)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteScore serves DELETE /scores/{scoreID}.
func (h *ScoresHandler) HandleDeleteScore(w http.ResponseWriter, r *http.Request) {
	err := h.deps.DeleteScore(r.Context(), roleFrom(r, h.deps), r.PathValue("scoreID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
