package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/westcairo/scoreboard/internal/domain/model"
)

// TeamsHandler manages the team, sub-team, and member hierarchy.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleCreateTeam serves POST /teams.
func (h *TeamsHandler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var t model.Team
	if !decodeBody(w, r, &t) {
		return
	}
	created, err := h.deps.CreateTeam(r.Context(), roleFrom(r, h.deps), t)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateTeam serves PUT /teams/{teamID}.
func (h *TeamsHandler) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var t model.Team
	if !decodeBody(w, r, &t) {
		return
	}
	t.ID = r.PathValue("teamID")
	if err := h.deps.UpdateTeam(r.Context(), roleFrom(r, h.deps), t); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteTeam serves DELETE /teams/{teamID}.
func (h *TeamsHandler) HandleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	err := h.deps.DeleteTeam(r.Context(), roleFrom(r, h.deps), r.PathValue("teamID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateSubTeam serves POST /teams/{teamID}/subteams.
func (h *TeamsHandler) HandleCreateSubTeam(w http.ResponseWriter, r *http.Request) {
	var st model.SubTeam
	if !decodeBody(w, r, &st) {
		return
	}
	st.TeamID = r.PathValue("teamID")
	created, err := h.deps.CreateSubTeam(r.Context(), roleFrom(r, h.deps), st)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateSubTeam serves PUT /teams/{teamID}/subteams/{subTeamID}.
func (h *TeamsHandler) HandleUpdateSubTeam(w http.ResponseWriter, r *http.Request) {
	var st model.SubTeam
	if !decodeBody(w, r, &st) {
		return
	}
	st.TeamID = r.PathValue("teamID")
	st.ID = r.PathValue("subTeamID")
	if err := h.deps.UpdateSubTeam(r.Context(), roleFrom(r, h.deps), st); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteSubTeam serves DELETE /teams/{teamID}/subteams/{subTeamID}.
func (h *TeamsHandler) HandleDeleteSubTeam(w http.ResponseWriter, r *http.Request) {
	err := h.deps.DeleteSubTeam(r.Context(), roleFrom(r, h.deps),
		r.PathValue("teamID"), r.PathValue("subTeamID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateMember serves POST /teams/{teamID}/subteams/{subTeamID}/members.
func (h *TeamsHandler) HandleCreateMember(w http.ResponseWriter, r *http.Request) {
	var m model.Member
	if !decodeBody(w, r, &m) {
		return
	}
	m.TeamID = r.PathValue("teamID")
	m.SubTeamID = r.PathValue("subTeamID")
	created, err := h.deps.CreateMember(r.Context(), roleFrom(r, h.deps), m)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateMember serves PUT /teams/{teamID}/subteams/{subTeamID}/members/{memberID}.
func (h *TeamsHandler) HandleUpdateMember(w http.ResponseWriter, r *http.Request) {
	var m model.Member
	if !decodeBody(w, r, &m) {
		return
	}
	m.TeamID = r.PathValue("teamID")
	m.SubTeamID = r.PathValue("subTeamID")
	m.ID = r.PathValue("memberID")
	if err := h.deps.UpdateMember(r.Context(), roleFrom(r, h.deps), m); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteMember serves DELETE /teams/{teamID}/subteams/{subTeamID}/members/{memberID}.
func (h *TeamsHandler) HandleDeleteMember(w http.ResponseWriter, r *http.Request) {
	err := h.deps.DeleteMember(r.Context(), roleFrom(r, h.deps),
		r.PathValue("teamID"), r.PathValue("subTeamID"), r.PathValue("memberID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeBody parses the JSON request body into v. On failure it writes a 400
// response and reports false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: %v", ErrBadRequest, err))
		return false
	}
	return true
}
