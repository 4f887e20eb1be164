// Package auth defines the role model and the pure permission predicates
// consulted before any mutation. The role value is always an explicit
// argument; nothing here reads ambient session state.
package auth

import "github.com/westcairo/scoreboard/internal/domain/model"

// Action is one of the fixed enumerated capabilities.
type Action string

// The full action set. Every action resolves to true or false for every
// known leader type; unknown actions resolve to false (fail-closed).
const (
	ActionViewLeaderboard    Action = "view_leaderboard"
	ActionViewDashboard      Action = "view_dashboard"
	ActionManageTeams        Action = "manage_teams"
	ActionManageSubTeams     Action = "manage_subteams"
	ActionManageMembers      Action = "manage_members"
	ActionSubmitScores       Action = "submit_scores"
	ActionReviewScores       Action = "review_scores"
	ActionEditReviewedScores Action = "edit_reviewed_scores"
)

// Actions lists every known action, in declaration order.
func Actions() []Action {
	return []Action{
		ActionViewLeaderboard,
		ActionViewDashboard,
		ActionManageTeams,
		ActionManageSubTeams,
		ActionManageMembers,
		ActionSubmitScores,
		ActionReviewScores,
		ActionEditReviewedScores,
	}
}

// Role is the caller's role descriptor. The zero value is a guest.
type Role struct {
	Type      model.LeaderType
	LeaderID  string
	TeamID    string // set when Type is branch (and, for display, subTeam)
	SubTeamID string // set when Type is subTeam
}

// Guest returns the no-permission role used for unauthenticated callers.
func Guest() Role {
	return Role{Type: model.LeaderGuest}
}

// RoleOf derives a role from a leader directory entry.
func RoleOf(l model.Leader) Role {
	return Role{
		Type:      l.Type,
		LeaderID:  l.ID,
		TeamID:    l.TeamID,
		SubTeamID: l.SubTeamID,
	}
}

// IsGuest reports whether the role carries no elevated type.
func (r Role) IsGuest() bool {
	switch r.Type {
	case model.LeaderAdmin, model.LeaderBranch, model.LeaderSubTeam:
		return false
	}
	return true
}

// HasPermission resolves action for this role. The mapping is static and
// total; guests get false for every action. Note that the leaderboard view
// itself is rendered openly by the presentation layer; this predicate
// governs dashboard and mutation gating.
func (r Role) HasPermission(action Action) bool {
	if r.IsGuest() {
		return false
	}
	switch action {
	case ActionViewLeaderboard:
		return true
	case ActionViewDashboard, ActionManageMembers, ActionSubmitScores:
		return true // any elevated type
	case ActionManageTeams:
		return r.Type == model.LeaderAdmin
	case ActionManageSubTeams:
		return r.Type == model.LeaderAdmin || r.Type == model.LeaderBranch
	case ActionReviewScores, ActionEditReviewedScores:
		return r.Type == model.LeaderAdmin
	}
	return false
}

// CanManageTeam reports whether the role may mutate the given team.
func (r Role) CanManageTeam(teamID string) bool {
	switch r.Type {
	case model.LeaderAdmin:
		return true
	case model.LeaderBranch:
		return r.TeamID != "" && r.TeamID == teamID
	}
	return false
}

// CanManageSubTeam reports whether the role may mutate the given sub-team.
//
// Branch leaders pass for any sub-team as long as they have a team scope;
// whether the sub-team actually belongs to their team is not checked here.
// That matches the shipped policy; see Policy for the tightened variant.
func (r Role) CanManageSubTeam(subTeamID string) bool {
	switch r.Type {
	case model.LeaderAdmin:
		return true
	case model.LeaderBranch:
		return r.TeamID != ""
	case model.LeaderSubTeam:
		return r.SubTeamID != "" && r.SubTeamID == subTeamID
	}
	return false
}

// CanSubmitScores reports whether the role may submit or edit score records
// for the given team/sub-team pair.
func (r Role) CanSubmitScores(teamID, subTeamID string) bool {
	switch r.Type {
	case model.LeaderAdmin:
		return true
	case model.LeaderBranch:
		return r.TeamID != "" && r.TeamID == teamID
	case model.LeaderSubTeam:
		return r.SubTeamID != "" && r.SubTeamID == subTeamID
	}
	return false
}
