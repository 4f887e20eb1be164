// Package repository defines the document store contract and its
// implementations. The store owns persistence, query filtering, id
// generation and result ordering; the domain packages only ever consume
// already-materialized snapshots read from here.
package repository

import (
	"context"
	"sort"

	"github.com/westcairo/scoreboard/internal/domain/model"
)

// Filter narrows a score query. Zero fields match everything.
type Filter struct {
	Date      string
	TeamID    string
	SubTeamID string
	MemberID  string
}

// Matches reports whether rec passes every set filter field.
func (f Filter) Matches(rec model.ScoreRecord) bool {
	switch {
	case f.Date != "" && rec.Date != f.Date:
		return false
	case f.TeamID != "" && rec.TeamID != f.TeamID:
		return false
	case f.SubTeamID != "" && rec.SubTeamID != f.SubTeamID:
		return false
	case f.MemberID != "" && rec.MemberID != f.MemberID:
		return false
	}
	return true
}

// Store provides read/write access to the scoreboard documents.
//
// Reads return ordered snapshots: teams and sub-teams by number, members by
// name, scores by date descending. Deletes cascade down the hierarchy.
type Store interface {
	// Teams returns the flat team list, without nested sub-teams.
	Teams(ctx context.Context) ([]model.Team, error)
	Team(ctx context.Context, teamID string) (model.Team, error)
	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)
	UpdateTeam(ctx context.Context, t model.Team) error
	DeleteTeam(ctx context.Context, teamID string) error

	SubTeams(ctx context.Context, teamID string) ([]model.SubTeam, error)
	SubTeam(ctx context.Context, teamID, subTeamID string) (model.SubTeam, error)
	CreateSubTeam(ctx context.Context, st model.SubTeam) (model.SubTeam, error)
	UpdateSubTeam(ctx context.Context, st model.SubTeam) error
	DeleteSubTeam(ctx context.Context, teamID, subTeamID string) error

	Members(ctx context.Context, teamID, subTeamID string) ([]model.Member, error)
	CreateMember(ctx context.Context, m model.Member) (model.Member, error)
	UpdateMember(ctx context.Context, m model.Member) error
	DeleteMember(ctx context.Context, teamID, subTeamID, memberID string) error

	Leaders(ctx context.Context) ([]model.Leader, error)
	Leader(ctx context.Context, leaderID string) (model.Leader, error)
	// LeaderByUser resolves an identity-provider account to its leader
	// entry. Returns ErrNotFound for accounts with no leader record.
	LeaderByUser(ctx context.Context, userID string) (model.Leader, error)
	// PutLeader upserts a leader directory entry; ids are assigned when
	// empty. Leader provisioning is a bootstrap concern and is not gated.
	PutLeader(ctx context.Context, l model.Leader) error

	Scores(ctx context.Context, f Filter) ([]model.ScoreRecord, error)
	Score(ctx context.Context, scoreID string) (model.ScoreRecord, error)
	CreateScore(ctx context.Context, rec model.ScoreRecord) (model.ScoreRecord, error)
	UpdateScore(ctx context.Context, rec model.ScoreRecord) error
	DeleteScore(ctx context.Context, scoreID string) error
}

// Ordering helpers shared by the store implementations.

func sortTeams(teams []model.Team) {
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Number < teams[j].Number })
}

func sortSubTeams(subTeams []model.SubTeam) {
	sort.SliceStable(subTeams, func(i, j int) bool { return subTeams[i].Number < subTeams[j].Number })
}

func sortMembers(members []model.Member) {
	sort.SliceStable(members, func(i, j int) bool { return members[i].Name < members[j].Name })
}

func sortLeaders(leaders []model.Leader) {
	sort.SliceStable(leaders, func(i, j int) bool { return leaders[i].ID < leaders[j].ID })
}

func sortScores(scores []model.ScoreRecord) {
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Date > scores[j].Date })
}
