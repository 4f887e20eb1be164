// Package model contains domain models passed between layers.
package model

import "time"

// LeaderType determines the permission scope of a leader.
type LeaderType string

// Known leader types. Anything else is treated as a guest.
const (
	LeaderAdmin   LeaderType = "admin"
	LeaderBranch  LeaderType = "branch"
	LeaderSubTeam LeaderType = "subTeam"
	LeaderGuest   LeaderType = "guest"
)

// Team is the top level of the organizational hierarchy.
// SubTeams is populated only on fully-joined snapshots; flat store reads
// leave it nil.
type Team struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Number   int       `json:"number"` // display ordering hint
	LeaderID string    `json:"leaderId,omitempty"`
	SubTeams []SubTeam `json:"subTeams,omitempty"`
}

// SubTeam groups members under a team.
type SubTeam struct {
	ID          string   `json:"id"`
	TeamID      string   `json:"teamId"`
	Name        string   `json:"name"`
	Number      int      `json:"number"`
	Color       string   `json:"color,omitempty"` // display hint only
	LeaderID    string   `json:"leaderId,omitempty"`
	TargetQuota int      `json:"targetQuota,omitempty"`
	Members     []Member `json:"members,omitempty"`
}

// Member belongs to exactly one sub-team at a time.
type Member struct {
	ID        string `json:"id"`
	TeamID    string `json:"teamId"`
	SubTeamID string `json:"subTeamId"`
	Name      string `json:"name"`
	Position  string `json:"position,omitempty"`
}

// Leader is a person with an elevated role, looked up by id from
// Team/SubTeam leader references. TeamID/SubTeamID are scope pointers,
// present only for branch/subTeam leaders.
type Leader struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId,omitempty"` // identity-provider account
	Name      string     `json:"name"`
	Type      LeaderType `json:"type"`
	TeamID    string     `json:"teamId,omitempty"`
	SubTeamID string     `json:"subTeamId,omitempty"`
}

// ScoreRecord is one submission of per-product points for one member on one
// calendar day. Product codes are open-ended; iterate whatever keys are
// present rather than assuming a fixed product set.
type ScoreRecord struct {
	ID          string `json:"id"`
	Date        string `json:"date"` // YYYY-MM-DD day key
	TeamID      string `json:"teamId"`
	SubTeamID   string `json:"subTeamId"`
	MemberID    string `json:"memberId"`
	Unavailable bool   `json:"unavailable,omitempty"`

	// Scores holds the as-submitted values; ReviewedScores is present only
	// after an authorized reviewer approves or corrects the submission.
	Scores         map[string]int `json:"scores,omitempty"`
	ReviewedScores map[string]int `json:"reviewedScores,omitempty"`

	// Audit trail, written by the service on mutations.
	CreatedBy   string    `json:"createdBy,omitempty"`
	UpdatedBy   string    `json:"updatedBy,omitempty"`
	ReviewedBy  string    `json:"reviewedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
	ReviewedAt  time.Time `json:"reviewedAt,omitempty"`
}

// Reviewed reports whether the record carries a non-empty reviewed score set.
func (r ScoreRecord) Reviewed() bool {
	return len(r.ReviewedScores) > 0
}

// Countable reports whether the record contributes to scoring aggregates:
// not flagged unavailable and reviewed.
func (r ScoreRecord) Countable() bool {
	return !r.Unavailable && r.Reviewed()
}

// ReviewedTotal sums all reviewed product values.
func (r ScoreRecord) ReviewedTotal() int {
	total := 0
	for _, v := range r.ReviewedScores {
		total += v
	}
	return total
}

// ValidateKey fails when a required identifying field is missing entirely;
// no meaningful grouping key can be formed without them.
func (r ScoreRecord) ValidateKey() error {
	switch {
	case r.Date == "":
		return ErrMissingDate
	case r.TeamID == "":
		return ErrMissingTeamID
	case r.SubTeamID == "":
		return ErrMissingSubTeamID
	case r.MemberID == "":
		return ErrMissingMemberID
	}
	return nil
}
