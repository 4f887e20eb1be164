// Package leaderboard turns raw score records and the joined
// team→sub-team→member hierarchy into ranked leaderboard views.
//
// Everything here is a pure, synchronous transformation: derived views are
// recomputed from scratch on every call, no state is kept between calls, and
// identical inputs produce identical outputs. The caller is responsible for
// assembling one consistent snapshot before invoking Compute; if it wants a
// single-day report it pre-filters scores by date — the aggregation itself is
// date-agnostic and accumulates whatever subset it receives.
package leaderboard

import (
	"fmt"
	"sort"

	"github.com/westcairo/scoreboard/internal/domain/model"
)

// A member qualifies as an achiever with reviewed, nonzero scores in at
// least this many distinct products.
const achieverMinProducts = 2

// LeaderRef is a denormalized leader snapshot for display joins.
type LeaderRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamRef is a denormalized team snapshot.
type TeamRef struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Number int        `json:"number"`
	Leader *LeaderRef `json:"leader,omitempty"`
}

// SubTeamRef is a denormalized sub-team snapshot.
type SubTeamRef struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Color  string     `json:"color,omitempty"`
	Leader *LeaderRef `json:"leader,omitempty"`
}

// MemberRef is a denormalized member snapshot.
type MemberRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// Entry is one leaderboard row: a member that was not flagged unavailable
// for the query period, with accumulated totals.
type Entry struct {
	Member       MemberRef      `json:"member"`
	SubTeam      SubTeamRef     `json:"subTeam"`
	Team         TeamRef        `json:"team"`
	TotalScore   int            `json:"totalScore"`
	Scores       map[string]int `json:"scores"`
	ProductCount int            `json:"productCount"`
}

// TeamStanding is a per-team rollup for teams where every available member
// scored.
type TeamStanding struct {
	Team             TeamRef `json:"team"`
	TotalScore       int     `json:"totalScore"`
	TotalMembers     int     `json:"totalMembers"`
	AvailableMembers int     `json:"availableMembers"`
	ActiveMembers    int     `json:"activeMembers"`
	UnavailableCount int     `json:"unavailableCount"`
}

// LeaderStanding annotates the leader of a qualified team with that team's
// numbers.
type LeaderStanding struct {
	Leader           LeaderRef `json:"leader"`
	Team             TeamRef   `json:"team"`
	TotalScore       int       `json:"totalScore"`
	ActiveMembers    int       `json:"activeMembers"`
	AvailableMembers int       `json:"availableMembers"`
}

// ZeroScoreMember identifies an available member with no reviewed score.
type ZeroScoreMember struct {
	Name        string `json:"name"`
	SubTeamName string `json:"subTeamName"`
}

// ZeroScoreTeam lists a team's zero-score members together with the score
// its active members did accumulate.
type ZeroScoreTeam struct {
	Team              TeamRef           `json:"team"`
	ZeroScoreMembers  []ZeroScoreMember `json:"zeroScoreMembers"`
	ActiveMemberScore int               `json:"activeMemberScore"`
}

// Views is the full output of one aggregation call. Teams and Leaders are
// passed through untouched for downstream display joins.
type Views struct {
	Achievers                 []Entry          `json:"achievers"`
	ActiveTeams               []TeamStanding   `json:"activeTeams"`
	TeamLeaders               []LeaderStanding `json:"teamLeaders"`
	TeamsWithZeroScoreMembers []ZeroScoreTeam  `json:"teamsWithZeroScoreMembers"`
	All                       []Entry          `json:"all"`
	Teams                     []model.Team     `json:"teams"`
	Leaders                   []model.Leader   `json:"leaders"`
}

// memberKey identifies one (team, sub-team, member) triple.
type memberKey struct {
	teamID    string
	subTeamID string
	memberID  string
}

// accumulated holds the running totals for one member key.
type accumulated struct {
	totalScore int
	scores     map[string]int
}

// Compute aggregates scores over the joined hierarchy and builds the five
// leaderboard views.
//
// Records referencing ids absent from the hierarchy contribute nothing and
// are skipped silently; a single bad record must not abort the report. A
// record missing a required identifying field entirely is a contract
// violation and fails the whole call.
func Compute(scores []model.ScoreRecord, teams []model.Team, leaders []model.Leader) (Views, error) {
	views := Views{
		Achievers:                 []Entry{},
		ActiveTeams:               []TeamStanding{},
		TeamLeaders:               []LeaderStanding{},
		TeamsWithZeroScoreMembers: []ZeroScoreTeam{},
		All:                       []Entry{},
		Teams:                     teams,
		Leaders:                   leaders,
	}

	leadersByID := make(map[string]model.Leader, len(leaders))
	for _, l := range leaders {
		leadersByID[l.ID] = l
	}

	// Single pass over scores: accumulate reviewed values per member key and
	// mark keys flagged unavailable. Pending records (no reviewed scores)
	// contribute nothing here.
	totals := make(map[memberKey]*accumulated)
	unavailable := make(map[memberKey]bool)
	for i, rec := range scores {
		if err := rec.ValidateKey(); err != nil {
			return Views{}, fmt.Errorf("score record %d: %w", i, err)
		}
		key := memberKey{rec.TeamID, rec.SubTeamID, rec.MemberID}
		if rec.Unavailable {
			unavailable[key] = true
			continue
		}
		if !rec.Reviewed() {
			continue
		}
		acc := totals[key]
		if acc == nil {
			acc = &accumulated{scores: make(map[string]int)}
			totals[key] = acc
		}
		for product, points := range rec.ReviewedScores {
			acc.scores[product] += points
			acc.totalScore += points
		}
	}

	// Walk the hierarchy once: emit entries for available members and roll
	// up per-team stats along the way.
	for _, team := range teams {
		teamRef := TeamRef{ID: team.ID, Name: team.Name, Number: team.Number, Leader: leaderRef(leadersByID, team.LeaderID)}

		standing := TeamStanding{Team: teamRef}
		var zeroScore []ZeroScoreMember
		activeMemberScore := 0

		for _, subTeam := range team.SubTeams {
			subTeamRef := SubTeamRef{ID: subTeam.ID, Name: subTeam.Name, Color: subTeam.Color, Leader: leaderRef(leadersByID, subTeam.LeaderID)}

			for _, member := range subTeam.Members {
				standing.TotalMembers++
				key := memberKey{team.ID, subTeam.ID, member.ID}
				if unavailable[key] {
					standing.UnavailableCount++
					continue
				}
				standing.AvailableMembers++

				entry := Entry{
					Member:  MemberRef{ID: member.ID, Name: member.Name, Position: member.Position},
					SubTeam: subTeamRef,
					Team:    teamRef,
					Scores:  map[string]int{},
				}
				if acc := totals[key]; acc != nil {
					entry.TotalScore = acc.totalScore
					entry.Scores = acc.scores
					for _, points := range acc.scores {
						if points > 0 {
							entry.ProductCount++
						}
					}
				}

				if entry.TotalScore > 0 {
					standing.ActiveMembers++
					activeMemberScore += entry.TotalScore
				} else {
					zeroScore = append(zeroScore, ZeroScoreMember{Name: member.Name, SubTeamName: subTeam.Name})
				}
				standing.TotalScore += entry.TotalScore

				views.All = append(views.All, entry)
				if entry.ProductCount >= achieverMinProducts {
					views.Achievers = append(views.Achievers, entry)
				}
			}
		}

		// A team with no available members can never qualify.
		if standing.AvailableMembers > 0 && len(zeroScore) == 0 {
			views.ActiveTeams = append(views.ActiveTeams, standing)
			if teamRef.Leader != nil {
				views.TeamLeaders = append(views.TeamLeaders, LeaderStanding{
					Leader:           *teamRef.Leader,
					Team:             teamRef,
					TotalScore:       standing.TotalScore,
					ActiveMembers:    standing.ActiveMembers,
					AvailableMembers: standing.AvailableMembers,
				})
			}
		}
		if len(zeroScore) > 0 {
			views.TeamsWithZeroScoreMembers = append(views.TeamsWithZeroScoreMembers, ZeroScoreTeam{
				Team:              teamRef,
				ZeroScoreMembers:  zeroScore,
				ActiveMemberScore: activeMemberScore,
			})
		}
	}

	// Descending sorts. Stable keeps hierarchy-walk order for ties; no
	// secondary key is defined.
	sort.SliceStable(views.All, func(i, j int) bool {
		return views.All[i].TotalScore > views.All[j].TotalScore
	})
	sort.SliceStable(views.Achievers, func(i, j int) bool {
		return views.Achievers[i].TotalScore > views.Achievers[j].TotalScore
	})
	sort.SliceStable(views.ActiveTeams, func(i, j int) bool {
		return views.ActiveTeams[i].TotalScore > views.ActiveTeams[j].TotalScore
	})
	sort.SliceStable(views.TeamLeaders, func(i, j int) bool {
		return views.TeamLeaders[i].TotalScore > views.TeamLeaders[j].TotalScore
	})
	sort.SliceStable(views.TeamsWithZeroScoreMembers, func(i, j int) bool {
		return len(views.TeamsWithZeroScoreMembers[i].ZeroScoreMembers) > len(views.TeamsWithZeroScoreMembers[j].ZeroScoreMembers)
	})

	return views, nil
}

func leaderRef(leadersByID map[string]model.Leader, id string) *LeaderRef {
	if id == "" {
		return nil
	}
	l, ok := leadersByID[id]
	if !ok {
		return nil
	}
	return &LeaderRef{ID: l.ID, Name: l.Name}
}
