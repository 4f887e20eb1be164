// Package stats derives the dashboard summary counters from a role-scoped
// score set. Like the leaderboard aggregation it is a pure transformation;
// the current day key is an explicit argument so the computation stays
// clock-free.
package stats

import (
	"math"

	"github.com/westcairo/scoreboard/internal/domain/model"
)

// Stats is the dashboard summary shape.
type Stats struct {
	TotalTeams     int `json:"totalTeams"`
	TotalSubTeams  int `json:"totalSubTeams"`
	TotalMembers   int `json:"totalMembers"`
	TotalLeaders   int `json:"totalLeaders"`
	TodayScores    int `json:"todayScores"`
	PendingReviews int `json:"pendingReviews"`
	TotalScore     int `json:"totalScore"`
	AvgScore       int `json:"avgScore"`
}

// Summarize computes the dashboard counters. today is the caller's current
// day key (see pkg/datekey); records match it by string equality.
//
// TotalScore and AvgScore are computed only from reviewed, available
// records; AvgScore is the rounded mean per such record, zero when there
// are none.
func Summarize(teams []model.Team, scores []model.ScoreRecord, leaders []model.Leader, today string) Stats {
	s := Stats{
		TotalTeams:   len(teams),
		TotalLeaders: len(leaders),
	}
	for _, team := range teams {
		s.TotalSubTeams += len(team.SubTeams)
		for _, subTeam := range team.SubTeams {
			s.TotalMembers += len(subTeam.Members)
		}
	}

	reviewed := 0
	for _, rec := range scores {
		if rec.Date == today {
			s.TodayScores++
		}
		if !rec.Unavailable && !rec.Reviewed() {
			s.PendingReviews++
		}
		if rec.Countable() {
			reviewed++
			s.TotalScore += rec.ReviewedTotal()
		}
	}
	if reviewed > 0 {
		s.AvgScore = int(math.Round(float64(s.TotalScore) / float64(reviewed)))
	}
	return s
}
