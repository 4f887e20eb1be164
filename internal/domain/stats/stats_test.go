package stats_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/westcairo/scoreboard/internal/domain/model"
	"github.com/westcairo/scoreboard/internal/domain/stats"
)

func TestSummarize(t *testing.T) {
	Convey("Given a joined hierarchy and a day's records", t, func() {
		teams := []model.Team{
			{
				ID: "team_1", Name: "Alpha",
				SubTeams: []model.SubTeam{
					{ID: "team_1_1", Members: []model.Member{{ID: "m1"}, {ID: "m2"}}},
					{ID: "team_1_2", Members: []model.Member{{ID: "m3"}}},
				},
			},
			{
				ID: "team_2", Name: "Beta",
				SubTeams: []model.SubTeam{
					{ID: "team_2_1", Members: []model.Member{{ID: "m4"}}},
				},
			},
		}
		leaders := []model.Leader{{ID: "leader_1"}, {ID: "leader_2"}, {ID: "leader_3"}}

		Convey("When summarizing reviewed records", func() {
			scores := []model.ScoreRecord{
				{ID: "r1", Date: "2026-08-31", TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "m1", ReviewedScores: map[string]int{"loans": 10}},
				{ID: "r2", Date: "2026-08-31", TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "m2", ReviewedScores: map[string]int{"loans": 20}},
				{ID: "r3", Date: "2026-08-30", TeamID: "team_2", SubTeamID: "team_2_1", MemberID: "m4", ReviewedScores: map[string]int{"cards": 30}},
			}
			s := stats.Summarize(teams, scores, leaders, "2026-08-31")

			Convey("Then entity counts come from the hierarchy", func() {
				So(s.TotalTeams, ShouldEqual, 2)
				So(s.TotalSubTeams, ShouldEqual, 3)
				So(s.TotalMembers, ShouldEqual, 4)
				So(s.TotalLeaders, ShouldEqual, 3)
			})

			Convey("Then today's count matches the day key by string equality", func() {
				So(s.TodayScores, ShouldEqual, 2)
			})

			Convey("Then the average is the rounded mean per reviewed record", func() {
				So(s.TotalScore, ShouldEqual, 60)
				So(s.AvgScore, ShouldEqual, 20)
				So(s.PendingReviews, ShouldEqual, 0)
			})
		})

		Convey("When records are pending or unavailable", func() {
			scores := []model.ScoreRecord{
				{ID: "r1", Date: "2026-08-31", TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "m1", Scores: map[string]int{"loans": 5}},
				{ID: "r2", Date: "2026-08-31", TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "m2", Unavailable: true},
				{ID: "r3", Date: "2026-08-31", TeamID: "team_1", SubTeamID: "team_1_2", MemberID: "m3", ReviewedScores: map[string]int{"loans": 7}},
			}
			s := stats.Summarize(teams, scores, leaders, "2026-08-31")

			Convey("Then only available unreviewed records are pending", func() {
				So(s.PendingReviews, ShouldEqual, 1)
			})

			Convey("Then unavailable and pending records do not score", func() {
				So(s.TotalScore, ShouldEqual, 7)
				So(s.AvgScore, ShouldEqual, 7)
			})
		})

		Convey("When the average does not divide evenly", func() {
			scores := []model.ScoreRecord{
				{ID: "r1", Date: "2026-08-31", TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "m1", ReviewedScores: map[string]int{"loans": 5}},
				{ID: "r2", Date: "2026-08-31", TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "m2", ReviewedScores: map[string]int{"loans": 6}},
			}
			s := stats.Summarize(teams, scores, leaders, "2026-08-31")

			Convey("Then it rounds half away from zero", func() {
				So(s.TotalScore, ShouldEqual, 11)
				So(s.AvgScore, ShouldEqual, 6)
			})
		})

		Convey("When there are no scores at all", func() {
			s := stats.Summarize(teams, nil, leaders, "2026-08-31")

			Convey("Then score counters are zero instead of dividing by zero", func() {
				So(s.TodayScores, ShouldEqual, 0)
				So(s.PendingReviews, ShouldEqual, 0)
				So(s.TotalScore, ShouldEqual, 0)
				So(s.AvgScore, ShouldEqual, 0)
			})
		})
	})
}
