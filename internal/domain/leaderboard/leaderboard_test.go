package leaderboard_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/westcairo/scoreboard/internal/domain/leaderboard"
	"github.com/westcairo/scoreboard/internal/domain/model"
)

// twoTeams builds a small joined hierarchy used by most scenarios:
// team_1 (Alpha) with one sub-team of two members, team_2 (Beta) with one
// sub-team of one member.
func twoTeams() []model.Team {
	return []model.Team{
		{
			ID: "team_1", Name: "Alpha", Number: 1, LeaderID: "leader_1",
			SubTeams: []model.SubTeam{
				{
					ID: "team_1_1", TeamID: "team_1", Name: "Alpha One", Number: 1, Color: "#ff0000",
					Members: []model.Member{
						{ID: "team_1_1_member_1", TeamID: "team_1", SubTeamID: "team_1_1", Name: "Amira"},
						{ID: "team_1_1_member_2", TeamID: "team_1", SubTeamID: "team_1_1", Name: "Bassem"},
					},
				},
			},
		},
		{
			ID: "team_2", Name: "Beta", Number: 2, LeaderID: "leader_2",
			SubTeams: []model.SubTeam{
				{
					ID: "team_2_1", TeamID: "team_2", Name: "Beta One", Number: 1,
					Members: []model.Member{
						{ID: "team_2_1_member_1", TeamID: "team_2", SubTeamID: "team_2_1", Name: "Celine"},
					},
				},
			},
		},
	}
}

func twoLeaders() []model.Leader {
	return []model.Leader{
		{ID: "leader_1", Name: "Dina", Type: model.LeaderBranch, TeamID: "team_1"},
		{ID: "leader_2", Name: "Ehab", Type: model.LeaderBranch, TeamID: "team_2"},
	}
}

func reviewed(teamID, subTeamID, memberID string, scores map[string]int) model.ScoreRecord {
	return model.ScoreRecord{
		ID: memberID + "-rec", Date: "2026-08-30",
		TeamID: teamID, SubTeamID: subTeamID, MemberID: memberID,
		Scores: scores, ReviewedScores: scores,
	}
}

func TestCompute(t *testing.T) {
	Convey("Given a joined hierarchy with reviewed scores", t, func() {
		teams := twoTeams()
		leaders := twoLeaders()

		Convey("When every available member has reviewed points", func() {
			scores := []model.ScoreRecord{
				reviewed("team_1", "team_1_1", "team_1_1_member_1", map[string]int{"loans": 10, "cards": 5}),
				reviewed("team_1", "team_1_1", "team_1_1_member_2", map[string]int{"loans": 3}),
				reviewed("team_2", "team_2_1", "team_2_1_member_1", map[string]int{"cards": 20}),
			}
			views, err := leaderboard.Compute(scores, teams, leaders)
			So(err, ShouldBeNil)

			Convey("Then the all view ranks members by descending total", func() {
				So(views.All, ShouldHaveLength, 3)
				So(views.All[0].Member.ID, ShouldEqual, "team_2_1_member_1")
				So(views.All[0].TotalScore, ShouldEqual, 20)
				So(views.All[1].Member.ID, ShouldEqual, "team_1_1_member_1")
				So(views.All[1].TotalScore, ShouldEqual, 15)
				So(views.All[2].TotalScore, ShouldEqual, 3)
			})

			Convey("Then only multi-product members are achievers", func() {
				So(views.Achievers, ShouldHaveLength, 1)
				So(views.Achievers[0].Member.ID, ShouldEqual, "team_1_1_member_1")
				So(views.Achievers[0].ProductCount, ShouldEqual, 2)
			})

			Convey("Then both teams qualify as active", func() {
				So(views.ActiveTeams, ShouldHaveLength, 2)
				So(views.ActiveTeams[0].Team.ID, ShouldEqual, "team_2")
				So(views.ActiveTeams[0].TotalScore, ShouldEqual, 20)
				So(views.ActiveTeams[1].Team.ID, ShouldEqual, "team_1")
				So(views.ActiveTeams[1].TotalScore, ShouldEqual, 18)
				So(views.TeamsWithZeroScoreMembers, ShouldBeEmpty)
			})

			Convey("Then team leaders mirror the qualified teams", func() {
				So(views.TeamLeaders, ShouldHaveLength, 2)
				So(views.TeamLeaders[0].Leader.Name, ShouldEqual, "Ehab")
				So(views.TeamLeaders[1].Leader.Name, ShouldEqual, "Dina")
				So(views.TeamLeaders[1].ActiveMembers, ShouldEqual, 2)
			})

			Convey("Then the inputs pass through for display joins", func() {
				So(views.Teams, ShouldHaveLength, 2)
				So(views.Leaders, ShouldHaveLength, 2)
			})

			Convey("Then repeated runs on the same input are identical", func() {
				again, err := leaderboard.Compute(scores, teams, leaders)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, views)
			})
		})

		Convey("When one available member never scored", func() {
			scores := []model.ScoreRecord{
				reviewed("team_1", "team_1_1", "team_1_1_member_1", map[string]int{"loans": 10}),
				reviewed("team_2", "team_2_1", "team_2_1_member_1", map[string]int{"cards": 20}),
			}
			views, err := leaderboard.Compute(scores, teams, leaders)
			So(err, ShouldBeNil)

			Convey("Then the team is disqualified but the member still lists", func() {
				So(views.ActiveTeams, ShouldHaveLength, 1)
				So(views.ActiveTeams[0].Team.ID, ShouldEqual, "team_2")
				So(views.All, ShouldHaveLength, 3)
			})

			Convey("Then the zero-score view names the member", func() {
				So(views.TeamsWithZeroScoreMembers, ShouldHaveLength, 1)
				zst := views.TeamsWithZeroScoreMembers[0]
				So(zst.Team.ID, ShouldEqual, "team_1")
				So(zst.ZeroScoreMembers, ShouldResemble, []leaderboard.ZeroScoreMember{{Name: "Bassem", SubTeamName: "Alpha One"}})
				So(zst.ActiveMemberScore, ShouldEqual, 10)
			})
		})

		Convey("When a member is flagged unavailable", func() {
			scores := []model.ScoreRecord{
				reviewed("team_1", "team_1_1", "team_1_1_member_1", map[string]int{"loans": 10}),
				{
					ID: "rec-unavail", Date: "2026-08-30",
					TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "team_1_1_member_2",
					Unavailable: true,
				},
				reviewed("team_2", "team_2_1", "team_2_1_member_1", map[string]int{"cards": 20}),
			}
			views, err := leaderboard.Compute(scores, teams, leaders)
			So(err, ShouldBeNil)

			Convey("Then the unavailable member is absent from every ranking", func() {
				So(views.All, ShouldHaveLength, 2)
				for _, e := range views.All {
					So(e.Member.ID, ShouldNotEqual, "team_1_1_member_2")
				}
			})

			Convey("Then the team still qualifies without them", func() {
				So(views.ActiveTeams, ShouldHaveLength, 2)
				var alpha leaderboard.TeamStanding
				for _, st := range views.ActiveTeams {
					if st.Team.ID == "team_1" {
						alpha = st
					}
				}
				So(alpha.TotalMembers, ShouldEqual, 2)
				So(alpha.AvailableMembers, ShouldEqual, 1)
				So(alpha.UnavailableCount, ShouldEqual, 1)
			})
		})

		Convey("When every member of a team is unavailable", func() {
			scores := []model.ScoreRecord{
				{ID: "r1", Date: "2026-08-30", TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "team_1_1_member_1", Unavailable: true},
				{ID: "r2", Date: "2026-08-30", TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "team_1_1_member_2", Unavailable: true},
			}
			views, err := leaderboard.Compute(scores, teams, leaders)
			So(err, ShouldBeNil)

			Convey("Then the team can never qualify", func() {
				for _, st := range views.ActiveTeams {
					So(st.Team.ID, ShouldNotEqual, "team_1")
				}
			})
		})

		Convey("When a record is pending review", func() {
			scores := []model.ScoreRecord{
				{
					ID: "pending", Date: "2026-08-30",
					TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "team_1_1_member_1",
					Scores: map[string]int{"loans": 99},
				},
			}
			views, err := leaderboard.Compute(scores, teams, leaders)
			So(err, ShouldBeNil)

			Convey("Then as-submitted values contribute nothing", func() {
				for _, e := range views.All {
					So(e.TotalScore, ShouldEqual, 0)
				}
				So(views.Achievers, ShouldBeEmpty)
			})
		})

		Convey("When records span several days for one member", func() {
			scores := []model.ScoreRecord{
				reviewed("team_2", "team_2_1", "team_2_1_member_1", map[string]int{"cards": 5}),
				{
					ID: "day2", Date: "2026-08-31",
					TeamID: "team_2", SubTeamID: "team_2_1", MemberID: "team_2_1_member_1",
					ReviewedScores: map[string]int{"cards": 7, "loans": 1},
				},
			}
			views, err := leaderboard.Compute(scores, teams, leaders)
			So(err, ShouldBeNil)

			Convey("Then per-product values accumulate across records", func() {
				var celine leaderboard.Entry
				for _, e := range views.All {
					if e.Member.ID == "team_2_1_member_1" {
						celine = e
					}
				}
				So(celine.TotalScore, ShouldEqual, 13)
				So(celine.Scores["cards"], ShouldEqual, 12)
				So(celine.ProductCount, ShouldEqual, 2)
				So(views.Achievers, ShouldHaveLength, 1)
			})
		})

		Convey("When a record references an unknown member", func() {
			scores := []model.ScoreRecord{
				reviewed("team_9", "team_9_1", "ghost", map[string]int{"loans": 50}),
				reviewed("team_2", "team_2_1", "team_2_1_member_1", map[string]int{"cards": 20}),
			}
			views, err := leaderboard.Compute(scores, teams, leaders)

			Convey("Then the orphan is skipped silently", func() {
				So(err, ShouldBeNil)
				So(views.All, ShouldHaveLength, 3)
				for _, e := range views.All {
					So(e.Member.ID, ShouldNotEqual, "ghost")
				}
			})
		})

		Convey("When a record is missing an identifying field", func() {
			scores := []model.ScoreRecord{
				{ID: "broken", Date: "2026-08-30", TeamID: "team_1", MemberID: "team_1_1_member_1"},
			}
			_, err := leaderboard.Compute(scores, teams, leaders)

			Convey("Then the whole call fails", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, model.ErrMissingSubTeamID), ShouldBeTrue)
			})
		})

		Convey("When two members tie on total score", func() {
			scores := []model.ScoreRecord{
				reviewed("team_1", "team_1_1", "team_1_1_member_1", map[string]int{"loans": 7}),
				reviewed("team_1", "team_1_1", "team_1_1_member_2", map[string]int{"cards": 7}),
			}
			views, err := leaderboard.Compute(scores, teams, leaders)
			So(err, ShouldBeNil)

			Convey("Then hierarchy walk order breaks the tie", func() {
				So(views.All[0].Member.ID, ShouldEqual, "team_1_1_member_1")
				So(views.All[1].Member.ID, ShouldEqual, "team_1_1_member_2")
			})
		})
	})

	Convey("Given empty inputs", t, func() {
		Convey("When computing", func() {
			views, err := leaderboard.Compute(nil, nil, nil)

			Convey("Then every view is empty but non-nil", func() {
				So(err, ShouldBeNil)
				So(views.All, ShouldBeEmpty)
				So(views.All, ShouldNotBeNil)
				So(views.Achievers, ShouldNotBeNil)
				So(views.ActiveTeams, ShouldNotBeNil)
				So(views.TeamLeaders, ShouldNotBeNil)
				So(views.TeamsWithZeroScoreMembers, ShouldNotBeNil)
			})
		})
	})

	Convey("Given a team whose leader id is unknown", t, func() {
		teams := twoTeams()
		teams[0].LeaderID = "nobody"
		scores := []model.ScoreRecord{
			reviewed("team_1", "team_1_1", "team_1_1_member_1", map[string]int{"loans": 1}),
			reviewed("team_1", "team_1_1", "team_1_1_member_2", map[string]int{"loans": 1}),
		}

		Convey("When the team qualifies", func() {
			views, err := leaderboard.Compute(scores, teams, twoLeaders())
			So(err, ShouldBeNil)

			Convey("Then it appears in active teams but not team leaders", func() {
				So(views.ActiveTeams, ShouldHaveLength, 1)
				So(views.TeamLeaders, ShouldBeEmpty)
			})
		})
	})
}
