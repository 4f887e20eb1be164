package repository_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/westcairo/scoreboard/internal/adapters/repository"
	"github.com/westcairo/scoreboard/internal/domain/model"
)

func TestMemStoreHierarchy(t *testing.T) {
	Convey("Given an empty in-memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		Convey("When creating teams", func() {
			first, err := store.CreateTeam(ctx, model.Team{Name: "Alpha", Number: 2})
			So(err, ShouldBeNil)
			second, err := store.CreateTeam(ctx, model.Team{Name: "Beta", Number: 1})
			So(err, ShouldBeNil)

			Convey("Then ids follow the team_N sequence", func() {
				So(first.ID, ShouldEqual, "team_1")
				So(second.ID, ShouldEqual, "team_2")
			})

			Convey("Then listing orders by team number", func() {
				teams, err := store.Teams(ctx)
				So(err, ShouldBeNil)
				So(teams, ShouldHaveLength, 2)
				So(teams[0].Name, ShouldEqual, "Beta")
				So(teams[1].Name, ShouldEqual, "Alpha")
			})

			Convey("And a team is deleted", func() {
				So(store.DeleteTeam(ctx, "team_1"), ShouldBeNil)

				Convey("Then the next id bumps past the survivor", func() {
					third, err := store.CreateTeam(ctx, model.Team{Name: "Gamma"})
					So(err, ShouldBeNil)
					So(third.ID, ShouldNotEqual, "team_2")
				})
			})
		})

		Convey("When creating sub-teams and members", func() {
			team, err := store.CreateTeam(ctx, model.Team{Name: "Alpha", Number: 1})
			So(err, ShouldBeNil)

			st, err := store.CreateSubTeam(ctx, model.SubTeam{TeamID: team.ID, Name: "One", Number: 1})
			So(err, ShouldBeNil)

			Convey("Then sub-team and member ids nest under their parents", func() {
				So(st.ID, ShouldEqual, team.ID+"_1")

				m, err := store.CreateMember(ctx, model.Member{TeamID: team.ID, SubTeamID: st.ID, Name: "Amira"})
				So(err, ShouldBeNil)
				So(m.ID, ShouldEqual, st.ID+"_member_1")
			})

			Convey("Then members list ordered by name", func() {
				_, err := store.CreateMember(ctx, model.Member{TeamID: team.ID, SubTeamID: st.ID, Name: "Zeinab"})
				So(err, ShouldBeNil)
				_, err = store.CreateMember(ctx, model.Member{TeamID: team.ID, SubTeamID: st.ID, Name: "Amira"})
				So(err, ShouldBeNil)

				members, err := store.Members(ctx, team.ID, st.ID)
				So(err, ShouldBeNil)
				So(members, ShouldHaveLength, 2)
				So(members[0].Name, ShouldEqual, "Amira")
				So(members[1].Name, ShouldEqual, "Zeinab")
			})

			Convey("Then creating under an unknown parent fails", func() {
				_, err := store.CreateSubTeam(ctx, model.SubTeam{TeamID: "team_9", Name: "Orphan"})
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

				_, err = store.CreateMember(ctx, model.Member{TeamID: team.ID, SubTeamID: "team_9_1", Name: "Orphan"})
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})

			Convey("And the team is deleted", func() {
				_, err := store.CreateMember(ctx, model.Member{TeamID: team.ID, SubTeamID: st.ID, Name: "Amira"})
				So(err, ShouldBeNil)
				So(store.DeleteTeam(ctx, team.ID), ShouldBeNil)

				Convey("Then sub-teams and members cascade away", func() {
					subTeams, err := store.SubTeams(ctx, team.ID)
					So(err, ShouldBeNil)
					So(subTeams, ShouldBeEmpty)

					members, err := store.Members(ctx, team.ID, st.ID)
					So(err, ShouldBeNil)
					So(members, ShouldBeEmpty)
				})
			})

			Convey("And the sub-team is deleted", func() {
				_, err := store.CreateMember(ctx, model.Member{TeamID: team.ID, SubTeamID: st.ID, Name: "Amira"})
				So(err, ShouldBeNil)
				So(store.DeleteSubTeam(ctx, team.ID, st.ID), ShouldBeNil)

				Convey("Then its members cascade away but the team stays", func() {
					members, err := store.Members(ctx, team.ID, st.ID)
					So(err, ShouldBeNil)
					So(members, ShouldBeEmpty)

					_, err = store.Team(ctx, team.ID)
					So(err, ShouldBeNil)
				})
			})
		})

		Convey("When updating a missing document", func() {
			err := store.UpdateTeam(ctx, model.Team{ID: "team_9"})

			Convey("Then the error is ErrNotFound", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestMemStoreScores(t *testing.T) {
	Convey("Given a store with several score records", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		recs := []model.ScoreRecord{
			{Date: "2026-08-29", TeamID: "team_1", SubTeamID: "team_1_1", MemberID: "m1", ReviewedScores: map[string]int{"loans": 1}},
			{Date: "2026-08-31", TeamID: "team_1", SubTeamID: "team_1_2", MemberID: "m2"},
			{Date: "2026-08-30", TeamID: "team_2", SubTeamID: "team_2_1", MemberID: "m3"},
		}
		for i, rec := range recs {
			created, err := store.CreateScore(ctx, rec)
			So(err, ShouldBeNil)
			So(created.ID, ShouldNotBeEmpty)
			recs[i] = created
		}

		Convey("When listing without a filter", func() {
			scores, err := store.Scores(ctx, repository.Filter{})

			Convey("Then all records return ordered by date descending", func() {
				So(err, ShouldBeNil)
				So(scores, ShouldHaveLength, 3)
				So(scores[0].Date, ShouldEqual, "2026-08-31")
				So(scores[1].Date, ShouldEqual, "2026-08-30")
				So(scores[2].Date, ShouldEqual, "2026-08-29")
			})
		})

		Convey("When filtering", func() {
			Convey("Then the date filter matches by string equality", func() {
				scores, err := store.Scores(ctx, repository.Filter{Date: "2026-08-30"})
				So(err, ShouldBeNil)
				So(scores, ShouldHaveLength, 1)
				So(scores[0].MemberID, ShouldEqual, "m3")
			})

			Convey("Then scope filters compose", func() {
				scores, err := store.Scores(ctx, repository.Filter{TeamID: "team_1", SubTeamID: "team_1_2"})
				So(err, ShouldBeNil)
				So(scores, ShouldHaveLength, 1)
				So(scores[0].MemberID, ShouldEqual, "m2")
			})

			Convey("Then a member filter pinpoints one record", func() {
				scores, err := store.Scores(ctx, repository.Filter{MemberID: "m1"})
				So(err, ShouldBeNil)
				So(scores, ShouldHaveLength, 1)
			})
		})

		Convey("When updating a record", func() {
			rec := recs[1]
			rec.ReviewedScores = map[string]int{"cards": 4}
			So(store.UpdateScore(ctx, rec), ShouldBeNil)

			got, err := store.Score(ctx, rec.ID)
			So(err, ShouldBeNil)
			So(got.ReviewedScores["cards"], ShouldEqual, 4)
		})

		Convey("When deleting a record", func() {
			So(store.DeleteScore(ctx, recs[0].ID), ShouldBeNil)

			_, err := store.Score(ctx, recs[0].ID)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)

			Convey("And deleting it again fails", func() {
				So(errors.Is(store.DeleteScore(ctx, recs[0].ID), repository.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestMemStoreLeaders(t *testing.T) {
	Convey("Given a store with leaders", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()

		So(store.PutLeader(ctx, model.Leader{ID: "leader_2", UserID: "u2", Name: "Ehab", Type: model.LeaderBranch, TeamID: "team_2"}), ShouldBeNil)
		So(store.PutLeader(ctx, model.Leader{ID: "leader_1", UserID: "u1", Name: "Dina", Type: model.LeaderAdmin}), ShouldBeNil)

		Convey("When listing", func() {
			leaders, err := store.Leaders(ctx)

			Convey("Then order is deterministic by id", func() {
				So(err, ShouldBeNil)
				So(leaders, ShouldHaveLength, 2)
				So(leaders[0].ID, ShouldEqual, "leader_1")
				So(leaders[1].ID, ShouldEqual, "leader_2")
			})
		})

		Convey("When looking up by user id", func() {
			l, err := store.LeaderByUser(ctx, "u2")
			So(err, ShouldBeNil)
			So(l.ID, ShouldEqual, "leader_2")

			_, err = store.LeaderByUser(ctx, "nobody")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When upserting without an id", func() {
			So(store.PutLeader(ctx, model.Leader{UserID: "u3", Name: "Farid", Type: model.LeaderSubTeam}), ShouldBeNil)

			leaders, err := store.Leaders(ctx)
			So(err, ShouldBeNil)
			So(leaders, ShouldHaveLength, 3)
		})
	})
}
