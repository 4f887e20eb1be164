// Package app provides the core business service that implements the
// dependencies required by the HTTP API. It assembles consistent snapshots
// from the document store, invokes the pure aggregation core, and gates
// every mutation on the caller's role.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/westcairo/scoreboard/internal/adapters/repository"
	"github.com/westcairo/scoreboard/internal/domain/auth"
	"github.com/westcairo/scoreboard/internal/domain/leaderboard"
	"github.com/westcairo/scoreboard/internal/domain/model"
	"github.com/westcairo/scoreboard/internal/domain/stats"
	"github.com/westcairo/scoreboard/pkg/datekey"
	"github.com/westcairo/scoreboard/pkg/logger"
	"github.com/westcairo/scoreboard/pkg/metrics"
)

// Service implements the API dependencies for the scoreboard system.
type Service struct {
	store  repository.Store
	policy *auth.Policy
	logger logger.Logger

	// now supplies the current day key; overridable in tests.
	now func() string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the document store backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPolicy sets the authorization policy.
func WithPolicy(policy *auth.Policy) Option {
	return func(s *Service) {
		if policy != nil {
			s.policy = policy
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDayKeyFunc overrides the current-day source. Used by tests.
func WithDayKeyFunc(now func() string) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:  repository.NewMemStore(),
		policy: auth.NewPolicy(),
		now:    datekey.Today,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// RoleFor resolves a leader id to the caller's role. Unknown or empty ids
// resolve to guest rather than failing: unauthenticated viewing is allowed,
// the predicates deny everything else.
func (s *Service) RoleFor(ctx context.Context, leaderID string) auth.Role {
	if leaderID == "" {
		return auth.Guest()
	}
	l, err := s.store.Leader(ctx, leaderID)
	if err != nil {
		s.logger.Debug(ctx, "role lookup failed; treating caller as guest",
			logger.String("leaderId", leaderID), logger.Error(err))
		return auth.Guest()
	}
	return auth.RoleOf(l)
}

// Snapshot is one fully-joined, internally-consistent view of the store.
type Snapshot struct {
	Teams   []model.Team // with nested sub-teams and members
	Leaders []model.Leader
	Scores  []model.ScoreRecord
}

// snapshot fans out the store reads and joins the hierarchy before any core
// function runs; the aggregation core never sees partial input.
func (s *Service) snapshot(ctx context.Context, f repository.Filter) (Snapshot, error) {
	start := time.Now()
	var snap Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teams, err := s.store.Teams(gctx)
		if err != nil {
			return fmt.Errorf("fetch teams: %w", err)
		}
		snap.Teams = teams
		return nil
	})
	g.Go(func() error {
		leaders, err := s.store.Leaders(gctx)
		if err != nil {
			return fmt.Errorf("fetch leaders: %w", err)
		}
		snap.Leaders = leaders
		return nil
	})
	g.Go(func() error {
		scores, err := s.store.Scores(gctx, f)
		if err != nil {
			return fmt.Errorf("fetch scores: %w", err)
		}
		snap.Scores = scores
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.RecordStoreError()
		return Snapshot{}, err
	}

	// Join sub-teams and members, one goroutine per team.
	g, gctx = errgroup.WithContext(ctx)
	for i := range snap.Teams {
		g.Go(func() error {
			team := &snap.Teams[i]
			subTeams, err := s.store.SubTeams(gctx, team.ID)
			if err != nil {
				return fmt.Errorf("fetch sub-teams of %s: %w", team.ID, err)
			}
			for j := range subTeams {
				members, err := s.store.Members(gctx, team.ID, subTeams[j].ID)
				if err != nil {
					return fmt.Errorf("fetch members of %s: %w", subTeams[j].ID, err)
				}
				subTeams[j].Members = members
			}
			team.SubTeams = subTeams
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordStoreError()
		return Snapshot{}, err
	}

	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	return snap, nil
}

// Leaderboard assembles a snapshot (optionally filtered by f) and runs the
// aggregation. The aggregation itself is date-agnostic; day scoping happens
// through the filter.
func (s *Service) Leaderboard(ctx context.Context, f repository.Filter) (leaderboard.Views, error) {
	snap, err := s.snapshot(ctx, f)
	if err != nil {
		return leaderboard.Views{}, err
	}

	start := time.Now()
	views, err := leaderboard.Compute(snap.Scores, snap.Teams, snap.Leaders)
	if err != nil {
		metrics.RecordAggregationError()
		return leaderboard.Views{}, fmt.Errorf("aggregate leaderboard: %w", err)
	}
	metrics.RecordAggregationRun()
	metrics.RecordAggregationDuration(float64(time.Since(start).Milliseconds()))

	s.refreshEntityGauges(snap)
	return views, nil
}

// DashboardStats computes the dashboard counters over the caller's scope:
// admins see everything, branch leaders their team, sub-team leaders their
// sub-team.
func (s *Service) DashboardStats(ctx context.Context, role auth.Role) (stats.Stats, error) {
	if !role.HasPermission(auth.ActionViewDashboard) {
		metrics.RecordPermissionDenial(string(auth.ActionViewDashboard))
		return stats.Stats{}, fmt.Errorf("view dashboard: %w", ErrPermissionDenied)
	}

	f := repository.Filter{}
	switch role.Type {
	case model.LeaderBranch:
		f.TeamID = role.TeamID
	case model.LeaderSubTeam:
		f.TeamID = role.TeamID
		f.SubTeamID = role.SubTeamID
	}

	snap, err := s.snapshot(ctx, f)
	if err != nil {
		return stats.Stats{}, err
	}
	if role.Type != model.LeaderAdmin && role.TeamID != "" {
		snap.Teams = filterTeams(snap.Teams, role.TeamID)
	}
	return stats.Summarize(snap.Teams, snap.Scores, snap.Leaders, s.now()), nil
}

// CreateTeam adds a team. Admin only.
func (s *Service) CreateTeam(ctx context.Context, role auth.Role, t model.Team) (model.Team, error) {
	if !role.HasPermission(auth.ActionManageTeams) {
		metrics.RecordPermissionDenial(string(auth.ActionManageTeams))
		return model.Team{}, fmt.Errorf("create team: %w", ErrPermissionDenied)
	}
	created, err := s.store.CreateTeam(ctx, t)
	if err != nil {
		return model.Team{}, fmt.Errorf("create team: %w", err)
	}
	s.logger.Info(ctx, "team created", logger.String("teamId", created.ID), logger.String("by", role.LeaderID))
	return created, nil
}

// UpdateTeam updates a team the caller may manage.
func (s *Service) UpdateTeam(ctx context.Context, role auth.Role, t model.Team) error {
	if !role.CanManageTeam(t.ID) {
		metrics.RecordPermissionDenial(string(auth.ActionManageTeams))
		return fmt.Errorf("update team %s: %w", t.ID, ErrPermissionDenied)
	}
	if err := s.store.UpdateTeam(ctx, t); err != nil {
		return fmt.Errorf("update team %s: %w", t.ID, err)
	}
	return nil
}

// DeleteTeam removes a team and everything under it.
func (s *Service) DeleteTeam(ctx context.Context, role auth.Role, teamID string) error {
	if !role.CanManageTeam(teamID) {
		metrics.RecordPermissionDenial(string(auth.ActionManageTeams))
		return fmt.Errorf("delete team %s: %w", teamID, ErrPermissionDenied)
	}
	if err := s.store.DeleteTeam(ctx, teamID); err != nil {
		return fmt.Errorf("delete team %s: %w", teamID, err)
	}
	s.logger.Info(ctx, "team deleted", logger.String("teamId", teamID), logger.String("by", role.LeaderID))
	return nil
}

// CreateSubTeam adds a sub-team under a team the caller may manage.
func (s *Service) CreateSubTeam(ctx context.Context, role auth.Role, st model.SubTeam) (model.SubTeam, error) {
	if !role.HasPermission(auth.ActionManageSubTeams) || !role.CanManageTeam(st.TeamID) {
		metrics.RecordPermissionDenial(string(auth.ActionManageSubTeams))
		return model.SubTeam{}, fmt.Errorf("create sub-team: %w", ErrPermissionDenied)
	}
	created, err := s.store.CreateSubTeam(ctx, st)
	if err != nil {
		return model.SubTeam{}, fmt.Errorf("create sub-team: %w", err)
	}
	return created, nil
}

// UpdateSubTeam updates a sub-team the caller may manage.
func (s *Service) UpdateSubTeam(ctx context.Context, role auth.Role, st model.SubTeam) error {
	if !s.policy.CanManageSubTeam(role, st.ID, st.TeamID) {
		metrics.RecordPermissionDenial(string(auth.ActionManageSubTeams))
		return fmt.Errorf("update sub-team %s: %w", st.ID, ErrPermissionDenied)
	}
	if err := s.store.UpdateSubTeam(ctx, st); err != nil {
		return fmt.Errorf("update sub-team %s: %w", st.ID, err)
	}
	return nil
}

// DeleteSubTeam removes a sub-team and its members.
func (s *Service) DeleteSubTeam(ctx context.Context, role auth.Role, teamID, subTeamID string) error {
	if !s.policy.CanManageSubTeam(role, subTeamID, teamID) {
		metrics.RecordPermissionDenial(string(auth.ActionManageSubTeams))
		return fmt.Errorf("delete sub-team %s: %w", subTeamID, ErrPermissionDenied)
	}
	if err := s.store.DeleteSubTeam(ctx, teamID, subTeamID); err != nil {
		return fmt.Errorf("delete sub-team %s: %w", subTeamID, err)
	}
	return nil
}

// CreateMember adds a member to a sub-team the caller may manage.
func (s *Service) CreateMember(ctx context.Context, role auth.Role, m model.Member) (model.Member, error) {
	if !s.policy.CanManageSubTeam(role, m.SubTeamID, m.TeamID) {
		metrics.RecordPermissionDenial(string(auth.ActionManageMembers))
		return model.Member{}, fmt.Errorf("create member: %w", ErrPermissionDenied)
	}
	created, err := s.store.CreateMember(ctx, m)
	if err != nil {
		return model.Member{}, fmt.Errorf("create member: %w", err)
	}
	return created, nil
}

// UpdateMember updates a member of a sub-team the caller may manage.
func (s *Service) UpdateMember(ctx context.Context, role auth.Role, m model.Member) error {
	if !s.policy.CanManageSubTeam(role, m.SubTeamID, m.TeamID) {
		metrics.RecordPermissionDenial(string(auth.ActionManageMembers))
		return fmt.Errorf("update member %s: %w", m.ID, ErrPermissionDenied)
	}
	if err := s.store.UpdateMember(ctx, m); err != nil {
		return fmt.Errorf("update member %s: %w", m.ID, err)
	}
	return nil
}

// DeleteMember removes a member.
func (s *Service) DeleteMember(ctx context.Context, role auth.Role, teamID, subTeamID, memberID string) error {
	if !s.policy.CanManageSubTeam(role, subTeamID, teamID) {
		metrics.RecordPermissionDenial(string(auth.ActionManageMembers))
		return fmt.Errorf("delete member %s: %w", memberID, ErrPermissionDenied)
	}
	if err := s.store.DeleteMember(ctx, teamID, subTeamID, memberID); err != nil {
		return fmt.Errorf("delete member %s: %w", memberID, err)
	}
	return nil
}

// SubmitScore records one per-product point submission for a member.
func (s *Service) SubmitScore(ctx context.Context, role auth.Role, rec model.ScoreRecord) (model.ScoreRecord, error) {
	if !role.CanSubmitScores(rec.TeamID, rec.SubTeamID) {
		metrics.RecordPermissionDenial(string(auth.ActionSubmitScores))
		return model.ScoreRecord{}, fmt.Errorf("submit score: %w", ErrPermissionDenied)
	}
	if rec.Date == "" {
		rec.Date = s.now()
	}
	if err := rec.ValidateKey(); err != nil {
		return model.ScoreRecord{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if !datekey.Valid(rec.Date) {
		return model.ScoreRecord{}, fmt.Errorf("%w: bad date %q", ErrInvalidRecord, rec.Date)
	}

	rec.ReviewedScores = nil // reviews go through ReviewScore
	rec.CreatedBy = role.LeaderID
	rec.UpdatedBy = role.LeaderID
	rec.CreatedAt = time.Now()
	rec.LastUpdated = rec.CreatedAt

	created, err := s.store.CreateScore(ctx, rec)
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("submit score: %w", err)
	}
	metrics.RecordScoreSubmitted()
	s.logger.Info(ctx, "score submitted",
		logger.String("scoreId", created.ID),
		logger.String("memberId", created.MemberID),
		logger.Bool("unavailable", created.Unavailable),
	)
	return created, nil
}

// UpdateScore replaces the as-submitted values of an existing record. The
// caller must be allowed to submit for the record's team/sub-team.
func (s *Service) UpdateScore(ctx context.Context, role auth.Role, scoreID string, scores map[string]int, unavailable bool) error {
	existing, err := s.store.Score(ctx, scoreID)
	if err != nil {
		return fmt.Errorf("update score %s: %w", scoreID, err)
	}
	if !role.CanSubmitScores(existing.TeamID, existing.SubTeamID) {
		metrics.RecordPermissionDenial(string(auth.ActionSubmitScores))
		return fmt.Errorf("update score %s: %w", scoreID, ErrPermissionDenied)
	}
	existing.Scores = scores
	existing.Unavailable = unavailable
	existing.UpdatedBy = role.LeaderID
	existing.LastUpdated = time.Now()
	if err := s.store.UpdateScore(ctx, existing); err != nil {
		return fmt.Errorf("update score %s: %w", scoreID, err)
	}
	return nil
}

// ReviewScore sets the reviewed values of a record. First review requires
// review_scores; changing an existing review requires edit_reviewed_scores.
func (s *Service) ReviewScore(ctx context.Context, role auth.Role, scoreID string, reviewed map[string]int) error {
	existing, err := s.store.Score(ctx, scoreID)
	if err != nil {
		return fmt.Errorf("review score %s: %w", scoreID, err)
	}

	action := auth.ActionReviewScores
	if existing.Reviewed() {
		action = auth.ActionEditReviewedScores
	}
	if !role.HasPermission(action) {
		metrics.RecordPermissionDenial(string(action))
		return fmt.Errorf("review score %s: %w", scoreID, ErrPermissionDenied)
	}

	existing.ReviewedScores = reviewed
	existing.ReviewedBy = role.LeaderID
	existing.ReviewedAt = time.Now()
	existing.LastUpdated = existing.ReviewedAt
	if err := s.store.UpdateScore(ctx, existing); err != nil {
		return fmt.Errorf("review score %s: %w", scoreID, err)
	}
	metrics.RecordScoreReviewed()
	s.logger.Info(ctx, "score reviewed",
		logger.String("scoreId", scoreID),
		logger.String("by", role.LeaderID),
	)
	return nil
}

// DeleteScore removes a record the caller may submit for.
func (s *Service) DeleteScore(ctx context.Context, role auth.Role, scoreID string) error {
	existing, err := s.store.Score(ctx, scoreID)
	if err != nil {
		return fmt.Errorf("delete score %s: %w", scoreID, err)
	}
	if !role.CanSubmitScores(existing.TeamID, existing.SubTeamID) {
		metrics.RecordPermissionDenial(string(auth.ActionSubmitScores))
		return fmt.Errorf("delete score %s: %w", scoreID, ErrPermissionDenied)
	}
	if err := s.store.DeleteScore(ctx, scoreID); err != nil {
		return fmt.Errorf("delete score %s: %w", scoreID, err)
	}
	return nil
}

// Scores lists records visible to dashboard-capable callers, scoped by f.
func (s *Service) Scores(ctx context.Context, role auth.Role, f repository.Filter) ([]model.ScoreRecord, error) {
	if !role.HasPermission(auth.ActionViewDashboard) {
		metrics.RecordPermissionDenial(string(auth.ActionViewDashboard))
		return nil, fmt.Errorf("list scores: %w", ErrPermissionDenied)
	}
	switch role.Type {
	case model.LeaderBranch:
		f.TeamID = role.TeamID
	case model.LeaderSubTeam:
		f.TeamID = role.TeamID
		f.SubTeamID = role.SubTeamID
	}
	scores, err := s.store.Scores(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return scores, nil
}

func (s *Service) refreshEntityGauges(snap Snapshot) {
	members := 0
	for _, team := range snap.Teams {
		for _, subTeam := range team.SubTeams {
			members += len(subTeam.Members)
		}
	}
	metrics.UpdateTotalTeams(len(snap.Teams))
	metrics.UpdateTotalMembers(members)
	metrics.UpdateTotalLeaders(len(snap.Leaders))
}

func filterTeams(teams []model.Team, teamID string) []model.Team {
	var out []model.Team
	for _, t := range teams {
		if t.ID == teamID {
			out = append(out, t)
		}
	}
	return out
}
