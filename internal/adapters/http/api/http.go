// Package api declares HTTP contracts and route registration helpers.
//
// The handlers are a thin JSON transport for an external presentation
// layer; no HTML is rendered here. Caller identity arrives as the
// X-Leader-Id header set by an upstream identity proxy; absent or unknown
// ids resolve to the guest role.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/westcairo/scoreboard/internal/adapters/repository"
	"github.com/westcairo/scoreboard/internal/app"
	"github.com/westcairo/scoreboard/internal/domain/auth"
	"github.com/westcairo/scoreboard/internal/domain/leaderboard"
	"github.com/westcairo/scoreboard/internal/domain/model"
	"github.com/westcairo/scoreboard/internal/domain/stats"
)

// leaderHeader carries the caller's leader id.
const leaderHeader = "X-Leader-Id"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RoleFor(ctx context.Context, leaderID string) auth.Role

	Leaderboard(ctx context.Context, f repository.Filter) (leaderboard.Views, error)
	DashboardStats(ctx context.Context, role auth.Role) (stats.Stats, error)

	CreateTeam(ctx context.Context, role auth.Role, t model.Team) (model.Team, error)
	UpdateTeam(ctx context.Context, role auth.Role, t model.Team) error
	DeleteTeam(ctx context.Context, role auth.Role, teamID string) error
	CreateSubTeam(ctx context.Context, role auth.Role, st model.SubTeam) (model.SubTeam, error)
	UpdateSubTeam(ctx context.Context, role auth.Role, st model.SubTeam) error
	DeleteSubTeam(ctx context.Context, role auth.Role, teamID, subTeamID string) error
	CreateMember(ctx context.Context, role auth.Role, m model.Member) (model.Member, error)
	UpdateMember(ctx context.Context, role auth.Role, m model.Member) error
	DeleteMember(ctx context.Context, role auth.Role, teamID, subTeamID, memberID string) error

	Scores(ctx context.Context, role auth.Role, f repository.Filter) ([]model.ScoreRecord, error)
	SubmitScore(ctx context.Context, role auth.Role, rec model.ScoreRecord) (model.ScoreRecord, error)
	UpdateScore(ctx context.Context, role auth.Role, scoreID string, scores map[string]int, unavailable bool) error
	ReviewScore(ctx context.Context, role auth.Role, scoreID string, reviewed map[string]int) error
	DeleteScore(ctx context.Context, role auth.Role, scoreID string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	leaderboardHandler *LeaderboardHandler
	dashboardHandler   *DashboardHandler
	teamsHandler       *TeamsHandler
	scoresHandler      *ScoresHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		dashboardHandler:   NewDashboardHandler(deps),
		teamsHandler:       NewTeamsHandler(deps),
		scoresHandler:      NewScoresHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /dashboard/stats", MetricsMiddleware(s.dashboardHandler.HandleGetStats, "dashboard_stats"))

	mux.HandleFunc("POST /teams", MetricsMiddleware(s.teamsHandler.HandleCreateTeam, "teams"))
	mux.HandleFunc("PUT /teams/{teamID}", MetricsMiddleware(s.teamsHandler.HandleUpdateTeam, "teams"))
	mux.HandleFunc("DELETE /teams/{teamID}", MetricsMiddleware(s.teamsHandler.HandleDeleteTeam, "teams"))
	mux.HandleFunc("POST /teams/{teamID}/subteams", MetricsMiddleware(s.teamsHandler.HandleCreateSubTeam, "subteams"))
	mux.HandleFunc("PUT /teams/{teamID}/subteams/{subTeamID}", MetricsMiddleware(s.teamsHandler.HandleUpdateSubTeam, "subteams"))
	mux.HandleFunc("DELETE /teams/{teamID}/subteams/{subTeamID}", MetricsMiddleware(s.teamsHandler.HandleDeleteSubTeam, "subteams"))
	mux.HandleFunc("POST /teams/{teamID}/subteams/{subTeamID}/members", MetricsMiddleware(s.teamsHandler.HandleCreateMember, "members"))
	mux.HandleFunc("PUT /teams/{teamID}/subteams/{subTeamID}/members/{memberID}", MetricsMiddleware(s.teamsHandler.HandleUpdateMember, "members"))
	mux.HandleFunc("DELETE /teams/{teamID}/subteams/{subTeamID}/members/{memberID}", MetricsMiddleware(s.teamsHandler.HandleDeleteMember, "members"))

	mux.HandleFunc("GET /scores", MetricsMiddleware(s.scoresHandler.HandleListScores, "scores"))
	mux.HandleFunc("POST /scores", MetricsMiddleware(s.scoresHandler.HandlePostScore, "scores"))
	mux.HandleFunc("PUT /scores/{scoreID}", MetricsMiddleware(s.scoresHandler.HandleUpdateScore, "scores"))
	mux.HandleFunc("PUT /scores/{scoreID}/review", MetricsMiddleware(s.scoresHandler.HandleReviewScore, "scores"))
	mux.HandleFunc("DELETE /scores/{scoreID}", MetricsMiddleware(s.scoresHandler.HandleDeleteScore, "scores"))
}

// roleFrom resolves the caller's role from the leader id header.
func roleFrom(r *http.Request, deps Dependencies) auth.Role {
	return deps.RoleFor(r.Context(), r.Header.Get(leaderHeader))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service-layer errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
