package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/westcairo/scoreboard/internal/domain/model"
)

// MemStore is an in-memory Store used for tests and single-node deployments.
// Collections are flat maps; the joined hierarchy is assembled by the caller.
type MemStore struct {
	mu       sync.RWMutex
	teams    map[string]model.Team
	subTeams map[string]model.SubTeam
	members  map[string]model.Member
	leaders  map[string]model.Leader
	scores   map[string]model.ScoreRecord
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		teams:    make(map[string]model.Team),
		subTeams: make(map[string]model.SubTeam),
		members:  make(map[string]model.Member),
		leaders:  make(map[string]model.Leader),
		scores:   make(map[string]model.ScoreRecord),
	}
}

func (s *MemStore) Teams(ctx context.Context) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	teams := make([]model.Team, 0, len(s.teams))
	for _, t := range s.teams {
		t.SubTeams = nil
		teams = append(teams, t)
	}
	sortTeams(teams)
	return teams, nil
}

func (s *MemStore) Team(ctx context.Context, teamID string) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[teamID]
	if !ok {
		return model.Team{}, fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}
	t.SubTeams = nil
	return t, nil
}

func (s *MemStore) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID("team_%d", len(s.teams), func(id string) bool {
		_, used := s.teams[id]
		return used
	})
	t.SubTeams = nil
	s.teams[t.ID] = t
	return t, nil
}

func (s *MemStore) UpdateTeam(ctx context.Context, t model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[t.ID]; !ok {
		return fmt.Errorf("team %s: %w", t.ID, ErrNotFound)
	}
	t.SubTeams = nil
	s.teams[t.ID] = t
	return nil
}

func (s *MemStore) DeleteTeam(ctx context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[teamID]; !ok {
		return fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}
	delete(s.teams, teamID)
	for id, st := range s.subTeams {
		if st.TeamID == teamID {
			delete(s.subTeams, id)
		}
	}
	for id, m := range s.members {
		if m.TeamID == teamID {
			delete(s.members, id)
		}
	}
	return nil
}

func (s *MemStore) SubTeams(ctx context.Context, teamID string) ([]model.SubTeam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var subTeams []model.SubTeam
	for _, st := range s.subTeams {
		if st.TeamID == teamID {
			st.Members = nil
			subTeams = append(subTeams, st)
		}
	}
	sortSubTeams(subTeams)
	return subTeams, nil
}

func (s *MemStore) SubTeam(ctx context.Context, teamID, subTeamID string) (model.SubTeam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.subTeams[subTeamID]
	if !ok || st.TeamID != teamID {
		return model.SubTeam{}, fmt.Errorf("sub-team %s: %w", subTeamID, ErrNotFound)
	}
	st.Members = nil
	return st, nil
}

func (s *MemStore) CreateSubTeam(ctx context.Context, st model.SubTeam) (model.SubTeam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[st.TeamID]; !ok {
		return model.SubTeam{}, fmt.Errorf("team %s: %w", st.TeamID, ErrNotFound)
	}
	count := 0
	for _, existing := range s.subTeams {
		if existing.TeamID == st.TeamID {
			count++
		}
	}
	st.ID = s.nextID(st.TeamID+"_%d", count, func(id string) bool {
		_, used := s.subTeams[id]
		return used
	})
	st.Members = nil
	s.subTeams[st.ID] = st
	return st, nil
}

func (s *MemStore) UpdateSubTeam(ctx context.Context, st model.SubTeam) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subTeams[st.ID]; !ok {
		return fmt.Errorf("sub-team %s: %w", st.ID, ErrNotFound)
	}
	st.Members = nil
	s.subTeams[st.ID] = st
	return nil
}

func (s *MemStore) DeleteSubTeam(ctx context.Context, teamID, subTeamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.subTeams[subTeamID]
	if !ok || st.TeamID != teamID {
		return fmt.Errorf("sub-team %s: %w", subTeamID, ErrNotFound)
	}
	delete(s.subTeams, subTeamID)
	for id, m := range s.members {
		if m.SubTeamID == subTeamID {
			delete(s.members, id)
		}
	}
	return nil
}

func (s *MemStore) Members(ctx context.Context, teamID, subTeamID string) ([]model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []model.Member
	for _, m := range s.members {
		if m.TeamID == teamID && m.SubTeamID == subTeamID {
			members = append(members, m)
		}
	}
	sortMembers(members)
	return members, nil
}

func (s *MemStore) CreateMember(ctx context.Context, m model.Member) (model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.subTeams[m.SubTeamID]
	if !ok || st.TeamID != m.TeamID {
		return model.Member{}, fmt.Errorf("sub-team %s: %w", m.SubTeamID, ErrNotFound)
	}
	count := 0
	for _, existing := range s.members {
		if existing.SubTeamID == m.SubTeamID {
			count++
		}
	}
	m.ID = s.nextID(m.SubTeamID+"_member_%d", count, func(id string) bool {
		_, used := s.members[id]
		return used
	})
	s.members[m.ID] = m
	return m, nil
}

func (s *MemStore) UpdateMember(ctx context.Context, m model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[m.ID]; !ok {
		return fmt.Errorf("member %s: %w", m.ID, ErrNotFound)
	}
	s.members[m.ID] = m
	return nil
}

func (s *MemStore) DeleteMember(ctx context.Context, teamID, subTeamID, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[memberID]
	if !ok || m.TeamID != teamID || m.SubTeamID != subTeamID {
		return fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	delete(s.members, memberID)
	return nil
}

func (s *MemStore) Leaders(ctx context.Context) ([]model.Leader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leaders := make([]model.Leader, 0, len(s.leaders))
	for _, l := range s.leaders {
		leaders = append(leaders, l)
	}
	sortLeaders(leaders)
	return leaders, nil
}

func (s *MemStore) Leader(ctx context.Context, leaderID string) (model.Leader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leaders[leaderID]
	if !ok {
		return model.Leader{}, fmt.Errorf("leader %s: %w", leaderID, ErrNotFound)
	}
	return l, nil
}

func (s *MemStore) LeaderByUser(ctx context.Context, userID string) (model.Leader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.leaders {
		if l.UserID == userID {
			return l, nil
		}
	}
	return model.Leader{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
}

// PutLeader upserts a leader directory entry. Leader provisioning is an
// admin bootstrap concern, not part of the gated mutation surface.
func (s *MemStore) PutLeader(ctx context.Context, l model.Leader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	s.leaders[l.ID] = l
	return nil
}

func (s *MemStore) Scores(ctx context.Context, f Filter) ([]model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scores []model.ScoreRecord
	for _, rec := range s.scores {
		if f.Matches(rec) {
			scores = append(scores, rec)
		}
	}
	sortScores(scores)
	return scores, nil
}

func (s *MemStore) Score(ctx context.Context, scoreID string) (model.ScoreRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.scores[scoreID]
	if !ok {
		return model.ScoreRecord{}, fmt.Errorf("score %s: %w", scoreID, ErrNotFound)
	}
	return rec, nil
}

func (s *MemStore) CreateScore(ctx context.Context, rec model.ScoreRecord) (model.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = uuid.NewString()
	s.scores[rec.ID] = rec
	return rec, nil
}

func (s *MemStore) UpdateScore(ctx context.Context, rec model.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scores[rec.ID]; !ok {
		return fmt.Errorf("score %s: %w", rec.ID, ErrNotFound)
	}
	s.scores[rec.ID] = rec
	return nil
}

func (s *MemStore) DeleteScore(ctx context.Context, scoreID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.scores[scoreID]; !ok {
		return fmt.Errorf("score %s: %w", scoreID, ErrNotFound)
	}
	delete(s.scores, scoreID)
	return nil
}

// nextID generates sequence-style document ids (team_1, team_1_2,
// team_1_2_member_3) the way the original numbering scheme works: count+1,
// bumped past ids still in use after deletions.
func (s *MemStore) nextID(format string, count int, used func(string) bool) string {
	n := count + 1
	id := fmt.Sprintf(format, n)
	for used(id) {
		n++
		id = fmt.Sprintf(format, n)
	}
	return id
}
