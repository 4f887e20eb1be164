package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the sqlite driver

	"github.com/westcairo/scoreboard/internal/domain/model"
)

// SQLStore persists collections as JSON documents in SQLite, one table per
// collection with the filterable keys lifted into indexed columns. It keeps
// the same ordering and id-generation semantics as MemStore.
type SQLStore struct {
	db *sql.DB
}

const sqlSchema = `
CREATE TABLE IF NOT EXISTS teams (
	id     TEXT PRIMARY KEY,
	number INTEGER NOT NULL DEFAULT 0,
	doc    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sub_teams (
	id      TEXT PRIMARY KEY,
	team_id TEXT NOT NULL,
	number  INTEGER NOT NULL DEFAULT 0,
	doc     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sub_teams_team ON sub_teams(team_id);
CREATE TABLE IF NOT EXISTS members (
	id          TEXT PRIMARY KEY,
	team_id     TEXT NOT NULL,
	sub_team_id TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	doc         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_members_sub_team ON members(team_id, sub_team_id);
CREATE TABLE IF NOT EXISTS leaders (
	id      TEXT PRIMARY KEY,
	user_id TEXT NOT NULL DEFAULT '',
	doc     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS scores (
	id          TEXT PRIMARY KEY,
	date        TEXT NOT NULL,
	team_id     TEXT NOT NULL,
	sub_team_id TEXT NOT NULL,
	member_id   TEXT NOT NULL,
	doc         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scores_date ON scores(date);
CREATE INDEX IF NOT EXISTS idx_scores_member ON scores(team_id, sub_team_id, member_id);
`

// NewSQLStore creates the schema if needed and returns a store backed by db.
func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, sqlSchema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Teams(ctx context.Context) ([]model.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM teams ORDER BY number, id`)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var t model.Team
		if err := scanDoc(rows, &t); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *SQLStore) Team(ctx context.Context, teamID string) (model.Team, error) {
	var t model.Team
	err := s.getDoc(ctx, `SELECT doc FROM teams WHERE id = ?`, &t, teamID)
	if err != nil {
		return model.Team{}, fmt.Errorf("team %s: %w", teamID, err)
	}
	return t, nil
}

func (s *SQLStore) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	id, err := s.sequenceID(ctx, `SELECT COUNT(*) FROM teams`, nil, "team_%d", func(id string) (bool, error) {
		return s.idUsed(ctx, `SELECT 1 FROM teams WHERE id = ?`, id)
	})
	if err != nil {
		return model.Team{}, err
	}
	t.ID = id
	t.SubTeams = nil
	if err := s.insertDoc(ctx, `INSERT INTO teams (id, number, doc) VALUES (?, ?, ?)`, t, t.ID, t.Number); err != nil {
		return model.Team{}, err
	}
	return t, nil
}

func (s *SQLStore) UpdateTeam(ctx context.Context, t model.Team) error {
	t.SubTeams = nil
	doc, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode team: %w", err)
	}
	return s.execOne(ctx, `UPDATE teams SET number = ?, doc = ? WHERE id = ?`, t.Number, string(doc), t.ID)
}

func (s *SQLStore) DeleteTeam(ctx context.Context, teamID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, teamID)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sub_teams WHERE team_id = ?`, teamID); err != nil {
		return fmt.Errorf("delete sub-teams: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE team_id = ?`, teamID); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	return tx.Commit()
}

func (s *SQLStore) SubTeams(ctx context.Context, teamID string) ([]model.SubTeam, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM sub_teams WHERE team_id = ? ORDER BY number, id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("query sub-teams: %w", err)
	}
	defer rows.Close()

	var subTeams []model.SubTeam
	for rows.Next() {
		var st model.SubTeam
		if err := scanDoc(rows, &st); err != nil {
			return nil, err
		}
		subTeams = append(subTeams, st)
	}
	return subTeams, rows.Err()
}

func (s *SQLStore) SubTeam(ctx context.Context, teamID, subTeamID string) (model.SubTeam, error) {
	var st model.SubTeam
	err := s.getDoc(ctx, `SELECT doc FROM sub_teams WHERE id = ? AND team_id = ?`, &st, subTeamID, teamID)
	if err != nil {
		return model.SubTeam{}, fmt.Errorf("sub-team %s: %w", subTeamID, err)
	}
	return st, nil
}

func (s *SQLStore) CreateSubTeam(ctx context.Context, st model.SubTeam) (model.SubTeam, error) {
	if _, err := s.Team(ctx, st.TeamID); err != nil {
		return model.SubTeam{}, err
	}
	id, err := s.sequenceID(ctx, `SELECT COUNT(*) FROM sub_teams WHERE team_id = ?`, []any{st.TeamID}, st.TeamID+"_%d", func(id string) (bool, error) {
		return s.idUsed(ctx, `SELECT 1 FROM sub_teams WHERE id = ?`, id)
	})
	if err != nil {
		return model.SubTeam{}, err
	}
	st.ID = id
	st.Members = nil
	if err := s.insertDoc(ctx, `INSERT INTO sub_teams (id, team_id, number, doc) VALUES (?, ?, ?, ?)`, st, st.ID, st.TeamID, st.Number); err != nil {
		return model.SubTeam{}, err
	}
	return st, nil
}

func (s *SQLStore) UpdateSubTeam(ctx context.Context, st model.SubTeam) error {
	st.Members = nil
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode sub-team: %w", err)
	}
	return s.execOne(ctx, `UPDATE sub_teams SET number = ?, doc = ? WHERE id = ?`, st.Number, string(doc), st.ID)
}

func (s *SQLStore) DeleteSubTeam(ctx context.Context, teamID, subTeamID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `DELETE FROM sub_teams WHERE id = ? AND team_id = ?`, subTeamID, teamID)
	if err != nil {
		return fmt.Errorf("delete sub-team: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sub-team %s: %w", subTeamID, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM members WHERE sub_team_id = ?`, subTeamID); err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	return tx.Commit()
}

func (s *SQLStore) Members(ctx context.Context, teamID, subTeamID string) ([]model.Member, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM members WHERE team_id = ? AND sub_team_id = ? ORDER BY name, id`, teamID, subTeamID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := scanDoc(rows, &m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLStore) CreateMember(ctx context.Context, m model.Member) (model.Member, error) {
	if _, err := s.SubTeam(ctx, m.TeamID, m.SubTeamID); err != nil {
		return model.Member{}, err
	}
	id, err := s.sequenceID(ctx, `SELECT COUNT(*) FROM members WHERE sub_team_id = ?`, []any{m.SubTeamID}, m.SubTeamID+"_member_%d", func(id string) (bool, error) {
		return s.idUsed(ctx, `SELECT 1 FROM members WHERE id = ?`, id)
	})
	if err != nil {
		return model.Member{}, err
	}
	m.ID = id
	if err := s.insertDoc(ctx, `INSERT INTO members (id, team_id, sub_team_id, name, doc) VALUES (?, ?, ?, ?, ?)`, m, m.ID, m.TeamID, m.SubTeamID, m.Name); err != nil {
		return model.Member{}, err
	}
	return m, nil
}

func (s *SQLStore) UpdateMember(ctx context.Context, m model.Member) error {
	doc, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode member: %w", err)
	}
	return s.execOne(ctx, `UPDATE members SET name = ?, doc = ? WHERE id = ?`, m.Name, string(doc), m.ID)
}

func (s *SQLStore) DeleteMember(ctx context.Context, teamID, subTeamID, memberID string) error {
	return s.execOne(ctx, `DELETE FROM members WHERE id = ? AND team_id = ? AND sub_team_id = ?`, memberID, teamID, subTeamID)
}

func (s *SQLStore) Leaders(ctx context.Context) ([]model.Leader, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM leaders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query leaders: %w", err)
	}
	defer rows.Close()

	var leaders []model.Leader
	for rows.Next() {
		var l model.Leader
		if err := scanDoc(rows, &l); err != nil {
			return nil, err
		}
		leaders = append(leaders, l)
	}
	return leaders, rows.Err()
}

func (s *SQLStore) Leader(ctx context.Context, leaderID string) (model.Leader, error) {
	var l model.Leader
	err := s.getDoc(ctx, `SELECT doc FROM leaders WHERE id = ?`, &l, leaderID)
	if err != nil {
		return model.Leader{}, fmt.Errorf("leader %s: %w", leaderID, err)
	}
	return l, nil
}

func (s *SQLStore) LeaderByUser(ctx context.Context, userID string) (model.Leader, error) {
	var l model.Leader
	err := s.getDoc(ctx, `SELECT doc FROM leaders WHERE user_id = ?`, &l, userID)
	if err != nil {
		return model.Leader{}, fmt.Errorf("user %s: %w", userID, err)
	}
	return l, nil
}

func (s *SQLStore) PutLeader(ctx context.Context, l model.Leader) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode leader: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leaders (id, user_id, doc) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, doc = excluded.doc`,
		l.ID, l.UserID, string(doc))
	if err != nil {
		return fmt.Errorf("put leader: %w", err)
	}
	return nil
}

func (s *SQLStore) Scores(ctx context.Context, f Filter) ([]model.ScoreRecord, error) {
	query := `SELECT doc FROM scores WHERE 1=1`
	var args []any
	if f.Date != "" {
		query += ` AND date = ?`
		args = append(args, f.Date)
	}
	if f.TeamID != "" {
		query += ` AND team_id = ?`
		args = append(args, f.TeamID)
	}
	if f.SubTeamID != "" {
		query += ` AND sub_team_id = ?`
		args = append(args, f.SubTeamID)
	}
	if f.MemberID != "" {
		query += ` AND member_id = ?`
		args = append(args, f.MemberID)
	}
	query += ` ORDER BY date DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var scores []model.ScoreRecord
	for rows.Next() {
		var rec model.ScoreRecord
		if err := scanDoc(rows, &rec); err != nil {
			return nil, err
		}
		scores = append(scores, rec)
	}
	return scores, rows.Err()
}

func (s *SQLStore) Score(ctx context.Context, scoreID string) (model.ScoreRecord, error) {
	var rec model.ScoreRecord
	err := s.getDoc(ctx, `SELECT doc FROM scores WHERE id = ?`, &rec, scoreID)
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("score %s: %w", scoreID, err)
	}
	return rec, nil
}

func (s *SQLStore) CreateScore(ctx context.Context, rec model.ScoreRecord) (model.ScoreRecord, error) {
	rec.ID = uuid.NewString()
	err := s.insertDoc(ctx, `INSERT INTO scores (id, date, team_id, sub_team_id, member_id, doc) VALUES (?, ?, ?, ?, ?, ?)`,
		rec, rec.ID, rec.Date, rec.TeamID, rec.SubTeamID, rec.MemberID)
	if err != nil {
		return model.ScoreRecord{}, err
	}
	return rec, nil
}

func (s *SQLStore) UpdateScore(ctx context.Context, rec model.ScoreRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}
	return s.execOne(ctx, `UPDATE scores SET date = ?, doc = ? WHERE id = ?`, rec.Date, string(doc), rec.ID)
}

func (s *SQLStore) DeleteScore(ctx context.Context, scoreID string) error {
	return s.execOne(ctx, `DELETE FROM scores WHERE id = ?`, scoreID)
}

// getDoc runs a single-row doc query and decodes it into out.
func (s *SQLStore) getDoc(ctx context.Context, query string, out any, args ...any) error {
	var doc string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query doc: %w", err)
	}
	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return fmt.Errorf("decode doc: %w", err)
	}
	return nil
}

// insertDoc marshals v and executes an insert whose last parameter is the
// JSON document.
func (s *SQLStore) insertDoc(ctx context.Context, query string, v any, args ...any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode doc: %w", err)
	}
	args = append(args, string(doc))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert doc: %w", err)
	}
	return nil
}

// execOne runs a statement that must affect exactly one row.
func (s *SQLStore) execOne(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// sequenceID mirrors the memstore numbering scheme against SQL counts.
func (s *SQLStore) sequenceID(ctx context.Context, countQuery string, countArgs []any, format string, used func(string) (bool, error)) (string, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&count); err != nil {
		return "", fmt.Errorf("count: %w", err)
	}
	n := count + 1
	for {
		id := fmt.Sprintf(format, n)
		taken, err := used(id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
		n++
	}
}

func (s *SQLStore) idUsed(ctx context.Context, query, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, query, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check id: %w", err)
	}
	return true, nil
}

// scanDoc decodes the doc column of the current row into out.
func scanDoc(rows *sql.Rows, out any) error {
	var doc string
	if err := rows.Scan(&doc); err != nil {
		return fmt.Errorf("scan doc: %w", err)
	}
	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return fmt.Errorf("decode doc: %w", err)
	}
	return nil
}
