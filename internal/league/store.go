package league

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new Store.
func New(db *sql.DB) Store {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const playerColumns = `id, name, ranking, wins, losses, preferred_cue, profile_picture_url, created_at`

const matchSelect = `
	SELECT m.id, m.player1_id, m.player2_id, m.start_time, m.end_time, m.winner_id, m.table_number, m.created_at,
		p1.name, p2.name, w.name
	FROM matches m
	JOIN players p1 ON p1.id = m.player1_id
	JOIN players p2 ON p2.id = m.player2_id
	LEFT JOIN players w ON w.id = m.winner_id`

func (s *store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreatePlayer inserts a new player with zeroed stats. ID and CreatedAt are
// assigned when empty.
func (s *store) CreatePlayer(ctx context.Context, p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	p.Ranking, p.Wins, p.Losses = 0, 0, 0

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, ranking, wins, losses, preferred_cue, profile_picture_url, created_at)
		VALUES (?, ?, 0, 0, 0, ?, ?, ?)`,
		p.ID, p.Name, nullString(p.PreferredCue), p.ProfilePictureURL, p.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert player %s: %w", p.ID, err)
	}
	log.Debug("Created player", "playerID", p.ID, "name", p.Name)
	return nil
}

func (s *store) GetPlayer(ctx context.Context, id string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return p, nil
}

func (s *store) ListPlayers(ctx context.Context) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return queryPlayers(ctx, s.db, `SELECT `+playerColumns+` FROM players ORDER BY name ASC, id ASC`)
}

// GetPlayersByRanking returns all players by ranking descending. Players with
// equal ranking are ordered by id ascending.
func (s *store) GetPlayersByRanking(ctx context.Context) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return queryPlayers(ctx, s.db, `SELECT `+playerColumns+` FROM players ORDER BY ranking DESC, id ASC`)
}

func (s *store) UpdatePlayer(ctx context.Context, p *Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE players SET name = ?, preferred_cue = ?, profile_picture_url = ? WHERE id = ?`,
		p.Name, nullString(p.PreferredCue), p.ProfilePictureURL, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", p.ID, err)
	}
	return expectRow(res, "player", p.ID)
}

// DeletePlayer removes a player that no match references.
func (s *store) DeletePlayer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var refs int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM matches WHERE player1_id = ? OR player2_id = ? OR winner_id = ?`,
		id, id, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("failed to count matches for player %s: %w", id, err)
	}
	if refs > 0 {
		return fmt.Errorf("player %s has %d matches: %w", id, refs, ErrPlayerInUse)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	if err := expectRow(res, "player", id); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateMatch inserts a match. ID and CreatedAt are assigned when empty.
func (s *store) CreateMatch(ctx context.Context, m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (id, player1_id, player2_id, start_time, end_time, winner_id, table_number, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Player1ID, m.Player2ID, m.StartTime.UnixMilli(), nullTime(m.EndTime),
		nullString(m.WinnerID), nullInt(m.TableNumber), m.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", m.ID, err)
	}
	log.Debug("Created match", "matchID", m.ID, "player1", m.Player1ID, "player2", m.Player2ID)
	return nil
}

func (s *store) GetMatch(ctx context.Context, id string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return getMatch(ctx, s.db, id)
}

// UpdateMatch overwrites the schedule and outcome fields of a match in a single statement.
func (s *store) UpdateMatch(ctx context.Context, m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE matches SET start_time = ?, end_time = ?, winner_id = ?, table_number = ? WHERE id = ?`,
		m.StartTime.UnixMilli(), nullTime(m.EndTime), nullString(m.WinnerID), nullInt(m.TableNumber), m.ID)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", m.ID, err)
	}
	return expectRow(res, "match", m.ID)
}

func (s *store) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %s: %w", id, err)
	}
	return expectRow(res, "match", id)
}

// ListMatches returns matches ordered by start time.
func (s *store) ListMatches(ctx context.Context, filter MatchFilter) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := matchSelect + ` WHERE 1 = 1`
	var args []any
	if !filter.StartFrom.IsZero() {
		query += ` AND m.start_time >= ?`
		args = append(args, filter.StartFrom.UnixMilli())
	}
	if !filter.StartBefore.IsZero() {
		query += ` AND m.start_time < ?`
		args = append(args, filter.StartBefore.UnixMilli())
	}
	query += ` ORDER BY m.start_time ASC, m.id ASC`

	return queryMatches(ctx, s.db, query, args...)
}

// GetMatchesForPlayer returns every match in which the player appears on either side.
func (s *store) GetMatchesForPlayer(ctx context.Context, playerID string) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return queryMatches(ctx, s.db, matchSelect+`
		WHERE m.player1_id = ? OR m.player2_id = ?
		ORDER BY m.start_time ASC, m.id ASC`, playerID, playerID)
}

func (s *store) ApplyStats(ctx context.Context, deltas map[string]Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := applyDeltas(ctx, tx, deltas); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordResult writes the match and adds the deltas in one transaction, so the
// stored winner and the players' stats never disagree.
func (s *store) RecordResult(ctx context.Context, m *Match, deltas map[string]Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE matches SET start_time = ?, end_time = ?, winner_id = ?, table_number = ? WHERE id = ?`,
		m.StartTime.UnixMilli(), nullTime(m.EndTime), nullString(m.WinnerID), nullInt(m.TableNumber), m.ID)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", m.ID, err)
	}
	if err := expectRow(res, "match", m.ID); err != nil {
		return err
	}

	if err := applyDeltas(ctx, tx, deltas); err != nil {
		return err
	}
	return tx.Commit()
}

func applyDeltas(ctx context.Context, tx *sql.Tx, deltas map[string]Stats) error {
	for playerID, d := range deltas {
		res, err := tx.ExecContext(ctx, `
			UPDATE players SET wins = wins + ?, losses = losses + ?, ranking = ranking + ? WHERE id = ?`,
			d.Wins, d.Losses, d.Ranking, playerID)
		if err != nil {
			return fmt.Errorf("failed to apply stats for player %s: %w", playerID, err)
		}
		if err := expectRow(res, "player", playerID); err != nil {
			return err
		}
	}
	return nil
}

func (s *store) RebuildStats(ctx context.Context, replay func([]Match) map[string]Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	completed, err := queryMatches(ctx, tx, matchSelect+` WHERE m.winner_id IS NOT NULL`)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE players SET wins = 0, losses = 0, ranking = 0`); err != nil {
		return fmt.Errorf("failed to reset player stats: %w", err)
	}

	for playerID, st := range replay(completed) {
		_, err := tx.ExecContext(ctx, `
			UPDATE players SET wins = ?, losses = ?, ranking = ? WHERE id = ?`,
			st.Wins, st.Losses, st.Ranking, playerID)
		if err != nil {
			return fmt.Errorf("failed to write stats for player %s: %w", playerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stats rebuild: %w", err)
	}
	log.Debug("Rebuilt player stats", "completedMatches", len(completed))
	return nil
}

func getMatch(ctx context.Context, q querier, id string) (*Match, error) {
	row := q.QueryRowContext(ctx, matchSelect+` WHERE m.id = ?`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	return m, nil
}

func queryPlayers(ctx context.Context, q querier, query string, args ...any) ([]Player, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

func queryMatches(ctx context.Context, q querier, query string, args ...any) ([]Match, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := []Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}
	return matches, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(sc scanner) (*Player, error) {
	var p Player
	var cue sql.NullString
	var createdAt int64

	err := sc.Scan(&p.ID, &p.Name, &p.Ranking, &p.Wins, &p.Losses, &cue, &p.ProfilePictureURL, &createdAt)
	if err != nil {
		return nil, err
	}
	if cue.Valid {
		p.PreferredCue = &cue.String
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &p, nil
}

func scanMatch(sc scanner) (*Match, error) {
	var m Match
	var start, createdAt int64
	var end, table sql.NullInt64
	var winner, winnerName sql.NullString

	err := sc.Scan(&m.ID, &m.Player1ID, &m.Player2ID, &start, &end, &winner, &table, &createdAt,
		&m.Player1Name, &m.Player2Name, &winnerName)
	if err != nil {
		return nil, err
	}

	m.StartTime = time.UnixMilli(start).UTC()
	m.CreatedAt = time.UnixMilli(createdAt).UTC()
	if end.Valid {
		t := time.UnixMilli(end.Int64).UTC()
		m.EndTime = &t
	}
	if winner.Valid {
		m.WinnerID = &winner.String
	}
	if winnerName.Valid {
		m.WinnerName = &winnerName.String
	}
	if table.Valid {
		n := int(table.Int64)
		m.TableNumber = &n
	}
	return &m, nil
}

func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s %s: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}
