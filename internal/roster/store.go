package roster

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/RodolfoRXXX/project-voley-sub000/internal/volley"
	"github.com/charmbracelet/log"
)

// New creates a new RosterStore backed by the given database.
func New(db *sql.DB) RosterStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

func (s *store) CreateMatch(m *volley.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	quotasJSON, err := json.Marshal(m.Quotas)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO matches (id, group_id, state, start_time, quotas_json, subs_capacity, team_count, deadline_processed, lock_owner, lock_expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', 0, ?)
	`, m.ID, m.GroupID, m.State, m.StartTime, quotasJSON, m.SubsCapacity, m.TeamCount, m.DeadlineProcessed, m.CreatedAt)
	return err
}

func (s *store) GetMatch(matchID string) (*volley.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, group_id, state, start_time, quotas_json, subs_capacity, team_count, deadline_processed, lock_owner, lock_expires_at, created_at
		FROM matches WHERE id = ?
	`, matchID)
	return s.scanMatch(row)
}

// ListMatchesByState retrieves all matches currently in one of the given
// states, ordered by start time. With no states it returns every match.
// Used by the deadline sweeper.
func (s *store) ListMatchesByState(states ...volley.MatchState) ([]*volley.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where := ""
	args := make([]any, len(states))
	if len(states) > 0 {
		where = " WHERE state IN (" + strings.TrimSuffix(strings.Repeat("?,", len(states)), ",") + ")"
		for i, st := range states {
			args[i] = st
		}
	}

	rows, err := s.db.Query(`
		SELECT id, group_id, state, start_time, quotas_json, subs_capacity, team_count, deadline_processed, lock_owner, lock_expires_at, created_at
		FROM matches`+where+` ORDER BY start_time
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*volley.Match
	for rows.Next() {
		m, err := s.scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// TransitionState moves a match from one state to another with a
// compare-and-set on the current state. A transition that observes a stale
// state fails with ErrStateConflict instead of applying.
func (s *store) TransitionState(matchID string, from, to volley.MatchState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET state = ? WHERE id = ? AND state = ?", to, matchID, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM matches WHERE id = ?)", matchID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		return fmt.Errorf("%w: expected %s", ErrStateConflict, from)
	}
	return nil
}

func (s *store) SetDeadlineProcessed(matchID string, processed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE matches SET deadline_processed = ? WHERE id = ?", processed, matchID)
	return err
}

// AcquireMatchLease takes the per-match advisory lease via compare-and-set.
// The lease is free when it has no owner or its expiry has passed, so a
// crashed holder can never starve a match forever. A held lease returns
// ErrLockBusy immediately; there is no blocking wait.
func (s *store) AcquireMatchLease(matchID, owner string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowUnix := s.now().Unix()
	res, err := s.db.Exec(`
		UPDATE matches SET lock_owner = ?, lock_expires_at = ?
		WHERE id = ? AND (lock_owner = '' OR lock_expires_at <= ?)
	`, owner, nowUnix+int64(ttl.Seconds()), matchID, nowUnix)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM matches WHERE id = ?)", matchID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		return ErrLockBusy
	}
	return nil
}

// ReleaseMatchLease clears the lease if the caller still owns it. Releasing
// a lease that expired and was taken over by someone else is a no-op.
func (s *store) ReleaseMatchLease(matchID, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE matches SET lock_owner = '', lock_expires_at = 0 WHERE id = ? AND lock_owner = ?", matchID, owner)
	return err
}

// CreateParticipation records a player's join request. At most one active
// participation per (match, player) is allowed; removed ones stay as history.
func (s *store) CreateParticipation(p *volley.Participation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM participations WHERE match_id = ? AND player_id = ? AND status != ?)
	`, p.MatchID, p.PlayerID, volley.ParticipationRemoved).Scan(&exists)
	if err != nil {
		tx.Rollback()
		return err
	}
	if exists {
		tx.Rollback()
		return fmt.Errorf("%w: player %s, match %s", ErrAlreadyJoined, p.PlayerID, p.MatchID)
	}

	_, err = tx.Exec(`
		INSERT INTO participations (id, match_id, player_id, status, position, starter_rank, substitute_rank, score, payment_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.MatchID, p.PlayerID, p.Status, nullString(p.Position), nullInt(p.StarterRank), nullInt(p.SubstituteRank), p.Score, p.PaymentStatus, p.CreatedAt)
	if err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *store) GetParticipation(participationID string) (*volley.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, match_id, player_id, status, position, starter_rank, substitute_rank, score, payment_status, created_at
		FROM participations WHERE id = ?
	`, participationID)
	p, err := s.scanParticipation(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrParticipationNotFound, participationID)
	}
	return p, err
}

// GetActiveParticipations returns every non-removed participation for a
// match, in join order.
func (s *store) GetActiveParticipations(matchID string) ([]*volley.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, match_id, player_id, status, position, starter_rank, substitute_rank, score, payment_status, created_at
		FROM participations WHERE match_id = ? AND status != ? ORDER BY created_at, id
	`, matchID, volley.ParticipationRemoved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectParticipations(rows)
}

func (s *store) GetParticipationsByStatus(matchID string, status volley.ParticipationStatus) ([]*volley.Participation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, match_id, player_id, status, position, starter_rank, substitute_rank, score, payment_status, created_at
		FROM participations WHERE match_id = ? AND status = ?
		ORDER BY COALESCE(starter_rank, substitute_rank, 0), created_at
	`, matchID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.collectParticipations(rows)
}

// MarkRemoved withdraws a participation. The row is kept as history.
func (s *store) MarkRemoved(participationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE participations SET status = ?, position = NULL, starter_rank = NULL, substitute_rank = NULL
		WHERE id = ?
	`, volley.ParticipationRemoved, participationID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrParticipationNotFound, participationID)
	}
	return nil
}

func (s *store) SetPaymentStatus(participationID string, status volley.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE participations SET payment_status = ? WHERE id = ?", status, participationID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrParticipationNotFound, participationID)
	}
	return nil
}

// ApplyAssignments persists the outcome of one allocation run as a single
// transaction. A partial allocation is never observable.
func (s *store) ApplyAssignments(matchID string, assignments []volley.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		UPDATE participations
		SET status = ?, position = ?, starter_rank = ?, substitute_rank = ?, score = ?
		WHERE id = ? AND match_id = ?
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.Exec(a.Status, nullString(a.Position), nullInt(a.StarterRank), nullInt(a.SubstituteRank), a.Score, a.ParticipationID, matchID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply assignment for %s: %w", a.ParticipationID, err)
		}
	}
	return tx.Commit()
}

// PromoteSubstitute flips a substitute to starter in the vacated position.
// The substitute rank is cleared and the starter rank is deliberately left
// unset; only a full allocation run assigns dense ranks.
func (s *store) PromoteSubstitute(participationID, position string, deferPayment bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE participations
		SET status = ?, position = ?, starter_rank = NULL, substitute_rank = NULL
		WHERE id = ? AND status = ?
	`
	args := []any{volley.ParticipationStarter, position, participationID, volley.ParticipationSubstitute}
	if deferPayment {
		query = `
			UPDATE participations
			SET status = ?, position = ?, starter_rank = NULL, substitute_rank = NULL, payment_status = ?
			WHERE id = ? AND status = ?
		`
		args = []any{volley.ParticipationStarter, position, volley.PaymentDeferred, participationID, volley.ParticipationSubstitute}
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s is not a substitute", ErrParticipationNotFound, participationID)
	}
	return nil
}

func (s *store) UpsertPlayer(p *volley.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefsJSON, err := json.Marshal(p.PreferredPositions)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO players (id, name, commitment, preferred_positions_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			preferred_positions_json = excluded.preferred_positions_json;
	`, p.ID, p.Name, p.Commitment, prefsJSON)
	return err
}

func (s *store) GetPlayer(playerID string) (*volley.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT id, name, commitment, preferred_positions_json FROM players WHERE id = ?", playerID)
	p, err := s.scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return p, err
}

func (s *store) GetPlayers(playerIDs []string) (map[string]*volley.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make(map[string]*volley.Player, len(playerIDs))
	if len(playerIDs) == 0 {
		return players, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(playerIDs)), ",")
	rows, err := s.db.Query("SELECT id, name, commitment, preferred_positions_json FROM players WHERE id IN ("+placeholders+")", ToAnySlice(playerIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := s.scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players[p.ID] = p
	}
	return players, rows.Err()
}

// AdjustCommitment shifts a player's commitment score; withdrawal decay
// passes a negative delta.
func (s *store) AdjustCommitment(playerID string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE players SET commitment = commitment + ? WHERE id = ?", delta, playerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return nil
}

func (s *store) CreateGroup(g *volley.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO groups (id, name, admin_id, total_matches_played)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, admin_id = excluded.admin_id;
	`, g.ID, g.Name, g.AdminID, g.TotalMatchesPlayed)
	return err
}

func (s *store) GetGroup(groupID string) (*volley.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var g volley.Group
	err := s.db.QueryRow("SELECT id, name, admin_id, total_matches_played FROM groups WHERE id = ?", groupID).
		Scan(&g.ID, &g.Name, &g.AdminID, &g.TotalMatchesPlayed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetGroupCounters returns the group's total matches played and each
// player's per-group played counter. Both feed the scoring function.
func (s *store) GetGroupCounters(groupID string) (int, map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int
	err := s.db.QueryRow("SELECT total_matches_played FROM groups WHERE id = ?", groupID).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	if err != nil {
		return 0, nil, err
	}

	rows, err := s.db.Query("SELECT player_id, played FROM group_stats WHERE group_id = ?", groupID)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	played := make(map[string]int)
	for rows.Next() {
		var playerID string
		var count int
		if err := rows.Scan(&playerID, &count); err != nil {
			log.Error("Failed to scan group stats row", "error", err)
			continue
		}
		played[playerID] = count
	}
	return total, played, rows.Err()
}

// RecordMatchPlayed bumps the group's total counter and each starter's
// per-group counter in one transaction, on the closed to played transition.
func (s *store) RecordMatchPlayed(groupID string, starterPlayerIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec("UPDATE groups SET total_matches_played = total_matches_played + 1 WHERE id = ?", groupID); err != nil {
		tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO group_stats (group_id, player_id, played)
		VALUES (?, ?, 1)
		ON CONFLICT(group_id, player_id) DO UPDATE SET played = played + 1;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, playerID := range starterPlayerIDs {
		if _, err := stmt.Exec(groupID, playerID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to bump played counter for %s: %w", playerID, err)
		}
	}
	return tx.Commit()
}

// SaveTeams stores the generated team document for a match, fully replacing
// any previous generation.
func (s *store) SaveTeams(set *volley.TeamSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teamsJSON, err := json.Marshal(set.Teams)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO teams (match_id, generated_at, teams_json)
		VALUES (?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			generated_at = excluded.generated_at,
			teams_json = excluded.teams_json;
	`, set.MatchID, set.GeneratedAt, teamsJSON)
	return err
}

func (s *store) GetTeams(matchID string) (*volley.TeamSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var set volley.TeamSet
	var teamsJSON string
	err := s.db.QueryRow("SELECT match_id, generated_at, teams_json FROM teams WHERE match_id = ?", matchID).
		Scan(&set.MatchID, &set.GeneratedAt, &teamsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(teamsJSON), &set.Teams); err != nil {
		return nil, fmt.Errorf("failed to unmarshal teams_json for %s: %w", matchID, err)
	}
	return &set, nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"teams", "participations", "group_stats", "matches", "players", "groups"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func (s *store) scanMatch(scanner interface{ Scan(...any) error }) (*volley.Match, error) {
	var m volley.Match
	var quotasJSON string

	err := scanner.Scan(
		&m.ID, &m.GroupID, &m.State, &m.StartTime, &quotasJSON, &m.SubsCapacity,
		&m.TeamCount, &m.DeadlineProcessed, &m.LockOwner, &m.LockExpiresAt, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}

	if quotasJSON != "" {
		if err := json.Unmarshal([]byte(quotasJSON), &m.Quotas); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quotas_json for %s: %w", m.ID, err)
		}
	}
	return &m, nil
}

func (s *store) scanParticipation(scanner interface{ Scan(...any) error }) (*volley.Participation, error) {
	var p volley.Participation
	var position sql.NullString
	var starterRank, substituteRank sql.NullInt64

	err := scanner.Scan(
		&p.ID, &p.MatchID, &p.PlayerID, &p.Status, &position,
		&starterRank, &substituteRank, &p.Score, &p.PaymentStatus, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Position = position.String
	if starterRank.Valid {
		rank := int(starterRank.Int64)
		p.StarterRank = &rank
	}
	if substituteRank.Valid {
		rank := int(substituteRank.Int64)
		p.SubstituteRank = &rank
	}
	return &p, nil
}

func (s *store) scanPlayer(scanner interface{ Scan(...any) error }) (*volley.Player, error) {
	var p volley.Player
	var prefsJSON sql.NullString

	if err := scanner.Scan(&p.ID, &p.Name, &p.Commitment, &prefsJSON); err != nil {
		return nil, err
	}
	if prefsJSON.Valid && prefsJSON.String != "" {
		if err := json.Unmarshal([]byte(prefsJSON.String), &p.PreferredPositions); err != nil {
			log.Error("Failed to unmarshal preferred_positions_json", "error", err, "playerID", p.ID)
		}
	}
	return &p, nil
}

func (s *store) collectParticipations(rows *sql.Rows) ([]*volley.Participation, error) {
	var participations []*volley.Participation
	for rows.Next() {
		p, err := s.scanParticipation(rows)
		if err != nil {
			log.Error("Failed to scan participation row", "error", err)
			continue
		}
		participations = append(participations, p)
	}
	return participations, rows.Err()
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// ToAnySlice converts a typed slice to []any for variadic query arguments.
func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
