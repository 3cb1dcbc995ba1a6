package storage

import (
	"database/sql"

	"github.com/vct-tools/vctstats/internal/model"
)

// TourSummary is a lightweight record for the list command.
type TourSummary struct {
	Tour             string
	ProcessedMatches int
	SkippedMatches   int
	Players          int
	UpdatedAt        string
}

// UpsertTour records (or refreshes) one tour's run summary.
func (db *DB) UpsertTour(tour string, processed, skipped int) error {
	_, err := db.conn.Exec(`
		INSERT INTO tours(tour, processed_matches, skipped_matches, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(tour) DO UPDATE SET
			processed_matches = excluded.processed_matches,
			skipped_matches = excluded.skipped_matches,
			updated_at = excluded.updated_at`,
		tour, processed, skipped,
	)
	return err
}

// InsertPlayerGameStats bulk-inserts joined rows in a transaction.
// INSERT OR REPLACE keeps re-runs idempotent per (tour, game, player).
func (db *DB) InsertPlayerGameStats(rows []model.PlayerGameStat) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_game_stats(
			tour, platform_game_id, player_id, handle,
			map, agent, role, tournament, region,
			rounds_won_attack, rounds_won_defense,
			combat_score, attack_kda, defense_kda
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err = stmt.Exec(
			r.Tour, r.PlatformGameID, r.PlayerID, r.Handle,
			nullStr(r.Stat.Map), nullStr(r.Stat.Agent), nullStr(r.Stat.Role),
			r.Stat.Tournament, r.Stat.Region,
			r.Stat.RoundsWon.Attack, r.Stat.RoundsWon.Defense,
			r.Stat.CombatScore, r.Stat.AttackKDA, r.Stat.DefenseKDA,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListTours returns stored tour summaries, most recently updated first.
func (db *DB) ListTours() ([]TourSummary, error) {
	rows, err := db.conn.Query(`
		SELECT t.tour, t.processed_matches, t.skipped_matches, t.updated_at,
		       (SELECT COUNT(DISTINCT player_id) FROM player_game_stats s WHERE s.tour = t.tour)
		FROM tours t
		ORDER BY t.updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TourSummary
	for rows.Next() {
		var s TourSummary
		if err := rows.Scan(&s.Tour, &s.ProcessedMatches, &s.SkippedMatches, &s.UpdatedAt, &s.Players); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetTourStats returns every joined row for one tour, ordered by game
// then slot-stable player id.
func (db *DB) GetTourStats(tour string) ([]model.PlayerGameStat, error) {
	return db.queryStats(`
		SELECT tour, platform_game_id, player_id, handle,
		       map, agent, role, tournament, region,
		       rounds_won_attack, rounds_won_defense,
		       combat_score, attack_kda, defense_kda
		FROM player_game_stats
		WHERE tour = ?
		ORDER BY platform_game_id, player_id`, tour)
}

// GetPlayerStats returns one player's rows across all tours, matched by
// handle (case-insensitive).
func (db *DB) GetPlayerStats(handle string) ([]model.PlayerGameStat, error) {
	return db.queryStats(`
		SELECT tour, platform_game_id, player_id, handle,
		       map, agent, role, tournament, region,
		       rounds_won_attack, rounds_won_defense,
		       combat_score, attack_kda, defense_kda
		FROM player_game_stats
		WHERE handle = ? COLLATE NOCASE
		ORDER BY tour, platform_game_id`, handle)
}

func (db *DB) queryStats(query string, args ...any) ([]model.PlayerGameStat, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerGameStat
	for rows.Next() {
		var r model.PlayerGameStat
		var mapName, agent, role sql.NullString
		err := rows.Scan(
			&r.Tour, &r.PlatformGameID, &r.PlayerID, &r.Handle,
			&mapName, &agent, &role, &r.Stat.Tournament, &r.Stat.Region,
			&r.Stat.RoundsWon.Attack, &r.Stat.RoundsWon.Defense,
			&r.Stat.CombatScore, &r.Stat.AttackKDA, &r.Stat.DefenseKDA,
		)
		if err != nil {
			return nil, err
		}
		r.Stat.Map = strPtr(mapName)
		r.Stat.Agent = strPtr(agent)
		r.Stat.Role = strPtr(role)
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
