package storage

import (
	"fmt"
	"time"
)

// HistoryLimit is how many recently played games are kept per player.
const HistoryLimit = 10

// HistoryEntry is one game in a player's recently played list.
type HistoryEntry struct {
	GameID   string
	PlayedAt time.Time
}

// RecordHistory moves gameID to the front of player's recently played list
// and drops the oldest games past HistoryLimit. Anonymous plays are not kept.
func (s *Store) RecordHistory(player, gameID string, at time.Time) error {
	if player == "" || gameID == "" {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin history update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(
		`INSERT INTO history (player, game_id, played_at) VALUES (?, ?, ?)
		 ON CONFLICT(player, game_id) DO UPDATE SET played_at = excluded.played_at`,
		player, gameID, at.UnixNano(),
	); err != nil {
		return fmt.Errorf("storage: cannot record history: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM history WHERE player = ? AND game_id NOT IN (
			SELECT game_id FROM history WHERE player = ? ORDER BY played_at DESC LIMIT ?
		)`,
		player, player, HistoryLimit,
	); err != nil {
		return fmt.Errorf("storage: cannot prune history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit history update: %w", err)
	}
	return nil
}

// RecentGames returns player's recently played games, newest first.
func (s *Store) RecentGames(player string) ([]HistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT game_id, played_at FROM history
		 WHERE player = ?
		 ORDER BY played_at DESC
		 LIMIT ?`,
		player, HistoryLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var ns int64
		if err := rows.Scan(&e.GameID, &ns); err != nil {
			return nil, fmt.Errorf("storage: cannot scan history row: %w", err)
		}
		e.PlayedAt = time.Unix(0, ns)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}
