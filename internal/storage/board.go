package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// BoardLimit is how many names the public board keeps.
const BoardLimit = 200

// BoardEntry is one row of the public high-score board.
type BoardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	TS    int64  `json:"ts"` // Unix seconds of the last improvement
}

// SubmitBest records score for name on the board. Names compare exactly.
// An existing row is only updated when the new score is higher. The board
// is then pruned to BoardLimit rows, best first and newest first on ties.
// The returned entry is the submission itself, as the caller sent it.
func (s *Store) SubmitBest(ctx context.Context, name string, score int, now time.Time) (BoardEntry, error) {
	entry := BoardEntry{Name: name, Score: score, TS: now.Unix()}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entry, fmt.Errorf("storage: cannot begin board update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var current int
	err = tx.QueryRowContext(ctx, "SELECT score FROM board WHERE name = ?", name).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO board (name, score, ts) VALUES (?, ?, ?)",
			entry.Name, entry.Score, entry.TS,
		); err != nil {
			return entry, fmt.Errorf("storage: cannot insert board entry: %w", err)
		}
	case err != nil:
		return entry, fmt.Errorf("storage: cannot read board entry: %w", err)
	case score > current:
		if _, err := tx.ExecContext(ctx,
			"UPDATE board SET score = ?, ts = ? WHERE name = ?",
			entry.Score, entry.TS, entry.Name,
		); err != nil {
			return entry, fmt.Errorf("storage: cannot update board entry: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM board WHERE name NOT IN (
			SELECT name FROM board ORDER BY score DESC, ts DESC LIMIT ?
		)`,
		BoardLimit,
	); err != nil {
		return entry, fmt.Errorf("storage: cannot prune board: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return entry, fmt.Errorf("storage: cannot commit board update: %w", err)
	}
	return entry, nil
}

// TopBoard returns the best limit rows of the board.
func (s *Store) TopBoard(ctx context.Context, limit int) ([]BoardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, score, ts FROM board ORDER BY score DESC, ts DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query board: %w", err)
	}
	defer rows.Close()

	entries := []BoardEntry{}
	for rows.Next() {
		var e BoardEntry
		if err := rows.Scan(&e.Name, &e.Score, &e.TS); err != nil {
			return nil, fmt.Errorf("storage: cannot scan board row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}
