package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/randomtoy/tarot3d/internal/domain"
)

// Store keeps readings in a SQLite database, with the card snapshots stored
// as a JSON document per row.
type Store struct {
	conn *sql.DB
}

// Open connects to dsn (a file path or ":memory:") and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{conn: db}, nil
}

func (s *Store) Close(_ context.Context) error {
	return s.conn.Close()
}

func (s *Store) Insert(ctx context.Context, r domain.Reading) error {
	cards, err := json.Marshal(r.Cards)
	if err != nil {
		return fmt.Errorf("%w: encode cards of reading %s: %w", domain.ErrStore, r.ID, err)
	}

	var question sql.NullString
	if r.Question != nil {
		question = sql.NullString{String: *r.Question, Valid: true}
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO readings (id, session_id, spread_type, question, cards, interpretation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID,
		r.SessionID,
		string(r.SpreadType),
		question,
		string(cards),
		r.Interpretation,
		r.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("%w: insert reading %s: %w", domain.ErrStore, r.ID, err)
	}
	return nil
}

func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]domain.Reading, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, session_id, spread_type, question, cards, interpretation, created_at
		FROM readings
		WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query history for session %s: %w", domain.ErrStore, sessionID, err)
	}
	defer rows.Close()

	readings := []domain.Reading{}
	for rows.Next() {
		var (
			r         domain.Reading
			spread    string
			question  sql.NullString
			cards     string
			createdAt int64
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &spread, &question, &cards, &r.Interpretation, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan reading row: %w", domain.ErrStore, err)
		}
		if err := json.Unmarshal([]byte(cards), &r.Cards); err != nil {
			return nil, fmt.Errorf("%w: decode cards of reading %s: %w", domain.ErrStore, r.ID, err)
		}
		r.SpreadType = domain.SpreadType(spread)
		if question.Valid {
			q := question.String
			r.Question = &q
		}
		r.CreatedAt = time.Unix(0, createdAt).UTC()
		readings = append(readings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate history: %w", domain.ErrStore, err)
	}
	return readings, nil
}
