package trace

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRecorder implements Recorder using SQLite.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if they do not exist.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRecorder{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS traces (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		input TEXT,
		output TEXT,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_traces_created_at ON traces(created_at);
	CREATE INDEX IF NOT EXISTS idx_traces_name ON traces(name);

	CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trace_id TEXT NOT NULL,
		name TEXT NOT NULL,
		value REAL NOT NULL,
		comment TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_scores_trace_id ON scores(trace_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Record inserts a trace. A zero CreatedAt is filled in with the current time.
func (r *SQLiteRecorder) Record(ctx context.Context, t *Trace) error {
	inputJSON, err := json.Marshal(t.Input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}
	outputJSON, err := json.Marshal(t.Output)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	metadataJSON, err := json.Marshal(t.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO traces (id, name, input, output, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, string(inputJSON), string(outputJSON), string(metadataJSON), t.CreatedAt,
	)
	return err
}

// Score inserts a feedback score for a trace. The trace does not have to
// exist: feedback for an unknown or expired trace id is still kept.
func (r *SQLiteRecorder) Score(ctx context.Context, s *Score) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scores (trace_id, name, value, comment, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.TraceID, s.Name, s.Value, s.Comment, s.CreatedAt,
	)
	return err
}

// GetTrace returns a trace by id.
func (r *SQLiteRecorder) GetTrace(ctx context.Context, id string) (*Trace, error) {
	var t Trace
	var inputJSON, outputJSON, metadataJSON string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, input, output, metadata, created_at
		 FROM traces WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &inputJSON, &outputJSON, &metadataJSON, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("trace not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	for _, pair := range []struct {
		raw  string
		into *map[string]interface{}
	}{
		{inputJSON, &t.Input},
		{outputJSON, &t.Output},
		{metadataJSON, &t.Metadata},
	} {
		if pair.raw == "" || pair.raw == "null" {
			continue
		}
		if err := json.Unmarshal([]byte(pair.raw), pair.into); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trace fields: %w", err)
		}
	}
	return &t, nil
}

// GetScores returns all scores recorded for a trace.
func (r *SQLiteRecorder) GetScores(ctx context.Context, traceID string) ([]*Score, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT trace_id, name, value, comment, created_at
		 FROM scores WHERE trace_id = ? ORDER BY created_at`,
		traceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []*Score
	for rows.Next() {
		var s Score
		if err := rows.Scan(&s.TraceID, &s.Name, &s.Value, &s.Comment, &s.CreatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, &s)
	}
	return scores, rows.Err()
}

// CountTraces returns the total number of recorded traces.
func (r *SQLiteRecorder) CountTraces(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM traces`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
