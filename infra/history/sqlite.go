package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists runs and plan inputs to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT,
        ts INTEGER,
        record TEXT
    );
    CREATE TABLE IF NOT EXISTS plan_inputs (
        name TEXT PRIMARY KEY,
        ts INTEGER,
        inputs TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// AppendRun writes the run record to the database.
func (s *SQLiteStore) AppendRun(ctx context.Context, rec RunRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, ts, record) VALUES (?, ?, ?)`,
		rec.RunID, rec.CreatedAt.Unix(), string(b))
	return err
}

// QueryRuns returns records matching q, oldest first.
func (s *SQLiteStore) QueryRuns(ctx context.Context, q RunQuery) ([]RunRecord, error) {
	var args []any
	query := `SELECT record FROM runs WHERE 1=1`
	if !q.Since.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Since.Unix())
	}
	query += ` ORDER BY ts`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []RunRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r RunRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// LatestRun returns the most recent run, or nil when none exist.
func (s *SQLiteStore) LatestRun(ctx context.Context) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT record FROM runs ORDER BY ts DESC, id DESC LIMIT 1`)
	var data string
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var r RunRecord
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &r, nil
}

// SavePlan stores the plan input form under name, replacing any prior version.
func (s *SQLiteStore) SavePlan(ctx context.Context, name string, plan map[string]any) error {
	b, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plan_inputs (name, ts, inputs) VALUES (?, strftime('%s','now'), ?)
         ON CONFLICT(name) DO UPDATE SET ts=excluded.ts, inputs=excluded.inputs`,
		name, string(b))
	return err
}

// LoadPlan returns the stored plan inputs, or nil when none exist.
func (s *SQLiteStore) LoadPlan(ctx context.Context, name string) (map[string]any, error) {
	row := s.db.QueryRowContext(ctx, `SELECT inputs FROM plan_inputs WHERE name = ?`, name)
	var data string
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var plan map[string]any
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	return plan, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
