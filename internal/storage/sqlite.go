package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps run metadata in a runs table and metric series in a
// samples table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scene TEXT NOT NULL,
		preset TEXT NOT NULL DEFAULT '',
		created_ns INTEGER NOT NULL,
		steps INTEGER NOT NULL,
		dt REAL NOT NULL,
		iterations INTEGER NOT NULL,
		gravity REAL NOT NULL,
		points INTEGER NOT NULL,
		links INTEGER NOT NULL,
		severed INTEGER NOT NULL,
		metrics JSON NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL,
		metric TEXT NOT NULL,
		step INTEGER NOT NULL,
		value REAL,
		PRIMARY KEY (run_id, metric, step),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_ns);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Save(meta RunMetadata, series map[string][]float64) (string, error) {
	prepare(&meta)

	metrics, err := json.Marshal(meta.Metrics)
	if err != nil {
		return "", err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, scene, preset, created_ns, steps, dt, iterations, gravity, points, links, severed, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, meta.ID, meta.Scene, meta.Preset, meta.Timestamp.UnixNano(), meta.Steps, meta.Dt,
		meta.Iterations, meta.Gravity, meta.Points, meta.Links, meta.Severed, string(metrics))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO samples (run_id, metric, step, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, name := range seriesNames(series) {
		for i, v := range series[name] {
			// non-finite samples are stored as NULL and read back as NaN
			value := sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
			if _, err := stmt.Exec(meta.ID, name, i+1, value); err != nil {
				return "", fmt.Errorf("failed to insert sample: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

const runColumns = `id, scene, preset, created_ns, steps, dt, iterations, gravity, points, links, severed, metrics`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunMetadata, error) {
	var (
		meta    RunMetadata
		created int64
		metrics string
	)
	err := row.Scan(&meta.ID, &meta.Scene, &meta.Preset, &created, &meta.Steps, &meta.Dt,
		&meta.Iterations, &meta.Gravity, &meta.Points, &meta.Links, &meta.Severed, &metrics)
	if err != nil {
		return nil, err
	}
	meta.Timestamp = time.Unix(0, created)
	if err := json.Unmarshal([]byte(metrics), &meta.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}
	return &meta, nil
}

func (s *SQLiteStore) List() ([]RunMetadata, error) {
	rows, err := s.db.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY created_ns, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteStore) Load(id string) (*RunMetadata, error) {
	meta, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return meta, err
}

func (s *SQLiteStore) LoadSeries(id string) (map[string][]float64, error) {
	if _, err := s.Load(id); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT metric, value FROM samples WHERE run_id = ? ORDER BY metric, step`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	series := make(map[string][]float64)
	for rows.Next() {
		var (
			name  string
			value sql.NullFloat64
		)
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		if !value.Valid {
			value.Float64 = math.NaN()
		}
		series[name] = append(series[name], value.Float64)
	}
	return series, rows.Err()
}
