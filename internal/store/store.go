// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/flowtype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a result id does not exist.
var ErrNotFound = errors.New("result not found")

// Fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for test results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			user TEXT NOT NULL,
			mode TEXT NOT NULL,
			time_budget_s INTEGER NOT NULL,
			word_budget INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			raw_wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			consistency INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			incorrect_chars INTEGER NOT NULL,
			total_chars INTEGER NOT NULL,
			elapsed_seconds REAL NOT NULL,
			error_positions TEXT NOT NULL,
			samples TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_user_ended_at ON results(user, ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_results_mode ON results(mode);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

const resultColumns = `id, user, mode, time_budget_s, word_budget, started_at, ended_at,
	wpm, raw_wpm, accuracy, consistency, correct_chars, incorrect_chars, total_chars,
	elapsed_seconds, error_positions, samples`

// InsertResult stores a finished test and returns its id. An empty id is assigned a new UUID.
func (s *Store) InsertResult(ctx context.Context, rec model.ResultRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	positions, err := encodeInts(rec.Result.ErrorPositions)
	if err != nil {
		return "", err
	}
	samples, err := encodeInts(rec.Result.Samples)
	if err != nil {
		return "", err
	}
	r := rec.Result
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (`+resultColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.User,
		string(rec.Mode),
		rec.TimeBudget,
		rec.WordBudget,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.EndedAt.UTC().Format(timeLayout),
		r.WPM,
		r.RawWPM,
		r.Accuracy,
		r.Consistency,
		r.CorrectChars,
		r.IncorrectChars,
		r.TotalChars,
		r.ElapsedSeconds,
		positions,
		samples,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert result: %w", err)
	}
	return rec.ID, nil
}

// GetResult loads one result by id.
func (s *Store) GetResult(ctx context.Context, id string) (model.ResultRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resultColumns+` FROM results WHERE id = ?`, id)
	rec, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ResultRecord{}, ErrNotFound
	}
	return rec, err
}

// ListResults returns results filtered by stats config, oldest first.
// A positive cfg.Last keeps only the most recent results.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.User != "" {
		clauses = append(clauses, "user = ?")
		args = append(args, cfg.User)
	}
	if cfg.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT %s FROM results WHERE %s ORDER BY ended_at ASC`,
		resultColumns, strings.Join(clauses, " AND "))
	if cfg.Last > 0 {
		query = fmt.Sprintf(`SELECT * FROM (SELECT %s FROM results WHERE %s ORDER BY ended_at DESC LIMIT ?)
			ORDER BY ended_at ASC`, resultColumns, strings.Join(clauses, " AND "))
		args = append(args, cfg.Last)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.ResultRecord
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}
	return records, nil
}

// PersonalBest returns the highest-WPM result for the user, optionally restricted to one mode.
// ok is false when no result matches.
func (s *Store) PersonalBest(ctx context.Context, user string, mode model.Mode) (model.ResultRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM results
		 WHERE user = ? AND (? = '' OR mode = ?)
		 ORDER BY wpm DESC, accuracy DESC, ended_at ASC
		 LIMIT 1`, user, string(mode), string(mode))
	rec, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ResultRecord{}, false, nil
	}
	if err != nil {
		return model.ResultRecord{}, false, err
	}
	return rec, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(sc scanner) (model.ResultRecord, error) {
	var rec model.ResultRecord
	var mode, startedAt, endedAt, positions, samples string
	r := &rec.Result
	err := sc.Scan(&rec.ID, &rec.User, &mode, &rec.TimeBudget, &rec.WordBudget, &startedAt, &endedAt,
		&r.WPM, &r.RawWPM, &r.Accuracy, &r.Consistency, &r.CorrectChars, &r.IncorrectChars, &r.TotalChars,
		&r.ElapsedSeconds, &positions, &samples)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("failed to scan result: %w", err)
	}
	rec.Mode = model.Mode(mode)
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return rec, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return rec, fmt.Errorf("failed to parse ended_at: %w", err)
	}
	if r.ErrorPositions, err = decodeInts(positions); err != nil {
		return rec, err
	}
	if r.Samples, err = decodeInts(samples); err != nil {
		return rec, err
	}
	return rec, nil
}

func encodeInts(values []int) (string, error) {
	if values == nil {
		values = []int{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

func decodeInts(raw string) ([]int, error) {
	values := []int{}
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return values, nil
}
