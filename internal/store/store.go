// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmed-okal1/typing/internal/model"
	"github.com/ahmed-okal1/typing/internal/session"

	_ "modernc.org/sqlite" // SQLite driver.
)

const maxLevel = 100

// Store wraps SQLite access for profiles and test results.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
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
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			username TEXT NOT NULL,
			lang TEXT NOT NULL,
			level INTEGER NOT NULL,
			total_tests INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			finished_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			text_id TEXT NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			speed_score INTEGER NOT NULL,
			accuracy_score INTEGER NOT NULL,
			overall_score INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			total_keystrokes INTEGER NOT NULL,
			correct_keystrokes INTEGER NOT NULL,
			incorrect_keystrokes INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS result_key_errors (
			result_id INTEGER NOT NULL,
			key TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (result_id, key)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at);`,
		`CREATE INDEX IF NOT EXISTS idx_result_key_errors_key ON result_key_errors(key);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetUser returns the stored profile, or nil when none exists.
func (s *Store) GetUser(ctx context.Context) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT username, lang, level, total_tests, created_at FROM users WHERE id = 1`)
	var user model.User
	var createdAt string
	if err := row.Scan(&user.Username, &user.Lang, &user.Level, &user.TotalTests, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = parsed
	return &user, nil
}

// EnsureUser returns the stored profile, creating it with the given
// defaults when absent.
func (s *Store) EnsureUser(ctx context.Context, username, lang string) (*model.User, error) {
	user, err := s.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	created := model.User{
		Username:   username,
		Lang:       lang,
		Level:      1,
		TotalTests: 0,
		CreatedAt:  time.Now(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, lang, level, total_tests, created_at) VALUES (1, ?, ?, ?, ?, ?)`,
		created.Username, created.Lang, created.Level, created.TotalTests,
		created.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateUser overwrites the profile's username and language.
func (s *Store) UpdateUser(ctx context.Context, username, lang string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = ?, lang = ? WHERE id = 1`, username, lang)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no profile exists")
	}
	return nil
}

// SaveResult stores a completed test with its missed keys and advances the
// profile: the test counter always increments, and the level rises to the
// overall score (capped) when the score beats the current level.
func (s *Store) SaveResult(ctx context.Context, record model.ResultRecord, misses []session.KeyMiss) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO results (finished_at, lang, difficulty, text_id, wpm, accuracy,
			speed_score, accuracy_score, overall_score, duration_ms,
			total_keystrokes, correct_keystrokes, incorrect_keystrokes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.FinishedAt.Format(time.RFC3339Nano),
		record.Lang,
		record.Difficulty,
		record.TextID,
		record.WPM,
		record.Accuracy,
		record.SpeedScore,
		record.AccuracyScore,
		record.OverallScore,
		record.DurationMs,
		record.TotalKeystrokes,
		record.CorrectKeystrokes,
		record.IncorrectKeystrokes,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(misses) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO result_key_errors (result_id, key, count) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, miss := range misses {
			if _, err := stmt.ExecContext(ctx, id, string(miss.Key), miss.Count); err != nil {
				return 0, err
			}
		}
	}

	level := record.OverallScore
	if level > maxLevel {
		level = maxLevel
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE users SET total_tests = total_tests + 1, level = MAX(level, ?) WHERE id = 1`,
		level); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListResults returns result aggregates filtered by stats config, oldest first.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "finished_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, finished_at, lang, difficulty, wpm, accuracy, overall_score, duration_ms
		FROM results
		WHERE %s
		ORDER BY finished_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.ResultAggregate
	for rows.Next() {
		var agg model.ResultAggregate
		var finishedAt string
		if err := rows.Scan(&agg.ResultID, &finishedAt, &agg.Lang, &agg.Difficulty,
			&agg.WPM, &agg.Accuracy, &agg.OverallScore, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, finishedAt)
		if err != nil {
			return nil, err
		}
		agg.FinishedAt = parsed
		results = append(results, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}
	return results, nil
}

// ListKeyErrorAggregates sums missed-key counts across the given results.
func (s *Store) ListKeyErrorAggregates(ctx context.Context, resultIDs []int64) ([]model.KeyErrorAggregate, error) {
	if len(resultIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(resultIDs))
	args := make([]any, len(resultIDs))
	for i, id := range resultIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT key, SUM(count) AS count
		FROM result_key_errors
		WHERE result_id IN (%s)
		GROUP BY key
		ORDER BY count DESC, key ASC`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.KeyErrorAggregate
	for rows.Next() {
		var agg model.KeyErrorAggregate
		if err := rows.Scan(&agg.Key, &agg.Count); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
