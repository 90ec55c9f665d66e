package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS query_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	question    TEXT NOT NULL,
	intent_kind TEXT NOT NULL,
	confidence  REAL NOT NULL,
	answer      TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	asked_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Entry is one answered question. The invoice dataset itself is never
// persisted; this log is operational telemetry only.
type Entry struct {
	ID         int64
	Question   string
	IntentKind string
	Confidence float64
	Answer     string
	Duration   time.Duration
	AskedAt    time.Time
}

// Recorder appends answered questions to a local sqlite database.
type Recorder struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRecorder opens (or creates) the history database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral database in tests.
func NewRecorder(path string, logger *zap.Logger) (*Recorder, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	logger.Info("Query history recorder ready", zap.String("path", path))
	return &Recorder{db: db, logger: logger}, nil
}

// Record appends one entry. Failures are returned but callers treat them
// as non-fatal: a broken history log must never block an answer.
func (r *Recorder) Record(e Entry) error {
	query := `
		INSERT INTO query_history (question, intent_kind, confidence, answer, duration_ms, asked_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	askedAt := e.AskedAt
	if askedAt.IsZero() {
		askedAt = time.Now().UTC()
	}
	result, err := r.db.Exec(query,
		e.Question,
		e.IntentKind,
		e.Confidence,
		e.Answer,
		e.Duration.Milliseconds(),
		askedAt,
	)
	if err != nil {
		r.logger.Error("Failed to record query", zap.Error(err))
		return fmt.Errorf("failed to record query: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		r.logger.Debug("Query recorded", zap.Int64("id", id))
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (r *Recorder) Recent(limit int) ([]Entry, error) {
	query := `
		SELECT id, question, intent_kind, confidence, answer, duration_ms, asked_at
		FROM query_history
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.Question, &e.IntentKind, &e.Confidence, &e.Answer, &durationMS, &e.AskedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	return r.db.Close()
}
