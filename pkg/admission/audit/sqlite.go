package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteSink persists admission records to a SQLite database. Suitable for
// single-instance deployments that need a decision trail across restarts.
//
// The database runs in WAL mode for concurrent readers, and the hot
// statements are prepared once at startup.
type SQLiteSink struct {
	db *sql.DB

	writeStmt   *sql.Stmt
	recentStmt  *sql.Stmt
	cleanupStmt *sql.Stmt
}

// NewSQLiteSink opens (creating if needed) the database at dbPath.
func NewSQLiteSink(dbPath string) (*SQLiteSink, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sink := &SQLiteSink{db: db}

	if err := sink.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := sink.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return sink, nil
}

func (s *SQLiteSink) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS admission_records (
		id TEXT PRIMARY KEY,
		event_time INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL,
		tenant_id TEXT NOT NULL,
		subject TEXT NOT NULL,
		path TEXT NOT NULL,
		method TEXT NOT NULL,
		allowed INTEGER NOT NULL,
		level TEXT NOT NULL,
		key TEXT NOT NULL,
		cost INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recorded_at ON admission_records(recorded_at);
	CREATE INDEX IF NOT EXISTS idx_tenant ON admission_records(tenant_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteSink) prepareStatements() error {
	var err error

	s.writeStmt, err = s.db.Prepare(`
		INSERT INTO admission_records (id, event_time, recorded_at, tenant_id, subject, path, method, allowed, level, key, cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare write statement: %w", err)
	}

	s.recentStmt, err = s.db.Prepare(`
		SELECT id, event_time, recorded_at, tenant_id, subject, path, method, allowed, level, key, cost
		FROM admission_records
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare recent statement: %w", err)
	}

	s.cleanupStmt, err = s.db.Prepare(`
		DELETE FROM admission_records
		WHERE recorded_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cleanup statement: %w", err)
	}

	return nil
}

// Write implements Sink.
func (s *SQLiteSink) Write(ctx context.Context, record *Record) error {
	allowed := 0
	if record.Allowed {
		allowed = 1
	}

	_, err := s.writeStmt.ExecContext(ctx,
		record.ID,
		record.EventTime,
		record.RecordedAt.UnixMilli(),
		record.TenantID,
		record.Subject,
		record.Path,
		record.Method,
		allowed,
		record.Level,
		record.Key,
		record.Cost,
	)
	if err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Recent implements Sink.
func (s *SQLiteSink) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.recentStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var r Record
		var recordedAt int64
		var allowed int
		if err := rows.Scan(&r.ID, &r.EventTime, &recordedAt, &r.TenantID, &r.Subject, &r.Path, &r.Method, &allowed, &r.Level, &r.Key, &r.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.RecordedAt = time.UnixMilli(recordedAt)
		r.Allowed = allowed == 1
		records = append(records, &r)
	}
	return records, rows.Err()
}

// Cleanup implements Sink.
func (s *SQLiteSink) Cleanup(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.cleanupStmt.ExecContext(ctx, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup records: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Close implements Sink.
func (s *SQLiteSink) Close() error {
	for _, stmt := range []*sql.Stmt{s.writeStmt, s.recentStmt, s.cleanupStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}
