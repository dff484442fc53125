package archive

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// StoreConfig contains configuration for the SQLite record store.
type StoreConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultStoreConfig returns the default record store configuration.
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		Path:         "data/archive.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// RecordStore persists ArchiveRecords in SQLite. It replaces the older
// one-metadata-file-per-artifact layout: records are keyed by source file
// and indexed on archived_at so retention sweeps are a single range delete.
type RecordStore struct {
	db     *sql.DB
	config *StoreConfig
	logger *slog.Logger
}

// NewRecordStore opens (or creates) the archive record database.
func NewRecordStore(config *StoreConfig) (*RecordStore, error) {
	if config == nil {
		config = DefaultStoreConfig()
	}

	logger := slog.Default().With("component", "archive.store")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &RecordStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("archive record store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *RecordStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Store persists one archive record.
func (s *RecordStore) Store(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO archive_records (id, source_file, backend, content_hash, archived_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.SourceFile, record.Backend, record.ContentHash, record.ArchivedAt.UTC(),
	)
	if err != nil {
		return NewStorageError("sqlite", "store", err)
	}

	return nil
}

// QueryBefore returns every record archived strictly before the cutoff,
// oldest first. Rows that fail to scan are skipped with a warning so one
// malformed record never aborts a retention sweep.
func (s *RecordStore) QueryBefore(ctx context.Context, cutoff time.Time) ([]*Record, error) {
	query := `
		SELECT id, source_file, backend, content_hash, archived_at
		FROM archive_records
		WHERE archived_at < ?
		ORDER BY archived_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, cutoff.UTC())
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.SourceFile, &r.Backend, &r.ContentHash, &r.ArchivedAt); err != nil {
			s.logger.Warn("skipping unreadable archive record", "error", err)
			continue
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// FindBySourceFile returns records for one artifact, newest first.
func (s *RecordStore) FindBySourceFile(ctx context.Context, sourceFile string) ([]*Record, error) {
	query := `
		SELECT id, source_file, backend, content_hash, archived_at
		FROM archive_records
		WHERE source_file = ?
		ORDER BY archived_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, sourceFile)
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.SourceFile, &r.Backend, &r.ContentHash, &r.ArchivedAt); err != nil {
			s.logger.Warn("skipping unreadable archive record", "error", err)
			continue
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Recent returns the newest records, up to limit. A limit of zero or less
// falls back to 100.
func (s *RecordStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, source_file, backend, content_hash, archived_at
		FROM archive_records
		ORDER BY archived_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.SourceFile, &r.Backend, &r.ContentHash, &r.ArchivedAt); err != nil {
			s.logger.Warn("skipping unreadable archive record", "error", err)
			continue
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// DeleteBefore removes every record archived strictly before the cutoff and
// returns the number of records deleted.
func (s *RecordStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM archive_records WHERE archived_at < ?", cutoff.UTC())
	if err != nil {
		return 0, NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("sqlite", "delete", err)
	}

	return count, nil
}

// Count returns the total number of archive records.
func (s *RecordStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archive_records").Scan(&count)
	if err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Close releases the underlying database connection.
func (s *RecordStore) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("archive record store closed")
	return nil
}
