package archive

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the archive record schema.
const Schema = `
-- Archive records table: one row per successfully uploaded artifact
CREATE TABLE IF NOT EXISTS archive_records (
    id TEXT PRIMARY KEY,
    source_file TEXT NOT NULL,
    backend TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    archived_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Retention sweeps range-delete on archived_at
CREATE INDEX IF NOT EXISTS idx_archive_records_archived_at ON archive_records(archived_at);
CREATE INDEX IF NOT EXISTS idx_archive_records_source_file ON archive_records(source_file);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
