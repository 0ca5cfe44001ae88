package storage

// SchemaVersion is the current sample store schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the sample store schema.
const Schema = `
-- Signal catalog; fields is a JSON array of struct field names
CREATE TABLE IF NOT EXISTS signals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    fields TEXT
);

-- Decoded samples; value is the JSON encoding of the sample value
CREATE TABLE IF NOT EXISTS samples (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    time_ns INTEGER NOT NULL,
    signal TEXT NOT NULL,
    value TEXT
);

CREATE INDEX IF NOT EXISTS idx_samples_time ON samples(time_ns, seq);
CREATE INDEX IF NOT EXISTS idx_samples_signal ON samples(signal);

-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InsertSchemaVersion records the schema version.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion returns the latest schema version.
const GetSchemaVersion = `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1`

// upsertSignal inserts or refreshes a catalog entry.
const upsertSignal = `
INSERT INTO signals (name, fields) VALUES (?, ?)
ON CONFLICT(name) DO UPDATE SET fields = excluded.fields
`

// insertSample appends one sample.
const insertSample = `INSERT INTO samples (time_ns, signal, value) VALUES (?, ?, ?)`

// selectSignals lists the catalog in insertion order.
const selectSignals = `SELECT name, fields FROM signals ORDER BY id`

// selectSamples is the base sample query; a WHERE clause may be spliced in
// before the ORDER BY.
const selectSamples = `SELECT time_ns, signal, value FROM samples%s ORDER BY time_ns, seq`
