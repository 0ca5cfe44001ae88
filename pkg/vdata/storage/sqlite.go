package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // cgo SQLite driver ("sqlite3")
	_ "modernc.org/sqlite"          // pure Go SQLite driver ("sqlite")

	"vdatahq/vswcsv/pkg/vdata"
)

// SQLite driver names.
const (
	DriverCGo    = "sqlite3"
	DriverPureGo = "sqlite"
)

// maxFilterParams bounds the IN list of a filtered sample query. Larger
// filters are applied while scanning.
const maxFilterParams = 500

// SQLiteConfig contains configuration for a SQLite sample store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver is the database/sql driver name: "sqlite3" (cgo) or
	// "sqlite" (pure Go).
	// Default: "sqlite"
	Driver string

	// WALMode enables Write-Ahead Logging when creating a store.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:      DriverPureGo,
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStore is a sample store kept in a SQLite database. It implements
// Input for reading and provides Append for writing.
type SQLiteStore struct {
	db      *sql.DB
	config  *SQLiteConfig
	catalog *catalog
	mu      sync.RWMutex
	logger  *slog.Logger
	closed  bool
}

// OpenSQLiteStore opens an existing sample store.
func OpenSQLiteStore(ctx context.Context, config *SQLiteConfig) (*SQLiteStore, error) {
	s, err := openSQLite(config)
	if err != nil {
		return nil, err
	}

	if err := s.checkSchema(ctx); err != nil {
		s.db.Close()
		return nil, err
	}
	if err := s.loadCatalog(ctx); err != nil {
		s.db.Close()
		return nil, err
	}

	s.logger.Debug("sample store opened", "signals", len(s.catalog.signals))
	return s, nil
}

// CreateSQLiteStore opens a sample store for writing, creating the schema
// when missing.
func CreateSQLiteStore(ctx context.Context, config *SQLiteConfig) (*SQLiteStore, error) {
	s, err := openSQLite(config)
	if err != nil {
		return nil, err
	}

	if err := s.initialize(ctx); err != nil {
		s.db.Close()
		return nil, err
	}
	if err := s.loadCatalog(ctx); err != nil {
		s.db.Close()
		return nil, err
	}

	s.logger.Info("sample store initialized",
		"path", s.config.Path,
		"driver", s.config.Driver,
		"wal_mode", s.config.WALMode,
	)
	return s, nil
}

func openSQLite(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil || config.Path == "" {
		return nil, vdata.NewSourceError("", "open", fmt.Errorf("sqlite path is empty"))
	}
	cfg := *config
	if cfg.Driver == "" {
		cfg.Driver = DriverPureGo
	}
	if cfg.Driver != DriverCGo && cfg.Driver != DriverPureGo {
		return nil, vdata.NewSourceError(cfg.Path, "open",
			fmt.Errorf("unsupported sqlite driver %q (supported: %s, %s)", cfg.Driver, DriverPureGo, DriverCGo))
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open(cfg.Driver, cfg.Path)
	if err != nil {
		return nil, vdata.NewSourceError(cfg.Path, "open", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, vdata.NewSourceError(cfg.Path, "set_busy_timeout", err)
	}

	return &SQLiteStore{
		db:      db,
		config:  &cfg,
		catalog: newCatalog(),
		logger:  slog.Default().With("component", "vdata.storage.sqlite", "path", cfg.Path),
	}, nil
}

// initialize creates the schema and records its version.
func (s *SQLiteStore) initialize(ctx context.Context) error {
	if s.config.WALMode {
		if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			return vdata.NewSourceError(s.config.Path, "enable_wal", err)
		}
	}
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return vdata.NewSourceError(s.config.Path, "create_schema", err)
	}
	if _, err := s.db.ExecContext(ctx, InsertSchemaVersion, SchemaVersion); err != nil {
		return vdata.NewSourceError(s.config.Path, "insert_schema_version", err)
	}
	return s.checkSchema(ctx)
}

func (s *SQLiteStore) checkSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, GetSchemaVersion).Scan(&version); err != nil {
		return vdata.NewSourceError(s.config.Path, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return vdata.NewSourceError(s.config.Path, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

func (s *SQLiteStore) loadCatalog(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, selectSignals)
	if err != nil {
		return vdata.NewSourceError(s.config.Path, "load_signals", err)
	}
	defer rows.Close()

	cat := newCatalog()
	for rows.Next() {
		var name string
		var fields sql.NullString
		if err := rows.Scan(&name, &fields); err != nil {
			return vdata.NewSourceError(s.config.Path, "load_signals", err)
		}
		info := SignalInfo{Name: name}
		if fields.Valid && fields.String != "" {
			if err := json.Unmarshal([]byte(fields.String), &info.Fields); err != nil {
				return vdata.NewSourceError(s.config.Path, "load_signals",
					fmt.Errorf("signal %q: invalid fields: %w", name, err))
			}
		}
		cat.addInfo(info)
	}
	if err := rows.Err(); err != nil {
		return vdata.NewSourceError(s.config.Path, "load_signals", err)
	}

	s.mu.Lock()
	s.catalog = cat
	s.mu.Unlock()
	return nil
}

// Append stores samples in one transaction and updates the signal catalog.
func (s *SQLiteStore) Append(ctx context.Context, samples []Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return vdata.NewSourceError(s.config.Path, "begin", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSample)
	if err != nil {
		return vdata.NewSourceError(s.config.Path, "prepare", err)
	}
	defer stmt.Close()

	touched := make(map[string]struct{})
	for _, sample := range samples {
		var value interface{}
		if !vdata.IsNull(sample.Value) {
			data, err := EncodeValue(sample.Value)
			if err != nil {
				return vdata.NewSourceError(s.config.Path, "encode",
					fmt.Errorf("signal %q: %w", sample.Signal, err))
			}
			value = string(data)
		}

		if _, err := stmt.ExecContext(ctx, sample.Time.UnixNano(), sample.Signal, value); err != nil {
			return vdata.NewSourceError(s.config.Path, "insert", err)
		}
		s.catalog.add(sample.Signal, sample.Value)
		touched[sample.Signal] = struct{}{}
	}

	for _, info := range s.catalog.signals {
		if _, ok := touched[info.Name]; !ok {
			continue
		}
		var fields interface{}
		if info.IsStruct() {
			data, _ := json.Marshal(info.Fields)
			fields = string(data)
		}
		if _, err := tx.ExecContext(ctx, upsertSignal, info.Name, fields); err != nil {
			return vdata.NewSourceError(s.config.Path, "upsert_signal", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return vdata.NewSourceError(s.config.Path, "commit", err)
	}
	return nil
}

// Count returns the number of stored samples.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM samples").Scan(&n); err != nil {
		return 0, vdata.NewSourceError(s.config.Path, "count", err)
	}
	return n, nil
}

// Path implements Input.
func (s *SQLiteStore) Path() string {
	return s.config.Path
}

// Signals implements Input.
func (s *SQLiteStore) Signals() []SignalInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.list()
}

// Cursor implements Input. Samples are read lazily from the database.
func (s *SQLiteStore) Cursor(signals []string) (SampleCursor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, vdata.NewSourceError(s.config.Path, "query", fmt.Errorf("store is closed"))
	}

	where := ""
	var args []interface{}
	var filter map[string]struct{}
	if signals != nil {
		if len(signals) == 0 {
			return &memoryCursor{pos: -1}, nil
		}
		if len(signals) <= maxFilterParams {
			where = " WHERE signal IN (?" + strings.Repeat(",?", len(signals)-1) + ")"
			for _, name := range signals {
				args = append(args, name)
			}
		} else {
			filter = signalSet(signals)
		}
	}

	rows, err := s.db.Query(fmt.Sprintf(selectSamples, where), args...)
	if err != nil {
		return nil, vdata.NewSourceError(s.config.Path, "query", err)
	}
	return &sqliteCursor{rows: rows, filter: filter, path: s.config.Path}, nil
}

// Close implements Input.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return vdata.NewSourceError(s.config.Path, "close", err)
	}
	return nil
}

type sqliteCursor struct {
	rows    *sql.Rows
	filter  map[string]struct{}
	path    string
	current Sample
	err     error
}

func (c *sqliteCursor) Next() bool {
	if c.err != nil {
		return false
	}
	for c.rows.Next() {
		var ns int64
		var signal string
		var raw sql.NullString
		if err := c.rows.Scan(&ns, &signal, &raw); err != nil {
			c.err = vdata.NewSourceError(c.path, "scan", err)
			return false
		}
		if c.filter != nil {
			if _, ok := c.filter[signal]; !ok {
				continue
			}
		}

		var v vdata.Value = vdata.Null{}
		if raw.Valid {
			decoded, err := DecodeValue([]byte(raw.String))
			if err != nil {
				c.err = vdata.NewSourceError(c.path, "decode", fmt.Errorf("signal %q: %w", signal, err))
				return false
			}
			v = decoded
		}

		c.current = Sample{Time: time.Unix(0, ns).UTC(), Signal: signal, Value: v}
		return true
	}
	return false
}

func (c *sqliteCursor) Sample() Sample {
	return c.current
}

func (c *sqliteCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	if err := c.rows.Err(); err != nil {
		return vdata.NewSourceError(c.path, "query", err)
	}
	return nil
}

func (c *sqliteCursor) Close() error {
	return c.rows.Close()
}
