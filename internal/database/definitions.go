package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefinitionDB is the persistent cache of resolved dictionary
// definitions, keyed by lemma. Repeat mining runs hit this cache and
// skip dictionary disambiguation for lemmas seen before.
//
// Design decision: The whole table is loaded into memory once at open
// and writes collect in a dirty set flushed in a single transaction.
// The table stays small (one row per distinct lemma ever mined) and a
// mining run touches most of it, so per-lookup queries would only add
// round trips.
type DefinitionDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// mem holds every row, loaded at open and mutated by Put.
	mem map[string]Definition

	// dirty tracks lemmas whose in-memory value differs from the
	// stored row since the last flush.
	dirty map[string]struct{}
}

// Definition is one cached dictionary resolution. An empty Definition
// string is a valid cached value: it records that disambiguation found
// no confident entry, so the lookup is not repeated next run.
type Definition struct {
	// Definition is the rendered definition, empty for a negative
	// cache entry.
	Definition string

	// Reading is the hiragana reading attached to the winning entry.
	Reading string

	// UpdatedAt is when this row was last written.
	UpdatedAt time.Time
}

// Options configures DefinitionDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended for most use
	// cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the definitions database at path.
// If CreateIfNotExists is true, the parent directory and database file
// are created as needed; if false, a missing database is an error.
func Open(path string, opts Options) (*DefinitionDB, error) {
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("definitions database not found at %s (use CreateIfNotExists option to create)", path)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection modes: rw prevents creating new
	// files, rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = path + "?mode=rwc"
	} else {
		dsn = path + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; one connection avoids lock
	// contention entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ddb := &DefinitionDB{
		db:     db,
		dbPath: path,
		mem:    make(map[string]Definition),
		dirty:  make(map[string]struct{}),
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // Already failing
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := ddb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // Already failing
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := ddb.loadAll(context.Background()); err != nil {
		_ = db.Close() //nolint:errcheck // Already failing
		return nil, fmt.Errorf("failed to load definitions: %w", err)
	}

	return ddb, nil
}

// Close flushes pending writes and closes the database connection.
func (d *DefinitionDB) Close() error {
	if err := d.Flush(context.Background()); err != nil {
		_ = d.db.Close() //nolint:errcheck // Already failing
		return err
	}
	return d.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (d *DefinitionDB) createTables() error {
	schema := `
	-- One row per distinct lemma ever resolved against the dictionary.
	CREATE TABLE IF NOT EXISTS definitions (
		lemma TEXT PRIMARY KEY,
		definition TEXT NOT NULL,
		reading TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := d.db.ExecContext(context.Background(), schema)
	return err
}

// loadAll reads every row into the in-memory map.
func (d *DefinitionDB) loadAll(ctx context.Context) error {
	rows, err := d.db.QueryContext(ctx, `SELECT lemma, definition, reading, updated_at FROM definitions`)
	if err != nil {
		return fmt.Errorf("failed to query definitions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows

	for rows.Next() {
		var lemma, definition, reading, updatedAt string
		if err := rows.Scan(&lemma, &definition, &reading, &updatedAt); err != nil {
			return fmt.Errorf("failed to scan definition: %w", err)
		}
		d.mem[lemma] = Definition{
			Definition: definition,
			Reading:    reading,
			UpdatedAt:  parseTimestamp(updatedAt),
		}
	}
	return rows.Err()
}

// normalizeLemma trims the whitespace tokenizers occasionally leave on
// surface-derived lemmas so cache keys stay stable.
func normalizeLemma(lemma string) string {
	return strings.TrimSpace(lemma)
}

// Get returns the cached definition for lemma. ok distinguishes a
// cached empty definition from an absent lemma.
func (d *DefinitionDB) Get(lemma string) (Definition, bool) {
	def, ok := d.mem[normalizeLemma(lemma)]
	return def, ok
}

// Put records a definition for lemma. The lemma is marked dirty only
// when the value actually changed, so unchanged cache hits cost no
// write at flush time.
func (d *DefinitionDB) Put(lemma string, def Definition) {
	lemma = normalizeLemma(lemma)
	if current, ok := d.mem[lemma]; ok &&
		current.Definition == def.Definition && current.Reading == def.Reading {
		return
	}
	def.UpdatedAt = time.Now().UTC()
	d.mem[lemma] = def
	d.dirty[lemma] = struct{}{}
}

// Flush upserts every dirty row in one transaction and clears the
// dirty set. A flush with nothing dirty is a no-op.
func (d *DefinitionDB) Flush(ctx context.Context) error {
	if len(d.dirty) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin flush transaction: %w", err)
	}

	query := `
	INSERT INTO definitions (lemma, definition, reading, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(lemma) DO UPDATE SET
		definition = excluded.definition,
		reading = excluded.reading,
		updated_at = excluded.updated_at
	`

	for lemma := range d.dirty {
		def := d.mem[lemma]
		if _, err := tx.ExecContext(ctx, query,
			lemma,
			def.Definition,
			def.Reading,
			def.UpdatedAt.Format(time.RFC3339),
		); err != nil {
			_ = tx.Rollback() //nolint:errcheck // Already failing
			return fmt.Errorf("failed to flush definition for %s: %w", lemma, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit definitions flush: %w", err)
	}

	d.dirty = make(map[string]struct{})
	return nil
}

// Len returns the number of cached definitions, negative entries
// included.
func (d *DefinitionDB) Len() int {
	return len(d.mem)
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats come first.
var timestampFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. Returns zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
