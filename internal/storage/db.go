// ABOUTME: SQLite database handle with a serialized-writer transactional store.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Querier is the subset of database operations available inside a
// transaction closure. Both *sql.Tx and *sql.DB satisfy it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Options configures database opening behavior.
type Options struct {
	// EraseOnSchemaChange drops and rebuilds the database file when the
	// aggregate migration fingerprint differs from the last applied one.
	// Destructive; acceptable only outside production.
	EraseOnSchemaChange bool
}

// DB wraps the SQLite connection. Writes are serialized process-wide
// through Write; reads run concurrently through Read. Committed writes
// signal observation subscriptions (see observe.go).
type DB struct {
	db     *sql.DB
	dbPath string

	writeMu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int
}

// Open opens or creates a SQLite database at the given path and applies
// pending migrations. A migration failure is returned to the caller and
// must be treated as fatal: the store cannot be trusted.
func Open(dbPath string) (*DB, error) {
	return OpenWithOptions(dbPath, Options{})
}

// OpenWithOptions opens the database with explicit options.
func OpenWithOptions(dbPath string, opts Options) (*DB, error) {
	d, err := open(dbPath)
	if err != nil {
		return nil, err
	}

	if opts.EraseOnSchemaChange {
		changed, err := d.fingerprintChanged(context.Background())
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		if changed {
			if err := d.erase(); err != nil {
				return nil, err
			}
			d, err = open(dbPath)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := d.migrate(context.Background()); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return d, nil
}

func open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d := &DB{db: db, dbPath: dbPath, subs: make(map[int]chan struct{})}

	// Force a connection so a bad path or unreadable file fails here, not
	// on the first query.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// dsnPragmas is appended to the database path so the driver applies the
// pragmas on every pooled connection. foreign_keys, busy_timeout, and
// synchronous are per-connection state; setting them once over a single
// connection would leave the rest of the pool with SQLite defaults (and
// foreign_keys defaults to off, which disables cascade actions).
const dsnPragmas = "?_pragma=journal_mode(WAL)" +
	"&_pragma=foreign_keys(1)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=synchronous(NORMAL)"

// Read runs fn inside a transaction that is rolled back afterwards, so it
// observes a consistent snapshot without publishing any change.
func (d *DB) Read(ctx context.Context, fn func(q Querier) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin read: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}

// Write runs fn inside a transaction that commits atomically or rolls back
// entirely on any failure. At most one write transaction executes at a
// time; a successful commit signals observation subscriptions.
func (d *DB) Write(ctx context.Context, fn func(q Querier) error) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin write: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	d.notifyCommit()
	return nil
}

// subscribe registers a commit-signal channel for an observation
// subscription. The channel holds one pending signal so rapid writes
// coalesce instead of queueing.
func (d *DB) subscribe() (<-chan struct{}, func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()

	id := d.nextSub
	d.nextSub++
	ch := make(chan struct{}, 1)
	d.subs[id] = ch

	cancel := func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		delete(d.subs, id)
	}
	return ch, cancel
}

func (d *DB) notifyCommit() {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// erase closes the handle and removes the database file plus its WAL
// sidecars. Used only by EraseOnSchemaChange.
func (d *DB) erase() error {
	if err := d.Close(); err != nil {
		return fmt.Errorf("close before erase: %w", err)
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(d.dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("erase database: %w", err)
		}
	}
	return nil
}
