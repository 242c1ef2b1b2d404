package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Greenjacket-nomad/personal-plan/internal/db/driver"
)

// TxRunner provides a transactional execution interface.
// This allows operations to run within a transaction context,
// ensuring atomicity of multi-table operations.
type TxRunner interface {
	// RunInTx executes the given function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	RunInTx(ctx context.Context, fn func(tx *TxOps) error) error
}

// TxOps provides database operations within a transaction.
// It wraps a driver.Tx to provide the same interface as PlanDB
// but executes all operations within the transaction. The context
// is stored and used for all operations, enabling cancellation
// and timeout propagation through the entire transaction.
type TxOps struct {
	tx        driver.Tx
	dialect   driver.Dialect
	forUpdate string
	ctx       context.Context
}

// Exec executes a query within the transaction.
func (t *TxOps) Exec(query string, args ...any) (sql.Result, error) {
	return t.tx.Exec(t.ctx, query, args...)
}

// Query executes a query that returns rows within the transaction.
func (t *TxOps) Query(query string, args ...any) (*sql.Rows, error) {
	return t.tx.Query(t.ctx, query, args...)
}

// QueryRow executes a query that returns at most one row within the transaction.
func (t *TxOps) QueryRow(query string, args ...any) *sql.Row {
	return t.tx.QueryRow(t.ctx, query, args...)
}

// Context returns the context associated with this transaction.
func (t *TxOps) Context() context.Context {
	return t.ctx
}

// Dialect returns the database dialect.
func (t *TxOps) Dialect() driver.Dialect {
	return t.dialect
}

// ForUpdate returns the dialect's row-locking clause.
func (t *TxOps) ForUpdate() string {
	return t.forUpdate
}

// PlanDB provides operations on a plan database (.plan/plan.db).
type PlanDB struct {
	*DB
}

// OpenPlan opens the plan database at {dir}/.plan/plan.db using SQLite.
func OpenPlan(dir string) (*PlanDB, error) {
	path := filepath.Join(dir, ".plan", "plan.db")
	db, err := Open(path)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate("plan"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate plan db: %w", err)
	}

	return &PlanDB{DB: db}, nil
}

// OpenPlanWithDialect opens the plan database with a specific dialect.
// For SQLite, dsn is the file path. For PostgreSQL, dsn is the connection string.
func OpenPlanWithDialect(dsn string, dialect driver.Dialect) (*PlanDB, error) {
	db, err := OpenWithDialect(dsn, dialect)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate("plan"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate plan db: %w", err)
	}

	return &PlanDB{DB: db}, nil
}

// OpenPlanInMemory opens an in-memory plan database with migrations applied.
// Much faster than file-based databases; each call is a fresh isolated store.
func OpenPlanInMemory() (*PlanDB, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, err
	}

	if err := db.Migrate("plan"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate plan db: %w", err)
	}

	return &PlanDB{DB: db}, nil
}

// RunInTx executes the given function within a database transaction.
// If fn returns an error, the transaction is rolled back.
// If fn returns nil, the transaction is committed.
func (p *PlanDB) RunInTx(ctx context.Context, fn func(tx *TxOps) error) error {
	tx, err := p.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txOps := &TxOps{
		tx:        tx,
		dialect:   p.Dialect(),
		forUpdate: p.Driver().ForUpdate(),
		ctx:       ctx,
	}

	if err := fn(txOps); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Ensure PlanDB implements TxRunner
var _ TxRunner = (*PlanDB)(nil)

// IsConflict reports whether err is a uniqueness collision or a lost
// serialization race — the cases where retrying a move with fresh reads can
// succeed. Covers SQLite constraint/busy errors and the Postgres
// unique_violation (23505) and serialization_failure (40001) codes.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "40001") ||
		strings.Contains(msg, "duplicate key value")
}
