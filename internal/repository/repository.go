// Package repository is the store connector: it executes one parameterized
// statement per call against DB2 over a connection acquired for that call
// alone, and classifies failures into connection vs query errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/Shotza247/watsonx-db2-api/internal/apperr"
	"github.com/Shotza247/watsonx-db2-api/internal/query"
)

// Repository provides database operations
type Repository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

// NewRepository initializes a new repository
func NewRepository(db *sqlx.DB, log *logrus.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// acquire checks out a dedicated connection for one logical operation. The
// returned connection must be closed by the caller; defer guarantees exactly
// one release on every exit path.
func (r *Repository) acquire(ctx context.Context) (*sqlx.Conn, error) {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		r.log.WithError(err).Error("failed to acquire database connection")
		return nil, apperr.Connection(err)
	}
	return conn, nil
}

// Get executes stmt and scans the single resulting row into dest.
// sql.ErrNoRows passes through untouched so callers can shape not-found.
func (r *Repository) Get(ctx context.Context, dest interface{}, stmt string, args ...interface{}) error {
	conn, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.GetContext(ctx, dest, stmt, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		r.log.WithError(err).Error("query failed")
		return apperr.Query(err)
	}
	return nil
}

// Select executes stmt and scans all resulting rows into dest.
func (r *Repository) Select(ctx context.Context, dest interface{}, stmt string, args ...interface{}) error {
	conn, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SelectContext(ctx, dest, stmt, args...); err != nil {
		r.log.WithError(err).Error("query failed")
		return apperr.Query(err)
	}
	return nil
}

// Exec executes a mutating statement and returns the number of affected rows.
func (r *Repository) Exec(ctx context.Context, stmt string, args ...interface{}) (int64, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	result, err := conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		r.log.WithError(err).Error("statement failed")
		return 0, apperr.Query(err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// Ping verifies connectivity with a round trip to SYSIBM.SYSDUMMY1.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	return r.Get(ctx, &one, query.Probe)
}

// IsDuplicateKey reports whether err is a DB2 unique-constraint violation
// (SQLSTATE 23505). The store's constraint is the authoritative uniqueness
// check; application-level pre-checks are only a fast path.
func IsDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
