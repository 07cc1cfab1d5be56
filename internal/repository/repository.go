// internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the postgres SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// Transaction interface for handling DB transactions.
type Transaction interface {
	// Context returns a context bound to the transaction. Repository calls
	// made with it run inside the transaction.
	Context() context.Context
	Commit() error
	Rollback() error
}

type txKey struct{}

// gormTransaction is a wrapper for a GORM DB transaction.
type gormTransaction struct {
	tx   *gorm.DB
	ctx  context.Context
	done bool
}

func begin(ctx context.Context, db *gorm.DB) (Transaction, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &gormTransaction{tx: tx, ctx: context.WithValue(ctx, txKey{}, tx)}, nil
}

func (t *gormTransaction) Context() context.Context {
	return t.ctx
}

// Commit finalizes the transaction.
func (t *gormTransaction) Commit() error {
	t.done = true
	return t.tx.Commit().Error
}

// Rollback reverts the transaction. It is a no-op once the transaction has
// been committed, so it is safe to defer.
func (t *gormTransaction) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	slog.WarnContext(t.ctx, "Rolling back transaction")
	return t.tx.Rollback().Error
}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// isUniqueViolation reports whether err came from a unique constraint.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
