// Package repository persists users, lessons and quiz results in Oracle
// through sqlx.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"onyx-tutor/internal/domain"
	"onyx-tutor/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// ORA-00001 reads the same from go-ora and godror.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}

type txKey struct{}

// GetExecutor returns the transaction opened by TxManager for ctx, or db.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

// TxManager implements domain.TransactionManager on a *sqlx.DB.
type TxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) domain.TransactionManager {
	return &TxManager{db: db}
}

// WithTransaction commits when fn returns nil. An error or panic from fn
// rolls back; a nested call reuses the outer transaction.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Get().Error("Transaction rollback failed", zap.Error(rbErr))
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
