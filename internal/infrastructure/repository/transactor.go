package repository

import (
	"context"

	domainRepo "github.com/sangkips/posgo-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

// conn returns the transaction bound to ctx by WithinTransaction, or db itself
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a transactor backed by database transactions
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

// WithinTransaction runs fn inside a database transaction. Nested calls join
// the outer transaction instead of opening a new one. After-commit hooks run
// once the outermost transaction commits.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	txCtx := domainRepo.MarkInTransaction(ctx)
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(txCtx, txKey{}, tx))
	})
	if err != nil {
		return err
	}
	domainRepo.RunAfterCommit(txCtx, ctx)
	return nil
}
