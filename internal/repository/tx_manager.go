package repository

import (
	"context"

	"erp/pkg/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txKey struct{}

//go:generate mockgen -source=tx_manager.go -destination=mock_tx_manager.go -package=repository

// TransactionManager runs units of work in one database transaction. Repositories
// called with the callback's context pick the transaction up through GetDB.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type transactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &transactionManager{db: db}
}

// RunInTx commits when fn returns nil and rolls back otherwise. A context that
// already carries a transaction joins it, so number allocation and the document
// insert that consumes the number share one commit.
func (t *transactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetDB returns the transaction carried by ctx, or rootDB outside a transaction.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}

// forUpdate locks the selected rows until the surrounding transaction ends.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// paginate applies the offset and limit of one list page.
func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		p := pagination.Normalize(page, limit)
		return db.Offset(p.Offset).Limit(p.Limit)
	}
}
