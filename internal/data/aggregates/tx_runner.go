package aggregates

import (
	"context"
	"database/sql"

	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// TxRunner provides a shared transaction boundary primitive for aggregate writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// IsolatedTxRunner is implemented by runners that can raise the isolation level.
type IsolatedTxRunner interface {
	TxRunner
	InTxIsolated(ctx context.Context, iso domainagg.Isolation, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner returns a transaction runner backed by GORM transactions.
func NewGormTxRunner(db *gorm.DB) IsolatedTxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return r.InTxIsolated(ctx, domainagg.IsolationDefault, fn)
}

// InTxIsolated only passes isolation options to Postgres. SQLite serializes
// writers on its own and rejects most option sets.
func (r *gormTxRunner) InTxIsolated(ctx context.Context, iso domainagg.Isolation, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "transaction runner has nil db", nil)
	}
	var opts []*sql.TxOptions
	if iso == domainagg.IsolationSerializable && r.db.Dialector != nil && r.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	}, opts...)
}
