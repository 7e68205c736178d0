package storeinfra

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
)

var _ catalog.Transactor = (*Transactor)(nil)

type txKey struct{}

// Transactor runs a unit of store calls in one database transaction. Stores
// called with the ctx handed to fn use that transaction instead of opening
// their own.
type Transactor struct {
	db *bun.DB
}

func NewTransactor(db *bun.DB) *Transactor {
	return &Transactor{db: db}
}

// RunInTx commits when fn returns nil and rolls back otherwise. A call nested
// inside another unit joins the outer transaction.
func (t *Transactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return inTx(ctx, t.db, func(ctx context.Context, _ bun.Tx) error {
		return fn(ctx)
	})
}

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *bun.DB) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return tx
	}
	return db
}

// inTx runs fn in the transaction carried by ctx, opening one on db when there is none.
func inTx(ctx context.Context, db *bun.DB, fn func(ctx context.Context, tx bun.Tx) error) error {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return fn(ctx, tx)
	}
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx), tx)
	})
}
