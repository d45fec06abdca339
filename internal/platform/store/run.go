package store

import "context"

// RunInOrg wraps ctx with the org id and calls fn inside the provided TxRunner
func RunInOrg(ctx context.Context, tx TxRunner, orgID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithOrg(ctx, orgID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}

// RunAsAdmin wraps ctx as admin and calls fn inside the provided TxRunner
func RunAsAdmin(ctx context.Context, tx TxRunner, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithAdmin(ctx)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}
