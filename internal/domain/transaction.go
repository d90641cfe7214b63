package domain

import "context"

// TransactionManager runs fn in a single unit of work. Repositories called
// with the ctx passed to fn join the transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
