package database

import "context"

// Transactor runs fn inside one transaction carried by ctx.
// Repositories pick the transaction up from ctx; nested calls join the outer one.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
