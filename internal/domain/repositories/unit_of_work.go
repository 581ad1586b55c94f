package repositories

import (
	"context"
)

// UnitOfWork groups a proof artifact update and the profile promotion it causes
// into one transaction
type UnitOfWork interface {
	// Do runs fn in a transaction carried by the ctx passed to fn. Repository calls
	// made with that ctx join it; nested Do calls reuse the outer transaction.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// WithLock marks ctx so that reads made with it take row locks until the
	// surrounding transaction ends
	WithLock(ctx context.Context) context.Context
}
