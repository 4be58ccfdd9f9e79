// Package storage holds the contract shared by every persistence backend.
package storage

import "context"

// TxManager runs fn atomically: either every write made through the
// repositories with the derived context is kept, or none is.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
