package transaction

import (
	"context"
	"errors"
)

// ErrNotFound is returned by mutations when no record matches the given
// id and owner. Absent and not-owned are deliberately indistinguishable.
var ErrNotFound = errors.New("transaction not found")

// Repository defines owner-scoped transaction data access. Every method
// that reads or mutates an existing record takes the owner's user id and
// must never observe another user's rows. Lookups return nil (no error)
// when the record is absent or owned by someone else; callers cannot tell
// the two apart.
type Repository interface {
	Create(ctx context.Context, params CreateTransactionParams) (*Transaction, error)
	GetByID(ctx context.Context, id string, userID int64) (*Transaction, error)
	List(ctx context.Context, userID int64, filter Filter) ([]*Transaction, error)
	Summarize(ctx context.Context, userID int64) (*Summary, error)
	Update(ctx context.Context, id string, userID int64, params UpdateTransactionParams) (*Transaction, error)
	Delete(ctx context.Context, id string, userID int64) error
}
