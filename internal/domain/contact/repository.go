package contact

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Info, bool, error)

	// Replace removes any existing row for the user and inserts the given
	// one. Re-running the same replace is safe.
	Replace(ctx context.Context, info Info) error
}
