package organizer

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	Upsert(ctx context.Context, profile Profile) error

	// AddManagedFighter links a fighter to the organizer's roster. Adding a
	// fighter that is already on the roster is a no-op, not an error.
	AddManagedFighter(ctx context.Context, organizerID, fighterName string) error
	ListManagedFighters(ctx context.Context, organizerID string) ([]string, error)
}
