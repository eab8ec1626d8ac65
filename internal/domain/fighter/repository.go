package fighter

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	Upsert(ctx context.Context, profile Profile) error

	// AddSport records a sport of interest. Adding a sport that is already
	// present is a no-op, not an error.
	AddSport(ctx context.Context, userID, sport string) error
	ListSports(ctx context.Context, userID string) ([]string, error)

	UpsertRecord(ctx context.Context, record SportRecord) error
	ListRecords(ctx context.Context, userID string) ([]SportRecord, error)
}
