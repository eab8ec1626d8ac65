package fan

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Preferences, bool, error)
	Upsert(ctx context.Context, prefs Preferences) error
}
