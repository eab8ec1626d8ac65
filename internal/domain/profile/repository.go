package profile

import "context"

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	Upsert(ctx context.Context, profile Profile) error
	UpdateRole(ctx context.Context, userID string, role Role) error
	SetOnboardingCompleted(ctx context.Context, userID string) error
}
