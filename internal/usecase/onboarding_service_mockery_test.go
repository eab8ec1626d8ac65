package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fightlinkhq/fightlink/internal/domain/fan"
	"github.com/fightlinkhq/fightlink/internal/domain/profile"
	"github.com/fightlinkhq/fightlink/internal/infrastructure/repository/memory"
	fanmock "github.com/fightlinkhq/fightlink/internal/mocks/domain/fan"
	profilemock "github.com/fightlinkhq/fightlink/internal/mocks/domain/profile"
	"github.com/fightlinkhq/fightlink/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func newMockedOnboardingService(profileRepo *profilemock.Repository, fanRepo *fanmock.Repository) *OnboardingService {
	return NewOnboardingService(
		profileRepo,
		fanRepo,
		memory.NewFighterRepository(),
		memory.NewContactRepository(),
		memory.NewOrganizerRepository(),
		nil,
		1,
		logging.NewNop(),
	)
}

func TestOnboardingService_CompleteFan_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	profileRepo := profilemock.NewRepository(t)
	fanRepo := fanmock.NewRepository(t)
	service := newMockedOnboardingService(profileRepo, fanRepo)

	userID := "user-1"
	profileRepo.
		On("GetByUserID", mock.Anything, userID).
		Return(profile.Profile{UserID: userID, FullName: "Jon Jones", Role: profile.RoleFan}, true, nil).
		Once()
	fanRepo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(prefs fan.Preferences) bool {
			return prefs.UserID == userID && prefs.NotificationsEnabled && !prefs.LocationEnabled && !prefs.UpdatedAt.IsZero()
		})).
		Return(nil).
		Once()
	profileRepo.
		On("SetOnboardingCompleted", mock.Anything, userID).
		Return(nil).
		Once()
	profileRepo.
		On("GetByUserID", mock.Anything, userID).
		Return(profile.Profile{UserID: userID, FullName: "Jon Jones", Role: profile.RoleFan, OnboardingCompleted: true}, true, nil).
		Once()

	got, err := service.CompleteFan(ctx, FanOnboardingInput{
		UserID:               userID,
		NotificationsEnabled: true,
	})
	if err != nil {
		t.Fatalf("complete fan onboarding: %v", err)
	}
	if !got.OnboardingCompleted {
		t.Fatalf("expected onboarding to be completed")
	}
}

func TestOnboardingService_CompleteFan_WrongRoleUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	profileRepo := profilemock.NewRepository(t)
	fanRepo := fanmock.NewRepository(t)
	service := newMockedOnboardingService(profileRepo, fanRepo)

	userID := "user-2"
	profileRepo.
		On("GetByUserID", mock.Anything, userID).
		Return(profile.Profile{UserID: userID, Role: profile.RoleFighter}, true, nil).
		Once()

	_, err := service.CompleteFan(ctx, FanOnboardingInput{UserID: userID})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestOnboardingService_CompleteFan_PreferenceWriteFailsUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	profileRepo := profilemock.NewRepository(t)
	fanRepo := fanmock.NewRepository(t)
	service := newMockedOnboardingService(profileRepo, fanRepo)

	userID := "user-3"
	profileRepo.
		On("GetByUserID", mock.Anything, userID).
		Return(profile.Profile{UserID: userID, Role: profile.RoleFan}, true, nil).
		Once()
	fanRepo.
		On("Upsert", mock.Anything, mock.Anything).
		Return(errors.New("write refused")).
		Once()

	_, err := service.CompleteFan(ctx, FanOnboardingInput{UserID: userID})
	if err == nil {
		t.Fatalf("expected preference write failure to surface")
	}
	// The completion flag must stay untouched when an earlier write fails.
	profileRepo.AssertNotCalled(t, "SetOnboardingCompleted", mock.Anything, userID)
}
