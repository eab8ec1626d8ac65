package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fightlinkhq/fightlink/internal/domain/contact"
	"github.com/fightlinkhq/fightlink/internal/domain/fan"
	"github.com/fightlinkhq/fightlink/internal/domain/fighter"
	"github.com/fightlinkhq/fightlink/internal/domain/organizer"
	"github.com/fightlinkhq/fightlink/internal/domain/profile"
	"github.com/fightlinkhq/fightlink/internal/platform/cache"
	"github.com/fightlinkhq/fightlink/internal/platform/logging"
)

const profileDetailsCachePrefix = "profile:details:"

type FighterDetails struct {
	Profile fighter.Profile
	Sports  []string
	Records []fighter.SportRecord
	Contact *contact.Info
}

type OrganizerDetails struct {
	Profile         organizer.Profile
	Contact         *contact.Info
	ManagedFighters []string
}

// ProfileDetails is a profile plus whichever role section the user has
// filled in. At most one of Fan, Fighter, Organizer is set.
type ProfileDetails struct {
	Profile   profile.Profile
	Fan       *fan.Preferences
	Fighter   *FighterDetails
	Organizer *OrganizerDetails
}

type ProfileService struct {
	profileRepo   profile.Repository
	fanRepo       fan.Repository
	fighterRepo   fighter.Repository
	contactRepo   contact.Repository
	organizerRepo organizer.Repository
	cache         *cache.Store
	logger        *logging.Logger
}

// NewProfileService builds the profile read side. cacheStore may be nil
// to serve every read from the repositories.
func NewProfileService(
	profileRepo profile.Repository,
	fanRepo fan.Repository,
	fighterRepo fighter.Repository,
	contactRepo contact.Repository,
	organizerRepo organizer.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *ProfileService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ProfileService{
		profileRepo:   profileRepo,
		fanRepo:       fanRepo,
		fighterRepo:   fighterRepo,
		contactRepo:   contactRepo,
		organizerRepo: organizerRepo,
		cache:         cacheStore,
		logger:        logger,
	}
}

func (s *ProfileService) GetMyProfile(ctx context.Context, userID string) (ProfileDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.GetMyProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ProfileDetails{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	if s.cache == nil {
		return s.loadProfileDetails(ctx, userID)
	}

	value, err := s.cache.GetOrLoad(ctx, profileDetailsCachePrefix+userID, func(ctx context.Context) (any, error) {
		return s.loadProfileDetails(ctx, userID)
	})
	if err != nil {
		return ProfileDetails{}, err
	}

	details, ok := value.(ProfileDetails)
	if !ok {
		return ProfileDetails{}, fmt.Errorf("unexpected cached profile type %T", value)
	}

	return details, nil
}

func (s *ProfileService) loadProfileDetails(ctx context.Context, userID string) (ProfileDetails, error) {
	base, exists, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return ProfileDetails{}, fmt.Errorf("get profile: %w", err)
	}
	if !exists {
		return ProfileDetails{}, fmt.Errorf("%w: profile for user %s", ErrNotFound, userID)
	}

	out := ProfileDetails{Profile: base}

	switch base.Role {
	case profile.RoleFan:
		prefs, ok, err := s.fanRepo.GetByUserID(ctx, userID)
		if err != nil {
			return ProfileDetails{}, fmt.Errorf("get fan preferences: %w", err)
		}
		if ok {
			out.Fan = &prefs
		}
	case profile.RoleFighter:
		details, err := s.fighterDetails(ctx, userID)
		if err != nil {
			return ProfileDetails{}, err
		}
		out.Fighter = details
	case profile.RoleOrganizer:
		details, err := s.organizerDetails(ctx, userID)
		if err != nil {
			return ProfileDetails{}, err
		}
		out.Organizer = details
	}

	return out, nil
}

// HasCompletedOnboarding satisfies the session completion lookup. A
// missing profile means onboarding has not even started, not an error.
func (s *ProfileService) HasCompletedOnboarding(ctx context.Context, userID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.HasCompletedOnboarding")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	base, exists, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get profile: %w", err)
	}
	if !exists {
		return false, nil
	}

	return base.OnboardingCompleted, nil
}

func (s *ProfileService) fighterDetails(ctx context.Context, userID string) (*FighterDetails, error) {
	details := &FighterDetails{}

	fp, ok, err := s.fighterRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get fighter profile: %w", err)
	}
	if ok {
		details.Profile = fp
	}

	sports, err := s.fighterRepo.ListSports(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sports of interest: %w", err)
	}
	details.Sports = sports

	records, err := s.fighterRepo.ListRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sport records: %w", err)
	}
	details.Records = records

	info, ok, err := s.contactRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get contact info: %w", err)
	}
	if ok {
		details.Contact = &info
	}

	return details, nil
}

func (s *ProfileService) organizerDetails(ctx context.Context, userID string) (*OrganizerDetails, error) {
	details := &OrganizerDetails{}

	op, ok, err := s.organizerRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get organizer profile: %w", err)
	}
	if ok {
		details.Profile = op
	}

	info, ok, err := s.contactRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get contact info: %w", err)
	}
	if ok {
		details.Contact = &info
	}

	fighters, err := s.organizerRepo.ListManagedFighters(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list managed fighters: %w", err)
	}
	details.ManagedFighters = fighters

	return details, nil
}
