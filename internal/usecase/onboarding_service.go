package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/fightlinkhq/fightlink/internal/domain/contact"
	"github.com/fightlinkhq/fightlink/internal/domain/fan"
	"github.com/fightlinkhq/fightlink/internal/domain/fighter"
	"github.com/fightlinkhq/fightlink/internal/domain/organizer"
	"github.com/fightlinkhq/fightlink/internal/domain/profile"
	"github.com/fightlinkhq/fightlink/internal/platform/cache"
	"github.com/fightlinkhq/fightlink/internal/platform/logging"
)

type BasicProfileInput struct {
	UserID      string
	FullName    string
	Email       string
	DateOfBirth string
	Gender      string
	CountryCode string
	AvatarURL   string
	Instagram   string
	YouTube     string
}

type ContactInfoInput struct {
	FullName string
	Phone    string
	Email    string
}

func (c ContactInfoInput) empty() bool {
	return strings.TrimSpace(c.FullName) == "" && strings.TrimSpace(c.Phone) == ""
}

type MatchRecordInput struct {
	Sport  string
	Result string
}

type FanOnboardingInput struct {
	UserID               string
	NotificationsEnabled bool
	LocationEnabled      bool
}

type FighterOnboardingInput struct {
	UserID         string
	Sports         []string
	WeightDivision string
	WeightRange    string
	Height         string
	Gym            string
	Contact        ContactInfoInput
	Matches        []MatchRecordInput
}

type OrganizerOnboardingInput struct {
	UserID       string
	JobTitle     string
	Organization string
	Contact      ContactInfoInput
	Fighters     []string
}

// OnboardingService drives the role-branching onboarding sequence. Each
// step commits remotely as it finishes; the onboarding_completed flag is
// always the final write, so an interrupted run leaves a partially
// filled but still incomplete profile, never a half-complete one.
type OnboardingService struct {
	profileRepo   profile.Repository
	fanRepo       fan.Repository
	fighterRepo   fighter.Repository
	contactRepo   contact.Repository
	organizerRepo organizer.Repository
	cache         *cache.Store
	recordWorkers int
	logger        *logging.Logger
	now           func() time.Time
}

func NewOnboardingService(
	profileRepo profile.Repository,
	fanRepo fan.Repository,
	fighterRepo fighter.Repository,
	contactRepo contact.Repository,
	organizerRepo organizer.Repository,
	cacheStore *cache.Store,
	recordWorkers int,
	logger *logging.Logger,
) *OnboardingService {
	if recordWorkers < 1 {
		recordWorkers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &OnboardingService{
		profileRepo:   profileRepo,
		fanRepo:       fanRepo,
		fighterRepo:   fighterRepo,
		contactRepo:   contactRepo,
		organizerRepo: organizerRepo,
		cache:         cacheStore,
		recordWorkers: recordWorkers,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *OnboardingService) SaveBasicProfile(ctx context.Context, input BasicProfileInput) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.SaveBasicProfile")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.FullName = strings.TrimSpace(input.FullName)

	if input.UserID == "" {
		return profile.Profile{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if input.FullName == "" {
		return profile.Profile{}, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	dob, err := parseDateOfBirth(input.DateOfBirth)
	if err != nil {
		return profile.Profile{}, err
	}

	existing, exists, err := s.profileRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	now := s.now().UTC()
	out := existing
	out.UserID = input.UserID
	out.FullName = input.FullName
	out.DateOfBirth = dob
	if v := strings.TrimSpace(input.Email); v != "" {
		out.Email = v
	}
	if v := strings.TrimSpace(input.Gender); v != "" {
		out.Gender = v
	}
	if v := normalizeCountryCode(input.CountryCode); v != "" {
		out.CountryCode = v
	}
	if v := strings.TrimSpace(input.AvatarURL); v != "" {
		out.AvatarURL = v
	}
	if v := strings.TrimSpace(input.Instagram); v != "" {
		out.Instagram = v
	}
	if v := strings.TrimSpace(input.YouTube); v != "" {
		out.YouTube = v
	}
	if !exists {
		out.CreatedAt = now
	}
	out.UpdatedAt = now

	if err := s.profileRepo.Upsert(ctx, out); err != nil {
		return profile.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	s.invalidateProfile(ctx, input.UserID)

	return s.latestProfile(ctx, input.UserID, out)
}

func (s *OnboardingService) SelectRole(ctx context.Context, userID, role string) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.SelectRole")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	parsed, ok := profile.ParseRole(role)
	if !ok {
		return profile.Profile{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	existing, exists, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !exists {
		return profile.Profile{}, fmt.Errorf("%w: profile has not been created yet", ErrNotFound)
	}

	if err := s.profileRepo.UpdateRole(ctx, userID, parsed); err != nil {
		return profile.Profile{}, fmt.Errorf("update role: %w", err)
	}
	s.invalidateProfile(ctx, userID)

	existing.Role = parsed
	return s.latestProfile(ctx, userID, existing)
}

func (s *OnboardingService) CompleteFan(ctx context.Context, input FanOnboardingInput) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.CompleteFan")
	defer span.End()

	current, err := s.requireRole(ctx, input.UserID, profile.RoleFan)
	if err != nil {
		return profile.Profile{}, err
	}

	prefs := fan.Preferences{
		UserID:               current.UserID,
		NotificationsEnabled: input.NotificationsEnabled,
		LocationEnabled:      input.LocationEnabled,
		UpdatedAt:            s.now().UTC(),
	}
	if err := s.fanRepo.Upsert(ctx, prefs); err != nil {
		return profile.Profile{}, fmt.Errorf("save fan preferences: %w", err)
	}

	return s.markComplete(ctx, current.UserID)
}

func (s *OnboardingService) CompleteFighter(ctx context.Context, input FighterOnboardingInput) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.CompleteFighter")
	defer span.End()

	current, err := s.requireRole(ctx, input.UserID, profile.RoleFighter)
	if err != nil {
		return profile.Profile{}, err
	}

	// Validation runs in full before the first remote write; the first
	// failing field produces the single user-visible message.
	validated, err := validateFighterInput(input)
	if err != nil {
		return profile.Profile{}, err
	}

	now := s.now().UTC()
	if err := s.fighterRepo.Upsert(ctx, fighter.Profile{
		UserID:         current.UserID,
		WeightDivision: validated.weightDivision,
		WeightRange:    validated.weightRange,
		HeightCm:       validated.heightCm,
		Gym:            validated.gym,
		UpdatedAt:      now,
	}); err != nil {
		return profile.Profile{}, fmt.Errorf("save fighter profile: %w", err)
	}

	for _, sport := range validated.sports {
		if err := s.fighterRepo.AddSport(ctx, current.UserID, sport); err != nil {
			return profile.Profile{}, fmt.Errorf("add sport of interest %q: %w", sport, err)
		}
	}

	if err := s.contactRepo.Replace(ctx, contact.Info{
		UserID:    current.UserID,
		FullName:  strings.TrimSpace(input.Contact.FullName),
		Phone:     strings.TrimSpace(input.Contact.Phone),
		Email:     strings.TrimSpace(input.Contact.Email),
		UpdatedAt: now,
	}); err != nil {
		return profile.Profile{}, fmt.Errorf("save contact info: %w", err)
	}

	records := aggregateMatchRecords(current.UserID, validated.matches, now)
	if err := s.writeSportRecords(ctx, records); err != nil {
		return profile.Profile{}, err
	}

	return s.markComplete(ctx, current.UserID)
}

func (s *OnboardingService) CompleteOrganizer(ctx context.Context, input OrganizerOnboardingInput) (profile.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OnboardingService.CompleteOrganizer")
	defer span.End()

	current, err := s.requireRole(ctx, input.UserID, profile.RoleOrganizer)
	if err != nil {
		return profile.Profile{}, err
	}

	jobTitle := strings.TrimSpace(input.JobTitle)
	organization := strings.TrimSpace(input.Organization)
	if jobTitle == "" {
		return profile.Profile{}, fmt.Errorf("%w: job title is required", ErrInvalidInput)
	}
	if organization == "" {
		return profile.Profile{}, fmt.Errorf("%w: organisation is required", ErrInvalidInput)
	}
	if input.Contact.empty() {
		return profile.Profile{}, fmt.Errorf("%w: contact info is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	if err := s.organizerRepo.Upsert(ctx, organizer.Profile{
		UserID:       current.UserID,
		JobTitle:     jobTitle,
		Organization: organization,
		UpdatedAt:    now,
	}); err != nil {
		return profile.Profile{}, fmt.Errorf("save organizer profile: %w", err)
	}

	if err := s.contactRepo.Replace(ctx, contact.Info{
		UserID:    current.UserID,
		FullName:  strings.TrimSpace(input.Contact.FullName),
		Phone:     strings.TrimSpace(input.Contact.Phone),
		Email:     strings.TrimSpace(input.Contact.Email),
		UpdatedAt: now,
	}); err != nil {
		return profile.Profile{}, fmt.Errorf("save contact info: %w", err)
	}

	fighters := dedupeStrings(input.Fighters)
	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.recordWorkers)
	for _, name := range fighters {
		p.Go(func(ctx context.Context) error {
			if err := s.organizerRepo.AddManagedFighter(ctx, current.UserID, name); err != nil {
				return fmt.Errorf("add managed fighter %q: %w", name, err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return profile.Profile{}, err
	}

	return s.markComplete(ctx, current.UserID)
}

// writeSportRecords commits the aggregated per-sport tallies through a
// worker pool. Completion order is unspecified; either every write
// succeeds or one aggregate failure is reported.
func (s *OnboardingService) writeSportRecords(ctx context.Context, records []fighter.SportRecord) error {
	if len(records) == 0 {
		return nil
	}

	workers := s.recordWorkers
	if workers > len(records) {
		workers = len(records)
	}

	workerPool, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("create record write pool: %w", err)
	}
	defer workerPool.Release()

	var wg sync.WaitGroup
	var failed atomic.Int64
	var mu sync.Mutex
	var firstErr error

	for _, record := range records {
		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()
			if writeErr := s.fighterRepo.UpsertRecord(ctx, record); writeErr != nil {
				failed.Add(1)
				mu.Lock()
				if firstErr == nil {
					firstErr = writeErr
				}
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			return fmt.Errorf("submit record write: %w", err)
		}
	}
	wg.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("write sport records: %d of %d failed: %w", n, len(records), firstErr)
	}

	return nil
}

func (s *OnboardingService) requireRole(ctx context.Context, userID string, role profile.Role) (profile.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	current, exists, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !exists {
		return profile.Profile{}, fmt.Errorf("%w: profile has not been created yet", ErrNotFound)
	}
	if current.Role != role {
		return profile.Profile{}, fmt.Errorf("%w: profile role is %q, expected %q", ErrInvalidInput, current.Role, role)
	}

	return current, nil
}

// markComplete is always the final remote write of a branch; the gate
// flips only after it succeeds.
func (s *OnboardingService) markComplete(ctx context.Context, userID string) (profile.Profile, error) {
	if err := s.profileRepo.SetOnboardingCompleted(ctx, userID); err != nil {
		return profile.Profile{}, fmt.Errorf("mark onboarding complete: %w", err)
	}
	s.invalidateProfile(ctx, userID)

	latest, exists, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("re-fetch profile: %w", err)
	}
	if !exists {
		return profile.Profile{}, fmt.Errorf("%w: profile disappeared after completion", ErrNotFound)
	}

	return latest, nil
}

func (s *OnboardingService) invalidateProfile(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	s.cache.DeletePrefix(ctx, profileDetailsCachePrefix+userID)
}

func (s *OnboardingService) latestProfile(ctx context.Context, userID string, fallback profile.Profile) (profile.Profile, error) {
	latest, exists, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("re-fetch profile: %w", err)
	}
	if exists {
		return latest, nil
	}
	return fallback, nil
}

type validatedFighterInput struct {
	sports         []string
	weightDivision float64
	weightRange    float64
	heightCm       int
	gym            string
	matches        []MatchRecordInput
}

func validateFighterInput(input FighterOnboardingInput) (validatedFighterInput, error) {
	var out validatedFighterInput

	out.sports = dedupeStrings(input.Sports)
	if len(out.sports) == 0 {
		return out, fmt.Errorf("%w: at least one sport of interest is required", ErrInvalidInput)
	}

	division, err := strconv.ParseFloat(strings.TrimSpace(input.WeightDivision), 64)
	if err != nil {
		return out, fmt.Errorf("%w: weight division must be a number", ErrInvalidInput)
	}
	out.weightDivision = division

	weightRange, err := strconv.ParseFloat(strings.TrimSpace(input.WeightRange), 64)
	if err != nil {
		return out, fmt.Errorf("%w: weight range must be a number", ErrInvalidInput)
	}
	out.weightRange = weightRange

	height, err := strconv.Atoi(strings.TrimSpace(input.Height))
	if err != nil {
		return out, fmt.Errorf("%w: height must be a whole number", ErrInvalidInput)
	}
	out.heightCm = height

	out.gym = strings.TrimSpace(input.Gym)
	if out.gym == "" {
		return out, fmt.Errorf("%w: gym is required", ErrInvalidInput)
	}

	if input.Contact.empty() {
		return out, fmt.Errorf("%w: contact info is required", ErrInvalidInput)
	}

	for _, match := range input.Matches {
		sport := strings.TrimSpace(match.Sport)
		if sport == "" {
			return out, fmt.Errorf("%w: match record sport is required", ErrInvalidInput)
		}
		switch match.Result {
		case fighter.ResultWon, fighter.ResultLost, fighter.ResultDraw:
		default:
			return out, fmt.Errorf("%w: unknown match result %q", ErrInvalidInput, match.Result)
		}
		out.matches = append(out.matches, MatchRecordInput{Sport: sport, Result: match.Result})
	}

	return out, nil
}

// aggregateMatchRecords folds individual match results into one
// win/loss/draw tally per sport before anything is written.
func aggregateMatchRecords(userID string, matches []MatchRecordInput, now time.Time) []fighter.SportRecord {
	bySport := make(map[string]*fighter.SportRecord, len(matches))
	order := make([]string, 0, len(matches))

	for _, match := range matches {
		record, ok := bySport[match.Sport]
		if !ok {
			record = &fighter.SportRecord{UserID: userID, Sport: match.Sport, UpdatedAt: now}
			bySport[match.Sport] = record
			order = append(order, match.Sport)
		}
		switch match.Result {
		case fighter.ResultWon:
			record.Wins++
		case fighter.ResultLost:
			record.Losses++
		case fighter.ResultDraw:
			record.Draws++
		}
	}

	out := make([]fighter.SportRecord, 0, len(order))
	for _, sport := range order {
		out = append(out, *bySport[sport])
	}

	return out
}

func parseDateOfBirth(v string) (time.Time, error) {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: date of birth is required", ErrInvalidInput)
	}

	dob, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date of birth must be YYYY-MM-DD", ErrInvalidInput)
	}

	return dob, nil
}

func normalizeCountryCode(v string) string {
	code := strings.ToUpper(strings.TrimSpace(v))
	if len(code) != 2 {
		return ""
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return code
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		item := strings.TrimSpace(value)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}

	return out
}
