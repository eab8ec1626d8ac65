package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fightlinkhq/fightlink/internal/domain/profile"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]profile.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]profile.Profile)}
}

func (r *ProfileRepository) GetByUserID(_ context.Context, userID string) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	return p, ok, nil
}

func (r *ProfileRepository) Upsert(_ context.Context, p profile.Profile) error {
	userID := strings.TrimSpace(p.UserID)
	if userID == "" {
		return fmt.Errorf("user_id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.profiles[userID]
	if ok {
		// Blank fields keep their stored values, like the COALESCE
		// columns in the SQL upsert.
		if p.Email == "" {
			p.Email = existing.Email
		}
		if p.Gender == "" {
			p.Gender = existing.Gender
		}
		if p.CountryCode == "" {
			p.CountryCode = existing.CountryCode
		}
		if p.AvatarURL == "" {
			p.AvatarURL = existing.AvatarURL
		}
		if p.Instagram == "" {
			p.Instagram = existing.Instagram
		}
		if p.YouTube == "" {
			p.YouTube = existing.YouTube
		}
		if p.Role == "" {
			p.Role = existing.Role
		}
		p.CreatedAt = existing.CreatedAt
		p.OnboardingCompleted = existing.OnboardingCompleted
	}
	p.UserID = userID
	r.profiles[userID] = p

	return nil
}

func (r *ProfileRepository) UpdateRole(_ context.Context, userID string, role profile.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s does not exist", userID)
	}
	p.Role = role
	p.UpdatedAt = time.Now().UTC()
	r.profiles[userID] = p

	return nil
}

func (r *ProfileRepository) SetOnboardingCompleted(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return fmt.Errorf("profile %s does not exist", userID)
	}
	p.OnboardingCompleted = true
	p.UpdatedAt = time.Now().UTC()
	r.profiles[userID] = p

	return nil
}
