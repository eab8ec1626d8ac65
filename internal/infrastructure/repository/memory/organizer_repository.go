package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fightlinkhq/fightlink/internal/domain/organizer"
)

type OrganizerRepository struct {
	mu       sync.RWMutex
	profiles map[string]organizer.Profile
	fighters map[string]map[string]struct{}
}

func NewOrganizerRepository() *OrganizerRepository {
	return &OrganizerRepository{
		profiles: make(map[string]organizer.Profile),
		fighters: make(map[string]map[string]struct{}),
	}
}

func (r *OrganizerRepository) GetByUserID(_ context.Context, userID string) (organizer.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	return p, ok, nil
}

func (r *OrganizerRepository) Upsert(_ context.Context, p organizer.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[p.UserID] = p
	return nil
}

func (r *OrganizerRepository) AddManagedFighter(_ context.Context, userID, fighterName string) error {
	fighterName = strings.TrimSpace(fighterName)

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.fighters[userID]
	if !ok {
		set = make(map[string]struct{})
		r.fighters[userID] = set
	}
	set[fighterName] = struct{}{}

	return nil
}

func (r *OrganizerRepository) ListManagedFighters(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.fighters[userID]))
	for name := range r.fighters[userID] {
		out = append(out, name)
	}
	sort.Strings(out)

	return out, nil
}
