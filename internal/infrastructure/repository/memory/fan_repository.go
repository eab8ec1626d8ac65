package memory

import (
	"context"
	"sync"

	"github.com/fightlinkhq/fightlink/internal/domain/fan"
)

type FanRepository struct {
	mu    sync.RWMutex
	prefs map[string]fan.Preferences
}

func NewFanRepository() *FanRepository {
	return &FanRepository{prefs: make(map[string]fan.Preferences)}
}

func (r *FanRepository) GetByUserID(_ context.Context, userID string) (fan.Preferences, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prefs[userID]
	return p, ok, nil
}

func (r *FanRepository) Upsert(_ context.Context, prefs fan.Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prefs[prefs.UserID] = prefs
	return nil
}
