package memory

import (
	"context"
	"sync"

	"github.com/fightlinkhq/fightlink/internal/domain/contact"
)

type ContactRepository struct {
	mu    sync.RWMutex
	infos map[string]contact.Info
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{infos: make(map[string]contact.Info)}
}

func (r *ContactRepository) GetByUserID(_ context.Context, userID string) (contact.Info, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.infos[userID]
	return info, ok, nil
}

func (r *ContactRepository) Replace(_ context.Context, info contact.Info) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.infos[info.UserID] = info
	return nil
}
