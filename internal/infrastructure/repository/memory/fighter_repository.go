package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/fightlinkhq/fightlink/internal/domain/fighter"
)

type FighterRepository struct {
	mu       sync.RWMutex
	profiles map[string]fighter.Profile
	sports   map[string]map[string]struct{}
	records  map[string]map[string]fighter.SportRecord

	// UpsertRecordErr, when set, fails every record write. Tests use it
	// to exercise partial-failure handling.
	UpsertRecordErr error
}

func NewFighterRepository() *FighterRepository {
	return &FighterRepository{
		profiles: make(map[string]fighter.Profile),
		sports:   make(map[string]map[string]struct{}),
		records:  make(map[string]map[string]fighter.SportRecord),
	}
}

func (r *FighterRepository) GetByUserID(_ context.Context, userID string) (fighter.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	return p, ok, nil
}

func (r *FighterRepository) Upsert(_ context.Context, p fighter.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[p.UserID] = p
	return nil
}

func (r *FighterRepository) AddSport(_ context.Context, userID, sport string) error {
	sport = strings.TrimSpace(sport)

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sports[userID]
	if !ok {
		set = make(map[string]struct{})
		r.sports[userID] = set
	}
	set[sport] = struct{}{}

	return nil
}

func (r *FighterRepository) ListSports(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.sports[userID]))
	for sport := range r.sports[userID] {
		out = append(out, sport)
	}
	sort.Strings(out)

	return out, nil
}

func (r *FighterRepository) UpsertRecord(_ context.Context, record fighter.SportRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.UpsertRecordErr != nil {
		return r.UpsertRecordErr
	}

	bySport, ok := r.records[record.UserID]
	if !ok {
		bySport = make(map[string]fighter.SportRecord)
		r.records[record.UserID] = bySport
	}
	bySport[record.Sport] = record

	return nil
}

func (r *FighterRepository) ListRecords(_ context.Context, userID string) ([]fighter.SportRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fighter.SportRecord, 0, len(r.records[userID]))
	for _, record := range r.records[userID] {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sport < out[j].Sport })

	return out, nil
}
