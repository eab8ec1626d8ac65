package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fightlinkhq/fightlink/internal/domain/fan"
	qb "github.com/fightlinkhq/fightlink/internal/platform/querybuilder"
)

type FanRepository struct {
	db *sqlx.DB
}

func NewFanRepository(db *sqlx.DB) *FanRepository {
	return &FanRepository{db: db}
}

type fanPreferencesTableModel struct {
	UserID               string    `db:"user_id"`
	NotificationsEnabled bool      `db:"notifications_enabled"`
	LocationEnabled      bool      `db:"location_enabled"`
	UpdatedAt            time.Time `db:"updated_at"`
}

func (r *FanRepository) GetByUserID(ctx context.Context, userID string) (fan.Preferences, bool, error) {
	query, args, err := qb.Select("*").
		From("fan_preferences").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fan.Preferences{}, false, fmt.Errorf("build get fan preferences query: %w", err)
	}

	var row fanPreferencesTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fan.Preferences{}, false, nil
		}
		return fan.Preferences{}, false, fmt.Errorf("get fan preferences: %w", err)
	}

	return fan.Preferences{
		UserID:               row.UserID,
		NotificationsEnabled: row.NotificationsEnabled,
		LocationEnabled:      row.LocationEnabled,
		UpdatedAt:            row.UpdatedAt,
	}, true, nil
}

func (r *FanRepository) Upsert(ctx context.Context, prefs fan.Preferences) error {
	insertModel := struct {
		UserID               string `db:"user_id"`
		NotificationsEnabled bool   `db:"notifications_enabled"`
		LocationEnabled      bool   `db:"location_enabled"`
	}{
		UserID:               prefs.UserID,
		NotificationsEnabled: prefs.NotificationsEnabled,
		LocationEnabled:      prefs.LocationEnabled,
	}

	query, args, err := qb.InsertModel("fan_preferences", insertModel, `ON CONFLICT (user_id)
DO UPDATE SET
    notifications_enabled = EXCLUDED.notifications_enabled,
    location_enabled = EXCLUDED.location_enabled,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert fan preferences query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fan preferences: %w", err)
	}

	return nil
}
