package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fightlinkhq/fightlink/internal/domain/organizer"
	qb "github.com/fightlinkhq/fightlink/internal/platform/querybuilder"
)

type OrganizerRepository struct {
	db *sqlx.DB
}

func NewOrganizerRepository(db *sqlx.DB) *OrganizerRepository {
	return &OrganizerRepository{db: db}
}

type organizerProfileTableModel struct {
	UserID       string    `db:"user_id"`
	JobTitle     string    `db:"job_title"`
	Organization string    `db:"organization"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *OrganizerRepository) GetByUserID(ctx context.Context, userID string) (organizer.Profile, bool, error) {
	query, args, err := qb.Select("*").
		From("organizer_profiles").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return organizer.Profile{}, false, fmt.Errorf("build get organizer profile query: %w", err)
	}

	var row organizerProfileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return organizer.Profile{}, false, nil
		}
		return organizer.Profile{}, false, fmt.Errorf("get organizer profile: %w", err)
	}

	return organizer.Profile{
		UserID:       row.UserID,
		JobTitle:     row.JobTitle,
		Organization: row.Organization,
		UpdatedAt:    row.UpdatedAt,
	}, true, nil
}

func (r *OrganizerRepository) Upsert(ctx context.Context, p organizer.Profile) error {
	insertModel := struct {
		UserID       string `db:"user_id"`
		JobTitle     string `db:"job_title"`
		Organization string `db:"organization"`
	}{
		UserID:       strings.TrimSpace(p.UserID),
		JobTitle:     strings.TrimSpace(p.JobTitle),
		Organization: strings.TrimSpace(p.Organization),
	}

	query, args, err := qb.InsertModel("organizer_profiles", insertModel, `ON CONFLICT (user_id)
DO UPDATE SET
    job_title = EXCLUDED.job_title,
    organization = EXCLUDED.organization,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert organizer profile query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert organizer profile: %w", err)
	}

	return nil
}

// AddManagedFighter links a fighter name to the organizer. Duplicate
// links are swallowed.
func (r *OrganizerRepository) AddManagedFighter(ctx context.Context, userID, fighterName string) error {
	query, args, err := qb.InsertInto("managed_fighters").
		Columns("user_id", "fighter_name").
		Values(strings.TrimSpace(userID), strings.TrimSpace(fighterName)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add managed fighter query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("add managed fighter: %w", err)
	}

	return nil
}

func (r *OrganizerRepository) ListManagedFighters(ctx context.Context, userID string) ([]string, error) {
	query, args, err := qb.Select("fighter_name").
		From("managed_fighters").
		Where(qb.Eq("user_id", userID)).
		OrderBy("fighter_name ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list managed fighters query: %w", err)
	}

	var fighters []string
	if err := r.db.SelectContext(ctx, &fighters, query, args...); err != nil {
		return nil, fmt.Errorf("list managed fighters: %w", err)
	}

	return fighters, nil
}
