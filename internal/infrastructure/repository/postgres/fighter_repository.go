package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fightlinkhq/fightlink/internal/domain/fighter"
	qb "github.com/fightlinkhq/fightlink/internal/platform/querybuilder"
)

type FighterRepository struct {
	db *sqlx.DB
}

func NewFighterRepository(db *sqlx.DB) *FighterRepository {
	return &FighterRepository{db: db}
}

func (r *FighterRepository) GetByUserID(ctx context.Context, userID string) (fighter.Profile, bool, error) {
	query, args, err := qb.Select("*").
		From("fighter_profiles").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fighter.Profile{}, false, fmt.Errorf("build get fighter profile query: %w", err)
	}

	var row fighterProfileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fighter.Profile{}, false, nil
		}
		return fighter.Profile{}, false, fmt.Errorf("get fighter profile: %w", err)
	}

	return fighter.Profile{
		UserID:         row.UserID,
		WeightDivision: row.WeightDivision,
		WeightRange:    row.WeightRange,
		HeightCm:       row.HeightCm,
		Gym:            row.Gym,
		UpdatedAt:      row.UpdatedAt,
	}, true, nil
}

func (r *FighterRepository) Upsert(ctx context.Context, p fighter.Profile) error {
	insertModel := fighterProfileInsertModel{
		UserID:         strings.TrimSpace(p.UserID),
		WeightDivision: p.WeightDivision,
		WeightRange:    p.WeightRange,
		HeightCm:       p.HeightCm,
		Gym:            strings.TrimSpace(p.Gym),
	}

	query, args, err := qb.InsertModel("fighter_profiles", insertModel, `ON CONFLICT (user_id)
DO UPDATE SET
    weight_division = EXCLUDED.weight_division,
    weight_range = EXCLUDED.weight_range,
    height_cm = EXCLUDED.height_cm,
    gym = EXCLUDED.gym,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert fighter profile query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fighter profile: %w", err)
	}

	return nil
}

// AddSport inserts one sport of interest. Re-adding an existing sport
// is a no-op rather than an error.
func (r *FighterRepository) AddSport(ctx context.Context, userID, sport string) error {
	query, args, err := qb.InsertInto("sports_of_interest").
		Columns("user_id", "sport").
		Values(strings.TrimSpace(userID), strings.TrimSpace(sport)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build add sport query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("add sport: %w", err)
	}

	return nil
}

func (r *FighterRepository) ListSports(ctx context.Context, userID string) ([]string, error) {
	query, args, err := qb.Select("sport").
		From("sports_of_interest").
		Where(qb.Eq("user_id", userID)).
		OrderBy("sport ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sports query: %w", err)
	}

	var sports []string
	if err := r.db.SelectContext(ctx, &sports, query, args...); err != nil {
		return nil, fmt.Errorf("list sports: %w", err)
	}

	return sports, nil
}

func (r *FighterRepository) UpsertRecord(ctx context.Context, record fighter.SportRecord) error {
	insertModel := sportRecordInsertModel{
		UserID: strings.TrimSpace(record.UserID),
		Sport:  strings.TrimSpace(record.Sport),
		Wins:   record.Wins,
		Losses: record.Losses,
		Draws:  record.Draws,
	}

	query, args, err := qb.InsertModel("sport_records", insertModel, `ON CONFLICT (user_id, sport)
DO UPDATE SET
    wins = EXCLUDED.wins,
    losses = EXCLUDED.losses,
    draws = EXCLUDED.draws,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert sport record query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert sport record: %w", err)
	}

	return nil
}

func (r *FighterRepository) ListRecords(ctx context.Context, userID string) ([]fighter.SportRecord, error) {
	query, args, err := qb.Select("*").
		From("sport_records").
		Where(qb.Eq("user_id", userID)).
		OrderBy("sport ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sport records query: %w", err)
	}

	var rows []sportRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sport records: %w", err)
	}

	out := make([]fighter.SportRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, fighter.SportRecord{
			UserID:    row.UserID,
			Sport:     row.Sport,
			Wins:      row.Wins,
			Losses:    row.Losses,
			Draws:     row.Draws,
			UpdatedAt: row.UpdatedAt,
		})
	}

	return out, nil
}
