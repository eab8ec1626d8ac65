package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fightlinkhq/fightlink/internal/domain/profile"
	qb "github.com/fightlinkhq/fightlink/internal/platform/querybuilder"
)

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (profile.Profile, bool, error) {
	query, args, err := qb.Select("*").
		From("profiles").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return profile.Profile{}, false, fmt.Errorf("build get profile query: %w", err)
	}

	var row profileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, fmt.Errorf("get profile: %w", err)
	}

	return profileFromRow(row), true, nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, p profile.Profile) error {
	insertModel := profileInsertModel{
		UserID:              strings.TrimSpace(p.UserID),
		FullName:            strings.TrimSpace(p.FullName),
		Email:               optionalString(p.Email),
		DateOfBirth:         p.DateOfBirth.Format("2006-01-02"),
		Gender:              optionalString(p.Gender),
		CountryCode:         optionalString(strings.ToUpper(strings.TrimSpace(p.CountryCode))),
		AvatarURL:           optionalString(p.AvatarURL),
		Instagram:           optionalString(p.Instagram),
		YouTube:             optionalString(p.YouTube),
		Role:                optionalString(string(p.Role)),
		OnboardingCompleted: p.OnboardingCompleted,
	}

	query, args, err := qb.InsertModel("profiles", insertModel, `ON CONFLICT (user_id)
DO UPDATE SET
    full_name = EXCLUDED.full_name,
    email = COALESCE(EXCLUDED.email, profiles.email),
    date_of_birth = EXCLUDED.date_of_birth,
    gender = COALESCE(EXCLUDED.gender, profiles.gender),
    country_code = COALESCE(EXCLUDED.country_code, profiles.country_code),
    avatar_url = COALESCE(EXCLUDED.avatar_url, profiles.avatar_url),
    instagram = COALESCE(EXCLUDED.instagram, profiles.instagram),
    youtube = COALESCE(EXCLUDED.youtube, profiles.youtube),
    role = COALESCE(EXCLUDED.role, profiles.role),
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert profile query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) UpdateRole(ctx context.Context, userID string, role profile.Role) error {
	query, args, err := qb.Update("profiles").
		Set("role", string(role)).
		SetRaw("updated_at", "NOW()").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update role query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update role: profile %s does not exist", userID)
	}

	return nil
}

// SetOnboardingCompleted flips the flag only; it is always the last
// write of an onboarding run.
func (r *ProfileRepository) SetOnboardingCompleted(ctx context.Context, userID string) error {
	query, args, err := qb.Update("profiles").
		Set("onboarding_completed", true).
		SetRaw("updated_at", "NOW()").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set onboarding completed query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set onboarding completed: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("set onboarding completed: profile %s does not exist", userID)
	}

	return nil
}

func profileFromRow(row profileTableModel) profile.Profile {
	role, _ := profile.ParseRole(row.Role.String)

	return profile.Profile{
		UserID:              row.UserID,
		FullName:            row.FullName,
		Email:               strings.TrimSpace(row.Email.String),
		DateOfBirth:         row.DateOfBirth,
		Gender:              strings.TrimSpace(row.Gender.String),
		CountryCode:         strings.ToUpper(strings.TrimSpace(row.CountryCode.String)),
		AvatarURL:           strings.TrimSpace(row.AvatarURL.String),
		Instagram:           strings.TrimSpace(row.Instagram.String),
		YouTube:             strings.TrimSpace(row.YouTube.String),
		Role:                role,
		OnboardingCompleted: row.OnboardingCompleted,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
