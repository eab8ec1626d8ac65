package postgres

import (
	"database/sql"
	"time"
)

type profileTableModel struct {
	UserID              string         `db:"user_id"`
	FullName            string         `db:"full_name"`
	Email               sql.NullString `db:"email"`
	DateOfBirth         time.Time      `db:"date_of_birth"`
	Gender              sql.NullString `db:"gender"`
	CountryCode         sql.NullString `db:"country_code"`
	AvatarURL           sql.NullString `db:"avatar_url"`
	Instagram           sql.NullString `db:"instagram"`
	YouTube             sql.NullString `db:"youtube"`
	Role                sql.NullString `db:"role"`
	OnboardingCompleted bool           `db:"onboarding_completed"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

type profileInsertModel struct {
	UserID              string  `db:"user_id"`
	FullName            string  `db:"full_name"`
	Email               *string `db:"email"`
	DateOfBirth         string  `db:"date_of_birth"`
	Gender              *string `db:"gender"`
	CountryCode         *string `db:"country_code"`
	AvatarURL           *string `db:"avatar_url"`
	Instagram           *string `db:"instagram"`
	YouTube             *string `db:"youtube"`
	Role                *string `db:"role"`
	OnboardingCompleted bool    `db:"onboarding_completed"`
}
