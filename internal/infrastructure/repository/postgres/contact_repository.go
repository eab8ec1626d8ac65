package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fightlinkhq/fightlink/internal/domain/contact"
	qb "github.com/fightlinkhq/fightlink/internal/platform/querybuilder"
)

type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

type contactInfoTableModel struct {
	UserID    string    `db:"user_id"`
	FullName  string    `db:"full_name"`
	Phone     string    `db:"phone"`
	Email     string    `db:"email"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *ContactRepository) GetByUserID(ctx context.Context, userID string) (contact.Info, bool, error) {
	query, args, err := qb.Select("*").
		From("contact_info").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return contact.Info{}, false, fmt.Errorf("build get contact info query: %w", err)
	}

	var row contactInfoTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contact.Info{}, false, nil
		}
		return contact.Info{}, false, fmt.Errorf("get contact info: %w", err)
	}

	return contact.Info{
		UserID:    row.UserID,
		FullName:  row.FullName,
		Phone:     row.Phone,
		Email:     row.Email,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

// Replace removes whatever contact row the user had before inserting
// the new one, both inside one transaction.
func (r *ContactRepository) Replace(ctx context.Context, info contact.Info) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace contact info: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("contact_info").
		Where(qb.Eq("user_id", info.UserID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete contact info query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete contact info: %w", err)
	}

	insertModel := struct {
		UserID   string `db:"user_id"`
		FullName string `db:"full_name"`
		Phone    string `db:"phone"`
		Email    string `db:"email"`
	}{
		UserID:   strings.TrimSpace(info.UserID),
		FullName: strings.TrimSpace(info.FullName),
		Phone:    strings.TrimSpace(info.Phone),
		Email:    strings.TrimSpace(info.Email),
	}
	insertQuery, insertArgs, err := qb.InsertModel("contact_info", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert contact info query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("insert contact info: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace contact info tx: %w", err)
	}

	return nil
}
