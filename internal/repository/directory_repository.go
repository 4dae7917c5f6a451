package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AdminRepository reads the admin allow list.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs the repository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// IsAdmin reports whether email is a registered administrator.
func (r *AdminRepository) IsAdmin(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM admins WHERE LOWER(email) = LOWER($1))`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, email); err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	return ok, nil
}

// MailingListRepository stores status email opt-outs.
type MailingListRepository struct {
	db *sqlx.DB
}

// NewMailingListRepository constructs the repository.
func NewMailingListRepository(db *sqlx.DB) *MailingListRepository {
	return &MailingListRepository{db: db}
}

// IsExcluded reports whether email opted out.
func (r *MailingListRepository) IsExcluded(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM excluded_mailing_list WHERE email = LOWER($1))`
	var excluded bool
	if err := r.db.GetContext(ctx, &excluded, query, email); err != nil {
		return false, fmt.Errorf("check mailing list: %w", err)
	}
	return excluded, nil
}

// Exclude records an opt-out. Repeated calls are no-ops.
func (r *MailingListRepository) Exclude(ctx context.Context, email string) error {
	const query = `INSERT INTO excluded_mailing_list (email) VALUES (LOWER($1)) ON CONFLICT (email) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("exclude from mailing list: %w", err)
	}
	return nil
}

// Include removes an opt-out if present.
func (r *MailingListRepository) Include(ctx context.Context, email string) error {
	const query = `DELETE FROM excluded_mailing_list WHERE email = LOWER($1)`
	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("include in mailing list: %w", err)
	}
	return nil
}
