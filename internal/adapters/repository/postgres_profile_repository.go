package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.ProfileRepository = (*PostgresProfileRepository)(nil)

type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `user_id, full_name, avatar_url, friend_code, timezone, updated_at`

func (r *PostgresProfileRepository) get(ctx context.Context, where string, arg string) (*domain.Profile, error) {
	var p domain.Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE ` + where + ` = $1`

	if err := r.db.GetContext(ctx, &p, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("repository: get profile failed: %w", err)
	}
	return &p, nil
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return r.get(ctx, "user_id", userID)
}

func (r *PostgresProfileRepository) GetByFriendCode(ctx context.Context, code string) (*domain.Profile, error) {
	return r.get(ctx, "friend_code", code)
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	query := `
        INSERT INTO profiles (user_id, full_name, avatar_url, friend_code, timezone, updated_at)
        VALUES (:user_id, :full_name, :avatar_url, :friend_code, :timezone, :updated_at)
        ON CONFLICT (user_id) DO UPDATE SET
            full_name = EXCLUDED.full_name,
            avatar_url = EXCLUDED.avatar_url,
            timezone = EXCLUDED.timezone,
            updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrFriendCodeTaken
		case isForeignKeyViolation(err):
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: upsert profile failed: %w", err)
	}
	return nil
}

func (r *PostgresProfileRepository) SetFriendCode(ctx context.Context, userID, code string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET friend_code = $1, updated_at = NOW() WHERE user_id = $2`,
		code, userID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrFriendCodeTaken
		}
		return fmt.Errorf("repository: set friend code failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
