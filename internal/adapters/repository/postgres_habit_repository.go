package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

const (
	habitColumns = `id, user_id, title, description, color, created_at, updated_at`

	insertHabitSQL = `
        INSERT INTO habits (` + habitColumns + `)
        VALUES (:id, :user_id, :title, :description, :color, :created_at, :updated_at)`

	selectHabitByIDSQL = `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`

	// Creation order is the order every analytics rule iterates in; id breaks
	// ties between habits created in the same instant.
	selectHabitsByUserSQL = `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1
        ORDER BY created_at ASC, id ASC`

	updateHabitSQL = `
        UPDATE habits
        SET title = :title, description = :description, color = :color, updated_at = NOW()
        WHERE id = :id
        RETURNING updated_at`

	// Logs go with the habit through ON DELETE CASCADE.
	deleteHabitSQL = `DELETE FROM habits WHERE id = $1 RETURNING id`
)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	_, err := r.db.NamedExecContext(ctx, insertHabitSQL, h)
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return domain.ErrUserNotFound
	default:
		return fmt.Errorf("habit repository: insert: %w", err)
	}
}

func (r *PostgresHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	var h domain.Habit
	if err := r.db.GetContext(ctx, &h, selectHabitByIDSQL, id); err != nil {
		return nil, habitNotFound(err, "get")
	}
	return &h, nil
}

func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	habits := make([]*domain.Habit, 0)
	if err := r.db.SelectContext(ctx, &habits, selectHabitsByUserSQL, userID); err != nil {
		return nil, fmt.Errorf("habit repository: list: %w", err)
	}
	return habits, nil
}

func (r *PostgresHabitRepository) Update(ctx context.Context, h *domain.Habit) error {
	rows, err := r.db.NamedQueryContext(ctx, updateHabitSQL, h)
	if err != nil {
		return fmt.Errorf("habit repository: update: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return fmt.Errorf("habit repository: update: %w", err)
		}
		return domain.ErrHabitNotFound
	}
	if err := rows.Scan(&h.UpdatedAt); err != nil {
		return fmt.Errorf("habit repository: update: %w", err)
	}
	return nil
}

func (r *PostgresHabitRepository) Delete(ctx context.Context, id string) error {
	var deleted string
	if err := r.db.GetContext(ctx, &deleted, deleteHabitSQL, id); err != nil {
		return habitNotFound(err, "delete")
	}
	return nil
}

func habitNotFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrHabitNotFound
	}
	return fmt.Errorf("habit repository: %s: %w", op, err)
}
