package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/habittrack/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.HabitLogRepository = (*PostgresHabitLogRepository)(nil)

type PostgresHabitLogRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitLogRepository(db *sqlx.DB) *PostgresHabitLogRepository {
	return &PostgresHabitLogRepository{db: db}
}

// completed_at is a DATE; it is always read back as a day key so no
// timezone conversion ever touches it.
const logColumns = `id, habit_id, user_id, to_char(completed_at, 'YYYY-MM-DD') AS completed_at, notes, created_at, updated_at`

func (r *PostgresHabitLogRepository) Find(ctx context.Context, habitID, day string) (*domain.HabitLog, error) {
	var l domain.HabitLog
	query := `SELECT ` + logColumns + ` FROM habit_logs WHERE habit_id = $1 AND completed_at = $2::date`

	if err := r.db.GetContext(ctx, &l, query, habitID, day); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLogNotFound
		}
		return nil, fmt.Errorf("find log failed: %w", err)
	}
	return &l, nil
}

func (r *PostgresHabitLogRepository) Create(ctx context.Context, l *domain.HabitLog) error {
	query := `
        INSERT INTO habit_logs (id, habit_id, user_id, completed_at, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4::date, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.HabitID, l.UserID, l.CompletedAt, l.Notes, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrLogAlreadyExists
		case isForeignKeyViolation(err):
			return domain.ErrHabitNotFound
		}
		return fmt.Errorf("failed to insert log: %w", err)
	}
	return nil
}

func (r *PostgresHabitLogRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habit_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete log failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLogNotFound
	}
	return nil
}

func (r *PostgresHabitLogRepository) UpsertNote(ctx context.Context, l *domain.HabitLog) error {
	query := `
        INSERT INTO habit_logs (id, habit_id, user_id, completed_at, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4::date, $5, $6, $7)
        ON CONFLICT (habit_id, completed_at)
        DO UPDATE SET notes = EXCLUDED.notes, updated_at = NOW()
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		l.ID, l.HabitID, l.UserID, l.CompletedAt, l.Notes, l.CreatedAt, l.UpdatedAt,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHabitNotFound
		}
		return fmt.Errorf("upsert note failed: %w", err)
	}
	return nil
}

func (r *PostgresHabitLogRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitLog, error) {
	logs := make([]*domain.HabitLog, 0)
	query := `SELECT ` + logColumns + ` FROM habit_logs WHERE user_id = $1`

	if err := r.db.SelectContext(ctx, &logs, query, userID); err != nil {
		return nil, fmt.Errorf("list logs failed: %w", err)
	}
	return logs, nil
}

func (r *PostgresHabitLogRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM habit_logs WHERE user_id = $1`, userID); err != nil {
		return 0, fmt.Errorf("count logs failed: %w", err)
	}
	return count, nil
}
