package database

import (
	"context"
	"database/sql"
	"fmt" // For error wrapping
	"strings"

	"lifeweeks_bot/internal/domain/user"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrUserNotFound = fmt.Errorf("user not found")
var ErrDuplicateTelegramID = fmt.Errorf("user with this Telegram ID already exists")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (telegram_id, name, birthdate, username)
               VALUES ($1, $2, $3, $4)
               RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, u.TelegramID, u.Name, u.Birthdate, u.Username).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// Basic check for unique violation on telegram_id.
		// More robust check might involve specific pq error codes.
		if strings.Contains(err.Error(), "unique constraint") || strings.Contains(err.Error(), "duplicate key") {
			return ErrDuplicateTelegramID
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	query := `SELECT telegram_id, name, birthdate, last_notified_week, username, created_at, updated_at
               FROM users WHERE telegram_id = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, telegramID).Scan(&u.TelegramID, &u.Name, &u.Birthdate, &u.LastNotifiedWeek, &u.Username, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by Telegram ID: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, telegramID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) ListAll(ctx context.Context) ([]*user.User, error) {
	query := `SELECT telegram_id, name, birthdate, last_notified_week, username, created_at, updated_at
               FROM users ORDER BY telegram_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u := &user.User{}
		if err := rows.Scan(&u.TelegramID, &u.Name, &u.Birthdate, &u.LastNotifiedWeek, &u.Username, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// SetLastNotifiedWeek advances last_notified_week monotonically. The guard in
// the WHERE clause makes the write idempotent and keeps a concurrent lower
// value from ever overwriting a higher one.
func (r *PostgresUserRepository) SetLastNotifiedWeek(ctx context.Context, telegramID int64, week int) error {
	query := `UPDATE users
               SET last_notified_week = $2, updated_at = NOW()
               WHERE telegram_id = $1
                 AND (last_notified_week IS NULL OR last_notified_week < $2)`

	if _, err := r.db.ExecContext(ctx, query, telegramID, week); err != nil {
		return fmt.Errorf("error setting last notified week: %w", err)
	}
	return nil
}
