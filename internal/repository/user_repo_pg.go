package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

type PostgresUserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresUserRepository(db *pgxpool.Pool, logger *zap.Logger) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, logger: logger}
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]model.User, error) {
	defer observe("users", "list", time.Now())

	rows, err := r.db.Query(ctx, `
        SELECT id, full_name, mobile_number, profile_photo, role
        FROM users
        ORDER BY seq
    `)
	if err != nil {
		r.logger.Error("Failed to query users", zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresUserRepository) Get(ctx context.Context, id string) (model.User, bool, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
        SELECT id, full_name, mobile_number, profile_photo, role
        FROM users
        WHERE id = $1
    `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, false, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user", zap.String("user_id", id), zap.Error(err))
		return model.User{}, false, err
	}
	return u, true, nil
}

// Insert upserts u so re-seeding an existing database is idempotent.
func (r *PostgresUserRepository) Insert(ctx context.Context, u model.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (id, full_name, mobile_number, profile_photo, role)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE
        SET full_name = EXCLUDED.full_name,
            mobile_number = EXCLUDED.mobile_number,
            profile_photo = EXCLUDED.profile_photo
    `, u.ID, u.FullName, u.MobileNumber, u.ProfilePhoto, string(u.Role))
	if err != nil {
		r.logger.Error("Failed to insert user", zap.String("user_id", u.ID), zap.Error(err))
		return fmt.Errorf("failed to insert user %s: %w", u.ID, err)
	}
	return nil
}

func (r *PostgresUserRepository) Replace(ctx context.Context, u model.User) (bool, error) {
	defer observe("users", "update", time.Now())

	result, err := r.db.Exec(ctx, `
        UPDATE users
        SET full_name = $2, mobile_number = $3, profile_photo = $4, role = $5
        WHERE id = $1
    `, u.ID, u.FullName, u.MobileNumber, u.ProfilePhoto, string(u.Role))
	if err != nil {
		r.logger.Error("Failed to update user", zap.String("user_id", u.ID), zap.Error(err))
		return false, fmt.Errorf("failed to update user %s: %w", u.ID, err)
	}
	return result.RowsAffected() > 0, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u    model.User
		role string
	)
	err := row.Scan(&u.ID, &u.FullName, &u.MobileNumber, &u.ProfilePhoto, &role)
	u.Role = model.Role(role)
	return u, err
}
