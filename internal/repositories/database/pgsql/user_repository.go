package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
	portsrepo "github.com/kassatrack/cash_report_app/internal/core/ports/repositories"
	"github.com/kassatrack/cash_report_app/internal/models"
	"github.com/kassatrack/cash_report_app/internal/utils/mapping"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.UserCredentials) error {
	modelUser := mapping.ToModelUser(user)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
        INSERT INTO users (user_id, username, password_hash, role, is_active, device_limit, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err = tx.Exec(ctx, query,
		modelUser.UserID,
		modelUser.Username,
		modelUser.PasswordHash,
		modelUser.Role,
		modelUser.IsActive,
		modelUser.DeviceLimit,
		modelUser.CreatedAt,
		modelUser.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username %q is taken", apperrors.ErrDuplicate, user.Username)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}

	if err := insertUserLocations(ctx, tx, user.UserID, user.Locations); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT u.user_id, u.username, u.password_hash, u.role, u.is_active, u.device_limit, u.created_at, u.updated_at,
		       COALESCE(array_agg(ul.location_name ORDER BY ul.location_name) FILTER (WHERE ul.location_name IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_locations ul ON ul.user_id = u.user_id
		WHERE u.user_id = $1
		GROUP BY u.user_id;
	`
	var modelUser models.User
	var locations []string
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&modelUser.UserID,
		&modelUser.Username,
		&modelUser.PasswordHash,
		&modelUser.Role,
		&modelUser.IsActive,
		&modelUser.DeviceLimit,
		&modelUser.CreatedAt,
		&modelUser.UpdatedAt,
		&locations,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}

	domainUser := mapping.ToDomainUser(modelUser, locations)
	return &domainUser, nil
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.UserCredentials, error) {
	query := `
		SELECT u.user_id, u.username, u.password_hash, u.role, u.is_active, u.device_limit, u.created_at, u.updated_at,
		       COALESCE(array_agg(ul.location_name ORDER BY ul.location_name) FILTER (WHERE ul.location_name IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_locations ul ON ul.user_id = u.user_id
		WHERE u.username = $1
		GROUP BY u.user_id;
	`
	var modelUser models.User
	var locations []string
	err := r.Pool.QueryRow(ctx, query, username).Scan(
		&modelUser.UserID,
		&modelUser.Username,
		&modelUser.PasswordHash,
		&modelUser.Role,
		&modelUser.IsActive,
		&modelUser.DeviceLimit,
		&modelUser.CreatedAt,
		&modelUser.UpdatedAt,
		&locations,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by username %s: %w", username, err)
	}

	return &domain.UserCredentials{
		User:         mapping.ToDomainUser(modelUser, locations),
		PasswordHash: modelUser.PasswordHash,
	}, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT u.user_id, u.username, u.role, u.is_active, u.device_limit, u.created_at, u.updated_at,
		       COALESCE(array_agg(ul.location_name ORDER BY ul.location_name) FILTER (WHERE ul.location_name IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_locations ul ON ul.user_id = u.user_id
		GROUP BY u.user_id
		ORDER BY u.username;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var modelUser models.User
		var locations []string
		err := rows.Scan(
			&modelUser.UserID,
			&modelUser.Username,
			&modelUser.Role,
			&modelUser.IsActive,
			&modelUser.DeviceLimit,
			&modelUser.CreatedAt,
			&modelUser.UpdatedAt,
			&locations,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, mapping.ToDomainUser(modelUser, locations))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}

	return users, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, userID, role string, deviceLimit int, locations []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	cmdTag, err := tx.Exec(ctx, `
		UPDATE users SET role = $1, device_limit = $2, updated_at = $3 WHERE user_id = $4;
	`, role, deviceLimit, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", apperrors.ErrNotFound)
	}

	// Replace location assignments wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM user_locations WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("failed to clear user locations: %w", err)
	}
	if err := insertUserLocations(ctx, tx, userID, locations); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxUserRepository) SetUserActive(ctx context.Context, userID string, active bool) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE users SET is_active = $1, updated_at = $2 WHERE user_id = $3;
	`, active, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to set user status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	cmdTag, err := r.Pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = $2 WHERE user_id = $3;
	`, passwordHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func insertUserLocations(ctx context.Context, tx pgx.Tx, userID string, locations []string) error {
	if len(locations) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, loc := range locations {
		batch.Queue(`INSERT INTO user_locations (user_id, location_name) VALUES ($1, $2);`, userID, loc)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range locations {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert user location: %w", err)
		}
	}
	return nil
}
