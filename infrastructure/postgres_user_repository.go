package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/villagenews/video-service/domain"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, username, email, profile_image, is_admin, created_at
	          FROM users WHERE email = $1`
	var u domain.User
	var profileImage sql.NullString
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Username, &u.Email, &profileImage, &u.IsAdmin, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	u.ProfileImage = profileImage.String
	return &u, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (username, email, profile_image, is_admin)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.ProfileImage, user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateProfile refreshes the display name and picture from the identity
// provider on each login.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id int64, username, profileImage string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = $1, profile_image = $2 WHERE id = $3`,
		username, profileImage, id)
	if err != nil {
		return fmt.Errorf("update user %d profile: %w", id, err)
	}
	return nil
}

func (r *PostgresUserRepository) RecordLogin(ctx context.Context, userID int64, ipAddress string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO login_history (user_id, ip_address) VALUES ($1, $2)`,
		userID, ipAddress)
	if err != nil {
		return fmt.Errorf("record login for user %d: %w", userID, err)
	}
	return nil
}

func (r *PostgresUserRepository) LoginHistory(ctx context.Context, userID int64) ([]domain.LoginEvent, error) {
	query := `SELECT id, user_id, ip_address, login_timestamp
	          FROM login_history WHERE user_id = $1
	          ORDER BY login_timestamp DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query login history: %w", err)
	}
	defer rows.Close()

	var events []domain.LoginEvent
	for rows.Next() {
		var e domain.LoginEvent
		var ip sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &ip, &e.LoginAt); err != nil {
			return nil, fmt.Errorf("scan login event: %w", err)
		}
		e.IPAddress = ip.String
		events = append(events, e)
	}
	return events, rows.Err()
}

var _ domain.UserRepository = (*PostgresUserRepository)(nil)
