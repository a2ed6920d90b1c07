package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, first_name, last_name, password, profile_image, balance`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.ProfileImage, &u.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// Create registers a new user with a zero balance. The password must
// already be hashed.
func (r *UserRepository) Create(ctx context.Context, email, firstName, lastName, passwordHash string) (*domain.User, error) {
	query := `
		INSERT INTO users (email, first_name, last_name, password, balance)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, email, firstName, lastName, passwordHash))
	if isUniqueViolation(err) {
		return nil, domain.ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// UpdateProfile changes the display name and returns the fresh record.
func (r *UserRepository) UpdateProfile(ctx context.Context, email, firstName, lastName string) (*domain.User, error) {
	query := `
		UPDATE users SET first_name = $2, last_name = $3
		WHERE email = $1
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(ctx, query, email, firstName, lastName))
}
