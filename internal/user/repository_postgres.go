package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	getUserByEmailQuery = `
		SELECT id, email, password_hash, first_name, last_name, created_at, updated_at
		FROM users
		WHERE lower(email) = $1
	`

	insertUserQuery = `
		INSERT INTO users (email, password_hash, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
		RETURNING id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRowContext(ctx, getUserByEmailQuery, strings.ToLower(email))
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	user.Email = strings.ToLower(user.Email)
	err := r.db.QueryRowContext(
		ctx,
		insertUserQuery,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		// ON CONFLICT DO NOTHING returns no row for an existing email
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}

	return user, nil
}

func scanUser(scanner rowScanner) (User, error) {
	var user User
	var first, last sql.NullString
	if err := scanner.Scan(&user.ID, &user.Email, &user.PasswordHash, &first, &last, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return User{}, err
	}
	user.FirstName = first.String
	user.LastName = last.String
	return user, nil
}
