package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var userColumns = []string{"id", "email", "password_hash", "first_name", "last_name", "created_at", "updated_at"}

func TestPostgresGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM users").
		WithArgs("jo@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "jo@example.com", "$2a$hash", "Jo", nil, now, now))

	got, err := repo.GetByEmail(context.Background(), "Jo@Example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != 3 || got.FirstName != "Jo" || got.LastName != "" || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user %+v", got)
	}

	mock.ExpectQuery("FROM users").WithArgs("missing@example.com").WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetByEmail(context.Background(), "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("new@example.com", "hash", "New", "User", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	created, err := repo.Create(context.Background(), User{Email: "New@Example.com", PasswordHash: "hash", FirstName: "New", LastName: "User", CreatedAt: now, UpdatedAt: now})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 11 || created.Email != "new@example.com" {
		t.Fatalf("unexpected created user %+v", created)
	}

	mock.ExpectQuery("INSERT INTO users").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := repo.Create(context.Background(), User{Email: "new@example.com"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
