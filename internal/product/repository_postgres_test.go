package product

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

var productColumns = []string{"id", "name", "price", "image", "spicy_level", "category", "pairings"}

func TestPostgresProducts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(productColumns).
		AddRow("1", "MEXICAN FURY", "9.99", "img.png", 4, "Hot Sauce", "{Tacos,Burritos}").
		AddRow("2", "PLAIN", "3.50", nil, 0, nil, "{}")
	mock.ExpectQuery("FROM sauce_product").WillReturnRows(rows)

	products, err := repo.Products(context.Background())
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if !products[0].Price.Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("unexpected price %s", products[0].Price)
	}
	if products[0].CategoryName() != "Hot Sauce" || len(products[0].Pairings) != 2 || products[0].Pairings[1] != "Burritos" {
		t.Fatalf("unexpected product %+v", products[0])
	}
	if products[1].Category != nil || products[1].Image != "" || len(products[1].Pairings) != 0 {
		t.Fatalf("unexpected nullable handling %+v", products[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresProducts_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM sauce_product").WillReturnError(errors.New("no such table"))

	if _, err := repo.Products(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("WHERE id = \\$1").WithArgs("99").WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "99"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresReset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sauce_product").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO sauce_product").
		WithArgs("1", "A", "9.99", "img", 4, sqlmock.AnyArg(), sqlmock.AnyArg(), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO sauce_product").
		WithArgs("2", "B", "1", "", 0, sqlmock.AnyArg(), sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.Reset(context.Background(), []Product{
		{ID: "1", Name: "A", Price: decimal.RequireFromString("9.99"), Image: "img", SpicyLevel: 4, Category: ptrString("Hot Sauce"), Pairings: []string{"Tacos"}},
		{ID: "2", Name: "B", Price: decimal.NewFromInt(1)},
	})
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
