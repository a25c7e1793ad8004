package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listProductsQuery = `
		SELECT id, name, price, image, spicy_level, category, pairings
		FROM sauce_product
		ORDER BY position, id
	`
	getProductByIDQuery = `
		SELECT id, name, price, image, spicy_level, category, pairings
		FROM sauce_product
		WHERE id = $1
	`
	insertProductQuery = `
		INSERT INTO sauce_product (id, name, price, image, spicy_level, category, pairings, position)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Products(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			// a single bad row should not hide the rest of the catalog
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Product, error) {
	row := r.db.QueryRowContext(ctx, getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// Reset deletes all products and inserts the provided list in a single
// transaction. Insertion order becomes catalog order.
func (r *PostgresRepository) Reset(ctx context.Context, products []Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sauce_product`); err != nil {
		return err
	}

	for i, p := range products {
		pairings := p.Pairings
		if pairings == nil {
			pairings = []string{}
		}
		if _, err := tx.ExecContext(ctx, insertProductQuery,
			p.ID,
			p.Name,
			p.Price.String(),
			p.Image,
			p.SpicyLevel,
			p.Category,
			pq.Array(pairings),
			i,
		); err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var price decimal.Decimal
	var image sql.NullString
	var category sql.NullString
	var pairings []string

	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&price,
		&image,
		&p.SpicyLevel,
		&category,
		pq.Array(&pairings),
	); err != nil {
		return Product{}, err
	}

	p.Price = price
	if image.Valid {
		p.Image = image.String
	}
	if category.Valid {
		p.Category = &category.String
	}
	if pairings == nil {
		pairings = []string{}
	}
	p.Pairings = pairings
	return p, nil
}
