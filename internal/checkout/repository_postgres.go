package checkout

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertOrderQuery = `
		INSERT INTO orders (id, user_email, items, quantity, subtotal, shipping, total, shipping_address, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	listOrdersByEmailQuery = `
		SELECT id, user_email, items, quantity, subtotal, shipping, total, shipping_address, payment_method, status, created_at
		FROM orders
		WHERE user_email = $1
		ORDER BY created_at DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, ord Order) (Order, error) {
	itemsJSON, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, err
	}

	ord.UserEmail = strings.ToLower(ord.UserEmail)
	_, err = r.db.ExecContext(ctx, insertOrderQuery,
		ord.ID, ord.UserEmail, itemsJSON, ord.Quantity,
		ord.Subtotal.String(), ord.Shipping.String(), ord.Total.String(),
		ord.ShippingAddress, ord.PaymentMethod, ord.Status, ord.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) ListByEmail(ctx context.Context, email string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, listOrdersByEmailQuery, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var ord Order
		var itemsJSON []byte
		if err := rows.Scan(&ord.ID, &ord.UserEmail, &itemsJSON, &ord.Quantity, &ord.Subtotal, &ord.Shipping, &ord.Total,
			&ord.ShippingAddress, &ord.PaymentMethod, &ord.Status, &ord.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(itemsJSON, &ord.Items); err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}

	return orders, rows.Err()
}
