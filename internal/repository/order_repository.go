package repository

import (
	"context"
	"database/sql"

	"github.com/atelierhq/workshop-studio/internal/model"
)

// OrderRepo persists orders and their items.  Order creation always
// runs inside the checkout transaction together with the stock
// decrements.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns an OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateTx inserts an order and populates its generated ID and
// timestamp.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (customer_name, customer_email, total_cents, status)
		 VALUES (?, ?, ?, ?)`,
		o.CustomerName, o.CustomerEmail, o.TotalCents, o.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return tx.QueryRowContext(ctx,
		`SELECT created_at FROM orders WHERE id = ?`, o.ID).Scan(&o.CreatedAt)
}

// CreateItemsTx inserts the order's items in a single statement.
func (r *OrderRepo) CreateItemsTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, product_id, quantity, unit_price_cents) VALUES `
	args := make([]any, 0, len(items)*4)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, it.OrderID, it.ProductID, it.Quantity, it.UnitPriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// List returns all orders with their items, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, customer_name, customer_email, total_cents, status, created_at
		 FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []model.Order{}
	index := map[uint64]int{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerEmail,
			&o.TotalCents, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Items = []model.OrderItem{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	irows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price_cents FROM order_items`)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var it model.OrderItem
		if err := irows.Scan(&it.ID, &it.OrderID, &it.ProductID,
			&it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, err
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, irows.Err()
}
