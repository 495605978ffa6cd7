package repository

import (
	"context"
	"database/sql"

	"github.com/atelierhq/workshop-studio/internal/model"
)

// ProductRepo encapsulates database operations for products.  Stock is
// mutated only through DecrementStockTx, mirroring the seat ledger
// discipline: a conditional UPDATE, never read-then-write.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo constructs a ProductRepo given a DB handle.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

const productColumns = `id, name, description, price_cents, stock, active, image_url`

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	var desc, imageURL sql.NullString
	err := row.Scan(&p.ID, &p.Name, &desc, &p.PriceCents, &p.Stock, &p.Active, &imageURL)
	if err != nil {
		return model.Product{}, err
	}
	p.Description = desc.String
	if imageURL.Valid {
		s := imageURL.String
		p.ImageURL = &s
	}
	return p, nil
}

// GetByID fetches a single product.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return model.Product{}, ErrProductNotFound
	}
	return p, err
}

// GetByIDTx is GetByID within an existing transaction.
func (r *ProductRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Product, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return model.Product{}, ErrProductNotFound
	}
	return p, err
}

// List returns products, optionally restricted to active ones.
func (r *ProductRepo) List(ctx context.Context, activeOnly bool) ([]model.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create inserts a product and returns it with the generated id.
func (r *ProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (name, description, price_cents, stock, active, image_url)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.PriceCents, p.Stock, p.Active, p.ImageURL)
	if err != nil {
		return model.Product{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Product{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Update replaces a product's fields.
func (r *ProductRepo) Update(ctx context.Context, p model.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET name = ?, description = ?, price_cents = ?, stock = ?, active = ?, image_url = ?
		 WHERE id = ?`,
		p.Name, p.Description, p.PriceCents, p.Stock, p.Active, p.ImageURL, p.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a product.  Order items referencing it block the
// delete via FK and surface as ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DecrementStockTx removes qty units from stock.  The conditional
// UPDATE matches only while enough stock remains, so concurrent
// checkouts cannot oversell; zero affected rows means ErrOutOfStock.
func (r *ProductRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, productID uint64, qty uint32) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`,
		qty, productID, qty)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOutOfStock
	}
	return nil
}
