package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
)

var ErrProductNotFound = errors.New("product not found")

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, COALESCE(category, ''), cost, price, image_url, active, stock, created_at
		FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		var id int64
		if err := rows.Scan(&id, &p.Name, &p.Category, &p.Cost, &p.Price,
			&p.ImageURL, &p.Active, &p.Stock, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.ID = strconv.FormatInt(id, 10)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) CreateProduct(ctx context.Context, p Product) (Product, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(name, category, cost, price, image_url, active, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		p.Name, p.Category, p.Cost, p.Price, p.ImageURL, p.Active, p.Stock,
	).Scan(&id, &p.CreatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	p.ID = strconv.FormatInt(id, 10)
	return p, nil
}

func (r *Repo) UpdateProduct(ctx context.Context, p Product) error {
	id, err := strconv.ParseInt(p.ID, 10, 64)
	if err != nil {
		return ErrProductNotFound
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET name = $2, category = $3, cost = $4, price = $5,
		    image_url = $6, active = $7, stock = $8
		WHERE id = $1`,
		id, p.Name, p.Category, p.Cost, p.Price, p.ImageURL, p.Active, p.Stock)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	pid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ErrProductNotFound
	}
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, pid)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetProduct is used by back-office edit forms.
func (r *Repo) GetProduct(ctx context.Context, id string) (*Product, error) {
	pid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}
	var p Product
	err = r.DB.QueryRow(ctx, `
		SELECT name, COALESCE(category, ''), cost, price, image_url, active, stock, created_at
		FROM products WHERE id = $1`, pid,
	).Scan(&p.Name, &p.Category, &p.Cost, &p.Price, &p.ImageURL, &p.Active, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.ID = id
	return &p, nil
}
