// Package catalog provides the repository interface and PostgreSQL
// implementation for the terminal's product catalog.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("product not found")
)

type Repository interface {
	List(ctx context.Context, onlyActive bool) ([]Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	Upsert(ctx context.Context, p *Product) error
	Delete(ctx context.Context, code string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) List(ctx context.Context, onlyActive bool) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT code, category, description, price::text, active, COALESCE(image_url,'')
		FROM products
		WHERE ($1 = false OR active)
		ORDER BY category, code
	`, onlyActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByCode(ctx context.Context, code string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT code, category, description, price::text, active, COALESCE(image_url,'')
		FROM products WHERE code=$1
	`, code)
	p, err := scanProduct(row.Scan)
	if err != nil {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *PGRepo) Upsert(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (code, category, description, price, active, image_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),NOW(),NOW())
		ON CONFLICT (code) DO UPDATE SET
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			active = EXCLUDED.active,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()
	`, p.Code, p.Category, p.Description, p.Price.String(), p.Active, p.ImageURL)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, code string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE code=$1`, code)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanProduct(scan func(dest ...any) error) (Product, error) {
	var p Product
	var price string
	if err := scan(&p.Code, &p.Category, &p.Description, &price, &p.Active, &p.ImageURL); err != nil {
		return Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, err
	}
	p.Price = d
	return p, nil
}
