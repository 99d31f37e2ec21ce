package sales

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pemafoods/pdv/internal/catalog"
)

// Store is append-only: the terminal is the single writer and nothing
// ever updates or deletes a committed sale.
type Store interface {
	Append(ctx context.Context, o *CompletedOrder) error
	ListAll(ctx context.Context) ([]CompletedOrder, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Append(ctx context.Context, o *CompletedOrder) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var given, change *string
	if o.AmountGiven != nil {
		s := o.AmountGiven.String()
		given = &s
	}
	if o.Change != nil {
		s := o.Change.String()
		change = &s
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO completed_orders (id, sale_date, total, payment_method, amount_given, change_due, location, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
  `, o.ID, o.Date, o.Total.String(), string(o.PaymentMethod), given, change, o.Location); err != nil {
		return err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO completed_order_items (order_id, product_code, category, description, price, quantity)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, o.ID, it.Product.Code, it.Product.Category, it.Product.Description, it.Product.Price.String(), it.Quantity); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) ListAll(ctx context.Context) ([]CompletedOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
    SELECT id, sale_date, total::text, payment_method, amount_given::text, change_due::text, location
    FROM completed_orders
    ORDER BY sale_date ASC, created_at ASC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompletedOrder
	index := map[string]int{}
	for rows.Next() {
		var o CompletedOrder
		var total string
		var given, change *string
		var method string
		if err := rows.Scan(&o.ID, &o.Date, &total, &method, &given, &change, &o.Location); err != nil {
			return nil, err
		}
		o.PaymentMethod = PaymentMethod(method)
		if o.Total, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		if given != nil {
			d, err := decimal.NewFromString(*given)
			if err != nil {
				return nil, err
			}
			o.AmountGiven = &d
		}
		if change != nil {
			d, err := decimal.NewFromString(*change)
			if err != nil {
				return nil, err
			}
			o.Change = &d
		}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	irows, err := r.db.Query(ctx, `
    SELECT order_id, product_code, category, description, price::text, quantity
    FROM completed_order_items
    ORDER BY id ASC
  `)
	if err != nil {
		return nil, err
	}
	defer irows.Close()

	for irows.Next() {
		var orderID, price string
		var it Item
		var p catalog.Product
		if err := irows.Scan(&orderID, &p.Code, &p.Category, &p.Description, &price, &it.Quantity); err != nil {
			return nil, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		it.Product = p
		if i, ok := index[orderID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, irows.Err()
}
