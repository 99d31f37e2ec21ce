package payables

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository interface {
	List(ctx context.Context, status Status) ([]Account, error)
	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) (bool, error)
	MarkPaid(ctx context.Context, id, paidDate string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// List returns accounts with the given status, or all when status is
// empty, due soonest first.
func (r *PGRepo) List(ctx context.Context, status Status) ([]Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, description, amount::text, due_date::text, status, COALESCE(paid_date::text,'')
		FROM accounts_payable
		WHERE ($1 = '' OR status = $1)
		ORDER BY due_date, id
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PGRepo) Create(ctx context.Context, a *Account) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO accounts_payable (id, description, amount, due_date, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
	`, a.ID, a.Description, a.Amount.String(), a.DueDate, string(a.Status))
	return err
}

func (r *PGRepo) Update(ctx context.Context, a *Account) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `
		UPDATE accounts_payable
		SET description=$2, amount=$3, due_date=$4, updated_at=NOW()
		WHERE id=$1
	`, a.ID, a.Description, a.Amount.String(), a.DueDate)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) MarkPaid(ctx context.Context, id, paidDate string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `
		UPDATE accounts_payable
		SET status='paid', paid_date=$2, updated_at=NOW()
		WHERE id=$1
	`, id, paidDate)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM accounts_payable WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func scanAccount(scan func(dest ...any) error) (Account, error) {
	var a Account
	var amount string
	if err := scan(&a.ID, &a.Description, &amount, &a.DueDate, &a.Status, &a.PaidDate); err != nil {
		return Account{}, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Account{}, err
	}
	a.Amount = d
	return a, nil
}
