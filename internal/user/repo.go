package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("user not found")
)

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Upsert(ctx context.Context, u *User) error
	Delete(ctx context.Context, username string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, role, locations, COALESCE(pix_key,''), created_at, updated_at
		FROM users WHERE username=$1
	`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Locations, &u.PixKey, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *PGRepo) List(ctx context.Context) ([]User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, username, password_hash, role, locations, COALESCE(pix_key,''), created_at, updated_at
		FROM users ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Locations, &u.PixKey, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Upsert creates or replaces a user by username. An empty PasswordHash
// on an existing row keeps the stored hash, so edits need not resend
// the password.
func (r *PGRepo) Upsert(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, role, locations, pix_key, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),NOW(),NOW())
		ON CONFLICT (username) DO UPDATE SET
			password_hash = CASE WHEN EXCLUDED.password_hash <> '' THEN EXCLUDED.password_hash ELSE users.password_hash END,
			role = EXCLUDED.role,
			locations = EXCLUDED.locations,
			pix_key = EXCLUDED.pix_key,
			updated_at = NOW()
	`, u.ID, u.Username, u.PasswordHash, u.Role, u.Locations, u.PixKey)
	return err
}

func (r *PGRepo) Delete(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE username=$1`, username)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
