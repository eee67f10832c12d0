package postgres

import (
	"context"
	"database/sql"

	"policeapp/internal/domain/entities"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, phone, password_hash, created_at`

func (r *UserRepository) Create(ctx context.Context, u *entities.User) error {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, phone, password_hash, created_at)
         VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		u.Name, u.Email, u.Phone, u.PasswordHash, u.CreatedAt)
	return mapError(row.Scan(&u.ID))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1 AND phone <> ''`, phone))
}

func (r *UserRepository) Update(ctx context.Context, u *entities.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = $2, email = $3, phone = $4, password_hash = $5 WHERE id = $1`,
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapError(sql.ErrNoRows)
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*entities.User, error) {
	var u entities.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}
