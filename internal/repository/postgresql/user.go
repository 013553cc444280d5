package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/pvz/internal/repository"
)

type UserRepo struct {
	db db.DB
}

func NewUserRepo(db db.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (*repository.User, error) {
	var user repository.User
	err := r.db.Get(ctx, &user, "SELECT * FROM users WHERE phone = $1", phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*repository.User, error) {
	var user repository.User
	err := r.db.Get(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a client record keyed on phone. A zero id with a nil error
// means a concurrent insert claimed the phone first; the caller re-reads.
func (r *UserRepo) Create(ctx context.Context, user *repository.User) (int64, error) {
	var id int64
	err := r.db.Get(ctx, &id, `
        INSERT INTO users (phone, full_name, email, role, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (phone) DO NOTHING
        RETURNING id
    `, user.Phone, user.FullName, user.Email, user.Role, user.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return id, nil
}
