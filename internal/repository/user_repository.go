package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mlagdao/benguetstays/internal/model"
	"github.com/mlagdao/benguetstays/internal/utils"
)

// UserRepo provides persistence for accounts.  Emails are normalized
// on the way in so the same mailbox cannot register twice with
// different casing.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// ErrEmailExists is returned by Create when the normalized email is
// already registered.
var ErrEmailExists = errors.New("email already exists")

const userColumns = `id, email, password_hash, role, is_active, created_at, updated_at`

func scanUser(row *sql.Row, u *model.User) error {
	return row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt)
}

// Create hashes the password and inserts a new account, returning its
// ID.  A duplicate email is detected through MySQL error 1062 on the
// unique index and reported as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	email = normalizeEmail(email)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	const q = `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, email, hash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an account by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = ? LIMIT 1`
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx, q, normalizeEmail(email)), &u)
	return u, err
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx, q, id), &u)
	return u, err
}

// normalizeEmail lowercases and trims an address.  Both Create and
// GetByEmail go through this, so login always finds the row register
// wrote regardless of how the client cased the address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
