package repository

import (
	"context"
	"database/sql"
	"strings"
)

// UserRepo provides access to the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Credentials fetches the salt and derived secret stored for a username.
// Returns sql.ErrNoRows when the user does not exist.
func (r *UserRepo) Credentials(ctx context.Context, username string) (salt, hash []byte, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT salt, password_hash FROM users WHERE username = ?",
		username).Scan(&salt, &hash)
	return salt, hash, err
}

// ExistsTx reports whether a username is already taken.
func (r *UserRepo) ExistsTx(ctx context.Context, tx *sql.Tx, username string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username = ?",
		username).Scan(&n)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// CreateTx inserts a new user row. A duplicate-key violation is reported
// as ErrUsernameExists.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, username string, salt, hash []byte, balance int64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO users (username, salt, password_hash, balance) VALUES (?, ?, ?, ?)",
		username, salt, hash, balance)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrUsernameExists
		}
		return err
	}
	return nil
}

// BalanceTx fetches a user's current balance.
func (r *UserRepo) BalanceTx(ctx context.Context, tx *sql.Tx, username string) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx,
		"SELECT balance FROM users WHERE username = ?",
		username).Scan(&balance)
	return balance, err
}

// UpdateBalanceTx overwrites a user's balance.
func (r *UserRepo) UpdateBalanceTx(ctx context.Context, tx *sql.Tx, username string, balance int64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET balance = ? WHERE username = ?",
		balance, username)
	return err
}
