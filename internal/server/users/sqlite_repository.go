package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/lulu/internal/common"
	"github.com/dmitrijs2005/lulu/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, user *User) (*User, error) {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		taken, err := dbx.Exists(ctx, tx,
			`SELECT COUNT(1) FROM users WHERE username = ?`, user.UserName)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrorAlreadyExists
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO users (id, username, password_hash, created_at)
			 VALUES (?, ?, ?, ?)`,
			user.ID, user.UserName, user.PasswordHash, user.CreatedAt)
		return err
	})

	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) || dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *SQLiteRepository) GetUserByLogin(ctx context.Context, userName string) (*User, error) {
	query :=
		`SELECT id, username, password_hash, created_at, last_login_at FROM users
		 WHERE username = ?
		 `

	user := &User{}
	var lastLogin sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userName).
		Scan(&user.ID, &user.UserName, &user.PasswordHash, &user.CreatedAt, &lastLogin)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}

	return user, nil
}

func (r *SQLiteRepository) TouchLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, at, userID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
