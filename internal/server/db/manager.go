// Package db opens the dev server's SQLite database, applies the embedded
// goose migrations, and hands out repositories bound to the connection.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/lulu/internal/server/migrations"
	"github.com/dmitrijs2005/lulu/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Close() error
}

type SQLiteRepositoryManager struct {
	db    *sql.DB
	users users.Repository
}

func (m *SQLiteRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLiteRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(log.New(io.Discard, "", 0))

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

// NewSQLiteRepositoryManager opens dsn with the modernc driver and migrates
// it to the latest schema.
func NewSQLiteRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	users, err := users.NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}

	m := &SQLiteRepositoryManager{
		db:    db,
		users: users,
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
