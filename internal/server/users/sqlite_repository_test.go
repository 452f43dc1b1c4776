package users

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/lulu/internal/common"
	"github.com/dmitrijs2005/lulu/internal/server/migrations"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

func newUser(id, name string) *User {
	return &User{ID: id, UserName: name, PasswordHash: []byte("hash-" + id), CreatedAt: time.Now().UTC().Truncate(time.Second)}
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteRepository(setupDB(t))
	require.NoError(t, err)

	in := newUser("u-1", "al")
	_, err = r.Create(ctx, in)
	require.NoError(t, err)

	got, err := r.GetUserByLogin(ctx, "al")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "al", got.UserName)
	assert.Equal(t, []byte("hash-u-1"), got.PasswordHash)
	assert.True(t, in.CreatedAt.Equal(got.CreatedAt), "created_at round trip: %v vs %v", in.CreatedAt, got.CreatedAt)
	assert.Nil(t, got.LastLoginAt)
}

func TestSQLiteRepository_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteRepository(setupDB(t))
	require.NoError(t, err)

	_, err = r.Create(ctx, newUser("u-1", "al"))
	require.NoError(t, err)

	_, err = r.Create(ctx, newUser("u-2", "al"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestSQLiteRepository_GetUnknown(t *testing.T) {
	r, err := NewSQLiteRepository(setupDB(t))
	require.NoError(t, err)

	_, err = r.GetUserByLogin(context.Background(), "nobody")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLiteRepository_TouchLogin(t *testing.T) {
	ctx := context.Background()
	r, err := NewSQLiteRepository(setupDB(t))
	require.NoError(t, err)
	_, err = r.Create(ctx, newUser("u-1", "al"))
	require.NoError(t, err)

	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.TouchLogin(ctx, "u-1", at))

	got, err := r.GetUserByLogin(ctx, "al")
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, at.Equal(*got.LastLoginAt))

	require.ErrorIs(t, r.TouchLogin(ctx, "missing", at), common.ErrorNotFound)
}

func TestSQLiteRepository_Create_SQLErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r, _ := NewSQLiteRepository(db)

	u := newUser("u-1", "al")
	countQ := regexp.QuoteMeta(`SELECT COUNT(1) FROM users WHERE username = ?`)
	insertQ := regexp.QuoteMeta(`INSERT INTO users (id, username, password_hash, created_at)`)

	t.Run("count fails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(countQ).WithArgs("al").WillReturnError(errors.New("disk I/O error"))
		mock.ExpectRollback()

		_, err := r.Create(context.Background(), u)
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(countQ).WithArgs("al").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(insertQ).
			WithArgs(u.ID, u.UserName, u.PasswordHash, u.CreatedAt).
			WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"))
		mock.ExpectRollback()

		_, err := r.Create(context.Background(), u)
		require.ErrorIs(t, err, common.ErrorAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit fails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(countQ).WithArgs("al").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(insertQ).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

		_, err := r.Create(context.Background(), u)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLiteRepository_Get_SQLError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r, _ := NewSQLiteRepository(db)

	mock.ExpectQuery(`SELECT id, username, password_hash`).WithArgs("al").WillReturnError(errors.New("boom"))

	_, err = r.GetUserByLogin(context.Background(), "al")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
