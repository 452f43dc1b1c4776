package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/lulu/internal/common"
	"github.com/dmitrijs2005/lulu/internal/server/users"
)

func TestNewSQLiteRepositoryManager_MigratesAndServesUsers(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "lulu.db")

	m, err := NewSQLiteRepositoryManager(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	var n int
	require.NoError(t, m.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n)

	u := &users.User{ID: "u-1", UserName: "al", PasswordHash: []byte("h"), CreatedAt: time.Now().UTC()}
	_, err = m.Users().Create(ctx, u)
	require.NoError(t, err)

	got, err := m.Users().GetUserByLogin(ctx, "al")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	// migrations are idempotent
	require.NoError(t, m.RunMigrations(ctx))
}

func TestNewSQLiteRepositoryManager_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "lulu.db")

	m, err := NewSQLiteRepositoryManager(ctx, dsn)
	require.NoError(t, err)
	_, err = m.Users().Create(ctx, &users.User{ID: "u-1", UserName: "al", PasswordHash: []byte("h"), CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, m.Close())

	m, err = NewSQLiteRepositoryManager(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	_, err = m.Users().Create(ctx, &users.User{ID: "u-2", UserName: "al", PasswordHash: []byte("h"), CreatedAt: time.Now().UTC()})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestNewSQLiteRepositoryManager_BadDSN(t *testing.T) {
	_, err := NewSQLiteRepositoryManager(context.Background(), "file:"+filepath.Join(t.TempDir(), "missing", "dir", "x.db")+"?mode=ro")
	require.Error(t, err)
}
