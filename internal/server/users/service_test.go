package users

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/lulu/internal/common"
	"github.com/dmitrijs2005/lulu/internal/logging"
	"github.com/dmitrijs2005/lulu/internal/server/auth"
	"github.com/dmitrijs2005/lulu/internal/server/config"
)

type memRepo struct {
	mu      sync.Mutex
	byName  map[string]*User
	touched map[string]time.Time

	createErr error
	getErr    error
	touchErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{byName: map[string]*User{}, touched: map[string]time.Time{}}
}

func (m *memRepo) Create(_ context.Context, u *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, ok := m.byName[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	cp := *u
	m.byName[u.UserName] = &cp
	return u, nil
}

func (m *memRepo) GetUserByLogin(_ context.Context, name string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) TouchLogin(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.touchErr != nil {
		return m.touchErr
	}
	m.touched[id] = at
	return nil
}

func newTestService(repo Repository) *Service {
	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour}
	s := NewService(repo, cfg, logging.Nop())
	s.hashCost = bcrypt.MinCost
	return s
}

func TestRegister_HashesPasswordAndAssignsID(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(repo)

	u, err := s.Register(context.Background(), "al", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "al", u.UserName)

	stored := repo.byName["al"]
	require.NotNil(t, stored)
	assert.NotEqual(t, []byte("pw"), stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte("pw")))
}

func TestRegister_Duplicate(t *testing.T) {
	s := newTestService(newMemRepo())

	_, err := s.Register(context.Background(), "al", "pw")
	require.NoError(t, err)
	_, err = s.Register(context.Background(), "al", "other")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_RepoFailureIsInternal(t *testing.T) {
	repo := newMemRepo()
	repo.createErr = errors.New("disk full")

	_, err := newTestService(repo).Register(context.Background(), "al", "pw")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	_, err := newTestService(newMemRepo()).Register(context.Background(), "al", strings.Repeat("x", 73))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestLogin_IssuesTokenAndTouches(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(repo)
	fixed := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	u, err := s.Register(context.Background(), "al", "pw")
	require.NoError(t, err)

	res, err := s.Login(context.Background(), "al", "pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, fixed, repo.touched[u.ID])

	claims, err := auth.ParseToken(res.AccessToken, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "al", claims.Username)

	id, err := s.Authorize(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
}

func TestLogin_Failures(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(repo)
	_, err := s.Register(context.Background(), "al", "pw")
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "al", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Login(context.Background(), "nobody", "pw")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	repo.getErr = errors.New("boom")
	_, err = s.Login(context.Background(), "al", "pw")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestLogin_TouchFailureDoesNotBlockSignIn(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(repo)
	_, err := s.Register(context.Background(), "al", "pw")
	require.NoError(t, err)

	repo.touchErr = errors.New("locked")
	res, err := s.Login(context.Background(), "al", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestAuthorize_RejectsGarbage(t *testing.T) {
	_, err := newTestService(newMemRepo()).Authorize("garbage")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
