package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/lulu/internal/common"
	"github.com/dmitrijs2005/lulu/internal/logging"
	"github.com/dmitrijs2005/lulu/internal/server/auth"
	"github.com/dmitrijs2005/lulu/internal/server/config"
)

var ErrPasswordTooLong = errors.New("password is too long")

// LoginResult is what a successful sign-in hands back to the caller.
type LoginResult struct {
	User        *User
	AccessToken string
}

type Service struct {
	repo                        Repository
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	hashCost                    int
	now                         func() time.Time
}

func NewService(repo Repository, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		repo:                        repo,
		logger:                      logger.With("module", "users"),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		hashCost:                    bcrypt.DefaultCost,
		now:                         time.Now,
	}
}

func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("%w: hashing password: %v", common.ErrorInternal, err)
	}

	user := &User{
		ID:           uuid.NewString(),
		UserName:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: creating user: %v", common.ErrorInternal, err)
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	accessToken, err := auth.GenerateToken(user.ID, user.UserName, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repo.TouchLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn(ctx, "recording last login failed", "user_id", user.ID, "error", err)
	}

	return &LoginResult{User: user, AccessToken: accessToken}, nil
}

// Authorize returns the user id carried by a valid access token.
func (s *Service) Authorize(accessToken string) (string, error) {
	return auth.GetUserIDFromToken(accessToken, s.jwtSecret)
}
