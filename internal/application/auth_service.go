package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/dwiprasetyo/user-management-api/internal/domain/entity"
	"github.com/dwiprasetyo/user-management-api/internal/domain/repository"
	"github.com/dwiprasetyo/user-management-api/pkg/helpers"
)

// ErrInvalidCredentials covers every login and refresh failure. A missing
// account, a wrong password, and a bad or stale token all map to this single
// error so the API never reveals which check failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService orchestrates register, login, and token refresh.
type AuthService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Logger: logger}
}

// AuthResult is returned by Login: the user plus a fresh token pair.
type AuthResult struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
}

// Register hashes the password and persists a new user. It does not issue
// tokens. A duplicate email yields repository.ErrDuplicateEmail whether it is
// caught by the pre-check or by the unique constraint on a racing insert.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error) {
	if _, err := s.Repo.FindByEmail(ctx, email); err == nil {
		return nil, repository.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:     email,
		Password:  hash,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := s.Repo.Insert(ctx, u); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("user registered")
	}
	return u, nil
}

// Login validates credentials and issues an access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.JWT.GeneratePair(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("token generation failed")
		}
		return nil, err
	}

	return &AuthResult{
		User:         u,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(s.JWT.AccessTTL.Seconds()),
	}, nil
}

// RefreshResult is returned by Refresh. The refresh token itself is not
// rotated; it remains valid until its own expiry.
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64
}

// Refresh verifies a raw refresh token, re-resolves the subject in the store,
// and mints a new access token. Signature, expiry, type, and subject failures
// are indistinguishable to the caller.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Repo.FindByID(ctx, claims.Subject)
	if err != nil {
		// a since-deleted account looks the same as a bad token externally
		return nil, ErrInvalidCredentials
	}

	access, _, err := s.JWT.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{
		AccessToken: access,
		ExpiresIn:   int64(s.JWT.AccessTTL.Seconds()),
	}, nil
}
