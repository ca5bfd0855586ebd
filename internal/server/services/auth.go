// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, and issuing/refreshing JWTs
// plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/common"
	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/config"
	"github.com/dmitrijs2005/coursehub/internal/server/models"
	"github.com/dmitrijs2005/coursehub/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	FullName string
	UserName string
	Password string
	Gender   models.Gender
}

// AuthService provides authentication-related operations:
// - Register: create users with a bcrypt password hash
// - Login: verify credentials and mint an access/refresh pair
// - Refresh: mint a new access token from a stored refresh token
// - Logout: revoke a refresh token by soft deletion
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	codec                        *auth.Codec
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	bcryptCost                   int
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		codec:                        codec,
		accessTokenValidityDuration:  cfg.JWT.AccessTokenExpiration,
		refreshTokenValidityDuration: cfg.JWT.RefreshTokenExpiration,
		bcryptCost:                   bcrypt.DefaultCost,
	}
}

// Register creates a USER account with zero balance. The username pre-check
// only short-circuits the common case; the unique constraint decides races,
// and both paths report DuplicateUsername.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !in.Gender.Valid() {
		return nil, common.NewError(common.KindGenderEnum, in.Gender)
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByUsername(ctx, in.UserName)
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}
	if exists {
		return nil, common.NewError(common.KindDuplicateUsername, in.UserName)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}

	user := &models.User{
		FullName: in.FullName,
		UserName: in.UserName,
		Password: string(hash),
		Gender:   in.Gender,
		Role:     string(auth.RoleUser),
	}

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewError(common.KindDuplicateUsername, in.UserName)
		}
		return nil, common.Wrap(common.KindInternal, err)
	}

	return user, nil
}

// Login verifies credentials of a live user and returns a new TokenPair. The
// refresh token is persisted before it is handed out.
func (s *AuthService) Login(ctx context.Context, userName, password string) (*TokenPair, error) {
	user, err := s.repomanager.Users(s.db).FindByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.Wrap(common.KindInternal, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}

	access, err := s.issue(user, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(user, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	if err := s.repomanager.RefreshTokens(s.db).Create(ctx, user.ID, refresh); err != nil {
		return nil, common.Wrap(common.KindInternal, err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh returns a new access token for a stored refresh token, or "" with
// a nil error when the token is unknown, revoked, tampered with, expired, or
// owned by someone other than its subject. A subject that no longer names a
// live user fails with UserNotFound.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	stored, err := s.repomanager.RefreshTokens(s.db).FindActive(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return "", common.Wrap(common.KindInternal, err)
	}

	claims, err := s.codec.Decode(refreshToken)
	if err != nil {
		return "", nil
	}

	user, err := s.repomanager.Users(s.db).FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrUserNotFound
		}
		return "", common.Wrap(common.KindInternal, err)
	}

	if s.codec.IsExpired(claims) || stored.OwnerUserName != claims.Subject {
		return "", nil
	}

	access, err := s.issue(user, s.accessTokenValidityDuration)
	if err != nil {
		return "", err
	}
	return access, nil
}

// Logout revokes refreshToken if it belongs to the principal.
func (s *AuthService) Logout(ctx context.Context, p *auth.Principal, refreshToken string) error {
	if p == nil || p.UserID == nil {
		return common.ErrForbidden
	}

	err := s.repomanager.RefreshTokens(s.db).Trash(ctx, refreshToken, *p.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidRefreshToken
		}
		return common.Wrap(common.KindInternal, err)
	}
	return nil
}

// Me returns the live user behind the principal.
func (s *AuthService) Me(ctx context.Context, p *auth.Principal) (*models.User, error) {
	if p == nil {
		return nil, common.ErrForbidden
	}

	user, err := s.repomanager.Users(s.db).FindByUsername(ctx, p.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.Wrap(common.KindInternal, err)
	}
	return user, nil
}

// issue signs a token for user. A stored role outside the known set fails
// with UserRoleNotExist instead of being minted into a token.
func (s *AuthService) issue(user *models.User, ttl time.Duration) (string, error) {
	role, err := auth.ParseRole(user.Role)
	if err != nil {
		return "", err
	}

	id := user.ID
	tok, err := s.codec.Issue(user.UserName, role, &id, ttl)
	if err != nil {
		return "", common.Wrap(common.KindInternal, err)
	}
	return tok, nil
}
