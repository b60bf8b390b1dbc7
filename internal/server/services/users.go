// Package services holds the server-side business logic between the HTTP
// handlers and the repositories.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkarklins/jobfolio/internal/common"
	"github.com/dkarklins/jobfolio/internal/dbx"
	"github.com/dkarklins/jobfolio/internal/logging"
	"github.com/dkarklins/jobfolio/internal/server/auth"
	"github.com/dkarklins/jobfolio/internal/server/config"
	"github.com/dkarklins/jobfolio/internal/server/models"
	"github.com/dkarklins/jobfolio/internal/server/repositories/repomanager"
)

// TokenPair is what a successful authentication hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *models.User
}

type UserService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger

	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	resetTokenValidityDuration   time.Duration
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		rm:                           rm,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		resetTokenValidityDuration:   cfg.ResetTokenValidityDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (s *UserService) Register(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", common.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user, err := s.rm.Users(s.db).Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, common.ErrInternal
	}

	return s.issueTokens(ctx, s.db, user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.rm.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrUnauthorized
	}

	return s.issueTokens(ctx, s.db, user)
}

func (s *UserService) issueTokens(ctx context.Context, db dbx.DBTX, user *models.User) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrInternal
	}

	if err := s.rm.RefreshTokens(db).Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrInternal
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.accessTokenValidityDuration),
		User:         user,
	}, nil
}

// Refresh rotates a refresh token: the presented token is deleted and a
// whole new pair is issued, atomically. An unknown or expired token is
// unauthorized.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	rt, err := s.rm.RefreshTokens(s.db).Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if time.Now().After(rt.ExpiresAt) {
		_ = s.rm.RefreshTokens(s.db).Delete(ctx, refreshToken)
		return nil, fmt.Errorf("%w: %s", common.ErrUnauthorized, common.ErrRefreshTokenExpired)
	}

	user, err := s.rm.Users(s.db).GetByID(ctx, rt.UserID)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return err
		}
		p, err := s.issueTokens(ctx, tx, user)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, common.ErrInternal
	}
	return pair, nil
}

// Logout revokes the presented refresh token. Revoking an unknown token
// succeeds: the caller ends up signed out either way.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.rm.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return common.ErrInternal
	}
	return nil
}

// VerifyAccessToken resolves an access token to the subject's user id.
func (s *UserService) VerifyAccessToken(tokenString string) (string, error) {
	return auth.GetUserIDFromToken(tokenString, s.jwtSecret)
}

// RequestPasswordReset records a single-use reset token for the account.
// Mail dispatch is logged, not sent. The reply never discloses whether
// the address exists.
func (s *UserService) RequestPasswordReset(ctx context.Context, email, redirectTarget string) error {
	user, err := s.rm.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return common.ErrInternal
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return common.ErrInternal
	}

	if err := s.rm.ResetTokens(s.db).Create(ctx, user.ID, token, s.resetTokenValidityDuration); err != nil {
		return common.ErrInternal
	}

	s.logger.Info(ctx, "password reset requested",
		"user_id", user.ID, "redirect_target", redirectTarget, "token", token)
	return nil
}

// ResetPassword redeems a reset token. Each token works exactly once; the
// hash update, the token burn and the session revocation land together.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: empty password", common.ErrValidation)
	}

	rt, err := s.rm.ResetTokens(s.db).Get(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return common.ErrInternal
	}
	if rt.Used || time.Now().After(rt.ExpiresAt) {
		return common.ErrUnauthorized
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.Users(tx).UpdatePasswordHash(ctx, rt.UserID, hash); err != nil {
			return err
		}
		if err := s.rm.ResetTokens(tx).MarkUsed(ctx, token); err != nil {
			return err
		}
		// Existing sessions do not survive a reset.
		return s.rm.RefreshTokens(tx).DeleteByUser(ctx, rt.UserID)
	})
	if err != nil {
		return common.ErrInternal
	}
	return nil
}

// UpdatePassword sets a new password for an authenticated user.
func (s *UserService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: empty password", common.ErrValidation)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrInternal
	}

	if err := s.rm.Users(s.db).UpdatePasswordHash(ctx, userID, hash); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return common.ErrInternal
	}
	return nil
}

// GetUser looks a user up by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.rm.Users(s.db).GetByID(ctx, userID)
}
