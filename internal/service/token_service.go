package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pranaysuyash/advay-learning/internal/config"
	"github.com/pranaysuyash/advay-learning/internal/domain"
	"github.com/pranaysuyash/advay-learning/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
)

// TokenService mints access tokens and owns the refresh-token lineage.
//
// Access tokens are stateless JWTs and cannot be revoked individually;
// revoking access means revoking the session's refresh token and waiting out
// the short access window.
type TokenService struct {
	tokens repository.RefreshTokenRepository
	users  repository.UserRepository
	cfg    *config.Config
}

func NewTokenService(tokens repository.RefreshTokenRepository, users repository.UserRepository, cfg *config.Config) *TokenService {
	return &TokenService{
		tokens: tokens,
		users:  users,
		cfg:    cfg,
	}
}

type TokenPair struct {
	AccessToken  string
	RefreshToken *domain.RefreshToken
}

// IssuePair issues a fresh access token plus a persisted refresh token.
func (s *TokenService) IssuePair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := s.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh, err := s.issueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"exp":  now.Add(s.cfg.AccessTokenExpiry).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// VerifyAccessToken validates the signature and expiry and returns the
// account id carried in the sub claim.
func (s *TokenService) VerifyAccessToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrTokenInvalid
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrTokenInvalid
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}

func (s *TokenService) issueRefreshToken(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error) {
	opaque, err := newSecureToken()
	if err != nil {
		return nil, err
	}

	rt := &domain.RefreshToken{
		ID:        uuid.New(),
		Token:     opaque,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenExpiry),
		IsActive:  true,
		IsRevoked: false,
		CreatedAt: time.Now(),
	}

	if err := s.tokens.Create(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

// Rotate exchanges a usable refresh token for a new pair and revokes the old
// token. Rotation is one-shot: a token that has already been rotated fails
// with ErrTokenRevoked, and presenting one is treated as reuse — the whole
// session lineage for that account is invalidated.
func (s *TokenService) Rotate(ctx context.Context, oldToken string) (*TokenPair, *domain.User, error) {
	rt, err := s.tokens.GetByToken(ctx, oldToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTokenInvalid
		}
		return nil, nil, err
	}

	now := time.Now()

	if rt.IsRevoked || !rt.IsActive {
		s.revokeLineage(ctx, rt.UserID)
		return nil, nil, ErrTokenRevoked
	}
	if !now.Before(rt.ExpiresAt) {
		return nil, nil, ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, rt.UserID)
	if err != nil || !user.IsActive {
		return nil, nil, ErrTokenInvalid
	}

	affected, err := s.tokens.Revoke(ctx, rt.ID, now)
	if err != nil {
		return nil, nil, err
	}
	if affected == 0 {
		// A concurrent request rotated this token first; same reuse handling.
		s.revokeLineage(ctx, rt.UserID)
		return nil, nil, ErrTokenRevoked
	}

	pair, err := s.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Revoke marks a single refresh token revoked, e.g. on logout. Unknown or
// already-revoked tokens are a no-op.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	rt, err := s.tokens.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	_, err = s.tokens.Revoke(ctx, rt.ID, time.Now())
	return err
}

// RevokeAllForUser invalidates every active refresh token for the account.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.tokens.RevokeAllByUserID(ctx, userID, time.Now())
}

func (s *TokenService) revokeLineage(ctx context.Context, userID uuid.UUID) {
	if n, err := s.tokens.RevokeAllByUserID(ctx, userID, time.Now()); err != nil {
		log.Printf("ERROR [token.Rotate] failed to revoke lineage for user %s: %v", userID, err)
	} else if n > 0 {
		log.Printf("WARN [token.Rotate] refresh token reuse detected, revoked %d tokens for user %s", n, userID)
	}
}

// newSecureToken returns a 256-bit URL-safe random string.
func newSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
