package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/daralachab/reservation-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	AdminKeyHeader = "x-admin-key"
	tokenIssuer    = "reservation-api"
	tokenSubject   = "admin"
)

var (
	ErrUnauthorized     = errors.New("invalid or missing admin API key")
	ErrSessionsDisabled = errors.New("admin sessions need ADMIN_API_KEY or JWT_SECRET")
)

// Gate guards the admin endpoints with a shared secret. Without a configured
// secret every request passes, and each pass is logged as a warning.
type Gate struct {
	adminKey string
	secret   []byte
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewGate(cfg *config.Config, log *zap.Logger) *Gate {
	ttl := cfg.AdminTokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Gate{
		adminKey: cfg.AdminAPIKey,
		secret:   []byte(cfg.TokenSecret()),
		ttl:      ttl,
		log:      log.Named("auth"),
		now:      time.Now,
	}
}

// Authorize accepts the exact admin key or a bearer token issued by
// IssueToken. authorization is the raw Authorization header.
func (g *Gate) Authorize(key, authorization string) error {
	if g.adminKey == "" {
		g.log.Warn("ADMIN_API_KEY not set, admin endpoint is unprotected")
		return nil
	}
	if key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(g.adminKey)) == 1 {
		return nil
	}
	if token, ok := bearerToken(authorization); ok {
		if err := g.verify(token); err == nil {
			return nil
		}
	}
	return ErrUnauthorized
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// IssueToken exchanges a valid admin key for a signed session token.
func (g *Gate) IssueToken(key string) (string, time.Time, error) {
	if len(g.secret) == 0 {
		return "", time.Time{}, ErrSessionsDisabled
	}
	if err := g.Authorize(key, ""); err != nil {
		return "", time.Time{}, err
	}

	now := g.now()
	expires := now.Add(g.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

func (g *Gate) verify(tokenString string) error {
	if len(g.secret) == 0 {
		return ErrSessionsDisabled
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(tokenSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrUnauthorized
	}
	return nil
}

type SessionInput struct {
	AdminKey string `header:"x-admin-key" doc:"Shared admin secret"`
}

type SessionOutput struct {
	Body struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
}

// HandleSession trades the admin key for a bearer token so the admin UI does
// not have to keep the raw secret around.
func (g *Gate) HandleSession(ctx context.Context, input *SessionInput) (*SessionOutput, error) {
	token, expires, err := g.IssueToken(input.AdminKey)
	switch {
	case errors.Is(err, ErrSessionsDisabled):
		return nil, huma.Error400BadRequest("Admin sessions are disabled: set ADMIN_API_KEY or JWT_SECRET")
	case errors.Is(err, ErrUnauthorized):
		return nil, huma.Error401Unauthorized("Invalid or missing admin API key")
	case err != nil:
		g.log.Error("failed to issue admin token", zap.Error(err))
		return nil, huma.Error500InternalServerError("Failed to issue token")
	}

	resp := &SessionOutput{}
	resp.Body.Token = token
	resp.Body.ExpiresAt = expires.UTC()
	return resp, nil
}
