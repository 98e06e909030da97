package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/daralachab/reservation-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGate_Authorize(t *testing.T) {
	t.Run("NoKeyConfigured", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		gate := NewGate(&config.Config{}, zap.New(core))

		for range 2 {
			if err := gate.Authorize("", ""); err != nil {
				t.Fatalf("expected pass without a configured key, got %v", err)
			}
		}
		if n := logs.Len(); n != 2 {
			t.Errorf("expected a warning per request, got %d", n)
		}
	})

	gate := NewGate(&config.Config{AdminAPIKey: "s3cret"}, zap.NewNop())

	tests := []struct {
		name string
		key  string
		ok   bool
	}{
		{"Exact", "s3cret", true},
		{"Missing", "", false},
		{"Wrong", "nope", false},
		{"CaseSensitive", "S3CRET", false},
		{"Prefix", "s3cre", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Authorize(tt.key, "")
			if tt.ok && err != nil {
				t.Errorf("expected pass, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestGate_Tokens(t *testing.T) {
	cfg := &config.Config{AdminAPIKey: "s3cret", JWTSecret: "signing", AdminTokenTTL: time.Hour}
	gate := NewGate(cfg, zap.NewNop())

	t.Run("RoundTrip", func(t *testing.T) {
		token, expires, err := gate.IssueToken("s3cret")
		if err != nil {
			t.Fatalf("IssueToken: %v", err)
		}
		if time.Until(expires) > time.Hour || time.Until(expires) < 59*time.Minute {
			t.Errorf("unexpected expiry %v", expires)
		}
		if err := gate.Authorize("", "Bearer "+token); err != nil {
			t.Errorf("expected the token to be accepted, got %v", err)
		}
		if err := gate.Authorize("", "bearer "+token); err != nil {
			t.Errorf("expected the scheme to be case-insensitive, got %v", err)
		}
	})

	t.Run("WrongKey", func(t *testing.T) {
		if _, _, err := gate.IssueToken("nope"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		token, _, err := gate.IssueToken("s3cret")
		if err != nil {
			t.Fatalf("IssueToken: %v", err)
		}
		later := NewGate(cfg, zap.NewNop())
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		if err := later.Authorize("", "Bearer "+token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected an expired token to be rejected, got %v", err)
		}
	})

	t.Run("ForeignSignature", func(t *testing.T) {
		other := NewGate(&config.Config{AdminAPIKey: "s3cret", JWTSecret: "other"}, zap.NewNop())
		token, _, err := other.IssueToken("s3cret")
		if err != nil {
			t.Fatalf("IssueToken: %v", err)
		}
		if err := gate.Authorize("", "Bearer "+token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected a foreign token to be rejected, got %v", err)
		}
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   tokenSubject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("signing"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if err := gate.Authorize("", "Bearer "+token); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("expected HS512 to be rejected, got %v", err)
		}
	})

	t.Run("SecretFallsBackToAdminKey", func(t *testing.T) {
		g := NewGate(&config.Config{AdminAPIKey: "s3cret"}, zap.NewNop())
		token, _, err := g.IssueToken("s3cret")
		if err != nil {
			t.Fatalf("IssueToken: %v", err)
		}
		if err := g.Authorize("", "Bearer "+token); err != nil {
			t.Errorf("expected the token to be accepted, got %v", err)
		}
	})

	t.Run("SessionsDisabled", func(t *testing.T) {
		g := NewGate(&config.Config{}, zap.NewNop())
		if _, _, err := g.IssueToken(""); !errors.Is(err, ErrSessionsDisabled) {
			t.Errorf("expected ErrSessionsDisabled, got %v", err)
		}
	})
}

func TestHandleSession(t *testing.T) {
	gate := NewGate(&config.Config{AdminAPIKey: "s3cret"}, zap.NewNop())

	t.Run("Authenticated", func(t *testing.T) {
		resp, err := gate.HandleSession(context.Background(), &SessionInput{AdminKey: "s3cret"})
		if err != nil {
			t.Fatalf("HandleSession returned error: %v", err)
		}
		if resp.Body.Token == "" {
			t.Error("expected a token")
		}
		if err := gate.Check(AdminInput{Authorization: "Bearer " + resp.Body.Token}); err != nil {
			t.Errorf("expected the issued token to pass Check, got %v", err)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		if _, err := gate.HandleSession(context.Background(), &SessionInput{}); err == nil {
			t.Fatal("expected error for a missing key, got nil")
		}
	})
}
