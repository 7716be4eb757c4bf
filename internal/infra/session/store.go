package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/domain/ports/repository"
	"localservices-frontend/internal/infra/logging"
	"localservices-frontend/internal/infra/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Storage keys, shared with the web frontend's localStorage layout.
const (
	TokenKey = "access_token"
	UserKey  = "user"
)

// Store is the client-held session: a bearer token plus the cached profile.
// It has no expiry or refresh logic; a token stays until Clear or a server 401.
type Store struct {
	kv  repository.KeyValueStore
	log *zerolog.Logger
	dev bool
}

func NewStore(kv repository.KeyValueStore, logger *zerolog.Logger, dev bool) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Store{kv: kv, log: logger, dev: dev}
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	return s.kv.Set(ctx, TokenKey, token)
}

// Token returns the stored bearer token. Backend read errors are logged and
// reported as absent so a broken store degrades to an anonymous request.
func (s *Store) Token(ctx context.Context) (string, bool) {
	v, ok, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("session: token read failed")
		metrics.IncSessionRead(TokenKey, "error")
		return "", false
	}
	if !ok || v == "" {
		metrics.IncSessionRead(TokenKey, "miss")
		return "", false
	}
	metrics.IncSessionRead(TokenKey, "hit")
	return v, true
}

func (s *Store) ClearToken(ctx context.Context) error {
	return s.kv.Delete(ctx, TokenKey)
}

func (s *Store) SetUser(ctx context.Context, u *model.UserProfile) error {
	if u == nil {
		return errors.New("nil user")
	}
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.kv.Set(ctx, UserKey, string(b))
}

// User returns the cached profile. A value that does not decode reads as absent.
func (s *Store) User(ctx context.Context) (*model.UserProfile, bool) {
	v, ok, err := s.kv.Get(ctx, UserKey)
	if err != nil {
		s.log.Warn().Err(err).Msg("session: user read failed")
		metrics.IncSessionRead(UserKey, "error")
		return nil, false
	}
	if !ok || v == "" {
		metrics.IncSessionRead(UserKey, "miss")
		return nil, false
	}
	var u model.UserProfile
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		s.log.Warn().Err(err).Msg("session: stored user is not valid json")
		metrics.IncSessionRead(UserKey, "corrupt")
		return nil, false
	}
	metrics.IncSessionRead(UserKey, "hit")
	return &u, true
}

func (s *Store) ClearUser(ctx context.Context) error {
	return s.kv.Delete(ctx, UserKey)
}

// Establish stores token and user together. If the user write fails the token
// is rolled back so neither is left without the other.
func (s *Store) Establish(ctx context.Context, token string, u *model.UserProfile) error {
	if err := s.SetToken(ctx, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := s.SetUser(ctx, u); err != nil {
		_ = s.ClearToken(ctx)
		return fmt.Errorf("store user: %w", err)
	}
	s.log.Debug().Str("token", logging.Redact(token, s.dev)).Int64("user_id", u.ID).Msg("session established")
	return nil
}

// Clear removes token and user; both deletes are attempted.
func (s *Store) Clear(ctx context.Context) error {
	return errors.Join(s.ClearToken(ctx), s.ClearUser(ctx))
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// It is informational only; opaque tokens report ok=false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
