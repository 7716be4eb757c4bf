// Package stubapi is an in-memory implementation of the LocalServices REST
// API for local development and end-to-end tests.
package stubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"localservices-frontend/internal/config"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/logging"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// APIPrefix is where the REST routes are mounted.
const APIPrefix = "/api/v1"

type Server struct {
	cfg    config.StubConfig
	log    *zerolog.Logger
	tokens *TokenManager
	data   *store
	server *http.Server
}

type Option func(*Server)

// WithBcryptCost lowers hashing cost, for tests.
func WithBcryptCost(cost int) Option { return func(s *Server) { s.data.cost = cost } }

func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokens.ttl = d }
}

func New(cfg config.StubConfig, logger *zerolog.Logger, opts ...Option) (*Server, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		cfg:    cfg,
		log:    logger,
		tokens: NewTokenManager(cfg.JWTSecret, 24*time.Hour),
		data:   newStore(bcrypt.DefaultCost),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.data.seed(); err != nil {
		return nil, fmt.Errorf("seed stub data: %w", err)
	}
	return s, nil
}

// Handler is the full router, REST routes under APIPrefix plus /health.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(TraceID(), RequestLog(s.log), Recover(s.log), Metrics())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Route(APIPrefix, s.routes)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { writeError(w, http.StatusNotFound, "Not found") })
	return r
}

func (s *Server) routes(r chi.Router) {
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/register-provider", s.handleRegisterProvider)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/request-otp", s.handleRequestOTP)
	r.Post("/auth/verify-otp", s.handleVerifyOTP)

	r.Get("/categories", s.handleCategories)
	r.Get("/categories/{slug}", s.handleCategory)
	r.Get("/providers", s.handleProviders)
	r.Get("/providers/search", s.handleProviders)
	r.Get("/providers/{id}", s.handleProvider)
	r.Get("/providers/{id}/reviews", s.handleProviderReviews)
	r.Get("/blog", s.handleBlogPosts)
	r.Get("/blog/{slug}", s.handleBlogPost)
	r.Post("/verifications", s.handleUploadVerification)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/me", s.handleMe)
		r.Post("/reviews", s.handleCreateReview)
		r.Post("/contact-records", s.handleCreateContact)
		r.Get("/contact-records/check", s.handleCheckContact)
	})
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth(model.RoleProvider))
		r.Post("/portfolios", s.handleUploadPortfolio)
		r.Delete("/portfolios/{id}", s.handleDeletePortfolio)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAuth(model.RoleAdmin))
		r.Get("/blog", s.handleAdminPosts)
		r.Post("/blog", s.handleAdminCreatePost)
		r.Put("/blog/{id}", s.handleAdminUpdatePost)
		r.Delete("/blog/{id}", s.handleAdminDeletePost)
		r.Get("/verifications", s.handleAdminVerifications)
		r.Put("/verifications/{id}", s.handleAdminUpdateVerification)
		r.Get("/users", s.handleAdminUsers)
		r.Get("/providers", s.handleAdminProviders)
		r.Get("/reviews", s.handleAdminReviews)
		r.Delete("/reviews/{id}", s.handleAdminDeleteReview)
		r.Get("/categories", s.handleAdminCategories)
		r.Post("/categories", s.handleAdminCreateCategory)
	})
}

// ListenAndServe serves on cfg.Port until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.server.Addr).Str("prefix", APIPrefix).Msg("stub api listening")
		errc <- s.server.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// ===== response helpers =====

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// validation collects field errors and keeps insertion order on the wire.
type validation struct {
	fields []string
	msgs   map[string][]string
}

func (v *validation) add(field, msg string) {
	if v.msgs == nil {
		v.msgs = make(map[string][]string)
	}
	if _, ok := v.msgs[field]; !ok {
		v.fields = append(v.fields, field)
	}
	v.msgs[field] = append(v.msgs[field], msg)
}

func (v *validation) failed() bool { return len(v.fields) > 0 }

func (v *validation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range v.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(f)
		m, err := json.Marshal(v.msgs[f])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(m)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeValidation(w http.ResponseWriter, v *validation) {
	writeJSON(w, http.StatusUnprocessableEntity, struct {
		Message string      `json:"message"`
		Errors  *validation `json:"errors"`
	}{"The given data was invalid.", v})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
