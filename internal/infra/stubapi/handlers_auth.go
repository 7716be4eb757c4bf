package stubapi

import (
	"net/http"
	"strings"

	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/logging"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type accountRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type providerRequest struct {
	accountRequest
	CategoryID      int64    `json:"category_id"`
	ExperienceYears int      `json:"experience_years"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

type loginRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	UserType model.Role `json:"user_type"`
}

type otpRequest struct {
	PhoneNumber string     `json:"phone_number"`
	OTP         string     `json:"otp"`
	UserType    model.Role `json:"user_type"`
}

type authResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        *model.UserProfile `json:"user"`
}

func roleOrUser(r model.Role) model.Role {
	if r == "" {
		return model.RoleUser
	}
	return r
}

// validateAccount must be called with the store lock held.
func (s *Server) validateAccount(in accountRequest) *validation {
	v := &validation{}
	if strings.TrimSpace(in.FullName) == "" {
		v.add("full_name", "The full name field is required.")
	}
	switch {
	case strings.TrimSpace(in.Email) == "":
		v.add("email", "The email field is required.")
	case !strings.Contains(in.Email, "@"):
		v.add("email", "The email must be a valid email address.")
	case s.data.emailTaken(in.Email):
		v.add("email", "The email has already been taken.")
	}
	switch {
	case strings.TrimSpace(in.PhoneNumber) == "":
		v.add("phone_number", "The phone number field is required.")
	case s.data.phoneTaken(in.PhoneNumber):
		v.add("phone_number", "The phone number has already been taken.")
	}
	if len(in.Password) < minPasswordLen {
		v.add("password", "The password must be at least 6 characters.")
	}
	return v
}

func (s *Server) createAccount(in accountRequest, role model.Role) (*account, error) {
	hash, err := s.data.hash(in.Password)
	if err != nil {
		return nil, err
	}
	a := &account{
		profile: model.UserProfile{
			ID:          s.data.nextID(),
			FullName:    strings.TrimSpace(in.FullName),
			Email:       strings.TrimSpace(in.Email),
			Role:        role,
			PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		},
		hash: hash,
	}
	s.data.accounts[a.profile.ID] = a
	return a, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in accountRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if v := s.validateAccount(in); v.failed() {
		writeValidation(w, v)
		return
	}
	a, err := s.createAccount(in, model.RoleUser)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	logging.With(r.Context(), s.log).Info().Int64("user_id", a.profile.ID).Msg("user registered")
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful. Please verify your phone number.",
		"user":    a.profile,
	})
}

func (s *Server) handleRegisterProvider(w http.ResponseWriter, r *http.Request) {
	var in providerRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	v := s.validateAccount(in.accountRequest)
	cat := s.data.categoryByID(in.CategoryID)
	if cat == nil {
		v.add("category_id", "The selected category is invalid.")
	}
	if in.ExperienceYears < 0 {
		v.add("experience_years", "The experience years must be at least 0.")
	}
	if v.failed() {
		writeValidation(w, v)
		return
	}
	a, err := s.createAccount(in.accountRequest, model.RoleProvider)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	p := &model.Provider{
		ID:              a.profile.ID,
		FullName:        a.profile.FullName,
		Email:           a.profile.Email,
		PhoneNumber:     a.profile.PhoneNumber,
		Category:        cat,
		ExperienceYears: in.ExperienceYears,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
	}
	s.data.providers[p.ID] = p
	logging.With(r.Context(), s.log).Info().
		Int64("provider_id", p.ID).
		Bool("geocoded", p.Latitude != nil).
		Msg("provider registered")
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Provider registered. Please verify your phone number.",
		"provider": s.data.listing(p),
		"user":     a.profile,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	role := roleOrUser(in.UserType)
	s.data.mu.RLock()
	a := s.data.findAccount(role, func(p *model.UserProfile) bool { return strings.EqualFold(p.Email, in.Email) })
	s.data.mu.RUnlock()
	if a == nil || bcrypt.CompareHashAndPassword(a.hash, []byte(in.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	s.issue(w, a)
}

func (s *Server) issue(w http.ResponseWriter, a *account) {
	tok, err := s.tokens.Mint(a.profile.ID, a.profile.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	u := a.profile
	writeJSON(w, http.StatusOK, authResponse{AccessToken: tok, TokenType: "bearer", User: &u})
}

func (s *Server) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var in otpRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	role := roleOrUser(in.UserType)
	s.data.mu.RLock()
	a := s.data.findAccount(role, func(p *model.UserProfile) bool { return p.PhoneNumber == in.PhoneNumber })
	s.data.mu.RUnlock()
	if a == nil {
		writeError(w, http.StatusNotFound, "Phone number not found")
		return
	}
	logging.With(r.Context(), s.log).Info().
		Str("phone", logging.Redact(in.PhoneNumber, false)).
		Str("otp", s.cfg.OTPCode).
		Msg("otp issued")
	writeMessage(w, http.StatusOK, "OTP sent successfully")
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var in otpRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	role := roleOrUser(in.UserType)
	s.data.mu.Lock()
	a := s.data.findAccount(role, func(p *model.UserProfile) bool { return p.PhoneNumber == in.PhoneNumber })
	if a == nil || strings.TrimSpace(in.OTP) != s.cfg.OTPCode {
		s.data.mu.Unlock()
		writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}
	a.phoneVerified = true
	s.data.mu.Unlock()
	s.issue(w, a)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	s.tokens.Revoke(c)
	writeMessage(w, http.StatusOK, "Logged out")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())
	s.data.mu.RLock()
	a, ok := s.data.accounts[c.UserID()]
	s.data.mu.RUnlock()
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, a.profile)
}
