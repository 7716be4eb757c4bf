package api

import (
	"encoding/json"

	"localservices-frontend/internal/domain/model"
)

type RegisterRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// RegisterProviderRequest sends latitude/longitude as null when geocoding
// produced nothing.
type RegisterProviderRequest struct {
	FullName        string   `json:"full_name"`
	Email           string   `json:"email"`
	PhoneNumber     string   `json:"phone_number"`
	Password        string   `json:"password"`
	CategoryID      int64    `json:"category_id"`
	ExperienceYears int      `json:"experience_years"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

type RegisterProviderResponse struct {
	Message  string             `json:"message,omitempty"`
	Provider model.Provider     `json:"provider"`
	User     *model.UserProfile `json:"user,omitempty"`
}

type LoginRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	UserType model.Role `json:"user_type"`
}

type OTPRequest struct {
	PhoneNumber string     `json:"phone_number"`
	UserType    model.Role `json:"user_type"`
}

type VerifyOTPRequest struct {
	PhoneNumber string     `json:"phone_number"`
	OTP         string     `json:"otp"`
	UserType    model.Role `json:"user_type"`
}

// AuthResponse is returned by login and OTP verification.
type AuthResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type,omitempty"`
	User        *model.UserProfile `json:"user"`
}

type ReviewRequest struct {
	ProviderID int64  `json:"provider_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type ContactRecordRequest struct {
	ProviderID int64 `json:"provider_id"`
}

type ContactCheck struct {
	HasContacted bool `json:"has_contacted"`
}

type VerificationUpdate struct {
	Status string `json:"status"`
}

type CategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon,omitempty"`
}

// Ack is the body of calls whose reply carries nothing the client reads.
type Ack = json.RawMessage
