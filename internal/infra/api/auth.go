package api

import (
	"context"
	"net/http"

	"localservices-frontend/internal/domain/model"
)

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*Response[Ack], error) {
	return do[Ack](ctx, c, jsonRequest("auth.register", http.MethodPost, "/auth/register", in))
}

func (c *Client) RegisterProvider(ctx context.Context, in RegisterProviderRequest) (*Response[RegisterProviderResponse], error) {
	return do[RegisterProviderResponse](ctx, c, jsonRequest("auth.register_provider", http.MethodPost, "/auth/register-provider", in))
}

func (c *Client) Login(ctx context.Context, in LoginRequest) (*Response[AuthResponse], error) {
	return do[AuthResponse](ctx, c, jsonRequest("auth.login", http.MethodPost, "/auth/login", in))
}

func (c *Client) RequestOTP(ctx context.Context, in OTPRequest) (*Response[Ack], error) {
	return do[Ack](ctx, c, jsonRequest("auth.request_otp", http.MethodPost, "/auth/request-otp", in))
}

func (c *Client) VerifyOTP(ctx context.Context, in VerifyOTPRequest) (*Response[AuthResponse], error) {
	return do[AuthResponse](ctx, c, jsonRequest("auth.verify_otp", http.MethodPost, "/auth/verify-otp", in))
}

func (c *Client) Logout(ctx context.Context) (*Response[Ack], error) {
	return do[Ack](ctx, c, jsonRequest("auth.logout", http.MethodPost, "/auth/logout", nil))
}

func (c *Client) Me(ctx context.Context) (*Response[model.UserProfile], error) {
	return do[model.UserProfile](ctx, c, jsonRequest("auth.me", http.MethodGet, "/auth/me", nil))
}
