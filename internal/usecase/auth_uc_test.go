//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/usecase"
)

func TestLoginPage_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("should store the session and go home", func(t *testing.T) {
		env := newTestEnv()
		var sent api.LoginRequest
		be := &MockBackend{LoginFunc: func(in api.LoginRequest) (api.AuthResponse, error) {
			sent = in
			return api.AuthResponse{AccessToken: "T", User: &model.UserProfile{ID: 1, FullName: "John"}}, nil
		}}
		err := usecase.NewLoginPage(env.Env, be).Submit(ctx, usecase.LoginForm{Email: "john@example.com", Password: "password"})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if sent.UserType != model.RoleUser {
			t.Errorf("expected default user_type user, got %q", sent.UserType)
		}
		if tok, _ := env.session.Token(ctx); tok != "T" {
			t.Errorf("expected token T, got %q", tok)
		}
		if u, _ := env.session.User(ctx); u == nil || u.FullName != "John" {
			t.Errorf("unexpected user %+v", u)
		}
		if env.nav.Last() != usecase.RouteHome {
			t.Errorf("expected navigation home, got %q", env.nav.Last())
		}
	})

	t.Run("server error field or static fallback", func(t *testing.T) {
		cases := []struct {
			name string
			err  error
			want string
		}{
			{"error field", serverErr(http.StatusUnauthorized, "Invalid credentials"), "Invalid credentials"},
			{"no body", errNetwork, "Login failed"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				env := newTestEnv()
				be := &MockBackend{LoginFunc: func(api.LoginRequest) (api.AuthResponse, error) { return api.AuthResponse{}, tc.err }}
				err := usecase.NewLoginPage(env.Env, be).Submit(ctx, usecase.LoginForm{Email: "a@b.c"})
				if usecase.Message(err) != tc.want {
					t.Errorf("expected %q, got %q", tc.want, usecase.Message(err))
				}
				if _, ok := env.session.Token(ctx); ok {
					t.Error("session must stay empty on failure")
				}
				if len(env.nav.Routes) != 0 {
					t.Errorf("no navigation expected, got %v", env.nav.Routes)
				}
			})
		}
	})

	t.Run("reply without user is a failure", func(t *testing.T) {
		env := newTestEnv()
		be := &MockBackend{LoginFunc: func(api.LoginRequest) (api.AuthResponse, error) { return api.AuthResponse{AccessToken: "T"}, nil }}
		if err := usecase.NewLoginPage(env.Env, be).Submit(ctx, usecase.LoginForm{}); err == nil {
			t.Fatal("expected error")
		}
		if _, ok := env.session.Token(ctx); ok {
			t.Error("token must not be stored without a user")
		}
	})
}

func TestUserRegistration(t *testing.T) {
	ctx := context.Background()
	form := usecase.AccountForm{
		FullName: "Test User", Email: "t@example.com", PhoneNumber: "+2348000000001",
		Password: "password123", ConfirmPassword: "password123",
	}

	t.Run("mismatched passwords never hit the network", func(t *testing.T) {
		env := newTestEnv()
		be := &MockBackend{}
		reg := usecase.NewUserRegistration(env.Env, be)
		f := form
		f.ConfirmPassword = "other"
		err := reg.SubmitForm(ctx, f)
		if !errors.Is(err, domain.ErrPasswordMismatch) {
			t.Fatalf("expected ErrPasswordMismatch, got %v", err)
		}
		if be.CallCount() != 0 {
			t.Errorf("expected no calls, got %v", be.Calls)
		}
		if reg.Error() != "Passwords do not match" || reg.Step() != usecase.StepForm {
			t.Errorf("unexpected state step=%v err=%q", reg.Step(), reg.Error())
		}
	})

	t.Run("validation map is flattened in order", func(t *testing.T) {
		env := newTestEnv()
		be := &MockBackend{RegisterFunc: func(api.RegisterRequest) error {
			return validationErr(
				api.FieldError{Field: "email", Messages: []string{"The email has already been taken."}},
				api.FieldError{Field: "phone_number", Messages: []string{"The phone number has already been taken."}},
			)
		}}
		reg := usecase.NewUserRegistration(env.Env, be)
		err := reg.SubmitForm(ctx, form)
		want := "The email has already been taken., The phone number has already been taken."
		if usecase.Message(err) != want {
			t.Errorf("expected %q, got %q", want, usecase.Message(err))
		}
		if be.Called("RequestOTP") != 0 {
			t.Error("otp must not be requested after a failed register")
		}
	})

	t.Run("happy path establishes the session", func(t *testing.T) {
		env := newTestEnv()
		var otpReq api.OTPRequest
		var verifyReq api.VerifyOTPRequest
		be := &MockBackend{
			RequestOTPFunc: func(in api.OTPRequest) error { otpReq = in; return nil },
			VerifyOTPFunc: func(in api.VerifyOTPRequest) (api.AuthResponse, error) {
				verifyReq = in
				return api.AuthResponse{AccessToken: "U", User: &model.UserProfile{ID: 5}}, nil
			},
		}
		reg := usecase.NewUserRegistration(env.Env, be)
		if err := reg.SubmitForm(ctx, form); err != nil {
			t.Fatal(err)
		}
		if otpReq.UserType != model.RoleUser || otpReq.PhoneNumber != form.PhoneNumber {
			t.Errorf("unexpected otp request %+v", otpReq)
		}
		if err := reg.VerifyOTP(ctx, " 123456 "); err != nil {
			t.Fatal(err)
		}
		if verifyReq.OTP != "123456" || verifyReq.UserType != model.RoleUser {
			t.Errorf("unexpected verify request %+v", verifyReq)
		}
		if reg.Step() != usecase.StepDone || env.nav.Last() != usecase.RouteHome {
			t.Errorf("expected done and home, got %v %q", reg.Step(), env.nav.Last())
		}
		if tok, _ := env.session.Token(ctx); tok != "U" {
			t.Errorf("expected token U, got %q", tok)
		}
	})

	t.Run("steps are ordered", func(t *testing.T) {
		reg := usecase.NewUserRegistration(newTestEnv().Env, &MockBackend{})
		if err := reg.VerifyOTP(ctx, "1"); !errors.Is(err, domain.ErrStepOutOfOrder) {
			t.Fatalf("expected ErrStepOutOfOrder, got %v", err)
		}
	})
}
