package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/infra/logging"
)

type LoginForm struct {
	Email    string
	Password string
	UserType model.Role // defaults to user
}

// LoginPage signs in and sends the visitor home.
type LoginPage struct {
	env  Env
	auth AuthBackend
}

func NewLoginPage(env Env, auth AuthBackend) *LoginPage {
	return &LoginPage{env: env.withDefaults(), auth: auth}
}

func (p *LoginPage) Submit(ctx context.Context, f LoginForm) error {
	defer logging.TraceDuration(p.env.Log, "LoginPage.Submit")()
	if f.UserType == "" {
		f.UserType = model.RoleUser
	}
	if !f.UserType.Valid() {
		return formError(p.env.T.T("error_login_failed"), fmt.Errorf("user type %q: %w", f.UserType, domain.ErrInvalidArgument))
	}
	resp, err := p.auth.Login(ctx, api.LoginRequest{Email: strings.TrimSpace(f.Email), Password: f.Password, UserType: f.UserType})
	if err != nil {
		p.env.logger(ctx).Info().Err(err).Msg("login rejected")
		return formError(serverErrorOr(err, p.env.T.T("error_login_failed")), err)
	}
	if err := establish(ctx, p.env, resp.Data); err != nil {
		return formError(p.env.T.T("error_login_failed"), err)
	}
	return p.env.push(ctx, RouteHome)
}

// establish stores the token and profile from an auth reply.
func establish(ctx context.Context, env Env, out api.AuthResponse) error {
	if out.AccessToken == "" || out.User == nil {
		return errors.New("auth response without token or user")
	}
	if err := env.Session.Establish(ctx, out.AccessToken, out.User); err != nil {
		env.logger(ctx).Error().Err(err).Msg("persist session failed")
		return err
	}
	env.logger(logging.WithUserID(ctx, out.User.ID)).Info().Msg("signed in")
	return nil
}

// RegistrationStep is the position in a sign-up flow.
type RegistrationStep int

const (
	StepForm RegistrationStep = iota + 1
	StepOTP
	StepDocument
	StepDone
)

func (s RegistrationStep) String() string {
	switch s {
	case StepForm:
		return "form"
	case StepOTP:
		return "otp"
	case StepDocument:
		return "document"
	case StepDone:
		return "done"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

type AccountForm struct {
	FullName        string
	Email           string
	PhoneNumber     string
	Password        string
	ConfirmPassword string
}

// UserRegistration is the customer sign-up: form, then OTP, then home.
type UserRegistration struct {
	env  Env
	auth AuthBackend

	step  RegistrationStep
	phone string
	err   string
}

func NewUserRegistration(env Env, auth AuthBackend) *UserRegistration {
	return &UserRegistration{env: env.withDefaults(), auth: auth, step: StepForm}
}

func (r *UserRegistration) Step() RegistrationStep { return r.step }

// Error is the message shown with the current step, if any.
func (r *UserRegistration) Error() string { return r.err }

func (r *UserRegistration) Phone() string { return r.phone }

func (r *UserRegistration) SubmitForm(ctx context.Context, f AccountForm) error {
	defer logging.TraceDuration(r.env.Log, "UserRegistration.SubmitForm")()
	if r.step != StepForm {
		return domain.ErrStepOutOfOrder
	}
	r.err = ""
	if f.Password != f.ConfirmPassword {
		return r.fail(r.env.T.T("error_passwords_mismatch"), domain.ErrPasswordMismatch)
	}
	_, err := r.auth.Register(ctx, api.RegisterRequest{
		FullName:    f.FullName,
		Email:       f.Email,
		PhoneNumber: f.PhoneNumber,
		Password:    f.Password,
	})
	if err == nil {
		_, err = r.auth.RequestOTP(ctx, api.OTPRequest{PhoneNumber: f.PhoneNumber, UserType: model.RoleUser})
	}
	if err != nil {
		return r.fail(validationOr(err, r.env.T.T("error_registration_failed")), err)
	}
	r.phone = f.PhoneNumber
	r.step = StepOTP
	return nil
}

func (r *UserRegistration) VerifyOTP(ctx context.Context, otp string) error {
	defer logging.TraceDuration(r.env.Log, "UserRegistration.VerifyOTP")()
	if r.step != StepOTP {
		return domain.ErrStepOutOfOrder
	}
	r.err = ""
	resp, err := r.auth.VerifyOTP(ctx, api.VerifyOTPRequest{PhoneNumber: r.phone, OTP: strings.TrimSpace(otp), UserType: model.RoleUser})
	if err != nil {
		return r.fail(serverErrorOr(err, r.env.T.T("error_otp_failed")), err)
	}
	if err := establish(ctx, r.env, resp.Data); err != nil {
		return r.fail(r.env.T.T("error_otp_failed"), err)
	}
	r.step = StepDone
	return r.env.push(ctx, RouteHome)
}

func (r *UserRegistration) fail(msg string, cause error) error {
	r.err = msg
	return formError(msg, cause)
}
