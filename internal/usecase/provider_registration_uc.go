package usecase

import (
	"context"
	"io"
	"strconv"
	"strings"

	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/domain/ports/adapter"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/infra/logging"
)

type ProviderForm struct {
	AccountForm
	CategoryID      int64
	ExperienceYears int
	// Address is geocoded best-effort; no match registers without coordinates.
	Address string
}

// Document is the verification file uploaded in the last step.
type Document struct {
	Name    string
	Content io.Reader
}

// ProviderRegistration walks form → OTP → document upload → done.
// A failed step keeps the flow where it is: step and provider id are only
// ever advanced by a successful reply.
type ProviderRegistration struct {
	env      Env
	auth     AuthBackend
	catalog  CatalogBackend
	geocoder adapter.Geocoder

	step       RegistrationStep
	phone      string
	providerID int64
	categories []model.Category
	err        string
}

func NewProviderRegistration(env Env, auth AuthBackend, catalog CatalogBackend, geocoder adapter.Geocoder) *ProviderRegistration {
	return &ProviderRegistration{
		env:      env.withDefaults(),
		auth:     auth,
		catalog:  catalog,
		geocoder: geocoder,
		step:     StepForm,
	}
}

// Enter loads the category picker. Failure leaves it empty.
func (r *ProviderRegistration) Enter(ctx context.Context) []model.Category {
	resp, err := r.catalog.Categories(ctx)
	if err != nil {
		r.env.logger(ctx).Warn().Err(err).Msg("load categories for provider form failed")
		return nil
	}
	r.categories = resp.Data
	return r.categories
}

func (r *ProviderRegistration) Categories() []model.Category { return r.categories }

func (r *ProviderRegistration) Step() RegistrationStep { return r.step }

func (r *ProviderRegistration) ProviderID() int64 { return r.providerID }

func (r *ProviderRegistration) Error() string { return r.err }

// SubmitForm checks the passwords locally, geocodes the address, creates the
// provider and asks for an OTP.
func (r *ProviderRegistration) SubmitForm(ctx context.Context, f ProviderForm) error {
	defer logging.TraceDuration(r.env.Log, "ProviderRegistration.SubmitForm")()
	if r.step != StepForm {
		return domain.ErrStepOutOfOrder
	}
	r.err = ""
	if f.Password != f.ConfirmPassword {
		return r.fail(r.env.T.T("error_passwords_mismatch"), domain.ErrPasswordMismatch)
	}

	req := api.RegisterProviderRequest{
		FullName:        f.FullName,
		Email:           f.Email,
		PhoneNumber:     f.PhoneNumber,
		Password:        f.Password,
		CategoryID:      f.CategoryID,
		ExperienceYears: f.ExperienceYears,
	}
	if addr := strings.TrimSpace(f.Address); addr != "" && r.geocoder != nil {
		pos, err := r.geocoder.Geocode(ctx, addr)
		if err != nil {
			r.env.logger(ctx).Warn().Err(err).Msg("geocode provider address failed")
		}
		if pos != nil {
			req.Latitude, req.Longitude = &pos.Lat, &pos.Lng
		}
	}

	resp, err := r.auth.RegisterProvider(ctx, req)
	if err != nil {
		return r.fail(validationOr(err, r.env.T.T("error_registration_failed")), err)
	}
	// Keep the id even if the OTP request below fails.
	r.providerID = resp.Data.Provider.ID
	r.phone = f.PhoneNumber

	if _, err := r.auth.RequestOTP(ctx, api.OTPRequest{PhoneNumber: f.PhoneNumber, UserType: model.RoleProvider}); err != nil {
		return r.fail(validationOr(err, r.env.T.T("error_registration_failed")), err)
	}
	r.env.logger(ctx).Info().
		Int64("provider_id", r.providerID).
		Str("phone", logging.Redact(f.PhoneNumber, false)).
		Msg("provider registered, otp requested")
	r.step = StepOTP
	return nil
}

// VerifyOTP confirms the phone and opens the session.
func (r *ProviderRegistration) VerifyOTP(ctx context.Context, otp string) error {
	defer logging.TraceDuration(r.env.Log, "ProviderRegistration.VerifyOTP")()
	if r.step != StepOTP {
		return domain.ErrStepOutOfOrder
	}
	r.err = ""
	resp, err := r.auth.VerifyOTP(ctx, api.VerifyOTPRequest{PhoneNumber: r.phone, OTP: strings.TrimSpace(otp), UserType: model.RoleProvider})
	if err != nil {
		return r.fail(serverErrorOr(err, r.env.T.T("error_otp_failed")), err)
	}
	if err := establish(ctx, r.env, resp.Data); err != nil {
		return r.fail(r.env.T.T("error_otp_failed"), err)
	}
	r.step = StepDocument
	return nil
}

// UploadDocument sends the verification document and finishes the flow.
func (r *ProviderRegistration) UploadDocument(ctx context.Context, doc *Document) error {
	defer logging.TraceDuration(r.env.Log, "ProviderRegistration.UploadDocument")()
	if r.step != StepDocument {
		return domain.ErrStepOutOfOrder
	}
	r.err = ""
	if doc == nil || doc.Content == nil {
		return r.fail(r.env.T.T("error_missing_document"), domain.ErrMissingDocument)
	}
	form := (&api.Form{}).
		Add("provider_id", strconv.FormatInt(r.providerID, 10)).
		AddFile("document", doc.Name, doc.Content)
	if _, err := r.catalog.UploadVerification(ctx, form); err != nil {
		return r.fail(serverErrorOr(err, r.env.T.T("error_upload_failed")), err)
	}
	r.step = StepDone
	r.env.Notifier.Notify(ctx, r.env.T.T("upload_success"))
	return r.env.push(ctx, RouteHome)
}

func (r *ProviderRegistration) fail(msg string, cause error) error {
	r.err = msg
	return formError(msg, cause)
}
