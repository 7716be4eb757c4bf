// File: internal/usecase/ports.go
package usecase

import (
	"context"
	"net/url"

	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/domain/ports/adapter"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/infra/i18n"
	"localservices-frontend/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Session is the client-held login state every page controller reads.
type Session interface {
	Token(ctx context.Context) (string, bool)
	User(ctx context.Context) (*model.UserProfile, bool)
	Establish(ctx context.Context, token string, u *model.UserProfile) error
	Clear(ctx context.Context) error
}

// AuthBackend is the slice of the REST API used by login, registration and logout.
type AuthBackend interface {
	Register(ctx context.Context, in api.RegisterRequest) (*api.Response[api.Ack], error)
	RegisterProvider(ctx context.Context, in api.RegisterProviderRequest) (*api.Response[api.RegisterProviderResponse], error)
	Login(ctx context.Context, in api.LoginRequest) (*api.Response[api.AuthResponse], error)
	RequestOTP(ctx context.Context, in api.OTPRequest) (*api.Response[api.Ack], error)
	VerifyOTP(ctx context.Context, in api.VerifyOTPRequest) (*api.Response[api.AuthResponse], error)
	Logout(ctx context.Context) (*api.Response[api.Ack], error)
}

// CatalogBackend is the public browsing surface.
type CatalogBackend interface {
	Categories(ctx context.Context) (*api.Response[[]model.Category], error)
	Category(ctx context.Context, slug string) (*api.Response[model.Category], error)
	Providers(ctx context.Context, params url.Values) (*api.Response[model.Page[model.Provider]], error)
	Provider(ctx context.Context, id int64) (*api.Response[model.Provider], error)
	ProviderReviews(ctx context.Context, providerID int64, params url.Values) (*api.Response[model.Page[model.Review]], error)
	CreateReview(ctx context.Context, in api.ReviewRequest) (*api.Response[model.Review], error)
	CreateContactRecord(ctx context.Context, in api.ContactRecordRequest) (*api.Response[api.Ack], error)
	CheckContactRecord(ctx context.Context, providerID int64) (*api.Response[api.ContactCheck], error)
	UploadVerification(ctx context.Context, form *api.Form) (*api.Response[model.Verification], error)
	BlogPosts(ctx context.Context, params url.Values) (*api.Response[model.Page[model.BlogPost]], error)
	BlogPost(ctx context.Context, slug string) (*api.Response[model.BlogPost], error)
}

// PortfolioBackend is what a signed-in provider uses to manage their gallery.
type PortfolioBackend interface {
	UploadPortfolio(ctx context.Context, form *api.Form) (*api.Response[model.Portfolio], error)
	DeletePortfolio(ctx context.Context, id int64) (*api.Response[api.Ack], error)
}

// AdminBackend is the /admin surface.
type AdminBackend interface {
	AdminBlogPosts(ctx context.Context) (*api.Response[[]model.BlogPost], error)
	AdminCreateBlogPost(ctx context.Context, form *api.Form) (*api.Response[model.BlogPost], error)
	AdminUpdateBlogPost(ctx context.Context, id int64, form *api.Form) (*api.Response[model.BlogPost], error)
	AdminDeleteBlogPost(ctx context.Context, id int64) (*api.Response[api.Ack], error)
	AdminVerifications(ctx context.Context) (*api.Response[[]model.Verification], error)
	AdminUpdateVerification(ctx context.Context, id int64, in api.VerificationUpdate) (*api.Response[model.Verification], error)
	AdminUsers(ctx context.Context, params url.Values) (*api.Response[[]model.UserProfile], error)
	AdminProviders(ctx context.Context, params url.Values) (*api.Response[[]model.Provider], error)
	AdminReviews(ctx context.Context, params url.Values) (*api.Response[[]model.Review], error)
	AdminDeleteReview(ctx context.Context, id int64) (*api.Response[api.Ack], error)
	AdminCategories(ctx context.Context) (*api.Response[[]model.Category], error)
	AdminCreateCategory(ctx context.Context, in api.CategoryRequest) (*api.Response[model.Category], error)
}

var (
	_ AuthBackend      = (*api.Client)(nil)
	_ CatalogBackend   = (*api.Client)(nil)
	_ PortfolioBackend = (*api.Client)(nil)
	_ AdminBackend     = (*api.Client)(nil)
)

// Env bundles the collaborators shared by all page controllers.
type Env struct {
	Session   Session
	Nav       adapter.Navigator
	Notifier  adapter.Notifier
	Confirmer adapter.Confirmer
	T         *i18n.Translator
	Log       *zerolog.Logger
}

func (e Env) withDefaults() Env {
	if e.Log == nil {
		e.Log = logging.Nop()
	}
	if e.T == nil {
		e.T = i18n.Default()
	}
	if e.Notifier == nil {
		e.Notifier = discardNotifier{}
	}
	if e.Confirmer == nil {
		e.Confirmer = denyConfirmer{}
	}
	return e
}

func (e Env) logger(ctx context.Context) *zerolog.Logger { return logging.With(ctx, e.Log) }

func (e Env) authenticated(ctx context.Context) bool {
	if e.Session == nil {
		return false
	}
	_, ok := e.Session.Token(ctx)
	return ok
}

func (e Env) push(ctx context.Context, route string) error {
	if e.Nav == nil {
		return nil
	}
	return e.Nav.Push(ctx, route)
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, string) {}

// denyConfirmer declines everything so a missing prompt never deletes data.
type denyConfirmer struct{}

func (denyConfirmer) Confirm(context.Context, string) bool { return false }

// Routes pushed by controllers.
const (
	RouteHome     = "/"
	RouteLogin    = "/auth/login"
	RouteBlog     = "/blog"
	RouteAdmin    = "/admin"
	routeProvider = "/providers/"
	routeBlogPost = "/blog/"
)
