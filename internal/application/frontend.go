package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/ports/adapter"
	"localservices-frontend/internal/infra/i18n"
	"localservices-frontend/internal/infra/logging"
	"localservices-frontend/internal/infra/session"
	"localservices-frontend/internal/search"
	"localservices-frontend/internal/usecase"
)

// Frontend composes the page controllers into high-level commands.
// Methods return rendered text so a shell adapter just prints them.
type Frontend struct {
	Env usecase.Env

	Layout   *usecase.Layout
	Home     *usecase.HomePage
	Search   *usecase.SearchPage
	Provider *usecase.ProviderPage
	Login    *usecase.LoginPage
	Blog     *usecase.BlogIndex
	Post     *usecase.BlogPostPage
	Admin    *usecase.AdminConsole
	Gallery  *usecase.Portfolio

	backend  Backend
	geocoder adapter.Geocoder

	signup         *usecase.UserRegistration
	providerSignup *usecase.ProviderRegistration
}

// NewFrontend builds every controller over one backend. locator and geocoder
// may be nil.
func NewFrontend(env usecase.Env, backend Backend, locator adapter.Locator, geocoder adapter.Geocoder) *Frontend {
	if env.T == nil {
		env.T = i18n.Default()
	}
	if env.Log == nil {
		env.Log = logging.Nop()
	}
	return &Frontend{
		Env:      env,
		Layout:   usecase.NewLayout(env, backend),
		Home:     usecase.NewHomePage(env, backend, locator),
		Search:   usecase.NewSearchPage(env, backend, locator),
		Provider: usecase.NewProviderPage(env, backend),
		Login:    usecase.NewLoginPage(env, backend),
		Blog:     usecase.NewBlogIndex(env, backend),
		Post:     usecase.NewBlogPostPage(env, backend),
		Admin:    usecase.NewAdminConsole(env, backend),
		Gallery:  usecase.NewPortfolio(env, backend),
		backend:  backend,
		geocoder: geocoder,
	}
}

func (f *Frontend) t(key string, args ...interface{}) string { return f.Env.T.T(key, args...) }

// Open renders the page behind route, the way a browser would on navigation.
func (f *Frontend) Open(ctx context.Context, route string) (string, error) {
	path, query := search.SplitRoute(route)
	path = strings.TrimRight(path, "/")
	if path == "" {
		path = usecase.RouteHome
	}

	switch {
	case path == usecase.RouteHome:
		return f.HandleHome(ctx), nil
	case path == search.Path:
		return f.HandleSearch(ctx, query), nil
	case strings.HasPrefix(path, "/providers/"):
		id, err := strconv.ParseInt(strings.TrimPrefix(path, "/providers/"), 10, 64)
		if err != nil {
			return "", fmt.Errorf("route %q: %w", route, domain.ErrNotFound)
		}
		return f.HandleProvider(ctx, id), nil
	case path == usecase.RouteBlog:
		return f.HandleBlog(ctx, nil), nil
	case strings.HasPrefix(path, "/blog/"):
		slug, err := url.PathUnescape(strings.TrimPrefix(path, "/blog/"))
		if err != nil {
			return "", fmt.Errorf("route %q: %w", route, domain.ErrNotFound)
		}
		return f.HandlePost(ctx, slug), nil
	case path == usecase.RouteLogin:
		return f.t("login_prompt"), nil
	case path == "/auth/register":
		return f.t("register_prompt"), nil
	case path == "/provider/register":
		return f.StartProviderRegistration(ctx), nil
	case path == usecase.RouteAdmin:
		return f.HandleAdminMenu(ctx)
	case strings.HasPrefix(path, usecase.RouteAdmin+"/"):
		return f.HandleAdminSection(ctx, strings.TrimPrefix(path, usecase.RouteAdmin+"/"))
	}
	return "", fmt.Errorf("route %q: %w", route, domain.ErrNotFound)
}

func (f *Frontend) HandleHome(ctx context.Context) string {
	return renderHome(f.Env.T, f.Home.Load(ctx))
}

// HandleSearch runs the search encoded in query, e.g. "category=plumber&q=Lagos".
func (f *Frontend) HandleSearch(ctx context.Context, query string) string {
	s := f.Search.Load(ctx, query)
	return renderSearch(f.Search, s)
}

func (f *Frontend) HandleProvider(ctx context.Context, id int64) string {
	return renderProvider(f.Env.T, f.Provider.Load(ctx, id), f.Layout.CurrentUser(ctx) != nil)
}

// HandleContact records a call or whatsapp contact on the open provider and
// returns the link to open.
func (f *Frontend) HandleContact(ctx context.Context, kind usecase.ContactKind) (string, error) {
	link, err := f.Provider.Contact(ctx, kind)
	if err != nil {
		return "", err
	}
	return f.t("contact_link", link), nil
}

// HandleProviderReviews pages through every review of the open provider.
func (f *Frontend) HandleProviderReviews(ctx context.Context, page int) (string, error) {
	s, err := f.Provider.Reviews(ctx, page)
	if err != nil {
		return "", err
	}
	return renderReviewPage(f.Env.T, s, page), nil
}

func (f *Frontend) HandleReview(ctx context.Context, rating int, comment string) (string, error) {
	if err := f.Provider.SubmitReview(ctx, rating, comment); err != nil {
		return "", err
	}
	return renderProvider(f.Env.T, f.Provider.State(), true), nil
}

// HandleLogin signs in; navigation home is done by the controller.
func (f *Frontend) HandleLogin(ctx context.Context, form usecase.LoginForm) error {
	return f.Login.Submit(ctx, form)
}

func (f *Frontend) HandleLogout(ctx context.Context) error { return f.Layout.Logout(ctx) }

// HandleWhoAmI greets the signed-in user. A JWT session also shows when it
// expires; opaque tokens show nothing extra.
func (f *Frontend) HandleWhoAmI(ctx context.Context) string {
	g := f.Layout.Greeting(ctx)
	if g == "" {
		return f.t("signed_out")
	}
	out := fmt.Sprintf("%s (%s)", g, f.Layout.CurrentUser(ctx).Role)
	if f.Env.Session == nil {
		return out
	}
	if tok, ok := f.Env.Session.Token(ctx); ok {
		if exp, ok := session.TokenExpiry(tok); ok {
			out += " · " + f.t("session_expires", exp.UTC().Format(expiryLayout))
		}
	}
	return out
}

const expiryLayout = "2006-01-02T15:04Z"

// SubmitRegistration starts a customer sign-up. A second call restarts it.
func (f *Frontend) SubmitRegistration(ctx context.Context, form usecase.AccountForm) (string, error) {
	f.signup = usecase.NewUserRegistration(f.Env, f.backend)
	if err := f.signup.SubmitForm(ctx, form); err != nil {
		return "", err
	}
	return f.t("otp_sent", f.signup.Phone()), nil
}

func (f *Frontend) VerifyRegistration(ctx context.Context, otp string) error {
	if f.signup == nil {
		return fmt.Errorf("verify otp: %w", domain.ErrStepOutOfOrder)
	}
	if err := f.signup.VerifyOTP(ctx, otp); err != nil {
		return err
	}
	f.signup = nil
	return nil
}

// StartProviderRegistration opens a fresh provider sign-up and lists the
// categories to choose from.
func (f *Frontend) StartProviderRegistration(ctx context.Context) string {
	f.providerSignup = usecase.NewProviderRegistration(f.Env, f.backend, f.backend, f.geocoder)
	return renderCategoryChoice(f.Env.T, f.providerSignup.Enter(ctx))
}

// ProviderRegistration is the sign-up in progress, nil when none is.
func (f *Frontend) ProviderRegistration() *usecase.ProviderRegistration { return f.providerSignup }

func (f *Frontend) SubmitProviderRegistration(ctx context.Context, form usecase.ProviderForm) (string, error) {
	if f.providerSignup == nil {
		f.providerSignup = usecase.NewProviderRegistration(f.Env, f.backend, f.backend, f.geocoder)
	}
	if err := f.providerSignup.SubmitForm(ctx, form); err != nil {
		return "", err
	}
	return f.t("otp_sent", form.PhoneNumber), nil
}

func (f *Frontend) VerifyProviderRegistration(ctx context.Context, otp string) (string, error) {
	if f.providerSignup == nil {
		return "", fmt.Errorf("verify otp: %w", domain.ErrStepOutOfOrder)
	}
	if err := f.providerSignup.VerifyOTP(ctx, otp); err != nil {
		return "", err
	}
	return f.t("document_prompt"), nil
}

func (f *Frontend) UploadProviderDocument(ctx context.Context, doc *usecase.Document) error {
	if f.providerSignup == nil {
		return fmt.Errorf("upload document: %w", domain.ErrStepOutOfOrder)
	}
	if err := f.providerSignup.UploadDocument(ctx, doc); err != nil {
		return err
	}
	f.providerSignup = nil
	return nil
}

// AddPortfolioImage uploads img to the signed-in provider's gallery.
func (f *Frontend) AddPortfolioImage(ctx context.Context, img *usecase.Document) error {
	_, err := f.Gallery.Add(ctx, img)
	return err
}

func (f *Frontend) RemovePortfolioImage(ctx context.Context, id int64) error {
	return f.Gallery.Remove(ctx, id)
}

func (f *Frontend) HandleBlog(ctx context.Context, params url.Values) string {
	return renderBlogIndex(f.Env.T, f.Blog.Load(ctx, params))
}

func (f *Frontend) HandlePost(ctx context.Context, slug string) string {
	return renderPost(f.Post.Load(ctx, slug))
}

func (f *Frontend) HandleAdminMenu(ctx context.Context) (string, error) {
	items, err := f.Admin.Menu(ctx)
	if err != nil {
		return "", err
	}
	return renderMenu(f.Env.T, items), nil
}

// HandleAdminSection renders one of the admin tables by its route suffix.
func (f *Frontend) HandleAdminSection(ctx context.Context, section string) (string, error) {
	var (
		out string
		err error
	)
	switch section {
	case "verifications":
		s, e := f.Admin.Verifications(ctx)
		out, err = renderVerifications(s), e
	case "providers":
		s, e := f.Admin.Providers(ctx)
		out, err = renderAdminProviders(s), e
	case "users":
		s, e := f.Admin.Users(ctx)
		out, err = renderUsers(s), e
	case "reviews":
		s, e := f.Admin.Reviews(ctx)
		out, err = renderReviews(s), e
	case "blog":
		s, e := f.Admin.BlogPosts(ctx)
		out, err = renderAdminPosts(s), e
	case "categories":
		s, e := f.Admin.Categories(ctx)
		out, err = renderCategories(s), e
	default:
		return "", fmt.Errorf("admin section %q: %w", section, domain.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return out, nil
}

// ErrorText is what a shell shows for a failed command.
func (f *Frontend) ErrorText(err error) string {
	var fe *usecase.FormError
	if errors.As(err, &fe) {
		return fe.Message
	}
	switch {
	case errors.Is(err, domain.ErrCancelled):
		return f.t("cancelled")
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrForbidden):
		return f.t("login_required")
	case errors.Is(err, domain.ErrNotFound):
		return f.t("error_not_found")
	case errors.Is(err, domain.ErrStepOutOfOrder):
		return f.t("error_step_out_of_order")
	}
	return f.t("error_generic")
}
