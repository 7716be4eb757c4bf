//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"sync"

	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/infra/i18n"
	"localservices-frontend/internal/infra/session"
	"localservices-frontend/internal/infra/storage"
	"localservices-frontend/internal/usecase"

	"github.com/rs/zerolog"
)

// -----------------------------
// Utilities
// -----------------------------

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func newTestSession() *session.Store {
	return session.NewStore(storage.NewMemoryStore(), newTestLogger(), true)
}

type testEnv struct {
	usecase.Env
	session  *session.Store
	nav      *MockNavigator
	notifier *MockNotifier
	confirm  *MockConfirmer
}

func newTestEnv() *testEnv {
	e := &testEnv{
		session:  newTestSession(),
		nav:      &MockNavigator{},
		notifier: &MockNotifier{},
		confirm:  &MockConfirmer{Answer: true},
	}
	e.Env = usecase.Env{
		Session:   e.session,
		Nav:       e.nav,
		Notifier:  e.notifier,
		Confirmer: e.confirm,
		T:         i18n.Default(),
		Log:       newTestLogger(),
	}
	return e
}

func (e *testEnv) signIn(u *model.UserProfile) {
	if err := e.session.Establish(context.Background(), "T", u); err != nil {
		panic(err)
	}
}

func validationErr(fields ...api.FieldError) error {
	return &api.APIError{Endpoint: "test", Status: http.StatusUnprocessableEntity, Fields: fields}
}

func serverErr(status int, msg string) error {
	return &api.APIError{Endpoint: "test", Status: status, Message: msg}
}

var errNetwork = errors.New("connection refused")

// -----------------------------
// UI ports
// -----------------------------

type MockNavigator struct {
	mu     sync.Mutex
	Routes []string
	Err    error
}

func (m *MockNavigator) Push(_ context.Context, route string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Routes = append(m.Routes, route)
	return m.Err
}

func (m *MockNavigator) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Routes) == 0 {
		return ""
	}
	return m.Routes[len(m.Routes)-1]
}

type MockNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func (m *MockNotifier) Notify(_ context.Context, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
}

type MockConfirmer struct {
	Answer  bool
	Prompts []string
}

func (m *MockConfirmer) Confirm(_ context.Context, prompt string) bool {
	m.Prompts = append(m.Prompts, prompt)
	return m.Answer
}

type MockLocator struct {
	Pos model.Coordinates
	Err error
}

func (m *MockLocator) CurrentLocation(context.Context) (model.Coordinates, error) {
	return m.Pos, m.Err
}

type MockGeocoder struct {
	Pos   *model.Coordinates
	Calls []string
}

func (m *MockGeocoder) Geocode(_ context.Context, address string) (*model.Coordinates, error) {
	m.Calls = append(m.Calls, address)
	return m.Pos, nil
}

// -----------------------------
// Backend
// -----------------------------

// MockBackend implements the auth, catalog and admin surfaces. Each method
// runs its Func field when set and records the call name.
type MockBackend struct {
	mu    sync.Mutex
	Calls []string

	RegisterFunc           func(api.RegisterRequest) error
	RegisterProviderFunc   func(api.RegisterProviderRequest) (api.RegisterProviderResponse, error)
	LoginFunc              func(api.LoginRequest) (api.AuthResponse, error)
	RequestOTPFunc         func(api.OTPRequest) error
	VerifyOTPFunc          func(api.VerifyOTPRequest) (api.AuthResponse, error)
	LogoutFunc             func() error
	CategoriesFunc         func() ([]model.Category, error)
	CategoryFunc           func(string) (model.Category, error)
	ProvidersFunc          func(url.Values) (model.Page[model.Provider], error)
	ProviderFunc           func(int64) (model.Provider, error)
	ProviderReviewsFunc    func(int64, url.Values) (model.Page[model.Review], error)
	CreateReviewFunc       func(api.ReviewRequest) error
	CreateContactFunc      func(api.ContactRecordRequest) error
	CheckContactFunc       func(int64) (bool, error)
	UploadVerificationFunc func(*api.Form) error
	BlogPostsFunc          func() ([]model.BlogPost, error)
	BlogPostFunc           func(string) (model.BlogPost, error)
	UploadPortfolioFunc    func(*api.Form) (model.Portfolio, error)
	DeletePortfolioFunc    func(int64) error

	AdminBlogPostsFunc     func() ([]model.BlogPost, error)
	AdminCreatePostFunc    func(*api.Form) (model.BlogPost, error)
	AdminUpdatePostFunc    func(int64, *api.Form) (model.BlogPost, error)
	AdminDeletePostFunc    func(int64) error
	AdminVerificationsFunc func() ([]model.Verification, error)
	AdminUpdateVerifFunc   func(int64, api.VerificationUpdate) error
	AdminUsersFunc         func() ([]model.UserProfile, error)
	AdminProvidersFunc     func() ([]model.Provider, error)
	AdminReviewsFunc       func() ([]model.Review, error)
	AdminDeleteReviewFunc  func(int64) error
	AdminCategoriesFunc    func() ([]model.Category, error)
	AdminCreateCatFunc     func(api.CategoryRequest) (model.Category, error)
}

var (
	_ usecase.AuthBackend      = (*MockBackend)(nil)
	_ usecase.CatalogBackend   = (*MockBackend)(nil)
	_ usecase.PortfolioBackend = (*MockBackend)(nil)
	_ usecase.AdminBackend     = (*MockBackend)(nil)
)

func (m *MockBackend) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, name)
}

func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockBackend) Called(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func okResp[T any](v T) *api.Response[T] { return &api.Response[T]{Data: v, Status: http.StatusOK} }

func reply[T any](v T, err error) (*api.Response[T], error) {
	if err != nil {
		return nil, err
	}
	return okResp(v), nil
}

func ack(err error) (*api.Response[api.Ack], error) { return reply[api.Ack](nil, err) }

func (m *MockBackend) Register(_ context.Context, in api.RegisterRequest) (*api.Response[api.Ack], error) {
	m.record("Register")
	if m.RegisterFunc != nil {
		return ack(m.RegisterFunc(in))
	}
	return ack(nil)
}

func (m *MockBackend) RegisterProvider(_ context.Context, in api.RegisterProviderRequest) (*api.Response[api.RegisterProviderResponse], error) {
	m.record("RegisterProvider")
	if m.RegisterProviderFunc != nil {
		return reply(m.RegisterProviderFunc(in))
	}
	return reply(api.RegisterProviderResponse{Provider: model.Provider{ID: 1}}, nil)
}

func (m *MockBackend) Login(_ context.Context, in api.LoginRequest) (*api.Response[api.AuthResponse], error) {
	m.record("Login")
	if m.LoginFunc != nil {
		return reply(m.LoginFunc(in))
	}
	return reply(api.AuthResponse{}, errNetwork)
}

func (m *MockBackend) RequestOTP(_ context.Context, in api.OTPRequest) (*api.Response[api.Ack], error) {
	m.record("RequestOTP")
	if m.RequestOTPFunc != nil {
		return ack(m.RequestOTPFunc(in))
	}
	return ack(nil)
}

func (m *MockBackend) VerifyOTP(_ context.Context, in api.VerifyOTPRequest) (*api.Response[api.AuthResponse], error) {
	m.record("VerifyOTP")
	if m.VerifyOTPFunc != nil {
		return reply(m.VerifyOTPFunc(in))
	}
	return reply(api.AuthResponse{AccessToken: "T", User: &model.UserProfile{ID: 9, FullName: "New"}}, nil)
}

func (m *MockBackend) Logout(context.Context) (*api.Response[api.Ack], error) {
	m.record("Logout")
	if m.LogoutFunc != nil {
		return ack(m.LogoutFunc())
	}
	return ack(nil)
}

func (m *MockBackend) Categories(context.Context) (*api.Response[[]model.Category], error) {
	m.record("Categories")
	if m.CategoriesFunc != nil {
		return reply(m.CategoriesFunc())
	}
	return reply([]model.Category{{ID: 1, Name: "Plumber", Slug: "plumber"}}, nil)
}

func (m *MockBackend) Category(_ context.Context, slug string) (*api.Response[model.Category], error) {
	m.record("Category")
	if m.CategoryFunc != nil {
		return reply(m.CategoryFunc(slug))
	}
	return reply(model.Category{}, serverErr(http.StatusNotFound, "Category not found"))
}

func (m *MockBackend) Providers(_ context.Context, params url.Values) (*api.Response[model.Page[model.Provider]], error) {
	m.record("Providers")
	if m.ProvidersFunc != nil {
		return reply(m.ProvidersFunc(params))
	}
	return reply(model.Page[model.Provider]{}, nil)
}

func (m *MockBackend) Provider(_ context.Context, id int64) (*api.Response[model.Provider], error) {
	m.record("Provider")
	if m.ProviderFunc != nil {
		return reply(m.ProviderFunc(id))
	}
	return reply(model.Provider{ID: id, FullName: "Ann", PhoneNumber: "+2348012345678"}, nil)
}

func (m *MockBackend) ProviderReviews(_ context.Context, id int64, params url.Values) (*api.Response[model.Page[model.Review]], error) {
	m.record("ProviderReviews")
	if m.ProviderReviewsFunc != nil {
		return reply(m.ProviderReviewsFunc(id, params))
	}
	return reply(model.Page[model.Review]{}, nil)
}

func (m *MockBackend) CreateReview(_ context.Context, in api.ReviewRequest) (*api.Response[model.Review], error) {
	m.record("CreateReview")
	if m.CreateReviewFunc != nil {
		return reply(model.Review{}, m.CreateReviewFunc(in))
	}
	return reply(model.Review{ID: 1, Rating: in.Rating}, nil)
}

func (m *MockBackend) CreateContactRecord(_ context.Context, in api.ContactRecordRequest) (*api.Response[api.Ack], error) {
	m.record("CreateContactRecord")
	if m.CreateContactFunc != nil {
		return ack(m.CreateContactFunc(in))
	}
	return ack(nil)
}

func (m *MockBackend) CheckContactRecord(_ context.Context, id int64) (*api.Response[api.ContactCheck], error) {
	m.record("CheckContactRecord")
	if m.CheckContactFunc != nil {
		has, err := m.CheckContactFunc(id)
		return reply(api.ContactCheck{HasContacted: has}, err)
	}
	return reply(api.ContactCheck{}, nil)
}

func (m *MockBackend) UploadVerification(_ context.Context, form *api.Form) (*api.Response[model.Verification], error) {
	m.record("UploadVerification")
	if m.UploadVerificationFunc != nil {
		return reply(model.Verification{}, m.UploadVerificationFunc(form))
	}
	return reply(model.Verification{ID: 1, Status: model.VerificationPending}, nil)
}

func (m *MockBackend) BlogPosts(_ context.Context, _ url.Values) (*api.Response[model.Page[model.BlogPost]], error) {
	m.record("BlogPosts")
	if m.BlogPostsFunc != nil {
		posts, err := m.BlogPostsFunc()
		return reply(model.Page[model.BlogPost]{Data: posts, Total: len(posts)}, err)
	}
	return reply(model.Page[model.BlogPost]{}, nil)
}

func (m *MockBackend) BlogPost(_ context.Context, slug string) (*api.Response[model.BlogPost], error) {
	m.record("BlogPost")
	if m.BlogPostFunc != nil {
		return reply(m.BlogPostFunc(slug))
	}
	return reply(model.BlogPost{}, serverErr(http.StatusNotFound, "Not found"))
}

func (m *MockBackend) UploadPortfolio(_ context.Context, form *api.Form) (*api.Response[model.Portfolio], error) {
	m.record("UploadPortfolio")
	if m.UploadPortfolioFunc != nil {
		return reply(m.UploadPortfolioFunc(form))
	}
	return reply(model.Portfolio{ID: 1, ImageURL: "/uploads/portfolio/1.jpg"}, nil)
}

func (m *MockBackend) DeletePortfolio(_ context.Context, id int64) (*api.Response[api.Ack], error) {
	m.record("DeletePortfolio")
	if m.DeletePortfolioFunc != nil {
		return ack(m.DeletePortfolioFunc(id))
	}
	return ack(nil)
}

func (m *MockBackend) AdminBlogPosts(context.Context) (*api.Response[[]model.BlogPost], error) {
	m.record("AdminBlogPosts")
	if m.AdminBlogPostsFunc != nil {
		return reply(m.AdminBlogPostsFunc())
	}
	return reply([]model.BlogPost(nil), nil)
}

func (m *MockBackend) AdminCreateBlogPost(_ context.Context, form *api.Form) (*api.Response[model.BlogPost], error) {
	m.record("AdminCreateBlogPost")
	if m.AdminCreatePostFunc != nil {
		return reply(m.AdminCreatePostFunc(form))
	}
	slug, _ := form.Value("slug")
	return reply(model.BlogPost{ID: 1, Slug: slug}, nil)
}

func (m *MockBackend) AdminUpdateBlogPost(_ context.Context, id int64, form *api.Form) (*api.Response[model.BlogPost], error) {
	m.record("AdminUpdateBlogPost")
	if m.AdminUpdatePostFunc != nil {
		return reply(m.AdminUpdatePostFunc(id, form))
	}
	slug, _ := form.Value("slug")
	return reply(model.BlogPost{ID: id, Slug: slug}, nil)
}

func (m *MockBackend) AdminDeleteBlogPost(_ context.Context, id int64) (*api.Response[api.Ack], error) {
	m.record("AdminDeleteBlogPost")
	if m.AdminDeletePostFunc != nil {
		return ack(m.AdminDeletePostFunc(id))
	}
	return ack(nil)
}

func (m *MockBackend) AdminVerifications(context.Context) (*api.Response[[]model.Verification], error) {
	m.record("AdminVerifications")
	if m.AdminVerificationsFunc != nil {
		return reply(m.AdminVerificationsFunc())
	}
	return reply([]model.Verification(nil), nil)
}

func (m *MockBackend) AdminUpdateVerification(_ context.Context, id int64, in api.VerificationUpdate) (*api.Response[model.Verification], error) {
	m.record("AdminUpdateVerification")
	if m.AdminUpdateVerifFunc != nil {
		return reply(model.Verification{}, m.AdminUpdateVerifFunc(id, in))
	}
	return reply(model.Verification{ID: id, Status: in.Status}, nil)
}

func (m *MockBackend) AdminUsers(context.Context, url.Values) (*api.Response[[]model.UserProfile], error) {
	m.record("AdminUsers")
	if m.AdminUsersFunc != nil {
		return reply(m.AdminUsersFunc())
	}
	return reply([]model.UserProfile(nil), nil)
}

func (m *MockBackend) AdminProviders(context.Context, url.Values) (*api.Response[[]model.Provider], error) {
	m.record("AdminProviders")
	if m.AdminProvidersFunc != nil {
		return reply(m.AdminProvidersFunc())
	}
	return reply([]model.Provider(nil), nil)
}

func (m *MockBackend) AdminReviews(context.Context, url.Values) (*api.Response[[]model.Review], error) {
	m.record("AdminReviews")
	if m.AdminReviewsFunc != nil {
		return reply(m.AdminReviewsFunc())
	}
	return reply([]model.Review(nil), nil)
}

func (m *MockBackend) AdminDeleteReview(_ context.Context, id int64) (*api.Response[api.Ack], error) {
	m.record("AdminDeleteReview")
	if m.AdminDeleteReviewFunc != nil {
		return ack(m.AdminDeleteReviewFunc(id))
	}
	return ack(nil)
}

func (m *MockBackend) AdminCategories(context.Context) (*api.Response[[]model.Category], error) {
	m.record("AdminCategories")
	if m.AdminCategoriesFunc != nil {
		return reply(m.AdminCategoriesFunc())
	}
	return reply([]model.Category(nil), nil)
}

func (m *MockBackend) AdminCreateCategory(_ context.Context, in api.CategoryRequest) (*api.Response[model.Category], error) {
	m.record("AdminCreateCategory")
	if m.AdminCreateCatFunc != nil {
		return reply(m.AdminCreateCatFunc(in))
	}
	return reply(model.Category{ID: 1, Name: in.Name, Slug: in.Slug}, nil)
}
