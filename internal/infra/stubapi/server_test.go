//go:build !integration

package stubapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"localservices-frontend/internal/config"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/infra/session"
	"localservices-frontend/internal/infra/storage"
	"localservices-frontend/internal/infra/stubapi"
	"localservices-frontend/internal/usecase"
	"localservices-frontend/internal/view"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testOTP = "123456"

type recordingNav struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNav) Push(_ context.Context, route string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
	return nil
}

func (n *recordingNav) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

type yes struct{}

func (yes) Confirm(context.Context, string) bool { return true }

type harness struct {
	client  *api.Client
	session *session.Store
	nav     *recordingNav
	env     usecase.Env
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	l := zerolog.Nop()
	srv, err := stubapi.New(config.StubConfig{JWTSecret: "test-secret", OTPCode: testOTP}, &l, stubapi.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	sess := session.NewStore(storage.NewMemoryStore(), &l, true)
	client, err := api.NewClient(hs.URL+stubapi.APIPrefix, sess)
	require.NoError(t, err)
	nav := &recordingNav{}
	return &harness{
		client:  client,
		session: sess,
		nav:     nav,
		env:     usecase.Env{Session: sess, Nav: nav, Confirmer: yes{}, Log: &l},
	}
}

func (h *harness) login(t *testing.T, email string, role model.Role) {
	t.Helper()
	err := usecase.NewLoginPage(h.env, h.client).Submit(context.Background(), usecase.LoginForm{Email: email, Password: stubapi.SeedPassword, UserType: role})
	require.NoError(t, err)
}

func TestLogin_EstablishesSessionAndGoesHome(t *testing.T) {
	h := newHarness(t)
	h.login(t, "john@example.com", model.RoleUser)

	tok, ok := h.session.Token(context.Background())
	require.True(t, ok)
	assert.NotEmpty(t, tok)
	u, ok := h.session.User(context.Background())
	require.True(t, ok)
	assert.Equal(t, "John", u.FullName)
	assert.Equal(t, usecase.RouteHome, h.nav.last())

	me, err := h.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.Data.ID)
}

func TestLogin_WrongPasswordShowsServerError(t *testing.T) {
	h := newHarness(t)
	err := usecase.NewLoginPage(h.env, h.client).Submit(context.Background(), usecase.LoginForm{Email: "john@example.com", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", usecase.Message(err))
	_, ok := h.session.Token(context.Background())
	assert.False(t, ok)
}

func TestRegister_ValidationIsFlattenedInFieldOrder(t *testing.T) {
	h := newHarness(t)
	reg := usecase.NewUserRegistration(h.env, h.client)
	err := reg.SubmitForm(context.Background(), usecase.AccountForm{
		FullName: "Jane", Email: "john@example.com", PhoneNumber: "+2348099999999",
		Password: "abc", ConfirmPassword: "abc",
	})
	require.Error(t, err)
	assert.Equal(t, "The email has already been taken., The password must be at least 6 characters.", usecase.Message(err))
	assert.Equal(t, usecase.StepForm, reg.Step())
}

func TestRegister_UserFlowEndsSignedIn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	reg := usecase.NewUserRegistration(h.env, h.client)
	require.NoError(t, reg.SubmitForm(ctx, usecase.AccountForm{
		FullName: "Jane Doe", Email: "jane@example.com", PhoneNumber: "+2348099999999",
		Password: "secret1", ConfirmPassword: "secret1",
	}))
	require.Equal(t, usecase.StepOTP, reg.Step())
	require.NoError(t, reg.VerifyOTP(ctx, testOTP))
	u, ok := h.session.User(ctx)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", u.Email)
}

func TestProviderRegistration_FullFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	reg := usecase.NewProviderRegistration(h.env, h.client, h.client, nil)
	cats := reg.Enter(ctx)
	require.Len(t, cats, 7)

	require.NoError(t, reg.SubmitForm(ctx, usecase.ProviderForm{
		AccountForm: usecase.AccountForm{
			FullName: "Tunde Fixes", Email: "tunde@example.com", PhoneNumber: "+2348077777777",
			Password: "secret1", ConfirmPassword: "secret1",
		},
		CategoryID:      cats[0].ID,
		ExperienceYears: 4,
	}))
	id := reg.ProviderID()
	require.NotZero(t, id)

	err := reg.VerifyOTP(ctx, "000000")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired OTP", usecase.Message(err))
	assert.Equal(t, usecase.StepOTP, reg.Step())
	assert.Equal(t, id, reg.ProviderID())

	require.NoError(t, reg.VerifyOTP(ctx, testOTP))
	require.Equal(t, usecase.StepDocument, reg.Step())
	require.NoError(t, reg.UploadDocument(ctx, &usecase.Document{Name: "id.pdf", Content: strings.NewReader("%PDF-1.4")}))
	assert.Equal(t, usecase.StepDone, reg.Step())
	assert.Equal(t, usecase.RouteHome, h.nav.last())

	// the new request shows up for the admin
	require.NoError(t, h.session.Clear(ctx))
	h.login(t, "admin@example.com", model.RoleAdmin)
	s, err := usecase.NewAdminConsole(h.env, h.client).Verifications(ctx)
	require.NoError(t, err)
	pending, ok := s.Data()
	require.True(t, ok)
	var found bool
	for _, v := range pending {
		if v.Provider != nil && v.Provider.ID == id {
			found = true
		}
	}
	assert.True(t, found, "expected a pending verification for provider %d", id)
}

func TestProviders_FilterByCategory(t *testing.T) {
	h := newHarness(t)
	page := usecase.NewSearchPage(h.env, h.client, nil)
	s := page.Load(context.Background(), "category=plumber")
	res, ok := s.Data()
	require.True(t, ok, "state %v", s)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Ade Plumbing Services", res.Providers[0].FullName)

	s = page.Load(context.Background(), "category=fumigation")
	assert.Equal(t, view.Empty, s.Kind())
}

func TestProviders_MinRatingAndPerPage(t *testing.T) {
	h := newHarness(t)
	resp, err := h.client.Providers(context.Background(), map[string][]string{"min_rating": {"4"}, "per_page": {"2"}})
	require.NoError(t, err)
	assert.Len(t, resp.Data.Data, 2)
	assert.Equal(t, 3, resp.Data.Total)
	for _, p := range resp.Data.Data {
		assert.GreaterOrEqual(t, p.Rating(), 4.0)
	}
}

func TestProtectedRoutes(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous gets 401", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.client.Me(ctx)
		assert.True(t, api.IsStatus(err, http.StatusUnauthorized), "got %v", err)
	})

	t.Run("customer cannot reach admin routes", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "john@example.com", model.RoleUser)
		_, err := h.client.AdminUsers(ctx, nil)
		assert.True(t, api.IsStatus(err, http.StatusForbidden), "got %v", err)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "john@example.com", model.RoleUser)
		tok, _ := h.session.Token(ctx)
		_, err := h.client.Logout(ctx)
		require.NoError(t, err)
		require.NoError(t, h.session.Establish(ctx, tok, &model.UserProfile{ID: 2}))
		_, err = h.client.Me(ctx)
		assert.True(t, api.IsStatus(err, http.StatusUnauthorized), "got %v", err)
	})
}

func TestContactThenReview(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "john@example.com", model.RoleUser)

	// Spark Electricals has not been contacted by john in the seed data.
	resp, err := h.client.Providers(ctx, map[string][]string{"category": {"electrician"}})
	require.NoError(t, err)
	require.Len(t, resp.Data.Data, 1)
	id := resp.Data.Data[0].ID

	page := usecase.NewProviderPage(h.env, h.client)
	s := page.Load(ctx, id)
	v, ok := s.Data()
	require.True(t, ok)
	require.False(t, v.HasContacted)

	err = page.SubmitReview(ctx, 5, "great")
	require.Error(t, err)
	assert.Equal(t, "You must contact this provider before leaving a review", usecase.Message(err))

	link, err := page.Contact(ctx, usecase.ContactWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/2348045678901?text=Hi", link)

	require.NoError(t, page.SubmitReview(ctx, 5, "great"))
	v, _ = page.State().Data()
	assert.True(t, v.HasContacted)
	assert.Len(t, v.Provider.Reviews, 2)
}

func TestAdmin_ApproveAndCreatePost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "admin@example.com", model.RoleAdmin)
	admin := usecase.NewAdminConsole(h.env, h.client)

	require.NoError(t, admin.Approve(ctx, 1))
	s, err := admin.Verifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, view.Empty, s.Kind())

	post, err := admin.CreatePost(ctx, usecase.PostDraft{Title: "Hiring a Caterer?", Content: "Plan early."})
	require.NoError(t, err)
	assert.Equal(t, "hiring-a-caterer", post.Slug)

	_, err = admin.CreatePost(ctx, usecase.PostDraft{Title: "Hiring a Caterer?", Content: "again"})
	require.Error(t, err)
	assert.Equal(t, "The slug has already been taken.", usecase.Message(err))

	got := usecase.NewBlogPostPage(h.env, h.client).Load(ctx, "hiring-a-caterer")
	p, ok := got.Data()
	require.True(t, ok)
	assert.Equal(t, "Admin", p.AuthorName)
}

func TestBlog_MissingPostIsEmpty(t *testing.T) {
	h := newHarness(t)
	s := usecase.NewBlogPostPage(h.env, h.client).Load(context.Background(), "nope")
	assert.Equal(t, view.Empty, s.Kind())
	assert.Equal(t, "Post not found", s.Message())
}

func TestHealthAndTraceHeader(t *testing.T) {
	l := zerolog.Nop()
	srv, err := stubapi.New(config.StubConfig{JWTSecret: "x", OTPCode: testOTP}, &l, stubapi.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))
}

func TestSearchAndCategoryLookup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.client.SearchProviders(ctx, map[string][]string{"q": {"plumb"}})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, "Ade Plumbing Services", resp.Data.Data[0].FullName)

	c, err := h.client.Category(ctx, "plumber")
	require.NoError(t, err)
	assert.Equal(t, "Plumbing", c.Data.Name)

	_, err = h.client.Category(ctx, "astrology")
	assert.True(t, api.IsStatus(err, http.StatusNotFound), "got %v", err)
}

func TestProviderReviews_Paginated(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	page := usecase.NewProviderPage(h.env, h.client)
	_, ok := page.Load(ctx, 4).Data()
	require.True(t, ok)

	s, err := page.Reviews(ctx, 1)
	require.NoError(t, err)
	got, ok := s.Data()
	require.True(t, ok, "state %v", s)
	assert.Equal(t, 2, got.Total)
	assert.Len(t, got.Data, 2)

	resp, err := h.client.ProviderReviews(ctx, 4, map[string][]string{"page": {"2"}, "per_page": {"1"}})
	require.NoError(t, err)
	require.Len(t, resp.Data.Data, 1)
	assert.Equal(t, 2, resp.Data.Total)

	_, err = h.client.ProviderReviews(ctx, 999, nil)
	assert.True(t, api.IsStatus(err, http.StatusNotFound), "got %v", err)
}

func TestPortfolio_UploadThenDelete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "ade@example.com", model.RoleProvider)
	gallery := usecase.NewPortfolio(h.env, h.client)

	img, err := gallery.Add(ctx, &usecase.Document{Name: "tiles.png", Content: strings.NewReader("PNG")})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/portfolio/tiles.png", img.ImageURL)
	assert.Equal(t, usecase.ProviderRoute(4), h.nav.last())

	p, err := h.client.Provider(ctx, 4)
	require.NoError(t, err)
	assert.Contains(t, p.Data.Portfolios, *img)

	require.NoError(t, gallery.Remove(ctx, img.ID))
	p, err = h.client.Provider(ctx, 4)
	require.NoError(t, err)
	assert.NotContains(t, p.Data.Portfolios, *img)

	err = gallery.Remove(ctx, img.ID)
	require.Error(t, err)
	assert.Equal(t, "Portfolio item not found", usecase.Message(err))
}

func TestAdmin_EditPost(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, "admin@example.com", model.RoleAdmin)
	admin := usecase.NewAdminConsole(h.env, h.client)

	post, err := admin.EditPost(ctx, 1, usecase.PostDraft{Title: "Choosing a Plumber", Content: "Ask for references."})
	require.NoError(t, err)
	assert.Equal(t, "choosing-a-plumber", post.Slug)

	got, ok := usecase.NewBlogPostPage(h.env, h.client).Load(ctx, "choosing-a-plumber").Data()
	require.True(t, ok)
	assert.Equal(t, "Ask for references.", got.Content)

	_, err = admin.EditPost(ctx, 999, usecase.PostDraft{Title: "Ghost", Content: "x"})
	require.Error(t, err)
	assert.Equal(t, "Failed to update blog post", usecase.Message(err))
}
