// File: internal/usecase/admin_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"

	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/infra/logging"
	"localservices-frontend/internal/view"
)

type MenuItem struct {
	Title       string
	Description string
	Route       string
}

// AdminMenu is the dashboard.
var AdminMenu = []MenuItem{
	{"Provider Verifications", "Review and approve provider verification requests", "/admin/verifications"},
	{"Manage Providers", "View and manage all service providers", "/admin/providers"},
	{"Manage Users", "View and manage all users", "/admin/users"},
	{"Review Moderation", "Moderate user reviews", "/admin/reviews"},
	{"Blog Management", "Create and manage blog posts", "/admin/blog"},
	{"Categories", "Create and list service categories", "/admin/categories"},
}

type PostDraft struct {
	Title            string
	Slug             string // derived from Title when empty
	Content          string
	FeaturedImageURL string
}

// AdminConsole backs the /admin pages. Every entry point runs Guard first.
type AdminConsole struct {
	env   Env
	admin AdminBackend
}

func NewAdminConsole(env Env, admin AdminBackend) *AdminConsole {
	return &AdminConsole{env: env.withDefaults(), admin: admin}
}

// Guard sends anyone but an admin to the login page.
func (a *AdminConsole) Guard(ctx context.Context) (*model.UserProfile, error) {
	var u *model.UserProfile
	if a.env.Session != nil {
		u, _ = a.env.Session.User(ctx)
	}
	if !u.IsAdmin() {
		if err := a.env.push(ctx, RouteLogin); err != nil {
			return nil, err
		}
		return nil, domain.ErrForbidden
	}
	return u, nil
}

func (a *AdminConsole) Menu(ctx context.Context) ([]MenuItem, error) {
	if _, err := a.Guard(ctx); err != nil {
		return nil, err
	}
	return AdminMenu, nil
}

// list runs a guarded fetch and maps it to a view state.
func list[T any](ctx context.Context, a *AdminConsole, errKey, emptyKey string, fetch func(context.Context) ([]T, error)) (view.State[[]T], error) {
	if _, err := a.Guard(ctx); err != nil {
		return view.State[[]T]{}, err
	}
	items, err := fetch(ctx)
	if err != nil {
		a.env.logger(ctx).Error().Err(err).Str("section", errKey).Msg("admin fetch failed")
		return view.NewErrored[[]T](a.env.T.T(errKey), err), nil
	}
	if len(items) == 0 && emptyKey != "" {
		return view.NewEmpty[[]T](a.env.T.T(emptyKey)), nil
	}
	return view.NewPopulated(items), nil
}

func (a *AdminConsole) Users(ctx context.Context) (view.State[[]model.UserProfile], error) {
	defer logging.TraceDuration(a.env.Log, "AdminConsole.Users")()
	return list(ctx, a, "error_users_failed", "users_empty", func(ctx context.Context) ([]model.UserProfile, error) {
		resp, err := a.admin.AdminUsers(ctx, nil)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

func (a *AdminConsole) Providers(ctx context.Context) (view.State[[]model.Provider], error) {
	defer logging.TraceDuration(a.env.Log, "AdminConsole.Providers")()
	return list(ctx, a, "error_providers_failed", "admin_providers_empty", func(ctx context.Context) ([]model.Provider, error) {
		resp, err := a.admin.AdminProviders(ctx, nil)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

func (a *AdminConsole) Reviews(ctx context.Context) (view.State[[]model.Review], error) {
	defer logging.TraceDuration(a.env.Log, "AdminConsole.Reviews")()
	return list(ctx, a, "error_reviews_failed", "reviews_empty", func(ctx context.Context) ([]model.Review, error) {
		resp, err := a.admin.AdminReviews(ctx, nil)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

// Verifications lists only the pending requests.
func (a *AdminConsole) Verifications(ctx context.Context) (view.State[[]model.Verification], error) {
	defer logging.TraceDuration(a.env.Log, "AdminConsole.Verifications")()
	return list(ctx, a, "error_verifications_failed", "verifications_empty", func(ctx context.Context) ([]model.Verification, error) {
		resp, err := a.admin.AdminVerifications(ctx)
		if err != nil {
			return nil, err
		}
		pending := make([]model.Verification, 0, len(resp.Data))
		for _, v := range resp.Data {
			if v.IsPending() {
				pending = append(pending, v)
			}
		}
		return pending, nil
	})
}

func (a *AdminConsole) BlogPosts(ctx context.Context) (view.State[[]model.BlogPost], error) {
	return list(ctx, a, "error_blog_failed", "blog_empty", func(ctx context.Context) ([]model.BlogPost, error) {
		resp, err := a.admin.AdminBlogPosts(ctx)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

func (a *AdminConsole) Categories(ctx context.Context) (view.State[[]model.Category], error) {
	return list(ctx, a, "error_categories_failed", "categories_empty", func(ctx context.Context) ([]model.Category, error) {
		resp, err := a.admin.AdminCategories(ctx)
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
}

// destructive asks first and reports the outcome through the notifier.
// A declined prompt issues no call and returns ErrCancelled.
func (a *AdminConsole) destructive(ctx context.Context, promptKey, okKey, failKey string, call func(context.Context) error) error {
	if _, err := a.Guard(ctx); err != nil {
		return err
	}
	if !a.env.Confirmer.Confirm(ctx, a.env.T.T(promptKey)) {
		return domain.ErrCancelled
	}
	if err := call(ctx); err != nil {
		a.env.logger(ctx).Error().Err(err).Str("action", okKey).Msg("admin action failed")
		a.env.Notifier.Notify(ctx, a.env.T.T(failKey))
		return formError(a.env.T.T(failKey), err)
	}
	a.env.Notifier.Notify(ctx, a.env.T.T(okKey))
	return nil
}

func (a *AdminConsole) Approve(ctx context.Context, id int64) error {
	return a.setVerification(ctx, id, model.VerificationApproved, "confirm_approve", "verification_approved", "error_approve_failed")
}

func (a *AdminConsole) Reject(ctx context.Context, id int64) error {
	return a.setVerification(ctx, id, model.VerificationRejected, "confirm_reject", "verification_rejected", "error_reject_failed")
}

func (a *AdminConsole) setVerification(ctx context.Context, id int64, status, promptKey, okKey, failKey string) error {
	return a.destructive(ctx, promptKey, okKey, failKey, func(ctx context.Context) error {
		_, err := a.admin.AdminUpdateVerification(ctx, id, api.VerificationUpdate{Status: status})
		return err
	})
}

func (a *AdminConsole) DeleteReview(ctx context.Context, id int64) error {
	return a.destructive(ctx, "confirm_delete_review", "review_deleted", "error_delete_review_failed", func(ctx context.Context) error {
		_, err := a.admin.AdminDeleteReview(ctx, id)
		return err
	})
}

func (a *AdminConsole) DeletePost(ctx context.Context, id int64) error {
	return a.destructive(ctx, "confirm_delete_post", "post_deleted", "error_delete_post_failed", func(ctx context.Context) error {
		_, err := a.admin.AdminDeleteBlogPost(ctx, id)
		return err
	})
}

// CreatePost publishes a post, deriving the slug from the title when unset.
func (a *AdminConsole) CreatePost(ctx context.Context, d PostDraft) (*model.BlogPost, error) {
	if _, err := a.Guard(ctx); err != nil {
		return nil, err
	}
	resp, err := a.admin.AdminCreateBlogPost(ctx, d.form())
	if err != nil {
		return nil, formError(validationOr(err, a.env.T.T("error_create_post_failed")), err)
	}
	a.env.Notifier.Notify(ctx, a.env.T.T("post_created"))
	return &resp.Data, nil
}

// EditPost replaces every field of post id with d.
func (a *AdminConsole) EditPost(ctx context.Context, id int64, d PostDraft) (*model.BlogPost, error) {
	defer logging.TraceDuration(a.env.Log, "AdminConsole.EditPost")()
	if _, err := a.Guard(ctx); err != nil {
		return nil, err
	}
	resp, err := a.admin.AdminUpdateBlogPost(ctx, id, d.form())
	if err != nil {
		a.env.logger(ctx).Error().Err(err).Int64("post_id", id).Msg("update post failed")
		return nil, formError(validationOr(err, a.env.T.T("error_update_post_failed")), err)
	}
	a.env.Notifier.Notify(ctx, a.env.T.T("post_updated"))
	return &resp.Data, nil
}

func (d PostDraft) form() *api.Form {
	if strings.TrimSpace(d.Slug) == "" {
		d.Slug = model.Slugify(d.Title)
	}
	form := (&api.Form{}).Add("title", d.Title).Add("slug", d.Slug).Add("content", d.Content)
	if d.FeaturedImageURL != "" {
		form.Add("featured_image_url", d.FeaturedImageURL)
	}
	return form
}

func (a *AdminConsole) CreateCategory(ctx context.Context, name, slug string) (*model.Category, error) {
	if _, err := a.Guard(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, formError(a.env.T.T("error_create_category_failed"), fmt.Errorf("category name: %w", domain.ErrInvalidArgument))
	}
	if slug == "" {
		slug = model.Slugify(name)
	}
	resp, err := a.admin.AdminCreateCategory(ctx, api.CategoryRequest{Name: name, Slug: slug})
	if err != nil {
		return nil, formError(validationOr(err, a.env.T.T("error_create_category_failed")), err)
	}
	a.env.Notifier.Notify(ctx, a.env.T.T("category_created"))
	return &resp.Data, nil
}

// OpenProvider is the "view" action on the providers table.
func (a *AdminConsole) OpenProvider(ctx context.Context, id int64) error {
	return a.env.push(ctx, ProviderRoute(id))
}
