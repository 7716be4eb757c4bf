package api

import (
	"context"
	"net/http"
	"net/url"

	"localservices-frontend/internal/domain/model"
)

// Admin endpoints mirror the public ones under /admin and require an admin token.

func (c *Client) AdminBlogPosts(ctx context.Context) (*Response[[]model.BlogPost], error) {
	return do[[]model.BlogPost](ctx, c, getRequest("admin.blog.list", "/admin/blog", nil))
}

func (c *Client) AdminCreateBlogPost(ctx context.Context, form *Form) (*Response[model.BlogPost], error) {
	req, err := formRequest("admin.blog.create", http.MethodPost, "/admin/blog", form)
	if err != nil {
		return nil, err
	}
	return do[model.BlogPost](ctx, c, req)
}

func (c *Client) AdminUpdateBlogPost(ctx context.Context, id int64, form *Form) (*Response[model.BlogPost], error) {
	req, err := formRequest("admin.blog.update", http.MethodPut, idPath("/admin/blog", id), form)
	if err != nil {
		return nil, err
	}
	return do[model.BlogPost](ctx, c, req)
}

func (c *Client) AdminDeleteBlogPost(ctx context.Context, id int64) (*Response[Ack], error) {
	return do[Ack](ctx, c, jsonRequest("admin.blog.delete", http.MethodDelete, idPath("/admin/blog", id), nil))
}

func (c *Client) AdminVerifications(ctx context.Context) (*Response[[]model.Verification], error) {
	return do[[]model.Verification](ctx, c, getRequest("admin.verifications.list", "/admin/verifications", nil))
}

func (c *Client) AdminUpdateVerification(ctx context.Context, id int64, in VerificationUpdate) (*Response[model.Verification], error) {
	return do[model.Verification](ctx, c, jsonRequest("admin.verifications.update", http.MethodPut, idPath("/admin/verifications", id), in))
}

func (c *Client) AdminUsers(ctx context.Context, params url.Values) (*Response[[]model.UserProfile], error) {
	return do[[]model.UserProfile](ctx, c, getRequest("admin.users.list", "/admin/users", params))
}

func (c *Client) AdminProviders(ctx context.Context, params url.Values) (*Response[[]model.Provider], error) {
	return do[[]model.Provider](ctx, c, getRequest("admin.providers.list", "/admin/providers", params))
}

func (c *Client) AdminReviews(ctx context.Context, params url.Values) (*Response[[]model.Review], error) {
	return do[[]model.Review](ctx, c, getRequest("admin.reviews.list", "/admin/reviews", params))
}

func (c *Client) AdminDeleteReview(ctx context.Context, id int64) (*Response[Ack], error) {
	return do[Ack](ctx, c, jsonRequest("admin.reviews.delete", http.MethodDelete, idPath("/admin/reviews", id), nil))
}

func (c *Client) AdminCategories(ctx context.Context) (*Response[[]model.Category], error) {
	return do[[]model.Category](ctx, c, getRequest("admin.categories.list", "/admin/categories", nil))
}

func (c *Client) AdminCreateCategory(ctx context.Context, in CategoryRequest) (*Response[model.Category], error) {
	return do[model.Category](ctx, c, jsonRequest("admin.categories.create", http.MethodPost, "/admin/categories", in))
}
