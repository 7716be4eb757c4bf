package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"localservices-frontend/internal/domain/model"
)

func idPath(prefix string, id int64) string { return prefix + "/" + strconv.FormatInt(id, 10) }

func slugPath(prefix, slug string) string { return prefix + "/" + url.PathEscape(slug) }

func getRequest(endpoint, path string, params url.Values) request {
	return request{endpoint: endpoint, method: http.MethodGet, path: path, query: params}
}

// Categories

func (c *Client) Categories(ctx context.Context) (*Response[[]model.Category], error) {
	return do[[]model.Category](ctx, c, getRequest("categories.list", "/categories", nil))
}

func (c *Client) Category(ctx context.Context, slug string) (*Response[model.Category], error) {
	return do[model.Category](ctx, c, getRequest("categories.get", slugPath("/categories", slug), nil))
}

// Providers

// Providers accepts the filter keys category, q, lat, lng, min_rating and per_page.
func (c *Client) Providers(ctx context.Context, params url.Values) (*Response[model.Page[model.Provider]], error) {
	return do[model.Page[model.Provider]](ctx, c, getRequest("providers.list", "/providers", params))
}

func (c *Client) Provider(ctx context.Context, id int64) (*Response[model.Provider], error) {
	return do[model.Provider](ctx, c, getRequest("providers.get", idPath("/providers", id), nil))
}

func (c *Client) SearchProviders(ctx context.Context, params url.Values) (*Response[model.Page[model.Provider]], error) {
	return do[model.Page[model.Provider]](ctx, c, getRequest("providers.search", "/providers/search", params))
}

// Reviews

func (c *Client) ProviderReviews(ctx context.Context, providerID int64, params url.Values) (*Response[model.Page[model.Review]], error) {
	return do[model.Page[model.Review]](ctx, c, getRequest("reviews.list", idPath("/providers", providerID)+"/reviews", params))
}

func (c *Client) CreateReview(ctx context.Context, in ReviewRequest) (*Response[model.Review], error) {
	return do[model.Review](ctx, c, jsonRequest("reviews.create", http.MethodPost, "/reviews", in))
}

// Contact records

func (c *Client) CreateContactRecord(ctx context.Context, in ContactRecordRequest) (*Response[Ack], error) {
	return do[Ack](ctx, c, jsonRequest("contact.create", http.MethodPost, "/contact-records", in))
}

func (c *Client) CheckContactRecord(ctx context.Context, providerID int64) (*Response[ContactCheck], error) {
	q := url.Values{"provider_id": {strconv.FormatInt(providerID, 10)}}
	return do[ContactCheck](ctx, c, getRequest("contact.check", "/contact-records/check", q))
}

// Portfolio and verification uploads (multipart)

func (c *Client) UploadPortfolio(ctx context.Context, form *Form) (*Response[model.Portfolio], error) {
	req, err := formRequest("portfolio.upload", http.MethodPost, "/portfolios", form)
	if err != nil {
		return nil, err
	}
	return do[model.Portfolio](ctx, c, req)
}

func (c *Client) DeletePortfolio(ctx context.Context, id int64) (*Response[Ack], error) {
	return do[Ack](ctx, c, jsonRequest("portfolio.delete", http.MethodDelete, idPath("/portfolios", id), nil))
}

func (c *Client) UploadVerification(ctx context.Context, form *Form) (*Response[model.Verification], error) {
	req, err := formRequest("verification.upload", http.MethodPost, "/verifications", form)
	if err != nil {
		return nil, err
	}
	return do[model.Verification](ctx, c, req)
}

// Blog

func (c *Client) BlogPosts(ctx context.Context, params url.Values) (*Response[model.Page[model.BlogPost]], error) {
	return do[model.Page[model.BlogPost]](ctx, c, getRequest("blog.list", "/blog", params))
}

func (c *Client) BlogPost(ctx context.Context, slug string) (*Response[model.BlogPost], error) {
	return do[model.BlogPost](ctx, c, getRequest("blog.get", slugPath("/blog", slug), nil))
}
