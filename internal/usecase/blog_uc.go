package usecase

import (
	"context"
	"net/http"
	"net/url"

	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/view"
)

// ExcerptLength is the number of runes shown per post on the blog index.
const ExcerptLength = 150

type BlogIndex struct {
	env     Env
	catalog CatalogBackend
	loader  view.Loader[[]model.BlogPost]
}

func NewBlogIndex(env Env, catalog CatalogBackend) *BlogIndex {
	env = env.withDefaults()
	p := &BlogIndex{env: env, catalog: catalog}
	p.loader.IsEmpty = func(posts []model.BlogPost) bool { return len(posts) == 0 }
	p.loader.EmptyMessage = env.T.T("blog_empty")
	p.loader.ErrorMessage = func(error) string { return env.T.T("error_blog_failed") }
	return p
}

func (p *BlogIndex) Load(ctx context.Context, params url.Values) view.State[[]model.BlogPost] {
	return p.loader.Load(ctx, func(ctx context.Context) ([]model.BlogPost, error) {
		resp, err := p.catalog.BlogPosts(ctx, params)
		if err != nil {
			p.env.logger(ctx).Error().Err(err).Msg("fetch blog posts failed")
			return nil, err
		}
		return resp.Data.Data, nil
	})
}

func (p *BlogIndex) Open(ctx context.Context, slug string) error {
	return p.env.push(ctx, BlogPostRoute(slug))
}

func BlogPostRoute(slug string) string { return routeBlogPost + url.PathEscape(slug) }

// BlogPostPage shows one post. A missing post is Empty, not Errored.
type BlogPostPage struct {
	env     Env
	catalog CatalogBackend
	loader  view.Loader[model.BlogPost]
}

func NewBlogPostPage(env Env, catalog CatalogBackend) *BlogPostPage {
	env = env.withDefaults()
	p := &BlogPostPage{env: env, catalog: catalog}
	p.loader.IsEmpty = func(post model.BlogPost) bool { return post.ID == 0 && post.Slug == "" }
	p.loader.EmptyMessage = env.T.T("error_post_not_found")
	p.loader.ErrorMessage = func(error) string { return env.T.T("error_post_not_found") }
	return p
}

func (p *BlogPostPage) Load(ctx context.Context, slug string) view.State[model.BlogPost] {
	return p.loader.Load(ctx, func(ctx context.Context) (model.BlogPost, error) {
		resp, err := p.catalog.BlogPost(ctx, slug)
		if api.IsStatus(err, http.StatusNotFound) {
			return model.BlogPost{}, nil
		}
		if err != nil {
			p.env.logger(ctx).Error().Err(err).Str("slug", slug).Msg("fetch blog post failed")
			return model.BlogPost{}, err
		}
		return resp.Data, nil
	})
}
