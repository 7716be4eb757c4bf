package usecase

import (
	"context"

	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/domain/ports/adapter"
	"localservices-frontend/internal/infra/logging"
	"localservices-frontend/internal/search"
	"localservices-frontend/internal/view"

	"golang.org/x/sync/errgroup"
)

type SearchResult struct {
	Providers []model.Provider
	Total     int
	// Category is the filtered category, nil when unfiltered or unknown.
	Category *model.Category
}

// SearchPage lists providers for the current query string. Every Load
// supersedes the previous one.
type SearchPage struct {
	env     Env
	catalog CatalogBackend
	loader  view.Loader[SearchResult]
	query   string

	Bar *SearchBar
}

func NewSearchPage(env Env, catalog CatalogBackend, locator adapter.Locator) *SearchPage {
	env = env.withDefaults()
	p := &SearchPage{env: env, catalog: catalog, Bar: NewSearchBar(env, locator)}
	p.loader.IsEmpty = func(r SearchResult) bool { return len(r.Providers) == 0 }
	p.loader.EmptyMessage = env.T.T("search_empty")
	p.loader.ErrorMessage = func(error) string { return env.T.T("error_providers_failed") }
	return p
}

// Load runs the search for query, the raw query string of the route.
func (p *SearchPage) Load(ctx context.Context, query string) view.State[SearchResult] {
	defer logging.TraceDuration(p.env.Log, "SearchPage.Load")()
	p.query = query
	p.prefill(query)
	return p.loader.Load(ctx, func(ctx context.Context) (SearchResult, error) {
		params, err := search.Decode(query)
		if err != nil {
			return SearchResult{}, err
		}
		return p.fetch(ctx, query, params)
	})
}

// fetch lists providers and, when filtered, resolves the category heading
// alongside. A failed category lookup only drops the heading.
func (p *SearchPage) fetch(ctx context.Context, query string, params search.Params) (SearchResult, error) {
	var res SearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := p.catalog.Providers(gctx, params.Values())
		if err != nil {
			p.env.logger(ctx).Error().Err(err).Str("query", query).Msg("provider search failed")
			return err
		}
		res.Providers, res.Total = resp.Data.Data, resp.Data.Total
		return nil
	})
	if slug, ok := params.Get(search.KeyCategory); ok {
		g.Go(func() error {
			resp, err := p.catalog.Category(gctx, slug)
			if err != nil {
				p.env.logger(ctx).Warn().Err(err).Str("category", slug).Msg("category lookup failed")
				return nil
			}
			res.Category = &resp.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SearchResult{}, err
	}
	return res, nil
}

// prefill mirrors the route into the search bar. Unparsable coordinates
// still fill the text fields; an undecodable query clears them.
func (p *SearchPage) prefill(query string) {
	if in, err := search.DecodeIntent(query); err == nil {
		p.Bar.Category, p.Bar.Location = in.Category, in.Location
		return
	}
	params, err := search.Decode(query)
	if err != nil {
		p.Bar.Category, p.Bar.Location = "", ""
		return
	}
	p.Bar.Category, _ = params.Get(search.KeyCategory)
	p.Bar.Location, _ = params.Get(search.KeyQuery)
}

func (p *SearchPage) State() view.State[SearchResult] { return p.loader.State() }

// Query is the query string of the last Load.
func (p *SearchPage) Query() string { return p.query }

// Search submits the search bar; the navigator re-enters Load.
func (p *SearchPage) Search(ctx context.Context) error { return p.Bar.Submit(ctx) }

// Summary is the result count line.
func (p *SearchPage) Summary(r SearchResult) string {
	plural := "s"
	if r.Total == 1 {
		plural = ""
	}
	return p.env.T.T("search_found", r.Total, plural)
}
