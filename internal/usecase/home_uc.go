package usecase

import (
	"context"
	"net/url"
	"strconv"

	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/domain/ports/adapter"
	"localservices-frontend/internal/infra/logging"
	"localservices-frontend/internal/search"
	"localservices-frontend/internal/view"

	"golang.org/x/sync/errgroup"
)

// Featured list filter on the home page.
const (
	featuredPerPage   = 6
	featuredMinRating = 4
)

type HomeData struct {
	Categories []model.Category
	Featured   []model.Provider
}

// HomePage loads categories and top-rated providers side by side.
type HomePage struct {
	env     Env
	catalog CatalogBackend
	loader  view.Loader[HomeData]

	Bar *SearchBar
}

func NewHomePage(env Env, catalog CatalogBackend, locator adapter.Locator) *HomePage {
	env = env.withDefaults()
	p := &HomePage{env: env, catalog: catalog, Bar: NewSearchBar(env, locator)}
	p.loader.ErrorMessage = func(error) string { return env.T.T("error_home_failed") }
	return p
}

func (p *HomePage) Load(ctx context.Context) view.State[HomeData] {
	defer logging.TraceDuration(p.env.Log, "HomePage.Load")()
	return p.loader.Load(ctx, p.fetch)
}

func (p *HomePage) fetch(ctx context.Context) (HomeData, error) {
	var data HomeData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := p.catalog.Categories(gctx)
		if err != nil {
			return err
		}
		data.Categories = resp.Data
		return nil
	})
	g.Go(func() error {
		params := url.Values{}
		params.Set(search.KeyPerPage, strconv.Itoa(featuredPerPage))
		params.Set(search.KeyMinRating, strconv.Itoa(featuredMinRating))
		resp, err := p.catalog.Providers(gctx, params)
		if err != nil {
			return err
		}
		data.Featured = resp.Data.Data
		return nil
	})
	if err := g.Wait(); err != nil {
		p.env.logger(ctx).Error().Err(err).Msg("home page fetch failed")
		return HomeData{}, err
	}
	return data, nil
}

func (p *HomePage) State() view.State[HomeData] { return p.loader.State() }

// Search submits the search bar.
func (p *HomePage) Search(ctx context.Context) error { return p.Bar.Submit(ctx) }

// OpenCategory navigates to the search page filtered by slug.
func (p *HomePage) OpenCategory(ctx context.Context, slug string) error {
	return p.env.push(ctx, search.CategoryRoute(slug))
}

// OpenProvider navigates to a provider profile.
func (p *HomePage) OpenProvider(ctx context.Context, id int64) error {
	return p.env.push(ctx, ProviderRoute(id))
}

func ProviderRoute(id int64) string { return routeProvider + strconv.FormatInt(id, 10) }
