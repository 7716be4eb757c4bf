package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/infra/logging"
	"localservices-frontend/internal/search"
	"localservices-frontend/internal/view"
)

type ContactKind string

const (
	ContactCall     ContactKind = "call"
	ContactWhatsApp ContactKind = "whatsapp"
)

// ReviewsPerPage is the page size of the full review list.
const ReviewsPerPage = 10

type ProviderView struct {
	Provider     model.Provider
	HasContacted bool
}

// ProviderPage is a provider profile with contact and review actions.
type ProviderPage struct {
	env     Env
	catalog CatalogBackend
	loader  view.Loader[ProviderView]
	reviews view.Loader[model.Page[model.Review]]
	id      int64
}

func NewProviderPage(env Env, catalog CatalogBackend) *ProviderPage {
	env = env.withDefaults()
	p := &ProviderPage{env: env, catalog: catalog}
	p.loader.ErrorMessage = func(error) string { return env.T.T("error_provider_not_found") }
	p.reviews.IsEmpty = func(pg model.Page[model.Review]) bool { return len(pg.Data) == 0 }
	p.reviews.EmptyMessage = env.T.T("no_reviews")
	p.reviews.ErrorMessage = func(error) string { return env.T.T("error_reviews_failed") }
	return p
}

// Load fetches the profile and, for a signed-in visitor, whether they already
// contacted this provider. A failed contact check is logged only.
func (p *ProviderPage) Load(ctx context.Context, id int64) view.State[ProviderView] {
	defer logging.TraceDuration(p.env.Log, "ProviderPage.Load")()
	p.id = id
	return p.loader.Load(ctx, func(ctx context.Context) (ProviderView, error) {
		resp, err := p.catalog.Provider(ctx, id)
		if err != nil {
			p.env.logger(ctx).Error().Err(err).Int64("provider_id", id).Msg("fetch provider failed")
			return ProviderView{}, err
		}
		out := ProviderView{Provider: resp.Data}
		if !p.env.authenticated(ctx) {
			return out, nil
		}
		check, err := p.catalog.CheckContactRecord(ctx, id)
		if err != nil {
			p.env.logger(ctx).Warn().Err(err).Int64("provider_id", id).Msg("contact check failed")
			return out, nil
		}
		out.HasContacted = check.Data.HasContacted
		return out, nil
	})
}

func (p *ProviderPage) State() view.State[ProviderView] { return p.loader.State() }

// ID is the provider loaded last, 0 before any Load.
func (p *ProviderPage) ID() int64 { return p.id }

// Reviews lists one page (1-based) of the open provider's reviews.
func (p *ProviderPage) Reviews(ctx context.Context, page int) (view.State[model.Page[model.Review]], error) {
	defer logging.TraceDuration(p.env.Log, "ProviderPage.Reviews")()
	if p.id == 0 {
		return view.State[model.Page[model.Review]]{}, fmt.Errorf("provider reviews: %w", domain.ErrNotFound)
	}
	if page < 1 {
		page = 1
	}
	id := p.id
	return p.reviews.Load(ctx, func(ctx context.Context) (model.Page[model.Review], error) {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		params.Set(search.KeyPerPage, strconv.Itoa(ReviewsPerPage))
		resp, err := p.catalog.ProviderReviews(ctx, id, params)
		if err != nil {
			p.env.logger(ctx).Error().Err(err).Int64("provider_id", id).Int("page", page).Msg("fetch reviews failed")
			return model.Page[model.Review]{}, err
		}
		return resp.Data, nil
	}), nil
}

// Contact records the contact and returns the link to open. Anonymous
// visitors are sent to the login page instead.
func (p *ProviderPage) Contact(ctx context.Context, kind ContactKind) (string, error) {
	if !p.env.authenticated(ctx) {
		return "", p.toLogin(ctx)
	}
	cur, ok := p.loader.State().Data()
	if !ok {
		return "", fmt.Errorf("contact provider %d: %w", p.id, domain.ErrNotFound)
	}
	var link string
	switch kind {
	case ContactCall:
		link = model.TelLink(cur.Provider.PhoneNumber)
	case ContactWhatsApp:
		link = model.WhatsAppLink(cur.Provider.PhoneNumber)
	default:
		return "", fmt.Errorf("contact kind %q: %w", kind, domain.ErrInvalidArgument)
	}

	if _, err := p.catalog.CreateContactRecord(ctx, api.ContactRecordRequest{ProviderID: p.id}); err != nil {
		p.env.logger(ctx).Error().Err(err).Int64("provider_id", p.id).Msg("record contact failed")
		return "", formError(p.env.T.T("error_contact_failed"), err)
	}
	cur.HasContacted = true
	p.loader.Set(view.NewPopulated(cur))
	return link, nil
}

// SubmitReview posts a 1..5 rating and reloads the profile on success.
func (p *ProviderPage) SubmitReview(ctx context.Context, rating int, comment string) error {
	if !p.env.authenticated(ctx) {
		return p.toLogin(ctx)
	}
	if rating < 1 || rating > 5 {
		return formError(p.env.T.T("error_invalid_rating"), domain.ErrInvalidArgument)
	}
	_, err := p.catalog.CreateReview(ctx, api.ReviewRequest{ProviderID: p.id, Rating: rating, Comment: comment})
	if err != nil {
		msg := serverErrorOr(err, p.env.T.T("error_review_failed"))
		p.env.Notifier.Notify(ctx, msg)
		return formError(msg, err)
	}
	p.env.Notifier.Notify(ctx, p.env.T.T("review_success"))
	p.Load(ctx, p.id)
	return nil
}

func (p *ProviderPage) toLogin(ctx context.Context) error {
	if err := p.env.push(ctx, RouteLogin); err != nil {
		return err
	}
	return domain.ErrNotAuthenticated
}
