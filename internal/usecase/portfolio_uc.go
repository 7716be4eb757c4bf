package usecase

import (
	"context"

	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/infra/logging"
)

// Portfolio manages the gallery of the signed-in provider. Both actions end
// on the provider's own profile so the change is visible.
type Portfolio struct {
	env     Env
	backend PortfolioBackend
}

func NewPortfolio(env Env, backend PortfolioBackend) *Portfolio {
	return &Portfolio{env: env.withDefaults(), backend: backend}
}

// owner sends anyone but a signed-in provider to the login page.
func (p *Portfolio) owner(ctx context.Context) (*model.UserProfile, error) {
	var u *model.UserProfile
	if p.env.Session != nil {
		u, _ = p.env.Session.User(ctx)
	}
	if u == nil || u.Role != model.RoleProvider {
		if err := p.env.push(ctx, RouteLogin); err != nil {
			return nil, err
		}
		return nil, domain.ErrForbidden
	}
	return u, nil
}

// Add uploads img as a new portfolio image.
func (p *Portfolio) Add(ctx context.Context, img *Document) (*model.Portfolio, error) {
	defer logging.TraceDuration(p.env.Log, "Portfolio.Add")()
	u, err := p.owner(ctx)
	if err != nil {
		return nil, err
	}
	if img == nil || img.Content == nil {
		return nil, formError(p.env.T.T("error_missing_image"), domain.ErrMissingDocument)
	}
	resp, err := p.backend.UploadPortfolio(ctx, portfolioForm(img))
	if err != nil {
		p.env.logger(ctx).Error().Err(err).Str("file", img.Name).Msg("portfolio upload failed")
		return nil, formError(validationOr(err, p.env.T.T("error_portfolio_upload_failed")), err)
	}
	p.env.Notifier.Notify(ctx, p.env.T.T("portfolio_added"))
	return &resp.Data, p.env.push(ctx, ProviderRoute(u.ID))
}

// Remove deletes one image after confirmation. Declining issues no call.
func (p *Portfolio) Remove(ctx context.Context, id int64) error {
	defer logging.TraceDuration(p.env.Log, "Portfolio.Remove")()
	u, err := p.owner(ctx)
	if err != nil {
		return err
	}
	if !p.env.Confirmer.Confirm(ctx, p.env.T.T("confirm_delete_portfolio")) {
		return domain.ErrCancelled
	}
	if _, err := p.backend.DeletePortfolio(ctx, id); err != nil {
		p.env.logger(ctx).Error().Err(err).Int64("portfolio_id", id).Msg("portfolio delete failed")
		return formError(serverErrorOr(err, p.env.T.T("error_portfolio_delete_failed")), err)
	}
	p.env.Notifier.Notify(ctx, p.env.T.T("portfolio_deleted"))
	return p.env.push(ctx, ProviderRoute(u.ID))
}

func portfolioForm(img *Document) *api.Form {
	return (&api.Form{}).AddFile("image", img.Name, img.Content)
}
