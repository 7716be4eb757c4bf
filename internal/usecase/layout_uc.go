package usecase

import (
	"context"

	"localservices-frontend/internal/domain/model"
)

// Layout is the chrome around every page: greeting and logout.
type Layout struct {
	env  Env
	auth AuthBackend
}

func NewLayout(env Env, auth AuthBackend) *Layout {
	return &Layout{env: env.withDefaults(), auth: auth}
}

// CurrentUser is the cached profile, nil when signed out.
func (l *Layout) CurrentUser(ctx context.Context) *model.UserProfile {
	if l.env.Session == nil {
		return nil
	}
	u, ok := l.env.Session.User(ctx)
	if !ok {
		return nil
	}
	return u
}

// Greeting is "Hi, <name>" for a signed-in user and empty otherwise.
func (l *Layout) Greeting(ctx context.Context) string {
	u := l.CurrentUser(ctx)
	if u == nil {
		return ""
	}
	return l.env.T.T("greeting", u.DisplayName())
}

// Logout tells the backend (best effort), drops the local session and goes home.
func (l *Layout) Logout(ctx context.Context) error {
	if l.auth != nil && l.env.authenticated(ctx) {
		if _, err := l.auth.Logout(ctx); err != nil {
			l.env.logger(ctx).Warn().Err(err).Msg("server logout failed; clearing local session anyway")
		}
	}
	if l.env.Session != nil {
		if err := l.env.Session.Clear(ctx); err != nil {
			return err
		}
	}
	return l.env.push(ctx, RouteHome)
}
