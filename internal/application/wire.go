package application

import (
	"context"
	"fmt"
	"net/http"

	"localservices-frontend/internal/config"
	"localservices-frontend/internal/domain/ports/adapter"
	"localservices-frontend/internal/domain/ports/repository"
	"localservices-frontend/internal/infra/api"
	"localservices-frontend/internal/infra/geo"
	"localservices-frontend/internal/infra/i18n"
	"localservices-frontend/internal/infra/redis"
	"localservices-frontend/internal/infra/session"
	"localservices-frontend/internal/infra/storage"
	"localservices-frontend/internal/usecase"

	"github.com/rs/zerolog"
)

// App is a fully wired frontend plus the resources it owns.
type App struct {
	Frontend *Frontend
	Client   *api.Client
	Session  *session.Store

	closers []func() error
}

// Close releases the storage backend.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenStore picks the key value backend named by cfg.Storage.Backend.
// The returned func closes it.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.KeyValueStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), noop, nil
	case config.BackendFile:
		fs, err := storage.NewFileStore(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open session file: %w", err)
		}
		return fs, noop, nil
	case config.BackendRedis:
		cli, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return redis.NewKVStore(cli, cfg.Redis.Prefix, cfg.Redis.TTL), cli.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

// Build wires storage, session, API client, geolocation and every page
// controller from cfg.
func Build(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, ui UI) (*App, error) {
	kv, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sess := session.NewStore(kv, logger, cfg.Runtime.Dev)

	opts := []api.Option{api.WithTimeout(cfg.API.Timeout), api.WithLogger(logger)}
	if cfg.API.Logout401 {
		opts = append(opts, api.WithUnauthorizedHandler(onUnauthorized(sess, ui.Nav, logger)))
	}
	client, err := api.NewClient(cfg.API.BaseURL, sess, opts...)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	var geocoder adapter.Geocoder
	if cfg.Mapbox.AccessToken != "" {
		g, err := geo.NewMapboxGeocoder(cfg.Mapbox.BaseURL, cfg.Mapbox.AccessToken, &http.Client{Timeout: cfg.API.Timeout}, logger)
		if err != nil {
			_ = closeStore()
			return nil, err
		}
		geocoder = g
	} else {
		logger.Warn().Msg("mapbox access token not set; providers register without coordinates")
	}

	env := usecase.Env{
		Session:   sess,
		Nav:       ui.Nav,
		Notifier:  ui.Notifier,
		Confirmer: ui.Confirmer,
		T:         i18n.Default(),
		Log:       logger,
	}
	return &App{
		Frontend: NewFrontend(env, client, geo.LocatorFromConfig(cfg.Location), geocoder),
		Client:   client,
		Session:  sess,
		closers:  []func() error{closeStore},
	}, nil
}

// onUnauthorized drops the session and sends the visitor to the login page.
func onUnauthorized(sess *session.Store, nav adapter.Navigator, logger *zerolog.Logger) func(ctx context.Context) {
	return func(ctx context.Context) {
		if err := sess.Clear(ctx); err != nil {
			logger.Error().Err(err).Msg("clear session after 401")
		}
		if nav == nil {
			return
		}
		if err := nav.Push(ctx, usecase.RouteLogin); err != nil {
			logger.Warn().Err(err).Msg("redirect to login after 401")
		}
	}
}
