// File: internal/infra/geo/locator.go
package geo

import (
	"context"

	"localservices-frontend/internal/config"
	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/domain/ports/adapter"
)

var (
	_ adapter.Locator = (*FixedLocator)(nil)
	_ adapter.Locator = UnsupportedLocator{}
)

// FixedLocator reports a configured position. A terminal has no GPS, so the
// "device" location comes from config or a --near flag.
type FixedLocator struct {
	pos model.Coordinates
}

func NewFixedLocator(pos model.Coordinates) *FixedLocator {
	return &FixedLocator{pos: pos}
}

func (l *FixedLocator) CurrentLocation(ctx context.Context) (model.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinates{}, err
	}
	return l.pos, nil
}

// UnsupportedLocator is used when no position is configured.
type UnsupportedLocator struct{}

func (UnsupportedLocator) CurrentLocation(ctx context.Context) (model.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinates{}, err
	}
	return model.Coordinates{}, domain.ErrGeolocationUnsupported
}

// LocatorFromConfig picks FixedLocator when location is configured.
func LocatorFromConfig(cfg config.LocationConfig) adapter.Locator {
	if !cfg.Available() {
		return UnsupportedLocator{}
	}
	return NewFixedLocator(model.Coordinates{Lat: *cfg.Lat, Lng: *cfg.Lng})
}
