package adapter

import (
	"context"

	"localservices-frontend/internal/domain/model"
)

// Locator answers a single current-position query from the device.
type Locator interface {
	CurrentLocation(ctx context.Context) (model.Coordinates, error)
}

// Geocoder resolves a free-text address. A nil result means no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*model.Coordinates, error)
}
