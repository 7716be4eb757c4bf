package usecase

import (
	"context"

	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/domain/ports/adapter"
	"localservices-frontend/internal/search"
)

// SearchCategories are the slugs offered by the search bar picker.
var SearchCategories = []string{
	"plumber",
	"carpenter",
	"gardener",
	"fumigation",
	"catering",
	"cleaner",
	"electrician",
}

// SearchBar is the form shared by the home and search pages.
type SearchBar struct {
	env     Env
	locator adapter.Locator

	Category string
	Location string
	// useCurrent is set by a successful UseCurrentLocation and cleared by
	// typing a location.
	useCurrent bool
}

func NewSearchBar(env Env, locator adapter.Locator) *SearchBar {
	return &SearchBar{env: env.withDefaults(), locator: locator}
}

// SetLocation replaces the free-text location and forgets the device position.
func (b *SearchBar) SetLocation(text string) {
	b.Location = text
	b.useCurrent = false
}

// UsingCurrentLocation reports whether the next submit attaches coordinates.
func (b *SearchBar) UsingCurrentLocation() bool { return b.useCurrent }

// UseCurrentLocation fills Location with the device position. On failure the
// user is asked to type a location instead.
func (b *SearchBar) UseCurrentLocation(ctx context.Context) error {
	pos, err := b.locate(ctx)
	if err != nil {
		b.env.Notifier.Notify(ctx, b.env.T.T("error_location_unavailable"))
		return formError(b.env.T.T("error_location_unavailable"), err)
	}
	b.Location = pos.Label()
	b.useCurrent = true
	return nil
}

// Intent builds the search intent, re-reading the position when the device
// location is in use. A failed lookup submits without coordinates.
func (b *SearchBar) Intent(ctx context.Context) search.Intent {
	in := search.Intent{Category: b.Category, Location: b.Location}
	if !b.useCurrent {
		return in
	}
	pos, err := b.locate(ctx)
	if err != nil {
		b.env.logger(ctx).Warn().Err(err).Msg("location lookup failed on submit")
		return in
	}
	return in.WithCoordinates(pos.Lat, pos.Lng)
}

// Submit navigates to the search route for the current form.
func (b *SearchBar) Submit(ctx context.Context) error {
	return b.env.push(ctx, search.Route(b.Intent(ctx)))
}

func (b *SearchBar) locate(ctx context.Context) (model.Coordinates, error) {
	if b.locator == nil {
		return model.Coordinates{}, domain.ErrGeolocationUnsupported
	}
	return b.locator.CurrentLocation(ctx)
}
