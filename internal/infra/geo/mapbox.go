// File: internal/infra/geo/mapbox.go
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"localservices-frontend/internal/domain/model"
	"localservices-frontend/internal/domain/ports/adapter"
	"localservices-frontend/internal/infra/logging"
	"localservices-frontend/internal/infra/metrics"

	"github.com/rs/zerolog"
)

var _ adapter.Geocoder = (*MapboxGeocoder)(nil)

// MapboxGeocoder resolves addresses with the Mapbox places API.
//
// Lookups are lenient: zero features, transport failures and undecodable
// replies all yield (nil, nil) so callers never block a submission on
// geocoding. Failures are logged at warn and counted.
type MapboxGeocoder struct {
	base   string
	token  string
	client *http.Client
	log    *zerolog.Logger
}

func NewMapboxGeocoder(baseURL, accessToken string, client *http.Client, logger *zerolog.Logger) (*MapboxGeocoder, error) {
	if _, err := url.Parse(baseURL); err != nil || baseURL == "" {
		return nil, fmt.Errorf("invalid mapbox base url %q", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &MapboxGeocoder{
		base:   strings.TrimRight(baseURL, "/"),
		token:  accessToken,
		client: client,
		log:    logger,
	}, nil
}

func (g *MapboxGeocoder) Geocode(ctx context.Context, address string) (*model.Coordinates, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}
	pos, err := g.lookup(ctx, address)
	switch {
	case err != nil:
		metrics.IncGeocode("error")
		logging.With(ctx, g.log).Warn().Err(err).Msg("geocoding failed; continuing without coordinates")
		return nil, nil
	case pos == nil:
		metrics.IncGeocode("miss")
		return nil, nil
	}
	metrics.IncGeocode("hit")
	return pos, nil
}

func (g *MapboxGeocoder) lookup(ctx context.Context, address string) (*model.Coordinates, error) {
	q := url.Values{}
	q.Set("access_token", g.token)
	q.Set("limit", "1")
	target := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s", g.base, url.PathEscape(address), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mapbox http %d", resp.StatusCode)
	}

	var out struct {
		Features []struct {
			Center []float64 `json:"center"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode mapbox reply: %w", err)
	}
	if len(out.Features) == 0 {
		return nil, nil
	}
	c := out.Features[0].Center
	if len(c) < 2 {
		return nil, errors.New("mapbox feature without center")
	}
	// Mapbox orders center as [lng, lat].
	return &model.Coordinates{Lat: c[1], Lng: c[0]}, nil
}
