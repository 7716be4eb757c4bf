//go:build !integration

package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"localservices-frontend/internal/config"
	"localservices-frontend/internal/domain"
	"localservices-frontend/internal/domain/model"
)

func newGeocoder(t *testing.T, h http.HandlerFunc) *MapboxGeocoder {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	g, err := NewMapboxGeocoder(srv.URL, "pk.test", srv.Client(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestMapboxGeocoder(t *testing.T) {
	ctx := context.Background()

	t.Run("returns first feature with lat/lng swapped from center", func(t *testing.T) {
		var path, token, limit string
		g := newGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.EscapedPath()
			token = r.URL.Query().Get("access_token")
			limit = r.URL.Query().Get("limit")
			_, _ = w.Write([]byte(`{"features":[{"center":[3.3792,6.5244]},{"center":[0,0]}]}`))
		})
		got, err := g.Geocode(ctx, "Lagos Island")
		if err != nil {
			t.Fatal(err)
		}
		want := &model.Coordinates{Lat: 6.5244, Lng: 3.3792}
		if got == nil || *got != *want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
		if path != "/geocoding/v5/mapbox.places/Lagos%20Island.json" {
			t.Errorf("unexpected path %q", path)
		}
		if token != "pk.test" || limit != "1" {
			t.Errorf("unexpected query token=%q limit=%q", token, limit)
		}
	})

	t.Run("zero features is absent", func(t *testing.T) {
		g := newGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"features":[]}`))
		})
		got, err := g.Geocode(ctx, "nowhere")
		if err != nil || got != nil {
			t.Fatalf("expected nil, nil; got %+v, %v", got, err)
		}
	})

	t.Run("server error is swallowed into absent", func(t *testing.T) {
		g := newGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		got, err := g.Geocode(ctx, "Abuja")
		if err != nil || got != nil {
			t.Fatalf("expected nil, nil; got %+v, %v", got, err)
		}
	})

	t.Run("transport error is swallowed into absent", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		g, err := NewMapboxGeocoder(srv.URL, "pk", nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		got, err := g.Geocode(ctx, "Abuja")
		if err != nil || got != nil {
			t.Fatalf("expected nil, nil; got %+v, %v", got, err)
		}
	})

	t.Run("blank address skips the lookup", func(t *testing.T) {
		called := false
		g := newGeocoder(t, func(w http.ResponseWriter, r *http.Request) { called = true })
		got, _ := g.Geocode(ctx, "   ")
		if got != nil || called {
			t.Fatalf("expected no lookup, got %+v called=%v", got, called)
		}
	})
}

func TestLocators(t *testing.T) {
	ctx := context.Background()

	t.Run("fixed locator returns its position", func(t *testing.T) {
		l := LocatorFromConfig(config.FixedLocation(6.5, 3.4))
		got, err := l.CurrentLocation(ctx)
		if err != nil || got != (model.Coordinates{Lat: 6.5, Lng: 3.4}) {
			t.Fatalf("got %+v, %v", got, err)
		}
	})

	t.Run("null island is a configured position", func(t *testing.T) {
		l := LocatorFromConfig(config.FixedLocation(0, 0))
		got, err := l.CurrentLocation(ctx)
		if err != nil || got != (model.Coordinates{}) {
			t.Fatalf("got %+v, %v", got, err)
		}
	})

	t.Run("unconfigured location is unsupported", func(t *testing.T) {
		l := LocatorFromConfig(config.LocationConfig{})
		if _, err := l.CurrentLocation(ctx); !errors.Is(err, domain.ErrGeolocationUnsupported) {
			t.Fatalf("expected ErrGeolocationUnsupported, got %v", err)
		}
	})

	t.Run("cancelled context wins", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := NewFixedLocator(model.Coordinates{Lat: 1}).CurrentLocation(cctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
