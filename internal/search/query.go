// Package search maps a provider search intent to and from the URL query
// string that drives the search page.
package search

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query keys understood by the providers list endpoint.
const (
	KeyCategory  = "category"
	KeyQuery     = "q"
	KeyLat       = "lat"
	KeyLng       = "lng"
	KeyMinRating = "min_rating"
	KeyPerPage   = "per_page"
)

// Path is the search page route.
const Path = "/search"

// Intent is a structured provider search. Empty strings and nil pointers
// mean the field is absent.
type Intent struct {
	Category string
	Location string
	Lat      *float64
	Lng      *float64
}

// field binds an Intent field to its query key. Table order is encode order.
type field struct {
	key string
	get func(Intent) (string, bool)
	set func(*Intent, string) error
}

var fields = []field{
	{
		key: KeyCategory,
		get: func(i Intent) (string, bool) { return i.Category, i.Category != "" },
		set: func(i *Intent, v string) error { i.Category = v; return nil },
	},
	{
		// location travels as "q"; the backend filters on that name.
		key: KeyQuery,
		get: func(i Intent) (string, bool) { return i.Location, i.Location != "" },
		set: func(i *Intent, v string) error { i.Location = v; return nil },
	},
	{
		key: KeyLat,
		get: func(i Intent) (string, bool) { return formatCoord(i.Lat) },
		set: func(i *Intent, v string) error { return parseCoord(v, &i.Lat) },
	},
	{
		key: KeyLng,
		get: func(i Intent) (string, bool) { return formatCoord(i.Lng) },
		set: func(i *Intent, v string) error { return parseCoord(v, &i.Lng) },
	},
}

func formatCoord(p *float64) (string, bool) {
	if p == nil {
		return "", false
	}
	return strconv.FormatFloat(*p, 'f', -1, 64), true
}

func parseCoord(v string, dst **float64) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %q: %w", v, err)
	}
	*dst = &f
	return nil
}

// IsZero reports whether no field is present.
func (i Intent) IsZero() bool {
	for _, f := range fields {
		if _, ok := f.get(i); ok {
			return false
		}
	}
	return true
}

// WithCoordinates returns a copy of i carrying lat and lng.
func (i Intent) WithCoordinates(lat, lng float64) Intent {
	i.Lat, i.Lng = &lat, &lng
	return i
}

// Encode emits the present fields as a query string in the order
// category, q, lat, lng. Values are escaped; keys are never sorted.
func Encode(i Intent) string {
	var parts []string
	for _, f := range fields {
		if v, ok := f.get(i); ok {
			parts = append(parts, f.key+"="+url.QueryEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

// Route is the search page path for i.
func Route(i Intent) string {
	if q := Encode(i); q != "" {
		return Path + "?" + q
	}
	return Path
}

// CategoryRoute is the route a category tile navigates to.
func CategoryRoute(slug string) string {
	return Route(Intent{Category: slug})
}

// Param is one query pair.
type Param struct {
	Key   string
	Value string
}

// Params is a decoded query in its original order.
type Params []Param

// Get returns the first value for key.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, kv := range p {
		keys = append(keys, kv.Key)
	}
	return keys
}

// Values converts p into the parameter object taken by the API client.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for _, kv := range p {
		v.Add(kv.Key, kv.Value)
	}
	return v
}

// Decode parses a query string (with or without a leading "?") into the
// parameters passed verbatim to the providers list call. Pairs with an
// empty value are dropped, matching Encode's notion of absence.
func Decode(query string) (Params, error) {
	query = strings.TrimPrefix(query, "?")
	var out Params
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("decode key %q: %w", k, err)
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		if key == "" || val == "" {
			continue
		}
		out = append(out, Param{Key: key, Value: val})
	}
	return out, nil
}

// DecodeIntent rebuilds the Intent from a query string. Keys outside the
// intent (min_rating, page, ...) are ignored.
func DecodeIntent(query string) (Intent, error) {
	params, err := Decode(query)
	if err != nil {
		return Intent{}, err
	}
	var i Intent
	for _, f := range fields {
		v, ok := params.Get(f.key)
		if !ok {
			continue
		}
		if err := f.set(&i, v); err != nil {
			return Intent{}, err
		}
	}
	return i, nil
}

// SplitRoute separates "/search?x=y" into path and raw query.
func SplitRoute(route string) (path, query string) {
	path, query, _ = strings.Cut(route, "?")
	return path, query
}
