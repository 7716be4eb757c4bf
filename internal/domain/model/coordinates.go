package model

import "fmt"

// Coordinates is a WGS84 point. Mapbox reports [lng, lat]; callers convert.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Label renders the point the way the search bar shows a device location.
func (c Coordinates) Label() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}
