// Package transport defines the wire types for the sales map endpoints.
package transport

// Location is one plotted point on the sales map.
type Location struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Tooltip string  `json:"tooltip"`
}

// MapDataResponse is the payload of the map data endpoint.
type MapDataResponse struct {
	Locations []Location `json:"locations"`
}
