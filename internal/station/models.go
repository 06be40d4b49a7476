// Package station provides the station normalization, filtering and marker
// rendering pipeline for the washmap API.
package station

import "time"

// FallbackName is used when a raw record carries no recognizable name field.
const FallbackName = "unknown station"

// StationType is the canonical station category as reported by the upstream.
// An empty value means the upstream did not report a type.
type StationType string

// Known station types. Anything else (including the empty type) is treated
// as unknown: never hidden by a filter flag, never highlighted.
const (
	TypeWash             StationType = "wash"
	TypeSelfService      StationType = "selfservice"
	TypeTruck            StationType = "truck"
	TypeChargingLocation StationType = "charginglocation"
)

// RawRecord is an untyped station record exactly as decoded from the
// upstream payload. No schema is assumed beyond best-effort field lookup.
type RawRecord map[string]any

// Coordinate is a validated geographic position. Both fields are finite.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Station is the canonical form of a raw upstream record.
//
// Coord is nil when the record carried no usable coordinate pair; such
// stations are kept in the session list but never rendered. LastUpdated is a
// display-only value and defaults to the normalization time.
type Station struct {
	Name        string      `json:"name"`
	Coord       *Coordinate `json:"coord,omitempty"`
	Type        StationType `json:"stationType,omitempty"`
	LastUpdated time.Time   `json:"lastUpdated"`
}

// FilterState holds the four independent hide flags, one per known station
// type. The filter is allow-by-default: a flag can only hide stations whose
// type matches its literal exactly (trimmed, lower-cased).
type FilterState struct {
	HideWash             bool `json:"hideWash"`
	HideSelfService      bool `json:"hideSelfService"`
	HideTruck            bool `json:"hideTruck"`
	HideChargingLocation bool `json:"hideChargingLocation"`
}

// Marker is a renderable station: valid coordinates, passed the type filter,
// classified into a color pair.
type Marker struct {
	Name        string      `json:"name"`
	Lat         float64     `json:"lat"`
	Lng         float64     `json:"lng"`
	Type        StationType `json:"stationType,omitempty"`
	Color       ColorPair   `json:"color"`
	LastUpdated time.Time   `json:"lastUpdated"`
}
