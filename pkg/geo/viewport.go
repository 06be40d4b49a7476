// Package geo provides small geographic primitives for map viewport math.
package geo

// Point is a geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BBox is a rectangular geographic region expressed as south/north/west/east
// bounds, matching the order geocoding services report bounding boxes in.
type BBox struct {
	South float64 `json:"south"`
	North float64 `json:"north"`
	West  float64 `json:"west"`
	East  float64 `json:"east"`
}

// Pad expands the box by the given fraction of its height and width on every
// side. A zero-area box is returned unchanged.
func (b BBox) Pad(fraction float64) BBox {
	dLat := (b.North - b.South) * fraction
	dLng := (b.East - b.West) * fraction
	return BBox{
		South: b.South - dLat,
		North: b.North + dLat,
		West:  b.West - dLng,
		East:  b.East + dLng,
	}
}

// Center returns the midpoint of the box.
func (b BBox) Center() Point {
	return Point{
		Lat: (b.South + b.North) / 2,
		Lng: (b.West + b.East) / 2,
	}
}

// Viewport describes where the map surface should look. Bounds is set when
// the viewport was fitted to a region; otherwise Center/Zoom apply.
type Viewport struct {
	Center Point `json:"center"`
	Zoom   int   `json:"zoom"`
	Bounds *BBox `json:"bounds,omitempty"`
}

// DefaultPadding is the fraction a fitted bounding box is expanded by so the
// region does not touch the viewport edges.
const DefaultPadding = 0.1

// FocusZoom is the fixed zoom level used when centering on a single point.
const FocusZoom = 14

// FitBounds returns a viewport covering the box expanded by the padding
// fraction.
func FitBounds(b BBox, padding float64) Viewport {
	padded := b.Pad(padding)
	return Viewport{
		Center: padded.Center(),
		Bounds: &padded,
	}
}

// CenterOn returns a viewport centered on a point at the given zoom.
func CenterOn(p Point, zoom int) Viewport {
	return Viewport{Center: p, Zoom: zoom}
}
