package station

// Render rebuilds the full marker set from scratch. Stations with nil
// coordinates are silently skipped and never counted; stations hidden by the
// filter are dropped. The length of the result is the user-visible live
// counter. Calling Render twice with unchanged inputs yields the same
// markers in the same order.
func Render(stations []Station, filter FilterState) []Marker {
	markers := make([]Marker, 0, len(stations))
	for _, s := range stations {
		if s.Coord == nil {
			continue
		}
		if !filter.Passes(s) {
			continue
		}
		markers = append(markers, Marker{
			Name:        s.Name,
			Lat:         s.Coord.Lat,
			Lng:         s.Coord.Lng,
			Type:        s.Type,
			Color:       ColorFor(s.Type),
			LastUpdated: s.LastUpdated,
		})
	}
	return markers
}
