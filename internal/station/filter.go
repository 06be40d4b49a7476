package station

// Passes reports whether a station is eligible for display under the current
// hide flags. A station is excluded iff its type, compared case-insensitively
// after trimming, equals one of the four known literals whose flag is set.
// Stations without a type always pass: they cannot be hidden by type.
func (f FilterState) Passes(s Station) bool {
	switch StationType(canonicalType(s.Type)) {
	case TypeWash:
		return !f.HideWash
	case TypeSelfService:
		return !f.HideSelfService
	case TypeTruck:
		return !f.HideTruck
	case TypeChargingLocation:
		return !f.HideChargingLocation
	default:
		return true
	}
}
