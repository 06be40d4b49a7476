package station

// ColorPair is the stroke/fill pair used when drawing a station marker.
type ColorPair struct {
	Stroke string `json:"stroke"`
	Fill   string `json:"fill"`
}

// Highlight and default marker colors. This is a two-way classification,
// not a palette: a type must be in the known set to get the highlight pair.
var (
	highlightColor = ColorPair{Stroke: "#1d4ed8", Fill: "#3b82f6"}
	defaultColor   = ColorPair{Stroke: "#374151", Fill: "#9ca3af"}
)

// ColorFor classifies a station type into its marker colors. The four known
// literals get the highlight pair; everything else, including unknown and
// future types, silently gets the default pair.
func ColorFor(t StationType) ColorPair {
	switch StationType(canonicalType(t)) {
	case TypeWash, TypeSelfService, TypeTruck, TypeChargingLocation:
		return highlightColor
	default:
		return defaultColor
	}
}
