package station

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Normalizer converts raw upstream records into canonical Stations. It is
// total: every record yields a best-effort Station, malformed fields resolve
// to their fallbacks. The clock is injected so normalization stays pure and
// repeatable in tests.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a Normalizer using the wall clock.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewNormalizerAt creates a Normalizer with a fixed clock, for tests and
// replays.
func NewNormalizerAt(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize converts one raw record. It never fails.
func (n *Normalizer) Normalize(raw RawRecord) Station {
	return Station{
		Name:        resolveName(raw),
		Coord:       resolveCoord(raw),
		Type:        resolveType(raw),
		LastUpdated: n.resolveLastUpdated(raw),
	}
}

// NormalizeAll converts a whole upstream batch, keeping record order.
// Records with unusable coordinates are retained (Coord == nil) so the list
// can be re-filtered later without refetching.
func (n *Normalizer) NormalizeAll(raws []RawRecord) []Station {
	stations := make([]Station, 0, len(raws))
	for _, raw := range raws {
		stations = append(stations, n.Normalize(raw))
	}
	return stations
}

// nested returns the sub-object at key, if present and object-shaped.
func nested(raw RawRecord, key string) RawRecord {
	if sub, ok := raw[key].(map[string]any); ok {
		return RawRecord(sub)
	}
	return nil
}

// stringField returns the first non-empty string under any of the keys.
func stringField(raw RawRecord, keys ...string) (string, bool) {
	if raw == nil {
		return "", false
	}
	for _, key := range keys {
		if s, ok := raw[key].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func resolveName(raw RawRecord) string {
	if name, ok := stringField(nested(raw, "station"), "name"); ok {
		return name
	}
	if name, ok := stringField(raw, "name", "title", "stationName"); ok {
		return name
	}
	return FallbackName
}

var (
	latKeys = []string{"latitude", "lat", "Latitude", "Lat"}
	lngKeys = []string{"longitude", "lng", "Longitude", "Lng"}
)

// resolveCoord walks the geolocation candidates in priority order and
// returns the first usable pair. Either both axes parse or the result is nil.
func resolveCoord(raw RawRecord) *Coordinate {
	candidates := []RawRecord{
		nested(nested(raw, "station"), "geolocation"),
		nested(raw, "geolocation"),
		nested(raw, "geo"),
		raw,
	}
	for _, geo := range candidates {
		if geo == nil {
			continue
		}
		lat, latOK := numberField(geo, latKeys...)
		lng, lngOK := numberField(geo, lngKeys...)
		if latOK && lngOK {
			return &Coordinate{Lat: lat, Lng: lng}
		}
	}
	// Last resort: the capitalized top-level spelling some feeds use.
	lat, latOK := numberField(raw, "lat", "Latitude")
	lng, lngOK := numberField(raw, "lng", "Longitude")
	if latOK && lngOK {
		return &Coordinate{Lat: lat, Lng: lng}
	}
	return nil
}

// numberField returns the first coercible finite number under any of the keys.
func numberField(raw RawRecord, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if f, ok := coerceNumber(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// coerceNumber accepts finite numeric values and numeric strings.
// Decimal-comma strings ("59,91") are converted before parsing. Anything
// else is treated as absent.
func coerceNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case float32:
		return coerceNumber(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.Replace(x, ",", ".", 1), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func resolveType(raw RawRecord) StationType {
	if t, ok := stringField(nested(raw, "station"), "stationType"); ok {
		return StationType(t)
	}
	if t, ok := stringField(raw, "stationType"); ok {
		return StationType(t)
	}
	return ""
}

// canonicalType lower-cases and trims a station type for comparison against
// the known literals.
func canonicalType(t StationType) string {
	return strings.ToLower(strings.TrimSpace(string(t)))
}

var timestampKeys = []string{"lastUpdated", "updatedAt", "modified", "lastModified"}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// resolveLastUpdated parses the first recognizable timestamp field. The
// value is display-only, so unparsable input falls back to the clock.
func (n *Normalizer) resolveLastUpdated(raw RawRecord) time.Time {
	for _, key := range timestampKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if ts, ok := coerceTimestamp(v); ok {
			return ts
		}
	}
	return n.now()
}

func coerceTimestamp(v any) (time.Time, bool) {
	switch x := v.(type) {
	case string:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, x); err == nil {
				return ts, true
			}
		}
	case float64:
		// Unix seconds, or milliseconds for feeds that send epoch millis.
		if x > 1e12 {
			return time.UnixMilli(int64(x)), true
		}
		if x > 0 {
			return time.Unix(int64(x), 0), true
		}
	}
	return time.Time{}, false
}
