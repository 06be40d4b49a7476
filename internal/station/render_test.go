package station_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washmap/washmap/internal/station"
)

func TestRender_SkipsStationsWithoutCoordinates(t *testing.T) {
	stations := []station.Station{
		{Name: "visible", Coord: &station.Coordinate{Lat: 59.9, Lng: 10.7}},
		{Name: "no coords"},
	}

	markers := station.Render(stations, station.FilterState{})
	require.Len(t, markers, 1)
	assert.Equal(t, "visible", markers[0].Name)
}

func TestRender_AppliesFilterAndColors(t *testing.T) {
	stations := []station.Station{
		{Name: "w", Coord: &station.Coordinate{Lat: 1, Lng: 1}, Type: "Wash"},
		{Name: "t", Coord: &station.Coordinate{Lat: 2, Lng: 2}, Type: "Truck"},
		{Name: "u", Coord: &station.Coordinate{Lat: 3, Lng: 3}, Type: "kiosk"},
	}

	markers := station.Render(stations, station.FilterState{HideWash: true})
	require.Len(t, markers, 2)
	assert.Equal(t, "t", markers[0].Name)
	assert.Equal(t, station.ColorFor("Truck"), markers[0].Color)
	assert.Equal(t, "u", markers[1].Name)
	assert.Equal(t, station.ColorFor("kiosk"), markers[1].Color)
}

func TestRender_Idempotent(t *testing.T) {
	stations := []station.Station{
		{Name: "a", Coord: &station.Coordinate{Lat: 1, Lng: 1}, Type: "Wash", LastUpdated: time.Unix(0, 0)},
		{Name: "b", Coord: &station.Coordinate{Lat: 2, Lng: 2}, Type: "Truck", LastUpdated: time.Unix(0, 0)},
		{Name: "c"},
	}
	filter := station.FilterState{HideTruck: true}

	first := station.Render(stations, filter)
	second := station.Render(stations, filter)
	assert.Equal(t, first, second)
	assert.Len(t, first, 1)
}

// Raw records through normalize, filter and render, end to end: A is hidden
// by the wash flag, B has an unusable latitude, so nothing is visible.
func TestPipeline_EndToEnd(t *testing.T) {
	n := testNormalizer()

	raws := []station.RawRecord{
		{"name": "A", "lat": "60,1", "lng": "10,2", "stationType": "Wash"},
		{"name": "B", "lat": "not-a-number", "lng": "5", "stationType": "Truck"},
	}

	stations := n.NormalizeAll(raws)
	require.Len(t, stations, 2)

	markers := station.Render(stations, station.FilterState{HideWash: true})
	assert.Empty(t, markers)

	// Dropping the flag brings A back without refetching.
	markers = station.Render(stations, station.FilterState{})
	require.Len(t, markers, 1)
	assert.Equal(t, "A", markers[0].Name)
}
