package station_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/washmap/washmap/internal/station"
)

func TestColorFor(t *testing.T) {
	highlight := station.ColorFor("wash")

	t.Run("known types share the highlight pair", func(t *testing.T) {
		for _, typ := range []station.StationType{"wash", "SelfService", "TRUCK", "ChargingLocation"} {
			assert.Equal(t, highlight, station.ColorFor(typ), "type %q", typ)
		}
	})

	t.Run("everything else gets the default pair", func(t *testing.T) {
		def := station.ColorFor("")
		assert.NotEqual(t, highlight, def)
		assert.Equal(t, def, station.ColorFor("vacuum"))
		assert.Equal(t, def, station.ColorFor("charging-location"))
	})
}
