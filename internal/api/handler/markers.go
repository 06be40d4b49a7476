package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/washmap/washmap/internal/api/middleware"
	"github.com/washmap/washmap/internal/api/models"
	"github.com/washmap/washmap/internal/api/response"
	"github.com/washmap/washmap/internal/station"
	"github.com/washmap/washmap/internal/station/upstream"
)

// StationSource supplies raw station records, satisfied by *upstream.Client.
type StationSource interface {
	Fetch(ctx context.Context) ([]station.RawRecord, error)
}

// MarkersHandler runs the full pipeline server-side: fetch, normalize,
// filter, render. The marker set is rebuilt from scratch on every request.
type MarkersHandler struct {
	source     StationSource
	normalizer *station.Normalizer
}

// NewMarkersHandler creates a MarkersHandler.
func NewMarkersHandler(source StationSource) *MarkersHandler {
	return &MarkersHandler{
		source:     source,
		normalizer: station.NewNormalizer(),
	}
}

// List handles GET /api/markers. Hide flags arrive as boolean query
// parameters (hideWash, hideSelfService, hideTruck, hideChargingLocation).
func (h *MarkersHandler) List(w http.ResponseWriter, r *http.Request) {
	raws, err := h.source.Fetch(r.Context())
	if err != nil {
		var statusErr *upstream.StatusError
		switch {
		case errors.As(err, &statusErr):
			// Transparent: the upstream code is the client's error.
			response.Error(w, r, &models.Problem{
				Type:    models.ProblemTypeBadGateway,
				Title:   "Upstream error",
				Status:  statusErr.Code,
				Detail:  "station service returned " + http.StatusText(statusErr.Code),
				TraceID: middleware.GetRequestID(r.Context()),
			})
		case errors.Is(err, upstream.ErrBadFormat):
			response.BadGateway(w, r, "station service returned an unexpected payload")
		default:
			response.BadGateway(w, r, "station service unreachable")
		}
		return
	}

	stations := h.normalizer.NormalizeAll(raws)
	filter := filterFromQuery(r)
	markers := station.Render(stations, filter)

	response.JSON(w, r, http.StatusOK, models.MarkerSet{
		Count:   len(markers),
		Total:   len(stations),
		Markers: markers,
	})
}

func filterFromQuery(r *http.Request) station.FilterState {
	q := r.URL.Query()
	flag := func(name string) bool {
		return q.Get(name) == "true" || q.Get(name) == "1"
	}
	return station.FilterState{
		HideWash:             flag("hideWash"),
		HideSelfService:      flag("hideSelfService"),
		HideTruck:            flag("hideTruck"),
		HideChargingLocation: flag("hideChargingLocation"),
	}
}
