package models

import (
	"time"

	"github.com/washmap/washmap/internal/station"
)

// HealthStatus is the overall service status.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
)

// Health is the liveness response body.
type Health struct {
	Status  HealthStatus   `json:"status"`
	Time    time.Time      `json:"time"`
	Details map[string]any `json:"details,omitempty"`
}

// MarkerSet is the response body of the markers endpoint: the visible
// markers plus the live counter surfaced to the user. Total counts every
// normalized station, including those excluded from rendering.
type MarkerSet struct {
	Count   int              `json:"count"`
	Total   int              `json:"total"`
	Markers []station.Marker `json:"markers"`
}
