// Package session owns the state of one map view: the normalized station
// list, the type filter flags and the search session. All state lives on the
// Session; the pipeline functions it calls (normalize, filter, render) are
// pure.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/washmap/washmap/internal/search"
	"github.com/washmap/washmap/internal/station"
)

// StationSource supplies raw station records, satisfied by *upstream.Client.
type StationSource interface {
	Fetch(ctx context.Context) ([]station.RawRecord, error)
}

// Config holds the collaborators of a Session.
type Config struct {
	Stations   StationSource
	Normalizer *station.Normalizer
	Searcher   *search.Searcher
	Logger     zerolog.Logger
}

// Session holds the per-page-view state. It lives for the duration of one
// map view; nothing is persisted.
type Session struct {
	source     StationSource
	normalizer *station.Normalizer
	searcher   *search.Searcher
	log        zerolog.Logger

	mu       sync.Mutex
	stations []station.Station
	filter   station.FilterState
}

// New creates an empty session.
func New(cfg Config) *Session {
	normalizer := cfg.Normalizer
	if normalizer == nil {
		normalizer = station.NewNormalizer()
	}
	return &Session{
		source:     cfg.Stations,
		normalizer: normalizer,
		searcher:   cfg.Searcher,
		log:        cfg.Logger,
	}
}

// Load fetches and normalizes the station list. A format error or upstream
// failure is fatal for the load: the list is cleared and the error returned
// once, leaving the retry decision to the caller. Per-field coercion
// failures are never fatal; records with unusable coordinates stay in the
// list so later filter changes can re-render without refetching.
func (s *Session) Load(ctx context.Context) error {
	raws, err := s.source.Fetch(ctx)
	if err != nil {
		s.mu.Lock()
		s.stations = nil
		s.mu.Unlock()
		return fmt.Errorf("load stations: %w", err)
	}

	stations := s.normalizer.NormalizeAll(raws)

	s.mu.Lock()
	s.stations = stations
	s.mu.Unlock()

	s.log.Info().Int("stations", len(stations)).Msg("station list loaded")
	return nil
}

// SetFilter replaces the hide flags. The next Markers call rebuilds the full
// marker set from scratch.
func (s *Session) SetFilter(f station.FilterState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Filter returns the current hide flags.
func (s *Session) Filter() station.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Stations returns a copy of the normalized station list, including
// stations without usable coordinates.
func (s *Session) Stations() []station.Station {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]station.Station, len(s.stations))
	copy(out, s.stations)
	return out
}

// Markers rebuilds the visible marker set. Idempotent for unchanged state.
func (s *Session) Markers() []station.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return station.Render(s.stations, s.filter)
}

// VisibleCount is the live counter shown to the user: stations with valid
// coordinates that pass the type filter.
func (s *Session) VisibleCount() int {
	return len(s.Markers())
}

// Searcher exposes the search session bound to this map view.
func (s *Session) Searcher() *search.Searcher {
	return s.searcher
}
