// Package search implements the debounced geocode search session: a small
// state machine over free-text input, a result list with keyboard
// navigation, and viewport selection.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/washmap/washmap/internal/geocode"
	"github.com/washmap/washmap/pkg/geo"
)

// State is the current phase of the search session.
type State string

const (
	// StateIdle means no query is pending; input is below the minimum length.
	StateIdle State = "idle"
	// StateSearching means a query has been dispatched and no result for it
	// has been accepted yet.
	StateSearching State = "searching"
	// StateListed means the latest query returned at least one result.
	StateListed State = "listed"
	// StateNoResults means the latest query returned an empty list.
	StateNoResults State = "no-results"
	// StateError means the latest query failed. The list is closed and the
	// failure is logged only; typing continues undisturbed.
	StateError State = "error"
)

// DefaultDebounce is the quiet period after the last input event before a
// query is dispatched. Trailing-edge: only the last event in the window
// fires.
const DefaultDebounce = 300 * time.Millisecond

// Geocoder is the lookup backend, satisfied by *geocode.Client.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]geocode.Result, error)
}

// Config holds configuration for a Searcher.
type Config struct {
	Geocoder Geocoder

	// Debounce overrides DefaultDebounce.
	Debounce time.Duration

	// MinQueryLength overrides geocode.MinQueryLength.
	MinQueryLength int

	Logger zerolog.Logger
}

// Searcher owns the search state for one map session. Input events restart
// the debounce timer; only the last event within the window triggers a
// query. An in-flight request is never cancelled, but every input event takes
// a monotonically increasing sequence number when it schedules its query, and
// a dispatch or response whose number is stale is discarded. Only the most
// recent input's results are ever displayed, even when an older timer fires
// after newer input arrived.
type Searcher struct {
	geocoder Geocoder
	debounce time.Duration
	minLen   int
	log      zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	query   string
	state   State
	results []geocode.Result
	active  int
	open    bool
}

// NewSearcher creates a Searcher in the idle state.
func NewSearcher(cfg Config) *Searcher {
	debounce := cfg.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	minLen := cfg.MinQueryLength
	if minLen == 0 {
		minLen = geocode.MinQueryLength
	}
	return &Searcher{
		geocoder: cfg.Geocoder,
		debounce: debounce,
		minLen:   minLen,
		log:      cfg.Logger,
		state:    StateIdle,
	}
}

// Input feeds a new value of the text field. Input shorter than the minimum
// length (after trimming) short-circuits: the pending timer is stopped, the
// list is discarded and the session returns to idle without any lookup.
func (s *Searcher) Input(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = text
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < s.minLen {
		// Invalidate any in-flight query so a late response cannot
		// resurface a list the user already cleared.
		s.seq++
		s.state = StateIdle
		s.results = nil
		s.active = 0
		s.open = false
		return
	}

	s.seq++
	seq := s.seq
	s.timer = time.AfterFunc(s.debounce, func() {
		s.dispatch(ctx, trimmed, seq)
	})
}

// dispatch runs one query and applies its outcome unless newer input arrived
// in the meantime. The sequence check runs twice: before the lookup, for a
// timer that fired just as it was being replaced, and after, for a response
// overtaken while in flight.
func (s *Searcher) dispatch(ctx context.Context, query string, seq uint64) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.state = StateSearching
	s.mu.Unlock()

	results, err := s.geocoder.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		// Superseded by a newer query; last query wins, not last response.
		return
	}

	if err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("geocode search failed")
		s.state = StateError
		s.results = nil
		s.active = 0
		s.open = false
		return
	}

	s.results = results
	s.active = 0
	if len(results) == 0 {
		s.state = StateNoResults
		s.open = false
		return
	}
	s.state = StateListed
	s.open = true
}

// MoveDown advances the active index, wrapping past the end of the list.
func (s *Searcher) MoveDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || len(s.results) == 0 {
		return
	}
	s.active = (s.active + 1) % len(s.results)
}

// MoveUp retreats the active index, wrapping past the start of the list.
func (s *Searcher) MoveUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || len(s.results) == 0 {
		return
	}
	s.active = (s.active - 1 + len(s.results)) % len(s.results)
}

// Commit selects the active result and closes the list. The second return
// is false when no list is open.
func (s *Searcher) Commit() (geocode.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open || len(s.results) == 0 {
		return geocode.Result{}, false
	}
	result := s.results[s.active]
	s.open = false
	return result, true
}

// Escape closes the list without clearing the typed text.
func (s *Searcher) Escape() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// Select returns the viewport for a chosen result: the padded bounding box
// when present, otherwise the point at the fixed focus zoom.
func (s *Searcher) Select(r geocode.Result) geo.Viewport {
	return r.Viewport()
}

// State returns the current phase.
func (s *Searcher) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Query returns the current text field value.
func (s *Searcher) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Open reports whether the result list is visible.
func (s *Searcher) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// ActiveIndex returns the keyboard-highlighted result index.
func (s *Searcher) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Results returns a copy of the current result list.
func (s *Searcher) Results() []geocode.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]geocode.Result, len(s.results))
	copy(out, s.results)
	return out
}
