// Package planner owns the day-row list of one open trip and
// orchestrates edits: it decides when the pure resolution functions
// run and keeps dependent fields consistent across rows.
package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/pkg/entid"
	"github.com/stellartravel/itinerary-service/internal/place"
	"github.com/stellartravel/itinerary-service/internal/resolver"
	"github.com/stellartravel/itinerary-service/internal/types"
)

var (
	// ErrLastRow rejects deleting the only remaining day.
	ErrLastRow = errors.New("planner: at least one day must remain")
	// ErrRowIndex rejects an out-of-range row index.
	ErrRowIndex = errors.New("planner: row index out of range")
)

// InitialRowCount is how many empty days a fresh session starts with.
const InitialRowCount = 8

var defaultTransport = []string{"charter"}

// Session is the editing state of one open trip: settings, the
// versioned row list, and the location-suggestion history. One session
// has one writer; the mutex only guards against overlapping HTTP
// requests for the same session.
type Session struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	resolver *resolver.Resolver
	store    catalog.Store

	settings    types.TripSettings
	rows        []types.DayRow
	columns     []types.CustomColumn
	history     []string
	historyKeys map[string]bool
	version     int64
}

// NewSession creates a session with the default empty row list.
func NewSession(store catalog.Store, settings types.TripSettings) *Session {
	s := &Session{
		logger:      log.With().Str("component", "planner_session").Logger(),
		resolver:    resolver.New(),
		store:       store,
		settings:    settings.Clone(),
		historyKeys: make(map[string]bool),
	}
	for i := 0; i < InitialRowCount; i++ {
		s.rows = append(s.rows, s.newRow(i+1))
	}
	return s
}

func (s *Session) newRow(dayIndex int) types.DayRow {
	rooms := s.settings.RoomCount
	if rooms <= 0 {
		rooms = 1
	}
	return types.DayRow{
		ID:        entid.New(entid.PrefixRow),
		DayIndex:  dayIndex,
		Date:      types.AddDays(s.settings.StartDate, dayIndex-1),
		Transport: append([]string(nil), defaultTransport...),
		Rooms:     rooms,
	}
}

// Rows returns a deep copy of the current row list.
func (s *Session) Rows() []types.DayRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneRows(s.rows)
}

// Settings returns a copy of the current trip settings.
func (s *Session) Settings() types.TripSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Version increases on every committed edit.
func (s *Session) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// UpdateSettings replaces the trip settings. Costs are not re-derived;
// that is the explicit bulk refresh's job.
func (s *Session) UpdateSettings(settings types.TripSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Clone()
	s.version++
}

// LocationHistory returns the deduplicated place names seen in routes.
func (s *Session) LocationHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// Load replaces settings, rows and custom columns wholesale, e.g. when
// opening a saved trip.
func (s *Session) Load(settings types.TripSettings, rows []types.DayRow, columns []types.CustomColumn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Clone()
	s.rows = types.CloneRows(rows)
	s.columns = append([]types.CustomColumn(nil), columns...)
	s.version++
}

// CustomColumns returns the user-defined cost columns.
func (s *Session) CustomColumns() []types.CustomColumn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.CustomColumn(nil), s.columns...)
}

// RowPatch carries direct field edits that need no resolution. Nil
// pointers leave the field untouched.
type RowPatch struct {
	Date          *string
	Transport     *[]string
	CarModel      *string
	TicketNames   *[]string
	ActivityNames *[]string
	Description   *string
	TransportCost *float64
	HotelCost     *float64
	TicketCost    *float64
	ActivityCost  *float64
	OtherCost     *float64
	CustomCosts   map[string]float64
}

// EditRow applies a direct field patch. Editing a derived cost field
// here is the deliberate manual override: last writer wins.
func (s *Session) EditRow(i int, patch RowPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	r := &s.rows[i]
	if patch.Date != nil {
		r.Date = *patch.Date
	}
	if patch.Transport != nil {
		r.Transport = append([]string(nil), (*patch.Transport)...)
	}
	if patch.CarModel != nil {
		r.CarModel = *patch.CarModel
	}
	if patch.TicketNames != nil {
		r.TicketNames = append([]string(nil), (*patch.TicketNames)...)
	}
	if patch.ActivityNames != nil {
		r.ActivityNames = append([]string(nil), (*patch.ActivityNames)...)
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.TransportCost != nil {
		r.TransportCost = *patch.TransportCost
	}
	if patch.HotelCost != nil {
		r.HotelCost = *patch.HotelCost
	}
	if patch.TicketCost != nil {
		r.TicketCost = *patch.TicketCost
	}
	if patch.ActivityCost != nil {
		r.ActivityCost = *patch.ActivityCost
	}
	if patch.OtherCost != nil {
		r.OtherCost = *patch.OtherCost
	}
	for k, v := range patch.CustomCosts {
		if r.CustomCosts == nil {
			r.CustomCosts = make(map[string]float64)
		}
		r.CustomCosts[k] = v
	}
	s.version++
	return nil
}

// UpdateRoute sets a row's route and, when the route now has a final
// stop and the immediately following row is still unrouted, pre-fills
// that row with "<lastStop>-" as the next day's origin. The prefill
// never cascades past one row. Newly seen place names are appended to
// the suggestion history.
func (s *Session) UpdateRoute(i int, route string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	s.rows[i].Route = route

	places := place.SplitRoute(route)
	if len(places) > 0 && i < len(s.rows)-1 {
		last := places[len(places)-1]
		next := &s.rows[i+1]
		if len(place.SplitRoute(next.Route)) == 0 {
			next.Route = last + "-"
		}
	}
	for _, p := range places {
		key := place.Fold(p)
		if !s.historyKeys[key] {
			s.historyKeys[key] = true
			s.history = append(s.history, p)
		}
	}
	s.version++
	return nil
}

// UpdateHotelName sets a row's hotel name and re-runs only the hotel
// resolution step against the current catalog.
func (s *Session) UpdateHotelName(ctx context.Context, i int, name string) error {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	row := s.rows[i].Clone()
	row.HotelName = name
	row, _ = s.resolver.ResolveHotelName(row, s.settings, snap)
	s.rows[i] = row
	s.version++
	return nil
}

// UpdateRoomType sets a row's room type and re-prices the hotel against
// an entry with exactly that room type.
func (s *Session) UpdateRoomType(ctx context.Context, i int, roomType string) error {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	row := s.rows[i].Clone()
	row.HotelRoomType = roomType
	row, _ = s.resolver.ResolveRoomType(row, s.settings, snap)
	s.rows[i] = row
	s.version++
	return nil
}

// UpdateRooms changes a row's room count and rescales the hotel cost
// from the already-resolved unit price. No catalog lookup happens.
func (s *Session) UpdateRooms(i, rooms int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	r := &s.rows[i]
	r.Rooms = rooms
	r.HotelCost = r.HotelPrice * float64(rooms)
	s.version++
	return nil
}

// RefreshCosts is the explicit bulk refresh: every row is fully
// re-resolved against the current catalog and settings, and the trip's
// default room count, when set, overwrites each row's rooms. The
// per-row match reports are returned for the loose-match indicator.
func (s *Session) RefreshCosts(ctx context.Context) ([]resolver.RowMatch, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]resolver.RowMatch, len(s.rows))
	next := make([]types.DayRow, len(s.rows))
	for i, row := range s.rows {
		r := row.Clone()
		if s.settings.RoomCount > 0 {
			r.Rooms = s.settings.RoomCount
		}
		next[i], matches[i] = s.resolver.ResolveRow(r, s.settings, snap)
	}
	s.rows = next
	s.version++
	s.logger.Info().Int("rows", len(next)).Msg("Bulk cost refresh complete")
	return matches, nil
}

// DeleteRow removes a day and renumbers the remainder: dayIndex becomes
// contiguous 1..N again and each date is re-derived from the trip start
// date. The last remaining row cannot be deleted.
func (s *Session) DeleteRow(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("%w: %d", ErrRowIndex, i)
	}
	if len(s.rows) <= 1 {
		return ErrLastRow
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	for j := range s.rows {
		s.rows[j].DayIndex = j + 1
		s.rows[j].Date = types.AddDays(s.settings.StartDate, j)
	}
	s.version++
	return nil
}

// AppendRow adds a fresh day at the end of the trip.
func (s *Session) AppendRow() types.DayRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.newRow(len(s.rows) + 1)
	s.rows = append(s.rows, row)
	s.version++
	return row.Clone()
}

// Totals are the per-category cost sums across all rows.
type Totals struct {
	Transport float64 `json:"transport"`
	Hotel     float64 `json:"hotel"`
	Ticket    float64 `json:"ticket"`
	Activity  float64 `json:"activity"`
	Other     float64 `json:"other"`
	Custom    float64 `json:"custom"`
	Total     float64 `json:"total"`
}

// Totals sums every cost column over the row list.
func (s *Session) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	var t Totals
	for _, r := range s.rows {
		t.Transport += r.TransportCost
		t.Hotel += r.HotelCost
		t.Ticket += r.TicketCost
		t.Activity += r.ActivityCost
		t.Other += r.OtherCost
		for _, v := range r.CustomCosts {
			t.Custom += v
		}
	}
	t.Total = t.Transport + t.Hotel + t.Ticket + t.Activity + t.Other + t.Custom
	return t
}

// Quote converts the total cost into the customer-facing quote:
// total * exchangeRate / (1 - margin/100), rounded to the nearest
// whole unit. Margins at or above 100% are clamped to zero margin.
func (s *Session) Quote() float64 {
	total := s.Totals().Total
	s.mu.Lock()
	margin := s.settings.MarginPercent
	rate := s.settings.ExchangeRate
	s.mu.Unlock()
	if rate == 0 {
		rate = 1
	}
	if margin < 0 || margin >= 100 {
		margin = 0
	}
	return math.Round(total * rate / (1 - margin/100))
}
