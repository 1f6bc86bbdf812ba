// Package promotion copies entries from an open trip into the shared
// catalog: route places become cities, and the row's hotel, tickets and
// activities become priced catalog entries under the right city.
package promotion

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/place"
	"github.com/stellartravel/itinerary-service/internal/types"
)

// Kind selects what part of a day row gets promoted.
type Kind string

const (
	KindRoute    Kind = "route"
	KindHotel    Kind = "hotel"
	KindTicket   Kind = "ticket"
	KindActivity Kind = "activity"
)

// DefaultRoomType is the room type every promoted hotel entry is
// created under, whatever the row says.
const DefaultRoomType = "Standard"

var (
	// ErrCountryRequired means no target country was given and none
	// could be inferred from the row or the trip settings.
	ErrCountryRequired = errors.New("promotion: target country required")
	ErrUnknownKind     = errors.New("promotion: unknown kind")
)

// Outcome reports what a promotion actually did. Re-promoting an
// unchanged row yields only Duplicates.
type Outcome struct {
	Added       []string `json:"added"`
	Duplicates  []string `json:"duplicates"`
	CityRenamed bool     `json:"cityRenamed"`
}

// Service writes promoted entries through the catalog store.
type Service struct {
	logger zerolog.Logger
	store  catalog.Store
}

func New(store catalog.Store) *Service {
	return &Service{
		logger: log.With().Str("component", "promotion_service").Logger(),
		store:  store,
	}
}

// SuggestCountry guesses the target country for a row: the country of
// the first route place already in the catalog, else the trip's first
// destination.
func SuggestCountry(row types.DayRow, snap catalog.Snapshot, destinations []string) string {
	for _, p := range place.SplitRoute(row.Route) {
		for _, c := range snap.Cities {
			if place.Matches(p, c.Name) {
				return c.Country
			}
		}
	}
	if len(destinations) > 0 {
		return destinations[0]
	}
	return ""
}

// Promote copies the selected part of the row into the catalog under
// the given country. An empty country falls back to SuggestCountry and
// fails with ErrCountryRequired if that also comes up empty.
func (s *Service) Promote(ctx context.Context, kind Kind, row types.DayRow, country string, set types.TripSettings) (Outcome, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if country == "" {
		country = SuggestCountry(row, snap, set.Destinations)
	}
	if country == "" {
		return Outcome{}, ErrCountryRequired
	}

	var out Outcome
	switch kind {
	case KindRoute:
		err = s.promoteRoute(ctx, row, country, &snap, &out)
	case KindHotel:
		err = s.promoteHotel(ctx, row, country, &snap, &out)
	case KindTicket:
		err = s.promoteItems(ctx, row.TicketNames, row.TicketCost, row, country, set, &snap, &out, s.createSpot, spotExists)
	case KindActivity:
		err = s.promoteItems(ctx, row.ActivityNames, row.ActivityCost, row, country, set, &snap, &out, s.createActivity, activityExists)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return Outcome{}, err
	}
	s.logger.Info().
		Str("kind", string(kind)).
		Str("country", country).
		Int("added", len(out.Added)).
		Int("duplicates", len(out.Duplicates)).
		Msg("Promotion complete")
	return out, nil
}

func (s *Service) promoteRoute(ctx context.Context, row types.DayRow, country string, snap *catalog.Snapshot, out *Outcome) error {
	for _, name := range place.SplitRoute(row.Route) {
		_, created, renamed, err := s.ensureCity(ctx, name, country, snap)
		if err != nil {
			return err
		}
		switch {
		case created:
			out.Added = append(out.Added, name)
		case renamed:
			// An alias upgrade is neither an add nor a duplicate.
			out.CityRenamed = true
		default:
			out.Duplicates = append(out.Duplicates, name)
		}
	}
	return nil
}

func (s *Service) promoteHotel(ctx context.Context, row types.DayRow, country string, snap *catalog.Snapshot, out *Outcome) error {
	if row.HotelName == "" {
		return nil
	}
	cityID, err := s.anchorCity(ctx, row, country, snap, out)
	if err != nil {
		return err
	}
	// Dedup is by name within the city, ignoring room types.
	for _, h := range snap.Hotels {
		if h.CityID == cityID && h.Name == row.HotelName {
			out.Duplicates = append(out.Duplicates, row.HotelName)
			return nil
		}
	}
	created, err := s.store.CreateHotel(ctx, types.Hotel{
		CityID:   cityID,
		Name:     row.HotelName,
		RoomType: DefaultRoomType,
		Price:    row.HotelPrice,
	})
	if err != nil {
		return err
	}
	snap.Hotels = append(snap.Hotels, created)
	out.Added = append(out.Added, row.HotelName)
	return nil
}

// promoteItems handles tickets and activities: both become per-person
// catalog entries priced by splitting the row's cost evenly across the
// names and the headcount.
func (s *Service) promoteItems(
	ctx context.Context,
	names []string,
	cost float64,
	row types.DayRow,
	country string,
	set types.TripSettings,
	snap *catalog.Snapshot,
	out *Outcome,
	create func(context.Context, *catalog.Snapshot, string, string, float64) error,
	exists func(catalog.Snapshot, string, string) bool,
) error {
	if len(names) == 0 {
		return nil
	}
	cityID, err := s.anchorCity(ctx, row, country, snap, out)
	if err != nil {
		return err
	}
	unit := unitPrice(cost, set.PeopleCount, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if exists(*snap, cityID, name) {
			out.Duplicates = append(out.Duplicates, name)
			continue
		}
		if err := create(ctx, snap, cityID, name, unit); err != nil {
			return err
		}
		out.Added = append(out.Added, name)
	}
	return nil
}

func (s *Service) createSpot(ctx context.Context, snap *catalog.Snapshot, cityID, name string, price float64) error {
	created, err := s.store.CreateSpot(ctx, types.Spot{CityID: cityID, Name: name, Price: price})
	if err != nil {
		return err
	}
	snap.Spots = append(snap.Spots, created)
	return nil
}

func (s *Service) createActivity(ctx context.Context, snap *catalog.Snapshot, cityID, name string, price float64) error {
	created, err := s.store.CreateActivity(ctx, types.Activity{CityID: cityID, Name: name, Price: price})
	if err != nil {
		return err
	}
	snap.Activities = append(snap.Activities, created)
	return nil
}

func spotExists(snap catalog.Snapshot, cityID, name string) bool {
	for _, sp := range snap.Spots {
		if sp.CityID == cityID && sp.Name == name {
			return true
		}
	}
	return false
}

func activityExists(snap catalog.Snapshot, cityID, name string) bool {
	for _, a := range snap.Activities {
		if a.CityID == cityID && a.Name == name {
			return true
		}
	}
	return false
}

// anchorCity resolves the city a hotel, ticket or activity attaches to:
// the final stop of the row's route, materialized in the catalog.
func (s *Service) anchorCity(ctx context.Context, row types.DayRow, country string, snap *catalog.Snapshot, out *Outcome) (string, error) {
	stop := place.LastStop(row.Route)
	if stop == "" {
		return "", fmt.Errorf("promotion: row %d has no route to anchor on", row.DayIndex)
	}
	id, _, renamed, err := s.ensureCity(ctx, stop, country, snap)
	if renamed {
		out.CityRenamed = true
	}
	return id, err
}

// ensureCity returns the catalog id for a route place inside the given
// country, creating or upgrading a city as needed. A composite name
// like "Lucerne (Luzern)" upgrades an existing simple city that matches
// either side in place, so all prior references keep their city id. A
// simple name resolves to an existing composite city whose sides match.
func (s *Service) ensureCity(ctx context.Context, name, country string, snap *catalog.Snapshot) (id string, created, renamed bool, err error) {
	for _, c := range snap.Cities {
		if c.Country == country && c.Name == name {
			return c.ID, false, false, nil
		}
	}

	if prefix, paren, ok := place.SplitComposite(name); ok {
		for i, c := range snap.Cities {
			if c.Country != country {
				continue
			}
			if c.Name == prefix || c.Name == paren {
				updated, err := s.store.UpdateCityName(ctx, c.ID, name)
				if err != nil {
					return "", false, false, err
				}
				snap.Cities[i] = updated
				return updated.ID, false, true, nil
			}
		}
	} else {
		for _, c := range snap.Cities {
			if c.Country == country && place.Matches(name, c.Name) {
				return c.ID, false, false, nil
			}
		}
	}

	createdCity, err := s.store.CreateCity(ctx, types.City{Country: country, Name: name})
	if err != nil {
		return "", false, false, err
	}
	snap.Cities = append(snap.Cities, createdCity)
	return createdCity.ID, true, false, nil
}

// unitPrice back-calculates a per-person price by splitting the row's
// cost evenly. A trip with no headcount prices promoted entries at 0.
func unitPrice(cost float64, people, items int) float64 {
	if people <= 0 || items <= 0 {
		return 0
	}
	return math.Round(cost / float64(people) / float64(items))
}
