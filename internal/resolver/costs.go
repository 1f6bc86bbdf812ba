package resolver

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/types"
)

// Tier records how a catalog match was found, from strictest to
// loosest. TierLoose means a name-only match in an unrelated city and
// should be surfaced to the user.
type Tier int

const (
	TierNone Tier = iota
	TierScoped
	TierRelevant
	TierLoose
)

func (t Tier) String() string {
	switch t {
	case TierScoped:
		return "scoped"
	case TierRelevant:
		return "relevant"
	case TierLoose:
		return "loose"
	default:
		return "none"
	}
}

// ItemMatch is the match outcome for one ticket or activity name.
type ItemMatch struct {
	Name string `json:"name"`
	Tier Tier   `json:"tier"`
}

// RowMatch reports, per derived field, how the resolver found its
// catalog entries for one row.
type RowMatch struct {
	Hotel      Tier        `json:"hotel"`
	Tickets    []ItemMatch `json:"tickets,omitempty"`
	Activities []ItemMatch `json:"activities,omitempty"`
	Transport  bool        `json:"transport"`
}

// Loose reports whether any field fell through to a name-only match.
func (m RowMatch) Loose() bool {
	if m.Hotel == TierLoose {
		return true
	}
	for _, t := range m.Tickets {
		if t.Tier == TierLoose {
			return true
		}
	}
	for _, a := range m.Activities {
		if a.Tier == TierLoose {
			return true
		}
	}
	return false
}

// Resolver derives row cost fields from a catalog snapshot. The struct
// only carries observability; resolution itself is pure.
type Resolver struct {
	logger zerolog.Logger
}

// New creates a Resolver.
func New() *Resolver {
	return &Resolver{
		logger: log.With().Str("component", "cost_resolver").Logger(),
	}
}

// ResolveRow recomputes every derived cost field of a row against the
// snapshot and settings. Idempotent: resolving an already-resolved row
// with unchanged inputs returns it unchanged.
func (r *Resolver) ResolveRow(row types.DayRow, set types.TripSettings, snap catalog.Snapshot) (types.DayRow, RowMatch) {
	start := time.Now()
	out := row.Clone()
	var match RowMatch

	relevant := RelevantCityIDs(row.Route, set.Destinations, snap)

	out, match.Hotel = r.resolveHotel(out, set, snap, relevant, false)
	out.TicketCost, match.Tickets = sumItems(out.TicketNames, spotEntries(snap), relevant, set.PeopleCount)
	out.ActivityCost, match.Activities = sumItems(out.ActivityNames, activityEntries(snap), relevant, set.PeopleCount)
	out, match.Transport = resolveTransport(out, set, snap)

	recordRowResolution(time.Since(start), match)
	if match.Loose() {
		r.logger.Debug().Int("day", row.DayIndex).Str("route", row.Route).
			Msg("Row resolved with loose name-only match")
	}
	return out, match
}

// ResolveHotelName re-runs only the hotel step after a hotel-name edit.
// Unlike the bulk path, a complete miss zeroes the price fields: the
// newly typed name evidently has no catalog entry yet.
func (r *Resolver) ResolveHotelName(row types.DayRow, set types.TripSettings, snap catalog.Snapshot) (types.DayRow, Tier) {
	out := row.Clone()
	relevant := RelevantCityIDs(row.Route, set.Destinations, snap)
	out, tier := r.resolveHotel(out, set, snap, relevant, false)
	if tier == TierNone && out.HotelName != "" {
		out.HotelPrice = 0
		out.HotelCost = 0
	}
	return out, tier
}

// ResolveRoomType re-runs the hotel step matching the row's room type
// exactly instead of preferring it. When no entry offers that room
// type the type is kept as typed and prices stay untouched.
func (r *Resolver) ResolveRoomType(row types.DayRow, set types.TripSettings, snap catalog.Snapshot) (types.DayRow, Tier) {
	out := row.Clone()
	relevant := RelevantCityIDs(row.Route, set.Destinations, snap)
	return r.resolveHotel(out, set, snap, relevant, true)
}

// resolveHotel applies the hotel fallback chain: destination scope,
// then relevant cities, then any city (loose). exactRoom requires the
// row's room type to match; otherwise it is preferred but not required.
func (r *Resolver) resolveHotel(row types.DayRow, set types.TripSettings, snap catalog.Snapshot, relevant []string, exactRoom bool) (types.DayRow, Tier) {
	if row.HotelName == "" {
		row.HotelPrice = 0
		row.HotelCost = 0
		return row, TierNone
	}

	candidates, tier := hotelCandidates(row.HotelName, row.Route, relevant, snap)
	if exactRoom {
		var exact []types.Hotel
		for _, h := range candidates {
			if h.RoomType == row.HotelRoomType {
				exact = append(exact, h)
			}
		}
		if len(exact) == 0 {
			// Keep the typed room type; there is nothing to price it with.
			return row, TierNone
		}
		candidates = exact
	}
	if len(candidates) == 0 {
		return row, TierNone
	}

	matched := candidates[0]
	if !exactRoom {
		for _, h := range candidates {
			if h.RoomType == row.HotelRoomType {
				matched = h
				break
			}
		}
	}

	if matched.RoomType != row.HotelRoomType {
		row.HotelRoomType = matched.RoomType
	}
	rooms := row.Rooms
	if rooms <= 0 {
		rooms = set.RoomCount
	}
	row.HotelPrice = matched.Price
	row.HotelCost = matched.Price * float64(rooms)
	return row, tier
}

// hotelCandidates walks the three-tier fallback chain for a hotel name.
func hotelCandidates(name, route string, relevant []string, snap catalog.Snapshot) ([]types.Hotel, Tier) {
	scope := HotelScopeCityIDs(route, snap)
	if len(scope) > 0 {
		if hs := hotelsIn(snap.Hotels, name, scope); len(hs) > 0 {
			return hs, TierScoped
		}
	}
	// An empty relevant set admits nothing; any hit past here is loose.
	if len(relevant) > 0 {
		if hs := hotelsIn(snap.Hotels, name, relevant); len(hs) > 0 {
			return hs, TierRelevant
		}
	}
	if hs := hotelsIn(snap.Hotels, name, nil); len(hs) > 0 {
		return hs, TierLoose
	}
	return nil, TierNone
}

func hotelsIn(hotels []types.Hotel, name string, cityIDs []string) []types.Hotel {
	var in map[string]bool
	if cityIDs != nil {
		in = make(map[string]bool, len(cityIDs))
		for _, id := range cityIDs {
			in[id] = true
		}
	}
	var out []types.Hotel
	for _, h := range hotels {
		if h.Name != name {
			continue
		}
		if in != nil && !in[h.CityID] {
			continue
		}
		out = append(out, h)
	}
	return out
}

// priceEntry is the common shape of spots and activities for the
// shared per-name summation.
type priceEntry struct {
	CityID string
	Name   string
	Price  float64
}

func spotEntries(snap catalog.Snapshot) []priceEntry {
	out := make([]priceEntry, len(snap.Spots))
	for i, s := range snap.Spots {
		out[i] = priceEntry{CityID: s.CityID, Name: s.Name, Price: s.Price}
	}
	return out
}

func activityEntries(snap catalog.Snapshot) []priceEntry {
	out := make([]priceEntry, len(snap.Activities))
	for i, a := range snap.Activities {
		out[i] = priceEntry{CityID: a.CityID, Name: a.Name, Price: a.Price}
	}
	return out
}

// sumItems prices a list of ticket or activity names: per name, first
// entry within the relevant cities, else any entry with that name, else
// nothing. The unit-price sum is multiplied by the current people
// count.
func sumItems(names []string, entries []priceEntry, relevant []string, people int) (float64, []ItemMatch) {
	if len(names) == 0 {
		return 0, nil
	}
	in := make(map[string]bool, len(relevant))
	for _, id := range relevant {
		in[id] = true
	}

	var sum float64
	matches := make([]ItemMatch, 0, len(names))
	for _, name := range names {
		entry, tier := findEntry(entries, name, in)
		if tier != TierNone {
			sum += entry.Price
		}
		matches = append(matches, ItemMatch{Name: name, Tier: tier})
	}
	return sum * float64(people), matches
}

func findEntry(entries []priceEntry, name string, relevant map[string]bool) (priceEntry, Tier) {
	for _, e := range entries {
		if e.Name == name && relevant[e.CityID] {
			return e, TierRelevant
		}
	}
	for _, e := range entries {
		if e.Name == name {
			return e, TierLoose
		}
	}
	return priceEntry{}, TierNone
}

// resolveTransport looks up the chartered-vehicle rate for the row's
// car model within the trip's destination regions or the universal
// region. No fallback: a miss preserves the manual transport cost.
func resolveTransport(row types.DayRow, set types.TripSettings, snap catalog.Snapshot) (types.DayRow, bool) {
	if row.CarModel == "" {
		return row, false
	}
	dest := make(map[string]bool, len(set.Destinations))
	for _, d := range set.Destinations {
		dest[d] = true
	}
	for _, t := range snap.Transport {
		if t.CarModel != row.CarModel {
			continue
		}
		if dest[t.Region] || types.IsUniversalRegion(t.Region) {
			row.TransportCost = t.PriceLow
			return row, true
		}
	}
	return row, false
}
