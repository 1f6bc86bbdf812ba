package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/types"
)

func japanSnapshot() catalog.Snapshot {
	return catalog.Snapshot{
		Cities: []types.City{
			{ID: "c-tokyo", Country: "Japan", Name: "Tokyo"},
			{ID: "c-osaka", Country: "Japan", Name: "Osaka"},
			{ID: "c-kyoto", Country: "Japan", Name: "Kyoto"},
			{ID: "c-paris", Country: "France", Name: "Paris"},
		},
		Hotels: []types.Hotel{
			{ID: "h1", CityID: "c-tokyo", Name: "Park Hyatt", RoomType: "Deluxe", Price: 3000},
			{ID: "h2", CityID: "c-tokyo", Name: "Park Hyatt", RoomType: "Suite", Price: 5200},
			{ID: "h3", CityID: "c-kyoto", Name: "Garden Ryokan", RoomType: "Twin", Price: 900},
			{ID: "h4", CityID: "c-paris", Name: "Garden Ryokan", RoomType: "Double", Price: 450},
		},
		Spots: []types.Spot{
			{ID: "s1", CityID: "c-tokyo", Name: "Sky Tower", Price: 50},
			{ID: "s2", CityID: "c-osaka", Name: "Castle", Price: 25},
			{ID: "s3", CityID: "c-paris", Name: "Louvre", Price: 20},
		},
		Activities: []types.Activity{
			{ID: "a1", CityID: "c-kyoto", Name: "Tea Ceremony", Price: 120},
			{ID: "a2", CityID: "c-paris", Name: "Seine Cruise", Price: 35},
		},
		Transport: []types.TransportRate{
			{ID: "t1", Region: "Japan", CarModel: "Alphard", ServiceType: "charter", Passengers: 6, PriceLow: 800, PriceHigh: 1100},
			{ID: "t2", Region: types.RegionUniversal, CarModel: "Hiace", ServiceType: "charter", Passengers: 9, PriceLow: 600, PriceHigh: 900},
			{ID: "t3", Region: "France", CarModel: "Vito", ServiceType: "charter", Passengers: 7, PriceLow: 700, PriceHigh: 950},
		},
	}
}

func japanSettings() types.TripSettings {
	return types.TripSettings{
		PeopleCount:  4,
		RoomCount:    1,
		Destinations: []string{"Japan"},
		StartDate:    "2024-01-01",
	}
}

func TestRelevantCityIDs(t *testing.T) {
	snap := japanSnapshot()

	tests := []struct {
		name         string
		route        string
		destinations []string
		expected     []string
	}{
		{"Route scopes to its cities", "Osaka-Kyoto", []string{"Japan"}, []string{"c-osaka", "c-kyoto"}},
		{"Duplicates removed", "Tokyo-Tokyo", []string{"Japan"}, []string{"c-tokyo"}},
		{"Empty route falls back to countries", "", []string{"Japan"}, []string{"c-tokyo", "c-osaka", "c-kyoto"}},
		{"Empty route no destinations", "", nil, nil},
		{"Unknown places yield nothing", "Atlantis", []string{"Japan"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelevantCityIDs(tt.route, tt.destinations, snap)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// Hotel candidates narrow to the final stop while tickets keep the
// whole route in scope.
func TestHotelScopeNarrowing(t *testing.T) {
	snap := japanSnapshot()

	hotelScope := HotelScopeCityIDs("Osaka-Kyoto", snap)
	assert.Equal(t, []string{"c-kyoto"}, hotelScope)

	relevant := RelevantCityIDs("Osaka-Kyoto", []string{"Japan"}, snap)
	assert.ElementsMatch(t, []string{"c-osaka", "c-kyoto"}, relevant)
}

func TestResolveRowHotel(t *testing.T) {
	r := New()
	snap := japanSnapshot()
	set := japanSettings()

	row := types.DayRow{
		DayIndex:  1,
		Route:     "Tokyo",
		HotelName: "Park Hyatt",
		Rooms:     2,
	}

	out, match := r.ResolveRow(row, set, snap)
	assert.Equal(t, "Deluxe", out.HotelRoomType)
	assert.Equal(t, 3000.0, out.HotelPrice)
	assert.Equal(t, 6000.0, out.HotelCost)
	assert.Equal(t, TierScoped, match.Hotel)
}

func TestResolveRowHotelPrefersRowRoomType(t *testing.T) {
	r := New()
	row := types.DayRow{Route: "Tokyo", HotelName: "Park Hyatt", HotelRoomType: "Suite", Rooms: 1}

	out, _ := r.ResolveRow(row, japanSettings(), japanSnapshot())
	assert.Equal(t, "Suite", out.HotelRoomType)
	assert.Equal(t, 5200.0, out.HotelPrice)
	assert.Equal(t, 5200.0, out.HotelCost)
}

func TestResolveRowHotelFallbackTiers(t *testing.T) {
	r := New()
	snap := japanSnapshot()
	set := japanSettings()

	// Destination city has no such hotel; relevant cities do.
	row := types.DayRow{Route: "Kyoto-Osaka", HotelName: "Garden Ryokan", Rooms: 1}
	out, match := r.ResolveRow(row, set, snap)
	assert.Equal(t, TierRelevant, match.Hotel)
	assert.Equal(t, 900.0, out.HotelPrice)

	// Nothing on the route matches; any-city lookup wins and is loose.
	row = types.DayRow{Route: "Tokyo", HotelName: "Garden Ryokan", Rooms: 1}
	out, match = r.ResolveRow(row, set, snap)
	assert.Equal(t, TierLoose, match.Hotel)
	assert.True(t, match.Loose())
	assert.Equal(t, 900.0, out.HotelPrice)
}

// A route whose places match no city leaves nothing in scope, so a
// name-only hit must report as loose, not relevant.
func TestResolveRowHotelUnknownRouteIsLoose(t *testing.T) {
	r := New()
	row := types.DayRow{Route: "Atlantis", HotelName: "Park Hyatt", Rooms: 1}

	out, match := r.ResolveRow(row, japanSettings(), japanSnapshot())
	assert.Equal(t, TierLoose, match.Hotel)
	assert.True(t, match.Loose())
	assert.Equal(t, 3000.0, out.HotelPrice)
}

func TestResolveRowHotelEmptyName(t *testing.T) {
	r := New()
	row := types.DayRow{Route: "Tokyo", HotelPrice: 123, HotelCost: 456}

	out, match := r.ResolveRow(row, japanSettings(), japanSnapshot())
	assert.Zero(t, out.HotelPrice)
	assert.Zero(t, out.HotelCost)
	assert.Equal(t, TierNone, match.Hotel)
}

// A completely unmatched hotel name leaves the manual price untouched
// on the bulk path.
func TestResolveRowHotelMissKeepsManualValue(t *testing.T) {
	r := New()
	row := types.DayRow{Route: "Tokyo", HotelName: "Unknown Inn", HotelPrice: 777, HotelCost: 777}

	out, match := r.ResolveRow(row, japanSettings(), japanSnapshot())
	assert.Equal(t, TierNone, match.Hotel)
	assert.Equal(t, 777.0, out.HotelPrice)
	assert.Equal(t, 777.0, out.HotelCost)
}

func TestResolveRowRoomsDefaultFromSettings(t *testing.T) {
	r := New()
	set := japanSettings()
	set.RoomCount = 3
	row := types.DayRow{Route: "Tokyo", HotelName: "Park Hyatt", Rooms: 0}

	out, _ := r.ResolveRow(row, set, snapshotOnlyDeluxe())
	assert.Equal(t, 3000.0*3, out.HotelCost)
	// Rooms itself is only forced during bulk refresh, not here.
	assert.Zero(t, out.Rooms)
}

func snapshotOnlyDeluxe() catalog.Snapshot {
	snap := japanSnapshot()
	snap.Hotels = snap.Hotels[:1]
	return snap
}

func TestResolveRowTickets(t *testing.T) {
	r := New()
	set := japanSettings()

	row := types.DayRow{Route: "Tokyo", TicketNames: []string{"Sky Tower"}}
	out, match := r.ResolveRow(row, set, japanSnapshot())
	assert.Equal(t, 200.0, out.TicketCost) // 50 * 4 people
	require.Len(t, match.Tickets, 1)
	assert.Equal(t, TierRelevant, match.Tickets[0].Tier)

	// Out-of-route spot still prices via the loose fallback.
	row = types.DayRow{Route: "Tokyo", TicketNames: []string{"Louvre"}}
	out, match = r.ResolveRow(row, set, japanSnapshot())
	assert.Equal(t, 80.0, out.TicketCost)
	assert.Equal(t, TierLoose, match.Tickets[0].Tier)

	// Unknown names contribute nothing.
	row = types.DayRow{Route: "Tokyo", TicketNames: []string{"Sky Tower", "Ghost Gate"}}
	out, match = r.ResolveRow(row, set, japanSnapshot())
	assert.Equal(t, 200.0, out.TicketCost)
	assert.Equal(t, TierNone, match.Tickets[1].Tier)

	// Empty list zeroes the cost.
	row = types.DayRow{Route: "Tokyo", TicketCost: 999}
	out, _ = r.ResolveRow(row, set, japanSnapshot())
	assert.Zero(t, out.TicketCost)
}

func TestResolveRowActivities(t *testing.T) {
	r := New()
	row := types.DayRow{Route: "Osaka-Kyoto", ActivityNames: []string{"Tea Ceremony"}}

	out, match := r.ResolveRow(row, japanSettings(), japanSnapshot())
	assert.Equal(t, 480.0, out.ActivityCost) // 120 * 4
	assert.Equal(t, TierRelevant, match.Activities[0].Tier)
}

func TestResolveRowTransport(t *testing.T) {
	r := New()
	set := japanSettings()

	row := types.DayRow{Route: "Tokyo", CarModel: "Alphard", TransportCost: 1}
	out, match := r.ResolveRow(row, set, japanSnapshot())
	assert.Equal(t, 800.0, out.TransportCost)
	assert.True(t, match.Transport)

	// Universal region applies regardless of destinations.
	row = types.DayRow{Route: "Tokyo", CarModel: "Hiace"}
	out, _ = r.ResolveRow(row, set, japanSnapshot())
	assert.Equal(t, 600.0, out.TransportCost)

	// Wrong region: manual value preserved.
	row = types.DayRow{Route: "Tokyo", CarModel: "Vito", TransportCost: 333}
	out, match = r.ResolveRow(row, set, japanSnapshot())
	assert.Equal(t, 333.0, out.TransportCost)
	assert.False(t, match.Transport)
}

// Resolving twice with unchanged inputs yields identical fields.
func TestResolveRowIdempotent(t *testing.T) {
	r := New()
	set := japanSettings()
	snap := japanSnapshot()

	row := types.DayRow{
		DayIndex:      1,
		Route:         "Osaka-Kyoto",
		HotelName:     "Garden Ryokan",
		TicketNames:   []string{"Castle"},
		ActivityNames: []string{"Tea Ceremony"},
		CarModel:      "Alphard",
		Rooms:         2,
	}

	once, _ := r.ResolveRow(row, set, snap)
	twice, _ := r.ResolveRow(once, set, snap)
	assert.Equal(t, once, twice)
}

func TestResolveHotelNameMissZeroes(t *testing.T) {
	r := New()
	row := types.DayRow{Route: "Tokyo", HotelName: "Unknown Inn", HotelPrice: 500, HotelCost: 500}

	out, tier := r.ResolveHotelName(row, japanSettings(), japanSnapshot())
	assert.Equal(t, TierNone, tier)
	assert.Zero(t, out.HotelPrice)
	assert.Zero(t, out.HotelCost)
}

func TestResolveRoomType(t *testing.T) {
	r := New()
	set := japanSettings()

	row := types.DayRow{Route: "Tokyo", HotelName: "Park Hyatt", HotelRoomType: "Suite", Rooms: 2}
	out, tier := r.ResolveRoomType(row, set, japanSnapshot())
	assert.Equal(t, TierScoped, tier)
	assert.Equal(t, 5200.0, out.HotelPrice)
	assert.Equal(t, 10400.0, out.HotelCost)

	// Unknown room type keeps the typed value, prices untouched.
	row = types.DayRow{Route: "Tokyo", HotelName: "Park Hyatt", HotelRoomType: "Penthouse", HotelPrice: 1, HotelCost: 1}
	out, tier = r.ResolveRoomType(row, set, japanSnapshot())
	assert.Equal(t, TierNone, tier)
	assert.Equal(t, "Penthouse", out.HotelRoomType)
	assert.Equal(t, 1.0, out.HotelPrice)
}

// People count is read at resolution time, not locked at entry.
func TestPeopleCountRescales(t *testing.T) {
	r := New()
	set := japanSettings()
	row := types.DayRow{Route: "Tokyo", TicketNames: []string{"Sky Tower"}}

	out, _ := r.ResolveRow(row, set, japanSnapshot())
	assert.Equal(t, 200.0, out.TicketCost)

	set.PeopleCount = 6
	out, _ = r.ResolveRow(row, set, japanSnapshot())
	assert.Equal(t, 300.0, out.TicketCost)
}
