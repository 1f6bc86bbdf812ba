package promotion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/types"
)

func seededStore(t *testing.T) *catalog.MemoryStore {
	t.Helper()
	store := catalog.NewMemoryStore()
	store.Load(catalog.Snapshot{
		Cities: []types.City{
			{ID: "c-lucerne", Country: "Switzerland", Name: "Lucerne"},
			{ID: "c-zurich", Country: "Switzerland", Name: "Zurich (Zuerich)"},
			{ID: "c-paris", Country: "France", Name: "Paris"},
		},
		Hotels: []types.Hotel{
			{ID: "h1", CityID: "c-paris", Name: "Hotel Lutetia", RoomType: "Twin", Price: 450},
		},
		Spots: []types.Spot{
			{ID: "s1", CityID: "c-paris", Name: "Louvre", Price: 20},
		},
	})
	return store
}

func settings() types.TripSettings {
	return types.TripSettings{PeopleCount: 4, Destinations: []string{"Switzerland"}}
}

func TestPromoteRouteCreatesMissingCities(t *testing.T) {
	store := seededStore(t)
	svc := New(store)
	row := types.DayRow{Route: "Lucerne-Interlaken-Bern"}

	out, err := svc.Promote(context.Background(), KindRoute, row, "Switzerland", settings())

	require.NoError(t, err)
	assert.Equal(t, []string{"Interlaken", "Bern"}, out.Added)
	assert.Equal(t, []string{"Lucerne"}, out.Duplicates)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Cities, 5)
}

func TestPromoteRouteIdempotent(t *testing.T) {
	store := seededStore(t)
	svc := New(store)
	row := types.DayRow{Route: "Lucerne-Interlaken"}

	_, err := svc.Promote(context.Background(), KindRoute, row, "Switzerland", settings())
	require.NoError(t, err)
	out, err := svc.Promote(context.Background(), KindRoute, row, "Switzerland", settings())
	require.NoError(t, err)

	assert.Empty(t, out.Added)
	assert.Equal(t, []string{"Lucerne", "Interlaken"}, out.Duplicates)
}

func TestEnsureCityUpgradesSimpleToComposite(t *testing.T) {
	store := seededStore(t)
	svc := New(store)
	row := types.DayRow{Route: "Lucerne (Luzern)"}

	out, err := svc.Promote(context.Background(), KindRoute, row, "Switzerland", settings())

	require.NoError(t, err)
	assert.True(t, out.CityRenamed)
	// A rename is reported only through CityRenamed.
	assert.Empty(t, out.Added)
	assert.Empty(t, out.Duplicates)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	var names []string
	for _, c := range snap.Cities {
		if c.Country == "Switzerland" {
			names = append(names, c.Name)
		}
	}
	// The existing city is renamed in place, keeping its id.
	assert.Contains(t, names, "Lucerne (Luzern)")
	assert.NotContains(t, names, "Lucerne")
	assert.Len(t, names, 2)
}

func TestEnsureCitySimpleHitsExistingComposite(t *testing.T) {
	store := seededStore(t)
	svc := New(store)
	row := types.DayRow{Route: "Zuerich"}

	out, err := svc.Promote(context.Background(), KindRoute, row, "Switzerland", settings())

	require.NoError(t, err)
	assert.Empty(t, out.Added)
	assert.Equal(t, []string{"Zuerich"}, out.Duplicates)
}

func TestPromoteHotel(t *testing.T) {
	store := seededStore(t)
	svc := New(store)
	row := types.DayRow{
		Route:         "Zurich-Lucerne",
		HotelName:     "Alpine Lodge",
		HotelRoomType: "Twin",
		HotelPrice:    320,
	}

	out, err := svc.Promote(context.Background(), KindHotel, row, "Switzerland", settings())

	require.NoError(t, err)
	assert.Equal(t, []string{"Alpine Lodge"}, out.Added)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	var found *types.Hotel
	for i := range snap.Hotels {
		if snap.Hotels[i].Name == "Alpine Lodge" {
			found = &snap.Hotels[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "c-lucerne", found.CityID)
	// Promoted hotels always land under the default room type.
	assert.Equal(t, DefaultRoomType, found.RoomType)
	assert.Equal(t, 320.0, found.Price)
}

func TestPromoteHotelDefaultRoomTypeAndDuplicate(t *testing.T) {
	store := seededStore(t)
	svc := New(store)
	row := types.DayRow{Route: "Lucerne", HotelName: "Alpine Lodge", HotelPrice: 320}

	out, err := svc.Promote(context.Background(), KindHotel, row, "Switzerland", settings())
	require.NoError(t, err)
	require.Equal(t, []string{"Alpine Lodge"}, out.Added)

	out, err = svc.Promote(context.Background(), KindHotel, row, "Switzerland", settings())
	require.NoError(t, err)
	assert.Empty(t, out.Added)
	assert.Equal(t, []string{"Alpine Lodge"}, out.Duplicates)

	// A different room type on the row is still the same hotel.
	row.HotelRoomType = "Suite"
	out, err = svc.Promote(context.Background(), KindHotel, row, "Switzerland", settings())
	require.NoError(t, err)
	assert.Empty(t, out.Added)
	assert.Equal(t, []string{"Alpine Lodge"}, out.Duplicates)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	var lodges int
	for _, h := range snap.Hotels {
		if h.Name == "Alpine Lodge" {
			lodges++
			assert.Equal(t, DefaultRoomType, h.RoomType)
		}
	}
	assert.Equal(t, 1, lodges)
}

func TestPromoteTicketsSplitsCostPerPersonPerItem(t *testing.T) {
	store := seededStore(t)
	svc := New(store)
	row := types.DayRow{
		Route:       "Lucerne",
		TicketNames: []string{"Mount Pilatus", "Lake Cruise"},
		TicketCost:  808,
	}

	out, err := svc.Promote(context.Background(), KindTicket, row, "Switzerland", settings())

	require.NoError(t, err)
	assert.Equal(t, []string{"Mount Pilatus", "Lake Cruise"}, out.Added)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	for _, sp := range snap.Spots {
		if sp.CityID == "c-lucerne" {
			// 808 / 4 people / 2 items, rounded.
			assert.Equal(t, 101.0, sp.Price)
		}
	}
}

// A trip with no headcount must not invent a per-person price.
func TestPromoteTicketsZeroPeople(t *testing.T) {
	store := seededStore(t)
	svc := New(store)
	row := types.DayRow{Route: "Lucerne", TicketNames: []string{"Mount Pilatus"}, TicketCost: 808}
	set := settings()
	set.PeopleCount = 0

	out, err := svc.Promote(context.Background(), KindTicket, row, "Switzerland", set)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mount Pilatus"}, out.Added)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	for _, sp := range snap.Spots {
		if sp.CityID == "c-lucerne" {
			assert.Zero(t, sp.Price)
		}
	}
}

func TestPromoteActivityDuplicateDetection(t *testing.T) {
	store := seededStore(t)
	svc := New(store)
	row := types.DayRow{
		Route:         "Lucerne",
		ActivityNames: []string{"Fondue Night"},
		ActivityCost:  200,
	}

	first, err := svc.Promote(context.Background(), KindActivity, row, "Switzerland", settings())
	require.NoError(t, err)
	second, err := svc.Promote(context.Background(), KindActivity, row, "Switzerland", settings())
	require.NoError(t, err)

	assert.Equal(t, []string{"Fondue Night"}, first.Added)
	assert.Empty(t, second.Added)
	assert.Equal(t, []string{"Fondue Night"}, second.Duplicates)
}

func TestPromoteCountryFallbacks(t *testing.T) {
	store := seededStore(t)
	svc := New(store)

	// Known route place wins over the trip destinations.
	row := types.DayRow{Route: "Paris-Versailles"}
	out, err := svc.Promote(context.Background(), KindRoute, row, "", settings())
	require.NoError(t, err)
	assert.Equal(t, []string{"Versailles"}, out.Added)

	snap, err := store.Snapshot(context.Background())
	require.NoError(t, err)
	for _, c := range snap.Cities {
		if c.Name == "Versailles" {
			assert.Equal(t, "France", c.Country)
		}
	}

	// No catalog hit: first trip destination.
	row = types.DayRow{Route: "Grindelwald"}
	out, err = svc.Promote(context.Background(), KindRoute, row, "", settings())
	require.NoError(t, err)
	assert.Equal(t, []string{"Grindelwald"}, out.Added)

	// Nothing to infer from.
	empty := New(catalog.NewMemoryStore())
	_, err = empty.Promote(context.Background(), KindRoute, row, "", types.TripSettings{})
	assert.ErrorIs(t, err, ErrCountryRequired)
}

func TestPromoteUnknownKind(t *testing.T) {
	svc := New(seededStore(t))
	_, err := svc.Promote(context.Background(), Kind("visa"), types.DayRow{Route: "Paris"}, "France", settings())
	assert.ErrorIs(t, err, ErrUnknownKind)
}
