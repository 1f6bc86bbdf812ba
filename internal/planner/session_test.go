package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/types"
)

func testStore(t *testing.T) *catalog.MemoryStore {
	t.Helper()
	store := catalog.NewMemoryStore()
	store.Load(catalog.Snapshot{
		Cities: []types.City{
			{ID: "c-tokyo", Country: "Japan", Name: "Tokyo", IsPublic: true},
			{ID: "c-kyoto", Country: "Japan", Name: "Kyoto", IsPublic: true},
		},
		Hotels: []types.Hotel{
			{ID: "h1", CityID: "c-tokyo", Name: "Park Hyatt", RoomType: "Deluxe", Price: 3000},
			{ID: "h2", CityID: "c-kyoto", Name: "Garden Ryokan", RoomType: "Twin", Price: 900},
		},
		Spots: []types.Spot{
			{ID: "s1", CityID: "c-tokyo", Name: "Sky Tower", Price: 50},
		},
		Transport: []types.TransportRate{
			{ID: "t1", Region: "Japan", CarModel: "Alphard", PriceLow: 800, PriceHigh: 1000},
		},
	})
	return store
}

func testSettings() types.TripSettings {
	return types.TripSettings{
		PeopleCount:   4,
		RoomCount:     2,
		ExchangeRate:  0.52,
		Destinations:  []string{"Japan"},
		StartDate:     "2026-04-01",
		MarginPercent: 20,
	}
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(testStore(t), testSettings())

	rows := s.Rows()
	require.Len(t, rows, InitialRowCount)
	for i, r := range rows {
		assert.Equal(t, i+1, r.DayIndex)
		assert.Equal(t, types.AddDays("2026-04-01", i), r.Date)
		assert.Equal(t, 2, r.Rooms)
		assert.Equal(t, []string{"charter"}, r.Transport)
		assert.NotEmpty(t, r.ID)
	}
}

func TestUpdateRoutePrefillsNextRow(t *testing.T) {
	s := NewSession(testStore(t), testSettings())

	require.NoError(t, s.UpdateRoute(0, "Tokyo-Kyoto"))

	rows := s.Rows()
	assert.Equal(t, "Tokyo-Kyoto", rows[0].Route)
	assert.Equal(t, "Kyoto-", rows[1].Route)
	// The prefill never cascades beyond the immediate next row.
	assert.Equal(t, "", rows[2].Route)
}

func TestUpdateRouteDoesNotOverwriteRoutedNextRow(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	require.NoError(t, s.UpdateRoute(1, "Kyoto-Osaka"))

	require.NoError(t, s.UpdateRoute(0, "Tokyo-Kyoto"))

	assert.Equal(t, "Kyoto-Osaka", s.Rows()[1].Route)
}

func TestUpdateRouteLastRowNoPrefill(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	require.NoError(t, s.UpdateRoute(InitialRowCount-1, "Tokyo-Kyoto"))
}

func TestUpdateRouteHistory(t *testing.T) {
	s := NewSession(testStore(t), testSettings())

	require.NoError(t, s.UpdateRoute(0, "Tokyo-Kyoto"))
	require.NoError(t, s.UpdateRoute(1, "kyoto-Osaka"))

	// "kyoto" folds to the already-seen "Kyoto" and is not re-added.
	assert.Equal(t, []string{"Tokyo", "Kyoto", "Osaka"}, s.LocationHistory())
}

func TestUpdateRoomsRescalesWithoutLookup(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	require.NoError(t, s.EditRow(0, RowPatch{HotelCost: ptr(1800.0)}))
	require.NoError(t, s.UpdateRoute(0, "Tokyo-Kyoto"))
	require.NoError(t, s.UpdateHotelName(context.Background(), 0, "Garden Ryokan"))

	require.NoError(t, s.UpdateRooms(0, 5))

	row := s.Rows()[0]
	assert.Equal(t, 5, row.Rooms)
	assert.Equal(t, 900.0, row.HotelPrice)
	assert.Equal(t, 4500.0, row.HotelCost)
}

func TestUpdateHotelNameResolves(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	require.NoError(t, s.UpdateRoute(0, "Tokyo"))

	require.NoError(t, s.UpdateHotelName(context.Background(), 0, "Park Hyatt"))

	row := s.Rows()[0]
	assert.Equal(t, "Deluxe", row.HotelRoomType)
	assert.Equal(t, 3000.0, row.HotelPrice)
	assert.Equal(t, 6000.0, row.HotelCost)
}

func TestDeleteRowRenumbers(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	require.NoError(t, s.UpdateRoute(2, "Tokyo-Kyoto"))

	require.NoError(t, s.DeleteRow(1))

	rows := s.Rows()
	require.Len(t, rows, InitialRowCount-1)
	for i, r := range rows {
		assert.Equal(t, i+1, r.DayIndex)
		assert.Equal(t, types.AddDays("2026-04-01", i), r.Date)
	}
	// Row content shifts up while dayIndex and date stay contiguous.
	assert.Equal(t, "Tokyo-Kyoto", rows[1].Route)
}

func TestDeleteLastRowRejected(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	for i := 0; i < InitialRowCount-1; i++ {
		require.NoError(t, s.DeleteRow(0))
	}

	err := s.DeleteRow(0)

	assert.ErrorIs(t, err, ErrLastRow)
	assert.Len(t, s.Rows(), 1)
}

func TestDeleteRowOutOfRange(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	assert.ErrorIs(t, s.DeleteRow(99), ErrRowIndex)
	assert.ErrorIs(t, s.DeleteRow(-1), ErrRowIndex)
}

func TestAppendRow(t *testing.T) {
	s := NewSession(testStore(t), testSettings())

	row := s.AppendRow()

	assert.Equal(t, InitialRowCount+1, row.DayIndex)
	assert.Equal(t, types.AddDays("2026-04-01", InitialRowCount), row.Date)
	assert.Len(t, s.Rows(), InitialRowCount+1)
}

func TestRefreshCostsForcesRoomCount(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	require.NoError(t, s.UpdateRoute(0, "Tokyo-Kyoto"))
	require.NoError(t, s.EditRow(0, RowPatch{TicketNames: &[]string{"Sky Tower"}}))
	require.NoError(t, s.UpdateRooms(0, 7))
	require.NoError(t, s.UpdateHotelName(context.Background(), 0, "Garden Ryokan"))

	matches, err := s.RefreshCosts(context.Background())

	require.NoError(t, err)
	require.Len(t, matches, InitialRowCount)
	row := s.Rows()[0]
	assert.Equal(t, 2, row.Rooms)
	assert.Equal(t, 1800.0, row.HotelCost)
	assert.Equal(t, 200.0, row.TicketCost)
	assert.False(t, matches[0].Loose())
}

func TestApplyItineraryResizesAndMerges(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	require.NoError(t, s.EditRow(0, RowPatch{OtherCost: ptr(33.0)}))
	keptID := s.Rows()[0].ID

	s.ApplyItinerary([]GeneratedDay{
		{Origin: "Tokyo", Destination: "Kyoto", HotelName: "Garden Ryokan", TicketName: "Sky Tower"},
		{Origin: "Kyoto", Destination: "Seoul", Description: "Flight day"},
		{Origin: "Seoul", Destination: "Busan"},
	}, []string{"Japan", "South Korea"})

	rows := s.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, keptID, rows[0].ID)
	assert.Equal(t, 33.0, rows[0].OtherCost)
	assert.Equal(t, "Tokyo-Kyoto", rows[0].Route)
	assert.Equal(t, "Garden Ryokan", rows[0].HotelName)
	assert.Equal(t, []string{"Sky Tower"}, rows[0].TicketNames)
	assert.Equal(t, "Flight day", rows[1].Description)
	assert.Equal(t, 3, rows[2].DayIndex)
	assert.Equal(t, []string{"Japan", "South Korea"}, s.Settings().Destinations)
}

func TestApplyItineraryGrowsRowList(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	days := make([]GeneratedDay, InitialRowCount+2)
	for i := range days {
		days[i] = GeneratedDay{Origin: "Tokyo", Destination: "Kyoto"}
	}

	s.ApplyItinerary(days, nil)

	rows := s.Rows()
	require.Len(t, rows, InitialRowCount+2)
	assert.Equal(t, types.AddDays("2026-04-01", InitialRowCount+1), rows[InitialRowCount+1].Date)
}

func TestTotalsAndQuote(t *testing.T) {
	s := NewSession(testStore(t), testSettings())
	require.NoError(t, s.EditRow(0, RowPatch{
		TransportCost: ptr(800.0),
		HotelCost:     ptr(1800.0),
		TicketCost:    ptr(200.0),
	}))
	require.NoError(t, s.EditRow(1, RowPatch{
		OtherCost:   ptr(100.0),
		CustomCosts: map[string]float64{"visa": 120},
	}))

	totals := s.Totals()
	assert.Equal(t, 800.0, totals.Transport)
	assert.Equal(t, 1800.0, totals.Hotel)
	assert.Equal(t, 200.0, totals.Ticket)
	assert.Equal(t, 100.0, totals.Other)
	assert.Equal(t, 120.0, totals.Custom)
	assert.Equal(t, 3020.0, totals.Total)

	// 3020 * 0.52 / 0.8 = 1963.0
	assert.Equal(t, 1963.0, s.Quote())
}

func TestQuoteClampsInvalidMargin(t *testing.T) {
	settings := testSettings()
	settings.MarginPercent = 150
	settings.ExchangeRate = 1
	s := NewSession(testStore(t), settings)
	require.NoError(t, s.EditRow(0, RowPatch{OtherCost: ptr(500.0)}))

	assert.Equal(t, 500.0, s.Quote())
}

func ptr[T any](v T) *T { return &v }
