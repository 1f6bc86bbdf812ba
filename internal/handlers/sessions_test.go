package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellartravel/itinerary-service/internal/aiplanner"
	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/trips"
	"github.com/stellartravel/itinerary-service/internal/types"
)

type stubGenerator struct {
	resp *aiplanner.GenerateResponse
	err  error
}

func (s *stubGenerator) Generate(ctx context.Context, req aiplanner.GenerateRequest) (*aiplanner.GenerateResponse, error) {
	return s.resp, s.err
}

func newTestRouter(t *testing.T, gen Generator) (*gin.Engine, *catalog.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := catalog.NewMemoryStore()
	store.Load(catalog.Snapshot{
		Cities: []types.City{
			{ID: "c-tokyo", Country: "Japan", Name: "Tokyo"},
			{ID: "c-kyoto", Country: "Japan", Name: "Kyoto"},
		},
		Hotels: []types.Hotel{
			{ID: "h1", CityID: "c-kyoto", Name: "Garden Ryokan", RoomType: "Twin", Price: 900},
		},
		Spots: []types.Spot{
			{ID: "s1", CityID: "c-tokyo", Name: "Sky Tower", Price: 50},
		},
	})

	api := New(store, trips.NewService(trips.NewMemoryStore(), trips.NewMemoryStore()), gen)
	router := gin.New()
	api.Register(router)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/sessions", CreateSessionRequest{
		Settings: types.TripSettings{
			PeopleCount:  4,
			RoomCount:    2,
			Destinations: []string{"Japan"},
			StartDate:    "2026-04-01",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestCreateAndGetSession(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodGet, "/sessions/"+id, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Rows    []types.DayRow `json:"rows"`
		Version int64          `json:"version"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Rows, 8)
	assert.Equal(t, "2026-04-01", resp.Rows[0].Date)
}

func TestSessionNotFound(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	w := doJSON(t, router, http.MethodGet, "/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRouteAndRefresh(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPut, "/sessions/"+id+"/rows/0/route", gin.H{"route": "Tokyo-Kyoto"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPut, "/sessions/"+id+"/rows/0/hotel", gin.H{"name": "Garden Ryokan"})
	require.Equal(t, http.StatusOK, w.Code)
	var row types.DayRow
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &row))
	assert.Equal(t, 900.0, row.HotelPrice)
	assert.Equal(t, 1800.0, row.HotelCost)

	w = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var refresh struct {
		Rows  []types.DayRow `json:"rows"`
		Quote float64        `json:"quote"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refresh))
	assert.Equal(t, 1800.0, refresh.Rows[0].HotelCost)
}

func TestDeleteLastRowConflict(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	id := createSession(t, router)

	for i := 0; i < 7; i++ {
		w := doJSON(t, router, http.MethodDelete, "/sessions/"+id+"/rows/0", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := doJSON(t, router, http.MethodDelete, "/sessions/"+id+"/rows/0", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/sessions/"+id+"/rows/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveTripConflictFlow(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/save", SaveTripRequest{Name: "Japan spring", User: "mia"})
	require.Equal(t, http.StatusOK, w.Code)

	// Same name again without a resolution aborts.
	w = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/save", SaveTripRequest{Name: "Japan spring", User: "leo"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Explicit overwrite succeeds.
	w = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/save", SaveTripRequest{Name: "Japan spring", User: "leo", OnConflict: "overwrite"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/trips", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Trips []types.SavedTrip `json:"trips"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Trips, 1)
}

func TestShareTrip(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/save", SaveTripRequest{Name: "Japan spring", User: "mia"})
	require.Equal(t, http.StatusOK, w.Code)
	var saved types.SavedTrip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))

	w = doJSON(t, router, http.MethodPost, "/trips/"+saved.ID+"/share", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var shared types.SavedTrip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shared))
	assert.NotEqual(t, saved.ID, shared.ID)

	// The copy shows up in the public listing only.
	w = doJSON(t, router, http.MethodGet, "/trips?scope=public", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Trips []types.SavedTrip `json:"trips"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Trips, 1)
	assert.Equal(t, shared.ID, list.Trips[0].ID)

	w = doJSON(t, router, http.MethodGet, "/trips", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list.Trips = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Trips, 1)
	assert.Equal(t, saved.ID, list.Trips[0].ID)
}

func TestPromoteRoute(t *testing.T) {
	router, store := newTestRouter(t, nil)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPut, "/sessions/"+id+"/rows/0/route", gin.H{"route": "Tokyo-Hakone"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/promote", PromoteRequest{Kind: "route", RowIndex: 0})
	require.Equal(t, http.StatusOK, w.Code)
	var outcome struct {
		Added      []string `json:"added"`
		Duplicates []string `json:"duplicates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, []string{"Hakone"}, outcome.Added)
	assert.Equal(t, []string{"Tokyo"}, outcome.Duplicates)

	cities, err := store.ListCities(context.Background(), "Japan")
	require.NoError(t, err)
	assert.Len(t, cities, 3)
}

func TestGenerateItinerary(t *testing.T) {
	gen := &stubGenerator{resp: &aiplanner.GenerateResponse{
		DetectedDestinations: []string{"Japan"},
		Itinerary: []aiplanner.ItineraryDay{
			{Origin: "Tokyo", Destination: "Hakone", HotelName: "Lake View"},
			{Origin: "Hakone", Destination: "Kyoto"},
		},
	}}
	router, _ := newTestRouter(t, gen)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/generate", GenerateRequest{DayCount: 2, Prompt: "onsen focus"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Rows []types.DayRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "Tokyo-Hakone", resp.Rows[0].Route)
	assert.Equal(t, "Lake View", resp.Rows[0].HotelName)
}

func TestGenerateUnavailableWithoutBackend(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/generate", GenerateRequest{DayCount: 2})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGenerateBackendFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("upstream timeout")}
	router, _ := newTestRouter(t, gen)
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/generate", GenerateRequest{DayCount: 2})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
