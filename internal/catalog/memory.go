package catalog

import (
	"context"
	"sync"

	"github.com/stellartravel/itinerary-service/internal/pkg/entid"
	"github.com/stellartravel/itinerary-service/internal/types"
)

// MemoryStore is an in-memory Store. It is safe for concurrent use and
// hands out copies, never internal slices.
type MemoryStore struct {
	mu         sync.RWMutex
	cities     []types.City
	spots      []types.Spot
	hotels     []types.Hotel
	activities []types.Activity
	transport  []types.TransportRate
}

// NewMemoryStore returns an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load replaces the whole catalog content. Intended for session
// bootstrap and tests.
func (m *MemoryStore) Load(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cities = append([]types.City(nil), s.Cities...)
	m.spots = append([]types.Spot(nil), s.Spots...)
	m.hotels = append([]types.Hotel(nil), s.Hotels...)
	m.activities = append([]types.Activity(nil), s.Activities...)
	m.transport = append([]types.TransportRate(nil), s.Transport...)
}

func (m *MemoryStore) ListCities(ctx context.Context, country string) ([]types.City, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.City, 0, len(m.cities))
	for _, c := range m.cities {
		if country == "" || c.Country == country {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListSpots(ctx context.Context, cityID string) ([]types.Spot, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Spot, 0, len(m.spots))
	for _, s := range m.spots {
		if cityID == "" || s.CityID == cityID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListHotels(ctx context.Context, cityID string) ([]types.Hotel, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Hotel, 0, len(m.hotels))
	for _, h := range m.hotels {
		if cityID == "" || h.CityID == cityID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListActivities(ctx context.Context, cityID string) ([]types.Activity, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Activity, 0, len(m.activities))
	for _, a := range m.activities {
		if cityID == "" || a.CityID == cityID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemoryStore) ListTransports(ctx context.Context, region string) ([]types.TransportRate, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.TransportRate, 0, len(m.transport))
	for _, t := range m.transport {
		if region == "" || t.Region == region {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateCity(ctx context.Context, c types.City) (types.City, error) {
	_ = ctx
	if c.ID == "" {
		c.ID = entid.New(entid.PrefixCity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cities = append(m.cities, c)
	return c, nil
}

func (m *MemoryStore) UpdateCityName(ctx context.Context, id, name string) (types.City, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.cities {
		if m.cities[i].ID == id {
			m.cities[i].Name = name
			return m.cities[i], nil
		}
	}
	return types.City{}, ErrNotFound
}

func (m *MemoryStore) CreateSpot(ctx context.Context, s types.Spot) (types.Spot, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cityExistsLocked(s.CityID) {
		return types.Spot{}, ErrMissingCity
	}
	if s.ID == "" {
		s.ID = entid.New(entid.PrefixSpot)
	}
	m.spots = append(m.spots, s)
	return s, nil
}

func (m *MemoryStore) CreateHotel(ctx context.Context, h types.Hotel) (types.Hotel, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cityExistsLocked(h.CityID) {
		return types.Hotel{}, ErrMissingCity
	}
	if h.ID == "" {
		h.ID = entid.New(entid.PrefixHotel)
	}
	m.hotels = append(m.hotels, h)
	return h, nil
}

func (m *MemoryStore) CreateActivity(ctx context.Context, a types.Activity) (types.Activity, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.cityExistsLocked(a.CityID) {
		return types.Activity{}, ErrMissingCity
	}
	if a.ID == "" {
		a.ID = entid.New(entid.PrefixActivity)
	}
	m.activities = append(m.activities, a)
	return a, nil
}

func (m *MemoryStore) CreateTransport(ctx context.Context, t types.TransportRate) (types.TransportRate, error) {
	_ = ctx
	if t.ID == "" {
		t.ID = entid.New(entid.PrefixTransport)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transport = append(m.transport, t)
	return t, nil
}

func (m *MemoryStore) Snapshot(ctx context.Context) (Snapshot, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		Cities:     append([]types.City(nil), m.cities...),
		Spots:      append([]types.Spot(nil), m.spots...),
		Hotels:     append([]types.Hotel(nil), m.hotels...),
		Activities: append([]types.Activity(nil), m.activities...),
		Transport:  append([]types.TransportRate(nil), m.transport...),
	}, nil
}

func (m *MemoryStore) cityExistsLocked(id string) bool {
	for _, c := range m.cities {
		if c.ID == id {
			return true
		}
	}
	return false
}
