package trips

import (
	"context"
	"fmt"
	"sync"

	"github.com/stellartravel/itinerary-service/internal/types"
)

// MemoryStore keeps saved trips in process memory. All reads return
// deep copies so callers cannot mutate shared state.
type MemoryStore struct {
	mu    sync.RWMutex
	trips map[string]types.SavedTrip
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trips: make(map[string]types.SavedTrip)}
}

func (m *MemoryStore) List(ctx context.Context) ([]types.SavedTrip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.SavedTrip, 0, len(m.trips))
	for _, t := range m.trips {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (types.SavedTrip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.trips[id]
	if !ok {
		return types.SavedTrip{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t.Clone(), nil
}

func (m *MemoryStore) FindByName(ctx context.Context, name string) (types.SavedTrip, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.trips {
		if t.Name == name {
			return t.Clone(), true, nil
		}
	}
	return types.SavedTrip{}, false, nil
}

func (m *MemoryStore) Put(ctx context.Context, trip types.SavedTrip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip.Clone()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.trips, id)
	return nil
}
