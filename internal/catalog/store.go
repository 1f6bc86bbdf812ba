// Package catalog defines the resource-catalog contract the pricing
// engine reads and writes through, plus an in-memory implementation
// used per editing session and in tests.
package catalog

import (
	"context"
	"errors"

	"github.com/stellartravel/itinerary-service/internal/types"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("catalog: record not found")
	// ErrMissingCity is returned when a resource is created without a
	// resolvable city reference.
	ErrMissingCity = errors.New("catalog: resource requires an existing city")
)

// Store is the narrow query/mutation contract over the resource
// catalog. List methods take an optional scope filter; the empty string
// means unfiltered. Create methods assign an id when the record has
// none and return the persisted record.
type Store interface {
	ListCities(ctx context.Context, country string) ([]types.City, error)
	ListSpots(ctx context.Context, cityID string) ([]types.Spot, error)
	ListHotels(ctx context.Context, cityID string) ([]types.Hotel, error)
	ListActivities(ctx context.Context, cityID string) ([]types.Activity, error)
	ListTransports(ctx context.Context, region string) ([]types.TransportRate, error)

	CreateCity(ctx context.Context, c types.City) (types.City, error)
	// UpdateCityName rewrites a city's name in place. This is the
	// alias-upgrade mutation; the id never changes.
	UpdateCityName(ctx context.Context, id, name string) (types.City, error)
	CreateSpot(ctx context.Context, s types.Spot) (types.Spot, error)
	CreateHotel(ctx context.Context, h types.Hotel) (types.Hotel, error)
	CreateActivity(ctx context.Context, a types.Activity) (types.Activity, error)
	CreateTransport(ctx context.Context, t types.TransportRate) (types.TransportRate, error)

	// Snapshot returns a point-in-time copy of the whole catalog for
	// the pure resolution functions to work over.
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Snapshot is an immutable in-memory view of the catalog. Resolution
// functions take it by value and never mutate it.
type Snapshot struct {
	Cities     []types.City
	Spots      []types.Spot
	Hotels     []types.Hotel
	Activities []types.Activity
	Transport  []types.TransportRate
}

// CityIDsInCountries returns the ids of every city belonging to one of
// the given countries, in catalog order.
func (s Snapshot) CityIDsInCountries(countries []string) []string {
	if len(countries) == 0 {
		return nil
	}
	want := make(map[string]bool, len(countries))
	for _, c := range countries {
		want[c] = true
	}
	var ids []string
	for _, c := range s.Cities {
		if want[c.Country] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Countries returns the distinct countries present in the catalog, in
// first-seen order.
func (s Snapshot) Countries() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range s.Cities {
		if !seen[c.Country] {
			seen[c.Country] = true
			out = append(out, c.Country)
		}
	}
	return out
}

// CityNames returns the distinct city names in the catalog, in
// first-seen order.
func (s Snapshot) CityNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range s.Cities {
		if !seen[c.Name] {
			seen[c.Name] = true
			out = append(out, c.Name)
		}
	}
	return out
}
