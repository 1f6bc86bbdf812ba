// Package resolver computes which catalog entries apply to a day row
// and derives its cost fields. All resolution functions are pure over a
// catalog snapshot plus trip settings and are total: a missing match
// degrades to a fallback or a zero cost, never an error.
package resolver

import (
	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/place"
)

// RelevantCityIDs is the scope for ticket/activity matching on a day:
// every city matched by any place in the route, or, when the route is
// still empty, every city in the trip's selected destination countries.
// The result is deduplicated, preserving first-seen order.
func RelevantCityIDs(route string, destinations []string, snap catalog.Snapshot) []string {
	places := place.SplitRoute(route)
	if len(places) == 0 {
		return snap.CityIDsInCountries(destinations)
	}
	seen := make(map[string]bool)
	var ids []string
	for _, p := range places {
		for _, id := range place.MatchCityIDs(p, snap.Cities) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// HotelScopeCityIDs is the narrower scope for hotel matching: only the
// route's last stop. Lodging is anchored to where the day ends.
func HotelScopeCityIDs(route string, snap catalog.Snapshot) []string {
	return place.DestinationCityIDs(route, snap.Cities)
}
