package place

import (
	"github.com/stellartravel/itinerary-service/internal/types"
)

// MatchCityIDs returns the ids of all cities whose name matches the
// queried name. A city matches on exact equality, or when either side
// is a composite "A (B)" whose prefix or parenthetical equals the
// other side's plain name. All matching ids are returned, in catalog
// order.
func MatchCityIDs(name string, cities []types.City) []string {
	var ids []string
	for _, c := range cities {
		if Matches(name, c.Name) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Matches reports whether a queried place name and a catalog city name
// refer to the same place under the composite-alias rules.
func Matches(query, cityName string) bool {
	if query == cityName {
		return true
	}
	// Catalog has "Beijing (China)", query is "Beijing" or "China".
	if p1, p2, ok := SplitComposite(cityName); ok {
		if query == p1 || query == p2 {
			return true
		}
	}
	// Query is "Beijing (China)", catalog has "Beijing" or "China".
	if p1, p2, ok := SplitComposite(query); ok {
		if cityName == p1 || cityName == p2 {
			return true
		}
	}
	return false
}

// DestinationCityIDs resolves the last stop of a route to its matching
// city ids; the empty route yields nil. Hotels are scoped to this set
// because lodging belongs to where the day ends, not to transits.
func DestinationCityIDs(route string, cities []types.City) []string {
	last := LastStop(route)
	if last == "" {
		return nil
	}
	return MatchCityIDs(last, cities)
}
