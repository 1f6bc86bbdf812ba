package types

// Visibility is the storage scope of a catalog resource or saved trip.
// A record lives in exactly one scope at a time; promotion to the other
// scope is a copy with a new id.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// RegionUniversal is the sentinel region for transport rates that apply
// everywhere. Legacy catalogs carry the Chinese spelling, so matching
// accepts both.
const (
	RegionUniversal       = "General"
	regionUniversalLegacy = "通用"
)

// IsUniversalRegion reports whether a transport rate region is the
// universal sentinel.
func IsUniversalRegion(region string) bool {
	return region == RegionUniversal || region == regionUniversalLegacy
}

// City is the unit of identity for all location-scoped resources.
// ID is immutable once created; Name may be rewritten in place by the
// alias-upgrade rule during catalog promotion.
type City struct {
	ID       string `json:"id"`
	Country  string `json:"country"`
	Name     string `json:"name"`
	IsPublic bool   `json:"isPublic"`
}

// Spot is a ticketed attraction. Price is the per-person entry price.
type Spot struct {
	ID       string  `json:"id"`
	CityID   string  `json:"cityId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	IsPublic bool    `json:"isPublic"`
}

// Hotel is one (hotel, room type) price point. The same hotel name may
// appear once per room type.
type Hotel struct {
	ID       string  `json:"id"`
	CityID   string  `json:"cityId"`
	Name     string  `json:"name"`
	RoomType string  `json:"roomType"`
	Price    float64 `json:"price"` // per room per night
	IsPublic bool    `json:"isPublic"`
}

// Activity is a bookable experience. Price is per person.
type Activity struct {
	ID       string  `json:"id"`
	CityID   string  `json:"cityId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	IsPublic bool    `json:"isPublic"`
}

// TransportRate is a chartered-vehicle price entry, scoped by region
// (country name or RegionUniversal) rather than city.
type TransportRate struct {
	ID          string  `json:"id"`
	Region      string  `json:"region"`
	CarModel    string  `json:"carModel"`
	ServiceType string  `json:"serviceType"`
	Passengers  int     `json:"passengers"`
	PriceLow    float64 `json:"priceLow"`  // low season, per day
	PriceHigh   float64 `json:"priceHigh"` // high season, per day
	IsPublic    bool    `json:"isPublic"`
}
