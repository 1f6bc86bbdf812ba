package types

import "time"

// DayRow is one day of an itinerary. Cost fields marked derived are
// maintained by the cost resolver; editing them directly is allowed and
// simply overwrites the derived value until the next resolution.
type DayRow struct {
	ID            string   `json:"id"`
	DayIndex      int      `json:"dayIndex"` // 1-based, contiguous
	Date          string   `json:"date"`     // YYYY-MM-DD, may be empty
	Route         string   `json:"route"`    // delimiter-joined place names
	Transport     []string `json:"transport"`
	CarModel      string   `json:"carModel"`
	HotelName     string   `json:"hotelName"`
	HotelRoomType string   `json:"hotelRoomType"`
	TicketNames   []string `json:"ticketNames"`
	ActivityNames []string `json:"activityNames"`
	Description   string   `json:"description"`
	Rooms         int      `json:"rooms"`

	TransportCost float64 `json:"transportCost"`
	HotelPrice    float64 `json:"hotelPrice"` // unit price per room
	HotelCost     float64 `json:"hotelCost"`  // derived: HotelPrice * Rooms
	TicketCost    float64 `json:"ticketCost"` // derived: sum(unit) * people
	ActivityCost  float64 `json:"activityCost"`
	OtherCost     float64 `json:"otherCost"`

	CustomCosts map[string]float64 `json:"customCosts,omitempty"`
}

// Total returns the sum of all cost columns for the day.
func (r DayRow) Total() float64 {
	t := r.TransportCost + r.HotelCost + r.TicketCost + r.ActivityCost + r.OtherCost
	for _, v := range r.CustomCosts {
		t += v
	}
	return t
}

// Clone returns a deep copy of the row.
func (r DayRow) Clone() DayRow {
	cp := r
	cp.Transport = append([]string(nil), r.Transport...)
	cp.TicketNames = append([]string(nil), r.TicketNames...)
	cp.ActivityNames = append([]string(nil), r.ActivityNames...)
	if r.CustomCosts != nil {
		cp.CustomCosts = make(map[string]float64, len(r.CustomCosts))
		for k, v := range r.CustomCosts {
			cp.CustomCosts[k] = v
		}
	}
	return cp
}

// CloneRows deep-copies a row list.
func CloneRows(rows []DayRow) []DayRow {
	out := make([]DayRow, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// CustomColumn is a user-defined cost column.
type CustomColumn struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TripSettings are the trip-level knobs that drive resolution.
// Destinations is the country fallback scope used when a row has no
// route yet.
type TripSettings struct {
	PlannerName      string   `json:"plannerName"`
	CustomerName     string   `json:"customerName"`
	PeopleCount      int      `json:"peopleCount"`
	RoomCount        int      `json:"roomCount"`
	Currency         string   `json:"currency"`
	ExchangeRate     float64  `json:"exchangeRate"`
	Destinations     []string `json:"destinations"`
	StartDate        string   `json:"startDate"` // YYYY-MM-DD
	MarginPercent    float64  `json:"marginPercent"`
	TipPerDay        float64  `json:"tipPerDay"`
	ManualInclusions string   `json:"manualInclusions,omitempty"`
	ManualExclusions string   `json:"manualExclusions,omitempty"`
}

// Clone returns a deep copy of the settings.
func (s TripSettings) Clone() TripSettings {
	cp := s
	cp.Destinations = append([]string(nil), s.Destinations...)
	return cp
}

// SavedTrip is a persisted snapshot of settings plus rows. Visibility
// is a storage-scope concept owned by the store, not a field here.
type SavedTrip struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	SavedAt        time.Time      `json:"savedAt"`
	Settings       TripSettings   `json:"settings"`
	Rows           []DayRow       `json:"rows"`
	CustomColumns  []CustomColumn `json:"customColumns,omitempty"`
	CreatedBy      string         `json:"createdBy"`
	LastModifiedBy string         `json:"lastModifiedBy"`
}

// Clone returns a deep copy of the trip.
func (t SavedTrip) Clone() SavedTrip {
	cp := t
	cp.Settings = t.Settings.Clone()
	cp.Rows = CloneRows(t.Rows)
	cp.CustomColumns = append([]CustomColumn(nil), t.CustomColumns...)
	return cp
}
