package planner

import (
	"github.com/stellartravel/itinerary-service/internal/types"
)

// GeneratedDay is one day of a machine-generated itinerary as the
// planner consumes it.
type GeneratedDay struct {
	Origin       string
	Destination  string
	HotelName    string
	TicketName   string
	ActivityName string
	Description  string
}

// ApplyItinerary replaces the row list with a generated itinerary. The
// list is resized to the itinerary's length: existing rows are reused
// in order so their ids and manual cost overrides survive, extra rows
// are created, and surplus rows are dropped. Detected destinations are
// merged into the trip settings. Costs are left untouched until the
// next bulk refresh.
func (s *Session) ApplyItinerary(days []GeneratedDay, detectedDestinations []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]types.DayRow, len(days))
	for i, d := range days {
		var row types.DayRow
		if i < len(s.rows) {
			row = s.rows[i].Clone()
		} else {
			row = s.newRow(i + 1)
		}
		row.DayIndex = i + 1
		row.Date = types.AddDays(s.settings.StartDate, i)
		row.Route = d.Origin + "-" + d.Destination
		if d.HotelName != "" {
			row.HotelName = d.HotelName
		}
		if d.TicketName != "" {
			row.TicketNames = []string{d.TicketName}
		}
		if d.ActivityName != "" {
			row.ActivityNames = []string{d.ActivityName}
		}
		if d.Description != "" {
			row.Description = d.Description
		}
		rows[i] = row
	}
	s.rows = rows

	seen := make(map[string]bool, len(s.settings.Destinations))
	for _, c := range s.settings.Destinations {
		seen[c] = true
	}
	for _, c := range detectedDestinations {
		if c != "" && !seen[c] {
			seen[c] = true
			s.settings.Destinations = append(s.settings.Destinations, c)
		}
	}
	s.version++
}
