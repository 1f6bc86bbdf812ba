package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stellartravel/itinerary-service/internal/aiplanner"
	"github.com/stellartravel/itinerary-service/internal/planner"
)

// GenerateRequest asks the generation backend for an itinerary draft.
type GenerateRequest struct {
	DayCount int    `json:"dayCount"`
	Prompt   string `json:"prompt"`
}

// GenerateItinerary drafts an itinerary for the session's destinations
// and replaces the row list with it. Costs stay untouched until the
// next bulk refresh.
func (a *API) GenerateItinerary(c *gin.Context) {
	if a.generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "generation backend not configured"})
		return
	}
	s, ok := a.session(c)
	if !ok {
		return
	}
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows := s.Rows()
	dayCount := req.DayCount
	if dayCount <= 0 {
		dayCount = len(rows)
	}

	snap, err := a.catalog.Snapshot(c.Request.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to load catalog snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}

	resp, err := a.generator.Generate(c.Request.Context(), aiplanner.GenerateRequest{
		DestinationCountries: s.Settings().Destinations,
		DayCount:             dayCount,
		UserPrompt:           req.Prompt,
		ExistingRows:         rows,
		AvailableCountries:   snap.Countries(),
		AvailableCityNames:   snap.CityNames(),
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("Itinerary generation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "itinerary generation failed"})
		return
	}

	days := make([]planner.GeneratedDay, len(resp.Itinerary))
	for i, d := range resp.Itinerary {
		days[i] = planner.GeneratedDay{
			Origin:       d.Origin,
			Destination:  d.Destination,
			HotelName:    d.HotelName,
			TicketName:   d.TicketName,
			ActivityName: d.ActivityName,
			Description:  d.Description,
		}
	}
	s.ApplyItinerary(days, resp.DetectedDestinations)

	c.JSON(http.StatusOK, gin.H{
		"rows":                 s.Rows(),
		"settings":             s.Settings(),
		"detectedDestinations": resp.DetectedDestinations,
	})
}
