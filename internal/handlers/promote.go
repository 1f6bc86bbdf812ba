package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stellartravel/itinerary-service/internal/promotion"
)

// PromoteRequest copies part of a session row into the shared catalog.
type PromoteRequest struct {
	Kind     string `json:"kind"`
	RowIndex int    `json:"rowIndex"`
	Country  string `json:"country"`
}

// Promote promotes a row's route places, hotel, tickets or activities
// into the catalog. An empty country is inferred from the row's route
// or the trip destinations.
func (a *API) Promote(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	var req PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows := s.Rows()
	if req.RowIndex < 0 || req.RowIndex >= len(rows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "row index out of range"})
		return
	}

	outcome, err := a.promotion.Promote(
		c.Request.Context(),
		promotion.Kind(req.Kind),
		rows[req.RowIndex],
		req.Country,
		s.Settings(),
	)
	switch {
	case errors.Is(err, promotion.ErrCountryRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, promotion.ErrUnknownKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		a.logger.Error().Err(err).Msg("Promotion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "promotion failed"})
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// SuggestCountry proposes a promotion target country for a row.
func (a *API) SuggestCountry(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	rows := s.Rows()
	if idx < 0 || idx >= len(rows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "row index out of range"})
		return
	}
	snap, err := a.catalog.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}
	country := promotion.SuggestCountry(rows[idx], snap, s.Settings().Destinations)
	c.JSON(http.StatusOK, gin.H{"country": country})
}
