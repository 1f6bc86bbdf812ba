package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stellartravel/itinerary-service/internal/planner"
	"github.com/stellartravel/itinerary-service/internal/types"
)

// CreateSessionRequest opens a new editing session.
type CreateSessionRequest struct {
	Settings types.TripSettings `json:"settings"`
}

// CreateSession opens a planning session with the default row list.
func (a *API) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := a.newSessionID()
	session := planner.NewSession(a.catalog, req.Settings)

	a.mu.Lock()
	a.sessions[id] = session
	a.mu.Unlock()

	a.logger.Info().Str("session_id", id).Msg("Session created")
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": id,
		"rows":      session.Rows(),
		"settings":  session.Settings(),
	})
}

// GetSession returns the complete session state.
func (a *API) GetSession(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings":        s.Settings(),
		"rows":            s.Rows(),
		"customColumns":   s.CustomColumns(),
		"totals":          s.Totals(),
		"quote":           s.Quote(),
		"locationHistory": s.LocationHistory(),
		"version":         s.Version(),
	})
}

// UpdateSettings replaces the trip settings.
func (a *API) UpdateSettings(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	var settings types.TripSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.UpdateSettings(settings)
	c.JSON(http.StatusOK, gin.H{"settings": s.Settings()})
}

// AppendRow adds a day at the end of the trip.
func (a *API) AppendRow(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	row := s.AppendRow()
	c.JSON(http.StatusCreated, row)
}

// DeleteRow removes a day and renumbers the rest.
func (a *API) DeleteRow(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	if err := s.DeleteRow(idx); err != nil {
		respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": s.Rows()})
}

// EditRow applies direct field edits with no resolution.
func (a *API) EditRow(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	var patch planner.RowPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.EditRow(idx, patch); err != nil {
		respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Rows()[idx])
}

// UpdateRoute sets a row's route, with next-day prefill.
func (a *API) UpdateRoute(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	var req struct {
		Route string `json:"route"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.UpdateRoute(idx, req.Route); err != nil {
		respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": s.Rows(), "locationHistory": s.LocationHistory()})
}

// UpdateHotelName sets a row's hotel and re-resolves its price.
func (a *API) UpdateHotelName(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.UpdateHotelName(c.Request.Context(), idx, req.Name); err != nil {
		respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Rows()[idx])
}

// UpdateRoomType sets a row's room type and re-prices the hotel.
func (a *API) UpdateRoomType(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	var req struct {
		RoomType string `json:"roomType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.UpdateRoomType(c.Request.Context(), idx, req.RoomType); err != nil {
		respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Rows()[idx])
}

// UpdateRooms changes the room count and rescales the hotel cost.
func (a *API) UpdateRooms(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	idx, ok := rowIndex(c)
	if !ok {
		return
	}
	var req struct {
		Rooms int `json:"rooms"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.UpdateRooms(idx, req.Rooms); err != nil {
		respondPlannerError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Rows()[idx])
}

// RefreshCosts re-resolves every row against the current catalog.
func (a *API) RefreshCosts(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	matches, err := s.RefreshCosts(c.Request.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("Bulk refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh costs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rows":    s.Rows(),
		"matches": matches,
		"totals":  s.Totals(),
		"quote":   s.Quote(),
	})
}

func rowIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid row index"})
		return 0, false
	}
	return idx, true
}

func respondPlannerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, planner.ErrRowIndex):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, planner.ErrLastRow):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
