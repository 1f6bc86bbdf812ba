package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stellartravel/itinerary-service/internal/trips"
	"github.com/stellartravel/itinerary-service/internal/types"
)

// SaveTripRequest persists the current session under a name.
type SaveTripRequest struct {
	Name string `json:"name"`
	User string `json:"user"`
	// Scope: "private" (default) or "public".
	Scope string `json:"scope"`
	// OnConflict: "" (abort), "overwrite", or "copy".
	OnConflict string `json:"onConflict"`
}

// tripScope reads the visibility scope from the ?scope= query value.
func tripScope(c *gin.Context) (trips.Scope, bool) {
	scope, err := trips.ParseScope(c.Query("scope"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return scope, true
}

// conflictFunc maps the request's conflict choice to a decision
// callback. An empty choice returns nil so the save aborts.
func conflictFunc(choice string) trips.ConflictFunc {
	switch choice {
	case "overwrite":
		return func(types.SavedTrip) trips.ConflictDecision { return trips.DecisionOverwrite }
	case "copy":
		return func(types.SavedTrip) trips.ConflictDecision { return trips.DecisionSaveAsCopy }
	}
	return nil
}

// SaveTrip saves the session state as a named trip. A name collision is
// only resolved the way the request explicitly asked for; the default
// is to abort with 409 so the caller can confirm.
func (a *API) SaveTrip(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	var req SaveTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope, err := trips.ParseScope(req.Scope)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := a.trips.Save(c.Request.Context(), scope, trips.SaveRequest{
		Name:          req.Name,
		Settings:      s.Settings(),
		Rows:          s.Rows(),
		CustomColumns: s.CustomColumns(),
		User:          req.User,
	}, conflictFunc(req.OnConflict))
	switch {
	case errors.Is(err, trips.ErrAborted):
		c.JSON(http.StatusConflict, gin.H{"error": "a trip with this name already exists"})
		return
	case errors.Is(err, trips.ErrEmptyName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		a.logger.Error().Err(err).Msg("Failed to save trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save trip"})
		return
	}
	c.JSON(http.StatusOK, saved)
}

// LoadTrip replaces the session state with a saved trip.
func (a *API) LoadTrip(c *gin.Context) {
	s, ok := a.session(c)
	if !ok {
		return
	}
	scope, ok := tripScope(c)
	if !ok {
		return
	}
	trip, err := a.trips.Load(c.Request.Context(), scope, c.Param("tripId"))
	if errors.Is(err, trips.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to load trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load trip"})
		return
	}
	s.Load(trip.Settings, trip.Rows, trip.CustomColumns)
	c.JSON(http.StatusOK, gin.H{
		"settings": s.Settings(),
		"rows":     s.Rows(),
	})
}

// ListTrips returns a scope's saved trips, filtered by ?query= when
// given.
func (a *API) ListTrips(c *gin.Context) {
	scope, ok := tripScope(c)
	if !ok {
		return
	}
	result, err := a.trips.Search(c.Request.Context(), scope, c.Query("query"))
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to list trips")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list trips"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": result})
}

// GetTrip returns one saved trip by id.
func (a *API) GetTrip(c *gin.Context) {
	scope, ok := tripScope(c)
	if !ok {
		return
	}
	trip, err := a.trips.Load(c.Request.Context(), scope, c.Param("id"))
	if errors.Is(err, trips.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to get trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get trip"})
		return
	}
	c.JSON(http.StatusOK, trip)
}

// ShareTrip copies a saved trip into the opposite visibility scope
// under a fresh id. ?onConflict= decides what a name collision in the
// target scope does; the default aborts with 409.
func (a *API) ShareTrip(c *gin.Context) {
	scope, ok := tripScope(c)
	if !ok {
		return
	}
	shared, err := a.trips.CopyToScope(c.Request.Context(), scope, c.Param("id"), conflictFunc(c.Query("onConflict")))
	switch {
	case errors.Is(err, trips.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	case errors.Is(err, trips.ErrAborted):
		c.JSON(http.StatusConflict, gin.H{"error": "a trip with this name already exists in the target scope"})
		return
	case err != nil:
		a.logger.Error().Err(err).Msg("Failed to share trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to share trip"})
		return
	}
	c.JSON(http.StatusOK, shared)
}

// DeleteTrip removes a saved trip.
func (a *API) DeleteTrip(c *gin.Context) {
	scope, ok := tripScope(c)
	if !ok {
		return
	}
	err := a.trips.Delete(c.Request.Context(), scope, c.Param("id"))
	if errors.Is(err, trips.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "trip not found"})
		return
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to delete trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete trip"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
