package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/types"
)

// GetCatalog returns the full catalog snapshot.
func (a *API) GetCatalog(c *gin.Context) {
	snap, err := a.catalog.Snapshot(c.Request.Context())
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to load catalog snapshot")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load catalog"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cities":     snap.Cities,
		"spots":      snap.Spots,
		"hotels":     snap.Hotels,
		"activities": snap.Activities,
		"transport":  snap.Transport,
		"countries":  snap.Countries(),
	})
}

// ListCities returns cities, optionally filtered by ?country=.
func (a *API) ListCities(c *gin.Context) {
	cities, err := a.catalog.ListCities(c.Request.Context(), c.Query("country"))
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to list cities")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list cities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// CreateCity creates a catalog city.
func (a *API) CreateCity(c *gin.Context) {
	var city types.City
	if err := c.ShouldBindJSON(&city); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if city.Country == "" || city.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "country and name are required"})
		return
	}
	created, err := a.catalog.CreateCity(c.Request.Context(), city)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to create city")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create city"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateSpot creates a ticketed spot under an existing city.
func (a *API) CreateSpot(c *gin.Context) {
	var spot types.Spot
	if err := c.ShouldBindJSON(&spot); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := a.catalog.CreateSpot(c.Request.Context(), spot)
	if err != nil {
		a.respondCatalogError(c, err, "spot")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateHotel creates a hotel price entry under an existing city.
func (a *API) CreateHotel(c *gin.Context) {
	var hotel types.Hotel
	if err := c.ShouldBindJSON(&hotel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := a.catalog.CreateHotel(c.Request.Context(), hotel)
	if err != nil {
		a.respondCatalogError(c, err, "hotel")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateActivity creates an activity under an existing city.
func (a *API) CreateActivity(c *gin.Context) {
	var activity types.Activity
	if err := c.ShouldBindJSON(&activity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := a.catalog.CreateActivity(c.Request.Context(), activity)
	if err != nil {
		a.respondCatalogError(c, err, "activity")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateTransport creates a regional transport rate.
func (a *API) CreateTransport(c *gin.Context) {
	var rate types.TransportRate
	if err := c.ShouldBindJSON(&rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := a.catalog.CreateTransport(c.Request.Context(), rate)
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to create transport rate")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create transport rate"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ImportCatalog accepts an xlsx workbook upload and imports its sheets.
func (a *API) ImportCatalog(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	result, err := a.importer.ImportWorkbook(c.Request.Context(), content, c.Query("country"))
	if err != nil {
		a.logger.Error().Err(err).Msg("Workbook import failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) respondCatalogError(c *gin.Context, err error, kind string) {
	if errors.Is(err, catalog.ErrMissingCity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.logger.Error().Err(err).Str("kind", kind).Msg("Catalog write failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create " + kind})
}
