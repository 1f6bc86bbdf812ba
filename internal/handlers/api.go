// Package handlers exposes the itinerary service over HTTP.
package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stellartravel/itinerary-service/internal/aiplanner"
	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/importer"
	"github.com/stellartravel/itinerary-service/internal/planner"
	"github.com/stellartravel/itinerary-service/internal/promotion"
	"github.com/stellartravel/itinerary-service/internal/trips"
)

// Generator is the itinerary-drafting dependency. *aiplanner.Client
// satisfies it; tests swap in a stub.
type Generator interface {
	Generate(ctx context.Context, req aiplanner.GenerateRequest) (*aiplanner.GenerateResponse, error)
}

// API bundles the service dependencies behind the HTTP handlers.
type API struct {
	logger    zerolog.Logger
	catalog   catalog.Store
	trips     *trips.Service
	promotion *promotion.Service
	importer  *importer.Importer
	generator Generator

	mu       sync.RWMutex
	sessions map[string]*planner.Session
}

// New creates the handler set. generator may be nil when no generation
// backend is configured; the generate endpoint then returns 503.
func New(store catalog.Store, tripSvc *trips.Service, generator Generator) *API {
	return &API{
		logger:    log.With().Str("component", "http_api").Logger(),
		catalog:   store,
		trips:     tripSvc,
		promotion: promotion.New(store),
		importer:  importer.New(store),
		generator: generator,
		sessions:  make(map[string]*planner.Session),
	}
}

// Register mounts all routes on the given router group.
func (a *API) Register(r gin.IRouter) {
	cat := r.Group("/catalog")
	{
		cat.GET("", a.GetCatalog)
		cat.GET("/cities", a.ListCities)
		cat.POST("/cities", a.CreateCity)
		cat.POST("/spots", a.CreateSpot)
		cat.POST("/hotels", a.CreateHotel)
		cat.POST("/activities", a.CreateActivity)
		cat.POST("/transport", a.CreateTransport)
		cat.POST("/import", a.ImportCatalog)
	}

	sessions := r.Group("/sessions")
	{
		sessions.POST("", a.CreateSession)
		sessions.GET("/:id", a.GetSession)
		sessions.PUT("/:id/settings", a.UpdateSettings)
		sessions.POST("/:id/rows", a.AppendRow)
		sessions.DELETE("/:id/rows/:index", a.DeleteRow)
		sessions.PATCH("/:id/rows/:index", a.EditRow)
		sessions.PUT("/:id/rows/:index/route", a.UpdateRoute)
		sessions.PUT("/:id/rows/:index/hotel", a.UpdateHotelName)
		sessions.PUT("/:id/rows/:index/room-type", a.UpdateRoomType)
		sessions.PUT("/:id/rows/:index/rooms", a.UpdateRooms)
		sessions.POST("/:id/refresh", a.RefreshCosts)
		sessions.POST("/:id/generate", a.GenerateItinerary)
		sessions.POST("/:id/promote", a.Promote)
		sessions.GET("/:id/rows/:index/suggest-country", a.SuggestCountry)
		sessions.POST("/:id/save", a.SaveTrip)
		sessions.POST("/:id/load/:tripId", a.LoadTrip)
	}

	tr := r.Group("/trips")
	{
		tr.GET("", a.ListTrips)
		tr.GET("/:id", a.GetTrip)
		tr.POST("/:id/share", a.ShareTrip)
		tr.DELETE("/:id", a.DeleteTrip)
	}
}

func (a *API) newSessionID() string { return uuid.NewString() }

func (a *API) session(c *gin.Context) (*planner.Session, bool) {
	id := c.Param("id")
	a.mu.RLock()
	s, ok := a.sessions[id]
	a.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}
