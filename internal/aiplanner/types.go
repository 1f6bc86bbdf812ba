// Package aiplanner calls an external text-generation backend to draft
// a day-by-day itinerary from a free-form prompt.
package aiplanner

import (
	"github.com/invopop/jsonschema"

	"github.com/stellartravel/itinerary-service/internal/types"
)

// GenerateRequest describes what the itinerary draft should cover.
type GenerateRequest struct {
	DestinationCountries []string       `json:"destinationCountries"`
	DayCount             int            `json:"dayCount"`
	UserPrompt           string         `json:"userPrompt"`
	ExistingRows         []types.DayRow `json:"existingRows,omitempty"`
	AvailableCountries   []string       `json:"availableCountries,omitempty"`
	AvailableCityNames   []string       `json:"availableCityNames,omitempty"`
}

// ItineraryDay is one generated day. Origin and destination are plain
// place names; the optional fields reference catalog entries when the
// model picked one of the offered names.
type ItineraryDay struct {
	Origin       string `json:"origin" jsonschema:"required"`
	Destination  string `json:"destination" jsonschema:"required"`
	HotelName    string `json:"hotelName,omitempty"`
	TicketName   string `json:"ticketName,omitempty"`
	ActivityName string `json:"activityName,omitempty"`
	Description  string `json:"description,omitempty"`
}

// GenerateResponse is the structured reply the model must produce.
type GenerateResponse struct {
	DetectedDestinations []string       `json:"detectedDestinations"`
	Itinerary            []ItineraryDay `json:"itinerary" jsonschema:"required"`
}

// ResponseSchema returns the JSON Schema the model's reply is validated
// against, reflected from GenerateResponse.
func ResponseSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	return reflector.Reflect(GenerateResponse{})
}
