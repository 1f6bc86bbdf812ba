package aiplanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeItinerary(t *testing.T) {
	content := `{
		"detectedDestinations": ["Japan"],
		"itinerary": [
			{"origin": "Tokyo", "destination": "Hakone", "hotelName": "Lake View Ryokan"},
			{"origin": "Hakone", "destination": "Kyoto", "description": "Bullet train day"}
		]
	}`

	out, err := decodeItinerary(content)

	require.NoError(t, err)
	assert.Equal(t, []string{"Japan"}, out.DetectedDestinations)
	require.Len(t, out.Itinerary, 2)
	assert.Equal(t, "Tokyo", out.Itinerary[0].Origin)
	assert.Equal(t, "Lake View Ryokan", out.Itinerary[0].HotelName)
	assert.Equal(t, "Bullet train day", out.Itinerary[1].Description)
}

func TestDecodeItineraryStripsCodeFence(t *testing.T) {
	content := "```json\n{\"detectedDestinations\": [], \"itinerary\": [{\"origin\": \"A\", \"destination\": \"B\"}]}\n```"

	out, err := decodeItinerary(content)

	require.NoError(t, err)
	require.Len(t, out.Itinerary, 1)
	assert.Equal(t, "B", out.Itinerary[0].Destination)
}

func TestDecodeItineraryRejectsEmpty(t *testing.T) {
	_, err := decodeItinerary(`{"detectedDestinations": [], "itinerary": []}`)
	assert.ErrorIs(t, err, ErrEmptyItinerary)
}

func TestDecodeItineraryRejectsMissingDestination(t *testing.T) {
	_, err := decodeItinerary(`{"itinerary": [{"origin": "A", "destination": ""}]}`)
	assert.Error(t, err)
}

func TestDecodeItineraryRejectsGarbage(t *testing.T) {
	_, err := decodeItinerary("sorry, I cannot help with that")
	assert.Error(t, err)
}

func TestResponseSchemaMarksRequiredFields(t *testing.T) {
	schema := ResponseSchema()
	require.NotNil(t, schema)
	assert.Contains(t, schema.Required, "itinerary")
}
