package aiplanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stellartravel/itinerary-service/config"
	"github.com/stellartravel/itinerary-service/internal/httpclient"
	"github.com/stellartravel/itinerary-service/internal/httpclient/ratelimit"
)

var (
	// ErrNotConfigured means no backend URL or key is set.
	ErrNotConfigured = errors.New("aiplanner: backend not configured")
	// ErrEmptyItinerary means the model replied without any days.
	ErrEmptyItinerary = errors.New("aiplanner: empty itinerary in response")
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	logger  zerolog.Logger
	http    *httpclient.Client
	baseURL string
	apiKey  string
	model   string
}

func NewClient(cfg config.AIConfig) *Client {
	return &Client{
		logger:  log.With().Str("component", "aiplanner_client").Logger(),
		http:    httpclient.NewClient(ratelimit.DefaultConfig(), cfg.Timeout),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate asks the backend for a structured itinerary draft.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	payload := chatRequest{
		Model:       c.model,
		Temperature: 0.4,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(req)},
			{Role: "user", Content: userPrompt(req)},
		},
	}
	payload.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	data, err := c.http.PostJSON(ctx, c.baseURL+"/v1/chat/completions", map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, body)
	if err != nil {
		return nil, fmt.Errorf("call generation backend: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("chat response has no choices")
	}

	out, err := decodeItinerary(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Int("days", len(out.Itinerary)).
		Strs("detected", out.DetectedDestinations).
		Msg("Itinerary generated")
	return out, nil
}

func systemPrompt(req GenerateRequest) string {
	var b strings.Builder
	b.WriteString("You are a travel itinerary planner. Reply with a single JSON object ")
	b.WriteString("matching this schema and nothing else:\n")
	schema, _ := json.Marshal(ResponseSchema())
	b.Write(schema)
	if len(req.AvailableCountries) > 0 {
		b.WriteString("\nKnown countries: " + strings.Join(req.AvailableCountries, ", "))
	}
	if len(req.AvailableCityNames) > 0 {
		b.WriteString("\nPrefer these place names when they fit: " + strings.Join(req.AvailableCityNames, ", "))
	}
	return b.String()
}

func userPrompt(req GenerateRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day trip", req.DayCount)
	if len(req.DestinationCountries) > 0 {
		fmt.Fprintf(&b, " through %s", strings.Join(req.DestinationCountries, ", "))
	}
	b.WriteString(".")
	if req.UserPrompt != "" {
		b.WriteString("\n" + req.UserPrompt)
	}
	if len(req.ExistingRows) > 0 {
		b.WriteString("\nCurrent draft routes:")
		for _, r := range req.ExistingRows {
			if r.Route != "" {
				fmt.Fprintf(&b, "\nDay %d: %s", r.DayIndex, r.Route)
			}
		}
	}
	return b.String()
}

// decodeItinerary parses the model's reply, tolerating markdown code
// fences around the JSON object.
func decodeItinerary(content string) (*GenerateResponse, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var out GenerateResponse
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, fmt.Errorf("decode itinerary JSON: %w", err)
	}
	if len(out.Itinerary) == 0 {
		return nil, ErrEmptyItinerary
	}
	for _, day := range out.Itinerary {
		if day.Destination == "" {
			return nil, fmt.Errorf("itinerary day missing destination")
		}
	}
	return &out, nil
}
