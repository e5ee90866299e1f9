package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/thehaltingverse/weather-chatbot/internal/repositories"
	"github.com/thehaltingverse/weather-chatbot/internal/services/briefing"
)

// BriefingRequest is the briefing request body
type BriefingRequest struct {
	City string `json:"city" validate:"required,min=2,max=120" example:"Seattle, WA"`
}

// BriefingResponse represents a generated weather briefing
type BriefingResponse struct {
	City      string  `json:"city" example:"Seattle, WA"`
	Latitude  float64 `json:"lat" example:"47.6038"`
	Longitude float64 `json:"lon" example:"-122.3301"`
	StationID string  `json:"station_id" example:"GHCND:USW00024233"`
	Briefing  string  `json:"briefing"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"city is required"`
}

// GenerateBriefing godoc
// @Summary Generate a weather briefing
// @Description Runs the full pipeline for a city: geocoding, two forecast providers, ten years of NOAA history, news and social chatter, and an LLM-written narrative
// @Tags Briefing
// @Accept json
// @Produce json
// @Param request body BriefingRequest true "City to brief, e.g. \"Seattle, WA\""
// @Success 200 {object} BriefingResponse "Successful response"
// @Failure 400 {object} ErrorResponse "Bad request - invalid body"
// @Failure 404 {object} ErrorResponse "Unknown city or no station with historical coverage"
// @Failure 502 {object} ErrorResponse "Upstream narrative generation failed"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/v1/briefing [post]
// @Example {curl} Example usage:
//
//	curl -X POST "http://localhost:8080/api/v1/briefing" -H "Content-Type: application/json" -d '{"city": "Seattle, WA"}'
func (r *routes) handleBriefingCall(c *fiber.Ctx) error {
	var req BriefingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if err := r.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "city is required and must be between 2 and 120 characters",
		})
	}

	result, err := r.service.GenerateBriefing(c.Context(), req.City)
	if err != nil {
		r.l.Error(err, map[string]any{"city": req.City})

		switch {
		case errors.Is(err, repositories.ErrLocationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "Unknown city: " + req.City,
			})
		case errors.Is(err, repositories.ErrNoStation):
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "No weather station with historical coverage near " + req.City,
			})
		case errors.Is(err, briefing.ErrNarrativeGeneration):
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Error: "Failed to generate the briefing narrative",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Error: "Failed to generate briefing",
			})
		}
	}

	return c.JSON(BriefingResponse{
		City:      result.City,
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
		StationID: result.StationID,
		Briefing:  result.Narrative,
	})
}
