package http

import (
	"context"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"github.com/thehaltingverse/weather-chatbot/internal/services/briefing"
	"github.com/thehaltingverse/weather-chatbot/pkg/observe"
)

// BriefingService is the pipeline entry point the handler calls.
type BriefingService interface {
	GenerateBriefing(ctx context.Context, city string) (briefing.Briefing, error)
}

type routes struct {
	service  BriefingService
	validate *validator.Validate
	l        *observe.Logger
}

func NewRouter(
	app *fiber.App,
	briefingService BriefingService,
	l *observe.Logger,
) {
	r := &routes{
		service:  briefingService,
		validate: validator.New(),
		l:        l,
	}

	// Swagger documentation
	app.Get("/swagger/doc.json", func(c *fiber.Ctx) error {
		// Read the generated swagger.json file
		swaggerData, err := os.ReadFile("docs/swagger.json")
		if err != nil {
			return c.Status(fiber.ErrInternalServerError.Code).JSON(fiber.Map{"error": "Failed to read Swagger documentation"})
		}

		c.Set("Content-Type", "application/json")
		return c.Send(swaggerData)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	// API routes
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "weather-chatbot", "status": "ok"})
	})
	app.Post("/api/v1/briefing", r.handleBriefingCall)
}
