package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"ems/config"
	"ems/controllers"
	"ems/metrics"
	"ems/middleware"
	"ems/utils"
)

// NewApp builds the Fiber app with the middleware stack and every route.
func NewApp(cfg config.HTTPConfig, h *controllers.Handler, issuer *utils.TokenIssuer, m *metrics.Metrics, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ems",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	if m != nil {
		app.Use(m.Middleware)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins, // comma separated
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Set-Cookie",
		AllowCredentials: true,
	}))

	RegisterRoutes(app, h, issuer, m)
	return app
}
