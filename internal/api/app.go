package api

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/terraincognita07/sleeptrack/internal/logging"
)

type AppConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// CORSOrigins is a comma separated allow-list. Empty disables CORS.
	CORSOrigins    string
	MetricsEnabled bool
}

// NewApp builds the fiber application with the middleware stack and all
// routes registered.
func NewApp(handler *Handler, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "sleeptrack",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  logging.GenerateRequestID,
		ContextKey: requestIDLocalsKey,
	}))
	app.Use(RequestContext)
	app.Use(AccessLog)
	app.Use(compress.New())
	if origins := strings.TrimSpace(cfg.CORSOrigins); origins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowHeaders: "Authorization, Content-Type, Accept-Language",
			AllowMethods: "GET,POST,PUT,PATCH,OPTIONS",
		}))
	}

	if cfg.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	RegisterRoutes(app, handler)
	return app
}
