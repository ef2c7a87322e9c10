// Package server assembles the HTTP application from its handlers.
package server

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/artikelin/api/internal/client"
	"github.com/artikelin/api/internal/handler"
	"github.com/artikelin/api/internal/middleware"
	"github.com/artikelin/api/internal/monitoring"
	"github.com/artikelin/api/internal/service"
	"github.com/artikelin/api/internal/store"
	ws "github.com/artikelin/api/internal/websocket"
	"github.com/artikelin/api/pkg/response"
)

// Deps are the components the HTTP layer serves
type Deps struct {
	Store    *store.Store
	Jobs     *service.JobService
	Articles *service.ArticleService
	Keywords *service.KeywordService
	Settings *service.SettingsService
	Registry *client.ProviderRegistry
	Hub      *ws.Hub

	Auth        *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter
	JobsPerHour int

	Log       *logrus.Logger
	AccessLog bool
}

// New builds the fiber app with every route registered
func New(d Deps) *fiber.App {
	validate := validator.New()

	jobHandler := handler.NewJobHandler(d.Jobs, d.Hub, validate)
	articleHandler := handler.NewArticleHandler(d.Articles, validate)
	keywordHandler := handler.NewKeywordHandler(d.Keywords, validate)
	settingsHandler := handler.NewSettingsHandler(d.Settings, validate)
	healthHandler := handler.NewHealthHandler(d.Store, d.Registry)

	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		BodyLimit:             2 * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if d.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
			Output: d.Log.Writer(),
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(monitoring.HTTPMetrics())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Called by the public article pages, so it sits ahead of the auth group
	app.Post("/api/analytics/view", articleHandler.RecordView)

	api := app.Group("/api", d.Auth.Authenticate())

	jobs := api.Group("/jobs")
	jobs.Post("/", d.RateLimiter.JobsLimit(d.JobsPerHour), jobHandler.Create)
	jobs.Get("/", jobHandler.List)
	jobs.Get("/:jobId", jobHandler.Get)
	jobs.Post("/:jobId/cancel", jobHandler.Cancel)
	jobs.Delete("/:jobId", jobHandler.Cancel)

	articles := api.Group("/articles")
	articles.Get("/", articleHandler.List)
	articles.Get("/:slug", articleHandler.Get)
	articles.Put("/:slug", articleHandler.Update)
	articles.Delete("/:slug", articleHandler.Delete)
	articles.Post("/:slug/publish", articleHandler.Publish)
	articles.Post("/:slug/undo", articleHandler.Undo)

	api.Get("/dashboard/stats", articleHandler.Stats)

	keywords := api.Group("/keywords")
	keywords.Get("/", keywordHandler.List)
	keywords.Post("/", keywordHandler.Save)
	keywords.Delete("/:id", keywordHandler.Delete)

	settings := api.Group("/settings")
	settings.Get("/:key", settingsHandler.Get)
	settings.Put("/:key", settingsHandler.Put)

	app.Get("/ws/jobs/:jobId", d.Auth.Authenticate(), jobHandler.Upgrade, websocket.New(jobHandler.Stream))

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	errCode := response.CodeServiceError
	switch code {
	case fiber.StatusNotFound:
		errCode = response.CodeNotFound
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		errCode = response.CodeValidationError
	}

	return response.Error(c, code, errCode, message, nil)
}
