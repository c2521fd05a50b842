package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/yuanbopang/subscription-manager/internal/auth"
	"github.com/yuanbopang/subscription-manager/internal/config"
	"github.com/yuanbopang/subscription-manager/internal/handlers"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	users *handlers.UserHandler,
	subscriptions *handlers.SubscriptionHandler,
	analytics *handlers.AnalyticsHandler,
	ingest *handlers.IngestHandler,
	health *handlers.HealthHandler,
	userStore auth.UserStore,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (public)
	api.Get("/health", health.Check)

	// Everything else requires a verified bearer token; the resolved user
	// is loaded into request locals once per request.
	protected := api.Group("", auth.Protected(cfg), auth.ResolveUser(cfg, userStore))

	protected.Get("/user/profile", users.Profile)
	protected.Delete("/user/account", users.DeleteAccount)

	protected.Get("/subscriptions", subscriptions.List)
	protected.Post("/subscriptions", subscriptions.Create)
	protected.Post("/subscriptions/nlp", ingest.Create)
	protected.Get("/subscriptions/:id", subscriptions.Get)
	protected.Put("/subscriptions/:id", subscriptions.Update)
	protected.Delete("/subscriptions/:id", subscriptions.Delete)

	protected.Get("/analytics", analytics.Get)
}
