package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/craftmatch/CraftMatch/app/controllers"
	"github.com/craftmatch/CraftMatch/app/models"
	"github.com/craftmatch/CraftMatch/internal/pkg/cache"
	"github.com/craftmatch/CraftMatch/internal/pkg/constants"
	"github.com/craftmatch/CraftMatch/internal/pkg/env"
	"github.com/craftmatch/CraftMatch/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New(limiter.Config{
		Max:        env.GetEnvInt("API_RATE_LIMIT", 120),
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group(constants.APIV1Route)

	// Stripe calls this; it authenticates with its signature, not an API key.
	v1.Post("/billing/webhook/stripe", controllers.HandleStripeWebhook)

	// Account bootstrap
	v1.Post("/auth/register", controllers.HandleRegister)
	v1.Post("/auth/login", controllers.HandleLogin)

	// Everything below requires an API key.
	protected := v1.Group("/", middleware.APIKeyAuthMiddleware())

	protected.Get("/user/account", controllers.HandleGetUserAccount)
	protected.Post("/user/api-key/rotate", controllers.HandleRotateAPIKey)
	protected.Delete("/user/api-key", controllers.HandleRevokeAPIKey)

	protected.Get("/stats", controllers.HandleGetStats)

	// Jobs
	protected.Get("/jobs", controllers.HandleListJobs)
	protected.Post("/jobs", middleware.RequireRole(models.ROLE_EMPLOYER), controllers.HandleCreateJob)
	protected.Get("/jobs/:uuid", controllers.HandleGetJob)
	protected.Patch("/jobs/:uuid", middleware.RequireRole(models.ROLE_EMPLOYER), controllers.HandleUpdateJob)
	protected.Delete("/jobs/:uuid", middleware.RequireRole(models.ROLE_EMPLOYER), controllers.HandleDeleteJob)
	protected.Get("/jobs/:uuid/matches", middleware.RequireRole(models.ROLE_EMPLOYER), controllers.HandleGetJobMatches)

	// Applications
	protected.Post("/jobs/:uuid/applications", middleware.RequireRole(models.ROLE_WORKER), controllers.HandleApplyToJob)
	protected.Get("/jobs/:uuid/applications", middleware.RequireRole(models.ROLE_EMPLOYER), controllers.HandleListJobApplications)
	protected.Patch("/jobs/:uuid/applications/:id", middleware.RequireRole(models.ROLE_EMPLOYER), controllers.HandleReviewApplication)
	protected.Get("/applications", middleware.RequireRole(models.ROLE_WORKER), controllers.HandleListMyApplications)

	// Worker profiles
	protected.Put("/workers/profile", middleware.RequireRole(models.ROLE_WORKER), controllers.HandleUpsertWorkerProfile)
	protected.Get("/workers/profile", middleware.RequireRole(models.ROLE_WORKER), controllers.HandleGetMyWorkerProfile)
	protected.Get("/workers", controllers.HandleSearchWorkers)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

// newLimiterStorage backs the rate limiter with Redis so limits hold across
// instances. Falls back to fiber's in-memory storage when Redis is not up.
func newLimiterStorage() fiber.Storage {
	cacheClient := cache.GetClient()
	if cacheClient == nil {
		return nil
	}

	host := "localhost"
	port := 6379
	if h, p, err := net.SplitHostPort(cacheClient.Options().Addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	// Database 1 keeps limiter counters apart from the cache on DB 0.
	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: cacheClient.Options().Password,
		Database: 1,
		Reset:    false,
	})
}
