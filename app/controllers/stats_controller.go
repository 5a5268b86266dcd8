package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/craftmatch/CraftMatch/internal/pkg/statistics"
)

// HandleGetStats returns marketplace counters served from the Redis cache.
func HandleGetStats(c *fiber.Ctx) error {
	return c.JSON(statistics.GetStatisticsData())
}
