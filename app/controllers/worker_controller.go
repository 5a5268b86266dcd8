package controllers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/craftmatch/CraftMatch/app/models"
	"github.com/craftmatch/CraftMatch/app/repository"
	"github.com/craftmatch/CraftMatch/internal/pkg/usercontext"
)

type profileRequest struct {
	Trade         string   `json:"trade"`
	Headline      string   `json:"headline"`
	Bio           string   `json:"bio"`
	Skills        []string `json:"skills"`
	City          string   `json:"city"`
	HourlyRateMin int      `json:"hourly_rate_min"`
	HourlyRateMax int      `json:"hourly_rate_max"`
	YearsOfExp    int      `json:"years_of_experience"`
	Availability  string   `json:"availability"`
	Visible       *bool    `json:"visible"`
}

// HandleUpsertWorkerProfile creates or replaces the caller's worker profile.
// The boost flag is owned by billing entitlement propagation and cannot be
// set here.
func HandleUpsertWorkerProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}

	profile := &models.WorkerProfile{
		UserID:        userCtx.UserID,
		Trade:         strings.ToLower(strings.TrimSpace(req.Trade)),
		Headline:      strings.TrimSpace(req.Headline),
		Bio:           strings.TrimSpace(req.Bio),
		City:          strings.TrimSpace(req.City),
		HourlyRateMin: req.HourlyRateMin,
		HourlyRateMax: req.HourlyRateMax,
		YearsOfExp:    req.YearsOfExp,
		Availability:  strings.ToLower(strings.TrimSpace(req.Availability)),
		Visible:       true,
	}
	if profile.Availability == "" {
		profile.Availability = models.AvailabilityFlexible
	}
	if req.Visible != nil {
		profile.Visible = *req.Visible
	}
	profile.SetSkills(req.Skills)

	if err := profile.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	repo := repository.GetGlobalFactory().GetWorkerProfileRepository()
	if err := repo.Upsert(profile); err != nil {
		log.Printf("profile upsert failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save profile"})
	}

	// Re-read so the response reflects persisted state, including the
	// billing-owned boost flag.
	saved, err := repo.GetByUserID(userCtx.UserID)
	if err != nil {
		return c.JSON(profile)
	}
	return c.JSON(saved)
}

// HandleGetMyWorkerProfile returns the caller's own worker profile.
func HandleGetMyWorkerProfile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	profile, err := repository.GetGlobalFactory().GetWorkerProfileRepository().GetByUserID(userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No worker profile yet"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load profile"})
	}

	return c.JSON(profile)
}

// HandleSearchWorkers searches visible worker profiles. Boosted profiles are
// ordered first, which is the visibility elevation pro workers pay for.
func HandleSearchWorkers(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 50, 100)

	minYears, _ := strconv.Atoi(c.Query("min_years", "0"))
	maxRate, _ := strconv.Atoi(c.Query("max_rate", "0"))

	filter := repository.WorkerSearchFilter{
		Trade:    c.Query("trade"),
		City:     c.Query("city"),
		Skill:    c.Query("skill"),
		MinYears: minYears,
		MaxRate:  maxRate,
		Offset:   offset,
		Limit:    limit,
	}

	profiles, err := repository.GetGlobalFactory().GetWorkerProfileRepository().Search(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to search workers"})
	}

	return c.JSON(fiber.Map{"workers": profiles, "count": len(profiles)})
}
