package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/craftmatch/CraftMatch/app/models"
	"github.com/craftmatch/CraftMatch/app/repository"
	"github.com/craftmatch/CraftMatch/internal/pkg/entitlements"
	"github.com/craftmatch/CraftMatch/internal/pkg/matching"
	"github.com/craftmatch/CraftMatch/internal/pkg/metrics/counter"
	"github.com/craftmatch/CraftMatch/internal/pkg/usercontext"
)

type jobRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Trade          string   `json:"trade"`
	RequiredSkills []string `json:"required_skills"`
	City           string   `json:"city"`
	HourlyRateMin  int      `json:"hourly_rate_min"`
	HourlyRateMax  int      `json:"hourly_rate_max"`
	MinYearsOfExp  int      `json:"min_years_of_experience"`
}

// HandleCreateJob creates a job posting for the authenticated employer.
// Free-tier employers are capped at one concurrently open job.
func HandleCreateJob(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req jobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}

	factory := repository.GetGlobalFactory()
	user, err := factory.GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load user"})
	}

	tier := entitlements.EffectiveTier(user)
	maxOpen := entitlements.MaxOpenJobs(tier)
	if maxOpen != entitlements.UnlimitedJobs {
		openCount, err := factory.GetJobRepository().CountOpenByEmployerID(userCtx.UserID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to check posting limit"})
		}
		if openCount >= int64(maxOpen) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "posting_limit_reached",
				"message": "Free accounts can keep one job open at a time. Upgrade to pro for unlimited postings.",
			})
		}
	}

	job := &models.Job{
		UUID:          uuid.New().String(),
		EmployerID:    userCtx.UserID,
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Trade:         strings.ToLower(strings.TrimSpace(req.Trade)),
		City:          strings.TrimSpace(req.City),
		HourlyRateMin: req.HourlyRateMin,
		HourlyRateMax: req.HourlyRateMax,
		MinYearsOfExp: req.MinYearsOfExp,
		Status:        models.JobStatusOpen,
	}
	job.RequiredSkills = strings.Join(normalizeSkills(req.RequiredSkills), ",")

	if err := job.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	if err := factory.GetJobRepository().Create(job); err != nil {
		log.Printf("job create failed for employer %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create job"})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleListJobs lists jobs matching the query filters, newest first.
func HandleListJobs(c *fiber.Ctx) error {
	offset, limit := parsePagination(c, 50, 100)
	filter := repository.JobSearchFilter{
		Trade:  c.Query("trade"),
		City:   c.Query("city"),
		Status: c.Query("status", models.JobStatusOpen),
		Offset: offset,
		Limit:  limit,
	}

	jobs, err := repository.GetGlobalFactory().GetJobRepository().List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list jobs"})
	}

	return c.JSON(fiber.Map{"jobs": jobs, "count": len(jobs)})
}

// HandleGetJob returns a single job by its public UUID and counts the view.
// Views are buffered in Redis and flushed to the database in batches.
func HandleGetJob(c *fiber.Ctx) error {
	job, errResp := loadJobByUUID(c)
	if job == nil {
		return errResp
	}

	if err := counter.AddJobView(job.ID); err != nil {
		log.Printf("view count increment failed for job %d: %v", job.ID, err)
	}

	return c.JSON(job)
}

type jobUpdateRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	HourlyRateMin  *int     `json:"hourly_rate_min"`
	HourlyRateMax  *int     `json:"hourly_rate_max"`
	MinYearsOfExp  *int     `json:"min_years_of_experience"`
	Status         *string  `json:"status"`
}

// HandleUpdateJob updates fields of a job owned by the caller.
func HandleUpdateJob(c *fiber.Ctx) error {
	job, errResp := loadOwnedJob(c)
	if job == nil {
		return errResp
	}

	var req jobUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}

	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		job.Description = strings.TrimSpace(*req.Description)
	}
	if req.RequiredSkills != nil {
		job.RequiredSkills = strings.Join(normalizeSkills(req.RequiredSkills), ",")
	}
	if req.HourlyRateMin != nil {
		job.HourlyRateMin = *req.HourlyRateMin
	}
	if req.HourlyRateMax != nil {
		job.HourlyRateMax = *req.HourlyRateMax
	}
	if req.MinYearsOfExp != nil {
		job.MinYearsOfExp = *req.MinYearsOfExp
	}
	if req.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		switch status {
		case models.JobStatusOpen, models.JobStatusFilled, models.JobStatusClosed:
			job.Status = status
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Status must be open, filled or closed"})
		}
	}

	if err := job.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	if err := repository.GetGlobalFactory().GetJobRepository().Update(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update job"})
	}

	return c.JSON(job)
}

// HandleDeleteJob soft deletes a job owned by the caller.
func HandleDeleteJob(c *fiber.Ctx) error {
	job, errResp := loadOwnedJob(c)
	if job == nil {
		return errResp
	}

	if err := repository.GetGlobalFactory().GetJobRepository().Delete(job.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete job"})
	}

	return c.JSON(fiber.Map{"deleted": true})
}

// HandleGetJobMatches scores visible worker profiles against a job owned by
// the caller and returns them ranked best-first.
func HandleGetJobMatches(c *fiber.Ctx) error {
	job, errResp := loadOwnedJob(c)
	if job == nil {
		return errResp
	}

	profiles, err := repository.GetGlobalFactory().GetWorkerProfileRepository().ListVisibleByTrade(job.Trade)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load candidate profiles"})
	}

	matches := matching.RankProfiles(job, profiles)
	return c.JSON(fiber.Map{"job_uuid": job.UUID, "matches": matches, "count": len(matches)})
}

// loadJobByUUID fetches the job referenced by the :uuid route parameter.
// On failure the first return value is nil and the second carries the
// already-written error response.
func loadJobByUUID(c *fiber.Ctx) (*models.Job, error) {
	jobUUID := strings.TrimSpace(c.Params("uuid"))
	if jobUUID == "" {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing job uuid"})
	}

	job, err := repository.GetGlobalFactory().GetJobRepository().GetByUUID(jobUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Job not found"})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load job"})
	}
	return job, nil
}

// loadOwnedJob is loadJobByUUID plus an ownership check. Admins pass.
func loadOwnedJob(c *fiber.Ctx) (*models.Job, error) {
	job, errResp := loadJobByUUID(c)
	if job == nil {
		return nil, errResp
	}

	userCtx := usercontext.GetUserContext(c)
	if job.EmployerID != userCtx.UserID && !userCtx.IsAdmin {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Not the owner of this job"})
	}
	return job, nil
}

func normalizeSkills(skills []string) []string {
	cleaned := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		cleaned = append(cleaned, s)
	}
	return cleaned
}
