package controllers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/craftmatch/CraftMatch/app/models"
	"github.com/craftmatch/CraftMatch/app/repository"
	"github.com/craftmatch/CraftMatch/internal/pkg/jobqueue"
	"github.com/craftmatch/CraftMatch/internal/pkg/usercontext"
)

type applyRequest struct {
	CoverNote string `json:"cover_note"`
}

// HandleApplyToJob submits an application by the authenticated worker for a
// job. The unique (job_id, worker_id) index keeps applications to one per
// worker per job.
func HandleApplyToJob(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	job, errResp := loadJobByUUID(c)
	if job == nil {
		return errResp
	}
	if !job.IsOpen() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Job is no longer accepting applications"})
	}
	if job.EmployerID == userCtx.UserID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Cannot apply to your own job"})
	}

	var req applyRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}

	application := &models.JobApplication{
		JobID:     job.ID,
		WorkerID:  userCtx.UserID,
		CoverNote: strings.TrimSpace(req.CoverNote),
		Status:    models.ApplicationStatusSubmitted,
	}
	if err := application.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	if err := repository.GetGlobalFactory().GetApplicationRepository().Create(application); err != nil {
		if isDuplicateKeyErr(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Already applied to this job"})
		}
		log.Printf("application create failed (job=%d worker=%d): %v", job.ID, userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to submit application"})
	}

	enqueueNotification(job.EmployerID, "application_received",
		fmt.Sprintf("New application for %q", job.Title),
		fmt.Sprintf("<p>%s applied to your job posting %q.</p>", userCtx.Username, job.Title))

	return c.Status(fiber.StatusCreated).JSON(application)
}

// HandleListJobApplications lists applications for a job owned by the caller.
func HandleListJobApplications(c *fiber.Ctx) error {
	job, errResp := loadOwnedJob(c)
	if job == nil {
		return errResp
	}

	applications, err := repository.GetGlobalFactory().GetApplicationRepository().GetByJobID(job.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list applications"})
	}

	return c.JSON(fiber.Map{"job_uuid": job.UUID, "applications": applications, "count": len(applications)})
}

// HandleListMyApplications lists the authenticated worker's own applications.
func HandleListMyApplications(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := parsePagination(c, 50, 100)

	applications, err := repository.GetGlobalFactory().GetApplicationRepository().GetByWorkerID(userCtx.UserID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list applications"})
	}

	return c.JSON(fiber.Map{"applications": applications, "count": len(applications)})
}

type reviewRequest struct {
	Status string `json:"status"`
}

// HandleReviewApplication lets the job owner move an application through
// reviewed/accepted/rejected. The applicant is notified of decisions.
func HandleReviewApplication(c *fiber.Ctx) error {
	job, errResp := loadOwnedJob(c)
	if job == nil {
		return errResp
	}

	applicationID, err := c.ParamsInt("id")
	if err != nil || applicationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid application id"})
	}

	repo := repository.GetGlobalFactory().GetApplicationRepository()
	application, err := repo.GetByID(uint(applicationID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Application not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load application"})
	}
	if application.JobID != job.ID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Application does not belong to this job"})
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid JSON body"})
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case models.ApplicationStatusReviewed, models.ApplicationStatusAccepted, models.ApplicationStatusRejected:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Status must be reviewed, accepted or rejected"})
	}

	application.Status = status
	if err := repo.Update(application); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update application"})
	}

	if status == models.ApplicationStatusAccepted || status == models.ApplicationStatusRejected {
		enqueueNotification(application.WorkerID, "application_status",
			fmt.Sprintf("Your application for %q was %s", job.Title, status),
			fmt.Sprintf("<p>The employer marked your application for %q as %s.</p>", job.Title, status))
	}

	return c.JSON(application)
}

// enqueueNotification enqueues a best-effort notification email. Queue
// failures are logged, never surfaced to the API caller.
func enqueueNotification(recipientID uint, kind, subject, body string) {
	payload := jobqueue.NotificationEmailJobPayload{
		RecipientID: recipientID,
		Subject:     subject,
		Body:        body,
		Kind:        kind,
	}
	if _, err := jobqueue.GetManager().GetQueue().EnqueueJob(jobqueue.JobTypeNotificationEmail, payload.ToMap()); err != nil {
		log.Printf("failed to enqueue %s notification for user %d: %v", kind, recipientID, err)
	}
}
