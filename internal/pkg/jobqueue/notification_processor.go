package jobqueue

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/craftmatch/CraftMatch/app/models"
	"github.com/craftmatch/CraftMatch/internal/pkg/database"
	"github.com/craftmatch/CraftMatch/internal/pkg/mail"
)

// mailSender is swapped out in tests.
var mailSender = mail.SendMail

// processNotificationEmailJob resolves the recipient and sends the email.
// Recipients that vanished or opted out are treated as success, not failure.
func (q *Queue) processNotificationEmailJob(job *Job) error {
	payload, err := NotificationEmailJobPayloadFromMap(job.Payload)
	if err != nil {
		return fmt.Errorf("invalid notification payload: %w", err)
	}
	if payload.RecipientID == 0 {
		return fmt.Errorf("notification job %s has no recipient", job.ID)
	}
	if strings.TrimSpace(payload.Subject) == "" {
		return fmt.Errorf("notification job %s has no subject", job.ID)
	}

	db := database.GetDB()
	if db == nil {
		return fmt.Errorf("database unavailable")
	}

	var user models.User
	if err := db.First(&user, payload.RecipientID).Error; err != nil {
		log.Warnf("[JobQueue] Notification recipient %d not found, dropping job %s", payload.RecipientID, job.ID)
		return nil
	}
	if user.Status != models.STATUS_ACTIVE {
		log.Infof("[JobQueue] Recipient %d inactive, skipping notification %s", payload.RecipientID, job.ID)
		return nil
	}

	if err := mailSender(user.Email, payload.Subject, payload.Body); err != nil {
		return fmt.Errorf("send notification to user %d: %w", payload.RecipientID, err)
	}
	return nil
}
