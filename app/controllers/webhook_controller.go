package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/craftmatch/CraftMatch/app/models"
	"github.com/craftmatch/CraftMatch/internal/pkg/billing"
	"github.com/craftmatch/CraftMatch/internal/pkg/database"
	"github.com/craftmatch/CraftMatch/internal/pkg/env"
)

// newWebhookService is swapped out in tests.
var newWebhookService = func() *billing.Service {
	return billing.NewServiceFromDB(database.GetDB())
}

// HandleStripeWebhook receives Stripe subscription lifecycle events and feeds
// them into the billing reconciliation service. Stripe retries on any
// non-2xx, so the handler only returns 500 for faults a retry can fix.
func HandleStripeWebhook(c *fiber.Ctx) error {
	start := time.Now()
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get("Stripe-Signature")
	secret := env.GetEnv("STRIPE_WEBHOOK_SECRET", "")

	evt, err := billing.VerifyAndParseStripeEvent(rawBody, signature, secret)
	if err != nil {
		if errors.Is(err, billing.ErrNoSignature) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No signature"})
		}
		if errors.Is(err, billing.ErrInvalidSignature) {
			ipv4, ipv6 := GetClientIP(c)
			log.Printf("billing: rejected stripe webhook with invalid signature (ipv4=%s ipv6=%s)", ipv4, ipv6)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid signature"})
		}
		log.Printf("billing: unparseable stripe webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payload"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), billing.ProcessingTimeLimit)
	defer cancel()

	svc := newWebhookService()
	svc.RecordOutcome(ctx, evt.EventID(), evt.EventName(), models.WebhookLogReceived, "", 0)

	processed, err := svc.HasProcessed(ctx, evt.EventID())
	if err != nil {
		svc.RecordOutcome(ctx, evt.EventID(), evt.EventName(), models.WebhookLogFailed, err.Error(), time.Since(start))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Event lookup failed"})
	}
	if processed {
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}

	if err := svc.ProcessEvent(ctx, evt); err != nil {
		svc.RecordOutcome(ctx, evt.EventID(), evt.EventName(), models.WebhookLogFailed, err.Error(), time.Since(start))
		log.Printf("billing: processing %s (event=%s) failed: %v", evt.EventName(), evt.EventID(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Event processing failed"})
	}

	inserted, err := svc.MarkProcessed(ctx, evt)
	if err != nil {
		svc.RecordOutcome(ctx, evt.EventID(), evt.EventName(), models.WebhookLogFailed, err.Error(), time.Since(start))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Event ledger write failed"})
	}
	if !inserted {
		// A concurrent delivery committed first. The work is done either
		// way, so acknowledge.
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}

	elapsed := time.Since(start)
	status := models.WebhookLogProcessed
	metadata := ""
	if elapsed > billing.ProcessingTimeLimit {
		status = models.WebhookLogTimeout
		metadata = fmt.Sprintf("processing took %s", elapsed)
	}
	svc.RecordOutcome(ctx, evt.EventID(), evt.EventName(), status, metadata, elapsed)

	return c.JSON(fiber.Map{"received": true})
}
