package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"

	"github.com/craftmatch/CraftMatch/app/models"
	"github.com/craftmatch/CraftMatch/internal/pkg/billing"
	"github.com/craftmatch/CraftMatch/internal/pkg/env"
)

const webhookTestSecret = "whsec_controller_test"

func newWebhookTestApp(t *testing.T) *fiber.App {
	t.Helper()
	if env.Env == nil {
		env.Env = map[string]string{}
	}
	env.Env["STRIPE_WEBHOOK_SECRET"] = webhookTestSecret

	app := fiber.New()
	app.Post("/api/v1/billing/webhook/stripe", HandleStripeWebhook)
	return app
}

func signWebhookPayload(t *testing.T, payload []byte) string {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    webhookTestSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})
	return signed.Header
}

func TestHandleStripeWebhook_MissingSignature(t *testing.T) {
	app := newWebhookTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook/stripe",
		bytes.NewReader([]byte(`{"id":"evt_1","type":"customer.created"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "No signature", parsed["error"])
}

func TestHandleStripeWebhook_InvalidSignature(t *testing.T) {
	app := newWebhookTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook/stripe",
		bytes.NewReader([]byte(`{"id":"evt_1","type":"customer.created"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", "t=123,v1=deadbeef")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)

	var parsed map[string]string
	require.NoError(t, json.Unmarshal(body, &parsed))
	assert.Equal(t, "Invalid signature", parsed["error"])
}

// ledgerRepo is an in-memory billing.Repository for handler tests.
type ledgerRepo struct {
	processed map[string]string
	subs      map[string]*models.Subscription
	users     map[uint]*models.User
	history   []models.SubscriptionHistory
	logs      []models.WebhookLog
}

func newLedgerRepo() *ledgerRepo {
	return &ledgerRepo{
		processed: make(map[string]string),
		subs:      make(map[string]*models.Subscription),
		users:     make(map[uint]*models.User),
	}
}

func (r *ledgerRepo) HasProcessedEvent(eventID string) (bool, error) {
	_, ok := r.processed[eventID]
	return ok, nil
}

func (r *ledgerRepo) MarkEventProcessed(eventID, eventType string) (bool, error) {
	if _, ok := r.processed[eventID]; ok {
		return false, nil
	}
	r.processed[eventID] = eventType
	return true, nil
}

func (r *ledgerRepo) GetSubscriptionByCustomerID(customerID string) (*models.Subscription, error) {
	sub, ok := r.subs[customerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *sub
	return &copied, nil
}

func (r *ledgerRepo) UpsertSubscription(sub *models.Subscription) error {
	copied := *sub
	r.subs[sub.StripeCustomerID] = &copied
	return nil
}

func (r *ledgerRepo) AppendHistory(entry *models.SubscriptionHistory) error {
	r.history = append(r.history, *entry)
	return nil
}

func (r *ledgerRepo) GetUser(userID uint) (*models.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *ledgerRepo) UpdateUserEntitlement(userID uint, subscriptionStatus, stripeCustomerID string) error {
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.SubscriptionStatus = subscriptionStatus
	if stripeCustomerID != "" {
		user.StripeCustomerID = stripeCustomerID
	}
	return nil
}

func (r *ledgerRepo) SetWorkerBoost(userID uint, boosted bool) error {
	return nil
}

func (r *ledgerRepo) CreateWebhookLog(entry *models.WebhookLog) error {
	r.logs = append(r.logs, *entry)
	return nil
}

func TestHandleStripeWebhook_DuplicateDelivery(t *testing.T) {
	app := newWebhookTestApp(t)

	repo := newLedgerRepo()
	repo.users[7] = &models.User{ID: 7, Role: models.ROLE_WORKER, SubscriptionStatus: models.SubscriptionPro}
	repo.subs["cus_dup"] = &models.Subscription{
		UserID:               7,
		StripeCustomerID:     "cus_dup",
		StripeSubscriptionID: "sub_dup",
		PlanType:             models.PlanTypeMonthly,
		Status:               models.SubscriptionStatusActive,
	}

	restore := newWebhookService
	newWebhookService = func() *billing.Service {
		return billing.NewService(repo, billing.NewPlanResolver("price_m", "price_y"), nil)
	}
	t.Cleanup(func() { newWebhookService = restore })

	payload := []byte(`{"id":"evt_dup_1","type":"customer.subscription.deleted","data":{"object":{"id":"sub_dup","customer":"cus_dup"}}}`)
	header := signWebhookPayload(t, payload)

	send := func() (*http.Response, map[string]interface{}) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook/stripe", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Stripe-Signature", header)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		body, readErr := io.ReadAll(resp.Body)
		require.NoError(t, readErr)
		var parsed map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &parsed))
		return resp, parsed
	}

	resp, parsed := send()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, parsed["received"])
	require.Len(t, repo.history, 1)
	assert.Equal(t, models.HistoryEventCanceled, repo.history[0].EventType)

	// Redelivering the same event id must acknowledge without touching the
	// subscription history again.
	resp, parsed = send()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, parsed["received"])
	assert.Equal(t, true, parsed["duplicate"])
	assert.Len(t, repo.history, 1)
}

func TestHandleStripeWebhook_TamperedPayload(t *testing.T) {
	app := newWebhookTestApp(t)

	payload := []byte(`{"id":"evt_1","type":"customer.created","data":{"object":{}}}`)
	header := signWebhookPayload(t, payload)

	// Flip the body after signing; the signature must no longer match.
	tampered := bytes.Replace(payload, []byte("evt_1"), []byte("evt_2"), 1)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook/stripe", bytes.NewReader(tampered))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", header)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
