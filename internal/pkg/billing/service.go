package billing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/craftmatch/CraftMatch/app/models"
	"github.com/craftmatch/CraftMatch/internal/pkg/entitlements"
	"gorm.io/gorm"
)

// ProcessingTimeLimit is the observability ceiling for webhook handling.
// Exceeding it flags the audit entry as timed out; it does not cancel work.
const ProcessingTimeLimit = 30 * time.Second

// defaultBillingPeriod fills in for providers that omit period boundaries.
const defaultBillingPeriod = 30 * 24 * time.Hour

var (
	// ErrSubscriptionNotFound means a lifecycle event referenced a customer
	// with no local subscription. Updates imply prior creation, so this is a
	// server-side fault, retryable once the data issue is fixed.
	ErrSubscriptionNotFound = errors.New("no subscription found for customer")
	// ErrMissingUserLink means a checkout session carried no local user id.
	ErrMissingUserLink = errors.New("checkout session has no user linkage")
)

// Service reconciles provider webhook events into local billing state: the
// per-user subscription row, its append-only history, and the denormalized
// entitlement flags on the user.
type Service struct {
	repo  Repository
	plans *PlanResolver
	subs  SubscriptionResolver
	now   func() time.Time
}

func NewService(repo Repository, plans *PlanResolver, subs SubscriptionResolver) *Service {
	return &Service{
		repo:  repo,
		plans: plans,
		subs:  subs,
		now:   time.Now,
	}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewPlanResolverFromEnv(), NewStripeClientFromEnv())
}

// WithClock overrides the time source (used by tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// HasProcessed reports whether the event id is already in the ledger.
func (s *Service) HasProcessed(ctx context.Context, eventID string) (bool, error) {
	_ = ctx
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	return s.repo.HasProcessedEvent(eventID)
}

// MarkProcessed writes the ledger row after all mutations for the event
// succeeded. inserted=false means a concurrent delivery won the race; the
// caller still acknowledges success.
func (s *Service) MarkProcessed(ctx context.Context, evt Event) (bool, error) {
	_ = ctx
	return s.repo.MarkEventProcessed(evt.EventID(), evt.EventName())
}

// RecordOutcome writes a best-effort audit entry. Audit durability must never
// fail a payment event, so errors only reach the process log.
func (s *Service) RecordOutcome(ctx context.Context, eventID, eventType, status, metadata string, duration time.Duration) {
	_ = ctx
	err := s.repo.CreateWebhookLog(&models.WebhookLog{
		StripeEventID: eventID,
		EventType:     eventType,
		Status:        status,
		Metadata:      metadata,
		DurationMs:    duration.Milliseconds(),
	})
	if err != nil {
		log.Printf("billing: webhook audit write failed (event=%s status=%s): %v", eventID, status, err)
	}
}

// ProcessEvent applies one lifecycle event. Dispatch is an exhaustive type
// switch over the event variants; unhandled types are acknowledged untouched.
func (s *Service) ProcessEvent(ctx context.Context, evt Event) error {
	switch e := evt.(type) {
	case CheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, e)
	case SubscriptionUpdated:
		return s.applySubscriptionUpdated(ctx, e)
	case SubscriptionDeleted:
		return s.applySubscriptionDeleted(ctx, e)
	case PaymentFailed:
		return s.applyPaymentFailed(ctx, e)
	case PaymentSucceeded:
		return s.applyPaymentSucceeded(ctx, e)
	case UnhandledEvent:
		log.Printf("billing: ignoring event type %s (event=%s)", e.EventName(), e.EventID())
		return nil
	default:
		return fmt.Errorf("unsupported event variant %T", evt)
	}
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, e CheckoutCompleted) error {
	if e.UserID == 0 {
		return ErrMissingUserLink
	}
	if e.SubscriptionID == "" {
		return fmt.Errorf("checkout session %s references no subscription", e.EventID())
	}

	details, err := s.subs.ResolveSubscription(ctx, e.SubscriptionID)
	if err != nil {
		return fmt.Errorf("resolve subscription %s: %w", e.SubscriptionID, err)
	}

	plan, err := s.plans.Resolve(details.PriceID)
	if err != nil {
		return err
	}

	periodStart, periodEnd := s.billingPeriod(details.PeriodStart, details.PeriodEnd)
	sub := &models.Subscription{
		UserID:               e.UserID,
		StripeCustomerID:     e.CustomerID,
		StripeSubscriptionID: e.SubscriptionID,
		StripePriceID:        details.PriceID,
		PlanType:             plan,
		Status:               models.SubscriptionStatusActive,
		CurrentPeriodStart:   periodStart,
		CurrentPeriodEnd:     periodEnd,
		CancelAtPeriodEnd:    details.CancelAtPeriodEnd,
	}
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	if err := s.repo.AppendHistory(&models.SubscriptionHistory{
		UserID:               e.UserID,
		StripeSubscriptionID: e.SubscriptionID,
		EventType:            models.HistoryEventCreated,
		Status:               models.SubscriptionStatusActive,
		PlanType:             plan,
		AmountCents:          e.AmountCents,
		Currency:             e.Currency,
	}); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	s.propagateEntitlement(e.UserID, true, e.CustomerID)
	return nil
}

func (s *Service) applySubscriptionUpdated(ctx context.Context, e SubscriptionUpdated) error {
	_ = ctx
	sub, err := s.lookupByCustomer(e.CustomerID)
	if err != nil {
		return err
	}

	plan, err := s.plans.Resolve(e.PriceID)
	if err != nil {
		return err
	}

	status := mapProviderStatus(e.ProviderStatus)
	periodStart, periodEnd := s.billingPeriod(e.PeriodStart, e.PeriodEnd)

	sub.StripeSubscriptionID = e.SubscriptionID
	sub.StripePriceID = e.PriceID
	sub.PlanType = plan
	sub.Status = status
	sub.CurrentPeriodStart = periodStart
	sub.CurrentPeriodEnd = periodEnd
	sub.CancelAtPeriodEnd = e.CancelAtPeriodEnd
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	if err := s.repo.AppendHistory(&models.SubscriptionHistory{
		UserID:               sub.UserID,
		StripeSubscriptionID: e.SubscriptionID,
		EventType:            models.HistoryEventUpdated,
		Status:               status,
		PlanType:             plan,
	}); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	switch status {
	case models.SubscriptionStatusActive:
		s.propagateEntitlement(sub.UserID, true, e.CustomerID)
	case models.SubscriptionStatusCanceled:
		s.propagateEntitlement(sub.UserID, false, "")
	}
	// past_due is a grace period, not a downgrade trigger.
	return nil
}

func (s *Service) applySubscriptionDeleted(ctx context.Context, e SubscriptionDeleted) error {
	_ = ctx
	sub, err := s.lookupByCustomer(e.CustomerID)
	if err != nil {
		return err
	}

	sub.Status = models.SubscriptionStatusCanceled
	sub.CancelAtPeriodEnd = false
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	if err := s.repo.AppendHistory(&models.SubscriptionHistory{
		UserID:               sub.UserID,
		StripeSubscriptionID: sub.StripeSubscriptionID,
		EventType:            models.HistoryEventCanceled,
		Status:               models.SubscriptionStatusCanceled,
		PlanType:             sub.PlanType,
	}); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	s.propagateEntitlement(sub.UserID, false, "")
	return nil
}

func (s *Service) applyPaymentFailed(ctx context.Context, e PaymentFailed) error {
	_ = ctx
	sub, err := s.lookupByCustomer(e.CustomerID)
	if err != nil {
		return err
	}

	sub.Status = models.SubscriptionStatusPastDue
	if err := s.repo.UpsertSubscription(sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	if err := s.repo.AppendHistory(&models.SubscriptionHistory{
		UserID:               sub.UserID,
		StripeSubscriptionID: sub.StripeSubscriptionID,
		EventType:            models.HistoryEventPaymentFailed,
		Status:               models.SubscriptionStatusPastDue,
		PlanType:             sub.PlanType,
		AmountCents:          e.AmountCents,
		Currency:             e.Currency,
	}); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	// Entitlement is deliberately untouched: only explicit cancellation
	// removes access.
	return nil
}

func (s *Service) applyPaymentSucceeded(ctx context.Context, e PaymentSucceeded) error {
	_ = ctx
	sub, err := s.repo.GetSubscriptionByCustomerID(e.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Renewal receipts for unknown customers are one-off invoices,
			// not subscription events.
			log.Printf("billing: payment_succeeded for unknown customer %s, ignoring", e.CustomerID)
			return nil
		}
		return fmt.Errorf("lookup subscription: %w", err)
	}

	if err := s.repo.AppendHistory(&models.SubscriptionHistory{
		UserID:               sub.UserID,
		StripeSubscriptionID: sub.StripeSubscriptionID,
		EventType:            models.HistoryEventPaymentSucceeded,
		Status:               sub.Status,
		PlanType:             sub.PlanType,
		AmountCents:          e.AmountCents,
		Currency:             e.Currency,
	}); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (s *Service) lookupByCustomer(customerID string) (*models.Subscription, error) {
	if customerID == "" {
		return nil, fmt.Errorf("%w: empty customer id", ErrSubscriptionNotFound)
	}
	sub, err := s.repo.GetSubscriptionByCustomerID(customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, customerID)
		}
		return nil, fmt.Errorf("lookup subscription: %w", err)
	}
	return sub, nil
}

// billingPeriod fills in absent provider period boundaries. Billing
// continuity outranks strict field presence here.
func (s *Service) billingPeriod(start, end *time.Time) (time.Time, time.Time) {
	now := s.now().UTC()
	periodStart := now
	if start != nil {
		periodStart = start.UTC()
	}
	periodEnd := now.Add(defaultBillingPeriod)
	if end != nil {
		periodEnd = end.UTC()
	}
	return periodStart, periodEnd
}

// propagateEntitlement updates the denormalized user flags. The subscription
// and history rows are the source of truth and have already been written, so
// failures here are logged and swallowed rather than failing the event.
func (s *Service) propagateEntitlement(userID uint, elevate bool, stripeCustomerID string) {
	user, err := s.repo.GetUser(userID)
	if err != nil {
		log.Printf("billing: entitlement lookup failed for user %d: %v", userID, err)
		return
	}

	if user.LifetimeAccess {
		log.Printf("billing: user %d holds lifetime access, leaving entitlement untouched", userID)
		return
	}

	status := models.SubscriptionFree
	if elevate {
		status = models.SubscriptionPro
	}
	if err := s.repo.UpdateUserEntitlement(user.ID, status, stripeCustomerID); err != nil {
		log.Printf("billing: entitlement update failed for user %d: %v", userID, err)
		return
	}

	if entitlements.BoostEligible(user.Role) {
		if err := s.repo.SetWorkerBoost(user.ID, elevate); err != nil {
			log.Printf("billing: boost update failed for user %d: %v", userID, err)
		}
	}
}
