package billing

import (
	"github.com/craftmatch/CraftMatch/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	HasProcessedEvent(eventID string) (bool, error)
	MarkEventProcessed(eventID, eventType string) (bool, error)
	GetSubscriptionByCustomerID(customerID string) (*models.Subscription, error)
	UpsertSubscription(sub *models.Subscription) error
	AppendHistory(entry *models.SubscriptionHistory) error
	GetUser(userID uint) (*models.User, error)
	UpdateUserEntitlement(userID uint, subscriptionStatus, stripeCustomerID string) error
	SetWorkerBoost(userID uint, boosted bool) error
	CreateWebhookLog(entry *models.WebhookLog) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) HasProcessedEvent(eventID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProcessedEvent{}).
		Where("stripe_event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkEventProcessed inserts the ledger row. The primary-key constraint is
// the duplicate arbiter: a concurrent delivery of the same event makes at
// most one insert win, and the loser sees inserted=false.
func (r *gormRepository) MarkEventProcessed(eventID, eventType string) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stripe_event_id"}},
		DoNothing: true,
	}).Create(&models.ProcessedEvent{
		StripeEventID: eventID,
		EventType:     eventType,
	})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) GetSubscriptionByCustomerID(customerID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("stripe_customer_id = ?", customerID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) UpsertSubscription(sub *models.Subscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_customer_id",
			"stripe_subscription_id",
			"stripe_price_id",
			"plan_type",
			"status",
			"current_period_start",
			"current_period_end",
			"cancel_at_period_end",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("user_id = ?", sub.UserID).First(sub).Error
}

func (r *gormRepository) AppendHistory(entry *models.SubscriptionHistory) error {
	return r.db.Create(entry).Error
}

func (r *gormRepository) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) UpdateUserEntitlement(userID uint, subscriptionStatus, stripeCustomerID string) error {
	updates := map[string]interface{}{
		"subscription_status": subscriptionStatus,
	}
	if stripeCustomerID != "" {
		updates["stripe_customer_id"] = stripeCustomerID
	}
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

func (r *gormRepository) SetWorkerBoost(userID uint, boosted bool) error {
	return r.db.Model(&models.WorkerProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"boosted":          boosted,
			"boost_expires_at": nil,
		}).Error
}

func (r *gormRepository) CreateWebhookLog(entry *models.WebhookLog) error {
	return r.db.Create(entry).Error
}
