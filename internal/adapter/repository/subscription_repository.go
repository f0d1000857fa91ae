package repository

import (
	"context"
	"errors"

	"github.com/wekeepgrowing/billing-sync/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/billing-sync/internal/domain/errors"
	"github.com/wekeepgrowing/billing-sync/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/billing-sync/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSubscriptionRepository(db *gorm.DB, logger *zap.Logger) domainRepo.SubscriptionRepository {
	return &subscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// modelToEntity converts a model.Subscription to entity.Subscription
func (r *subscriptionRepository) modelToEntity(m *model.Subscription) *entity.Subscription {
	if m == nil {
		return nil
	}
	return &entity.Subscription{
		InternalID:       m.ID,
		ExternalID:       m.ExternalID,
		IsActive:         m.IsActive,
		Participant:      m.Participant,
		SubscriptionType: entity.SubscriptionType(m.SubscriptionType),
		Resource:         m.Resource,
		Resources:        m.Resources,
		Details: entity.SubscriptionDetail{
			LimitDate:  m.LimitDate,
			PayAmount:  m.PayAmount,
			UsageCount: m.UsageCount,
			StartDate:  m.StartDate,
			EndDate:    m.EndDate,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// entityToModel converts an entity.Subscription to model.Subscription
func (r *subscriptionRepository) entityToModel(e *entity.Subscription) *model.Subscription {
	if e == nil {
		return nil
	}
	return &model.Subscription{
		ID:               e.InternalID,
		ExternalID:       e.ExternalID,
		Participant:      e.Participant,
		IsActive:         e.IsActive,
		SubscriptionType: model.SubscriptionType(e.SubscriptionType),
		Resource:         e.Resource,
		Resources:        e.Resources,
		LimitDate:        e.Details.LimitDate,
		PayAmount:        e.Details.PayAmount,
		UsageCount:       e.Details.UsageCount,
		StartDate:        e.Details.StartDate,
		EndDate:          e.Details.EndDate,
	}
}

// AddSubscriptions inserts the batch in one transaction. The unique index on
// external_id rejects records already stored, so redelivered creation events
// cannot produce a second record.
func (r *subscriptionRepository) AddSubscriptions(ctx context.Context, subscriptions []*entity.Subscription) error {
	if len(subscriptions) == 0 {
		return nil
	}

	rows := make([]*model.Subscription, 0, len(subscriptions))
	for _, sub := range subscriptions {
		rows = append(rows, r.entityToModel(sub))
	}

	err := r.db.WithContext(ctx).Create(&rows).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrDuplicateSubscription
		}
		return err
	}
	return nil
}

func (r *subscriptionRepository) RemoveSubscription(ctx context.Context, internalID int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Subscription{}, internalID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrSubscriptionRecordNotFound
	}
	return nil
}

func (r *subscriptionRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.Subscription, error) {
	var row model.Subscription
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.modelToEntity(&row), nil
}

func (r *subscriptionRepository) GetByParticipant(ctx context.Context, participant string) ([]*entity.Subscription, error) {
	var rows []model.Subscription
	err := r.db.WithContext(ctx).Where("participant = ?", participant).Order("created_at DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	subscriptions := make([]*entity.Subscription, 0, len(rows))
	for i := range rows {
		subscriptions = append(subscriptions, r.modelToEntity(&rows[i]))
	}
	return subscriptions, nil
}
