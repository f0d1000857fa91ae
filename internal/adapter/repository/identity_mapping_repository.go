package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wekeepgrowing/billing-sync/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/billing-sync/internal/domain/errors"
	"github.com/wekeepgrowing/billing-sync/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/billing-sync/internal/domain/repository"
	"gorm.io/gorm"
)

// mappingRow is the shared row shape of both mapping tables.
type mappingRow struct {
	ID          int64
	ExternalID  string
	Participant string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type identityMappingRepository struct {
	db    *gorm.DB
	table string
}

// NewCustomerMappingRepository returns the participant to external-customer
// mapping store. Requires the connection to be opened with TranslateError so
// unique violations surface as gorm.ErrDuplicatedKey.
func NewCustomerMappingRepository(db *gorm.DB) domainRepo.IdentityMappingRepository {
	return &identityMappingRepository{
		db:    db,
		table: model.CustomerMapping{}.TableName(),
	}
}

// NewConnectedAccountMappingRepository returns the participant to
// connected-account mapping store.
func NewConnectedAccountMappingRepository(db *gorm.DB) domainRepo.IdentityMappingRepository {
	return &identityMappingRepository{
		db:    db,
		table: model.ConnectedAccountMapping{}.TableName(),
	}
}

func (r *identityMappingRepository) rowToEntity(row *mappingRow) *entity.IdentityMapping {
	if row == nil {
		return nil
	}
	return &entity.IdentityMapping{
		ID:          row.ID,
		Participant: row.Participant,
		ExternalID:  row.ExternalID,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// Link inserts the mapping. The unique index on external_id makes concurrent
// links for the same id race down to one winner; the loser gets
// ErrAlreadyLinked.
func (r *identityMappingRepository) Link(ctx context.Context, participant, externalID string) error {
	row := mappingRow{
		ExternalID:  externalID,
		Participant: participant,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	err := r.db.WithContext(ctx).Table(r.table).Create(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainErrors.ErrAlreadyLinked
		}
		return err
	}
	return nil
}

func (r *identityMappingRepository) Unlink(ctx context.Context, externalID string) error {
	result := r.db.WithContext(ctx).Table(r.table).Where("external_id = ?", externalID).Delete(&mappingRow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainErrors.ErrMappingNotFound
	}
	return nil
}

func (r *identityMappingRepository) ResolveParticipant(ctx context.Context, externalID string) (string, error) {
	var row mappingRow
	err := r.db.WithContext(ctx).Table(r.table).Where("external_id = ?", externalID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domainErrors.ErrMappingNotFound
		}
		return "", err
	}
	return row.Participant, nil
}

func (r *identityMappingRepository) GetByParticipant(ctx context.Context, participant string) (*entity.IdentityMapping, error) {
	var row mappingRow
	err := r.db.WithContext(ctx).Table(r.table).Where("participant = ?", participant).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.rowToEntity(&row), nil
}
