package db

import (
	"context"
	"encoding/json"
	"errors"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OfferingRepository struct {
	db *gorm.DB
}

func NewOfferingRepository(db *gorm.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

func (r *OfferingRepository) Create(ctx context.Context, offering domain.DataOffering) (domain.DataOffering, error) {
	if r.db == nil {
		return domain.DataOffering{}, errDBUnavailable
	}
	if offering.ID == "" {
		offering.ID = uuid.NewString()
	}
	model, err := offeringModelFromDomain(offering)
	if err != nil {
		return domain.DataOffering{}, err
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.DataOffering{}, err
	}
	return offeringToDomain(model)
}

func (r *OfferingRepository) GetByID(ctx context.Context, id string) (domain.DataOffering, error) {
	if r.db == nil {
		return domain.DataOffering{}, errDBUnavailable
	}
	var model DataOfferingModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DataOffering{}, domain.ErrNotFound
		}
		return domain.DataOffering{}, err
	}
	return offeringToDomain(model)
}

func (r *OfferingRepository) List(ctx context.Context, filter usecase.OfferingFilter) ([]domain.DataOffering, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	query := r.db.WithContext(ctx).Model(&DataOfferingModel{})
	if len(filter.ConnectorIDs) > 0 {
		query = query.Where("connector_id IN ?", filter.ConnectorIDs)
	}
	if filter.DataType != "" {
		query = query.Where("data_type = ?", string(filter.DataType))
	}
	if filter.AccessPolicy != "" {
		query = query.Where("access_policy = ?", string(filter.AccessPolicy))
	}
	var models []DataOfferingModel
	if err := query.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.DataOffering, 0, len(models))
	for _, model := range models {
		offering, err := offeringToDomain(model)
		if err != nil {
			return nil, err
		}
		out = append(out, offering)
	}
	return out, nil
}

func (r *OfferingRepository) IDsByConnectors(ctx context.Context, connectorIDs []string) ([]string, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	if len(connectorIDs) == 0 {
		return nil, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&DataOfferingModel{}).
		Where("connector_id IN ?", connectorIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *OfferingRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&DataOfferingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func offeringModelFromDomain(offering domain.DataOffering) (DataOfferingModel, error) {
	meta, err := json.Marshal(offering.StorageMeta)
	if err != nil {
		return DataOfferingModel{}, err
	}
	return DataOfferingModel{
		ID:                 offering.ID,
		ConnectorID:        offering.ConnectorID,
		Title:              offering.Title,
		Description:        offering.Description,
		DataType:           string(offering.DataType),
		AccessPolicy:       string(offering.AccessPolicy),
		StorageMeta:        meta,
		RegistrationStatus: offering.RegistrationStatus,
		CreatedAt:          offering.CreatedAt,
	}, nil
}

func offeringToDomain(model DataOfferingModel) (domain.DataOffering, error) {
	var meta domain.StorageMeta
	if len(model.StorageMeta) > 0 {
		if err := json.Unmarshal(model.StorageMeta, &meta); err != nil {
			return domain.DataOffering{}, err
		}
	}
	return domain.DataOffering{
		ID:                 model.ID,
		ConnectorID:        model.ConnectorID,
		Title:              model.Title,
		Description:        model.Description,
		DataType:           domain.DataType(model.DataType),
		AccessPolicy:       domain.AccessPolicy(model.AccessPolicy),
		StorageMeta:        meta,
		RegistrationStatus: model.RegistrationStatus,
		CreatedAt:          model.CreatedAt,
	}, nil
}
