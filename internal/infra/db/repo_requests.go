package db

import (
	"context"
	"errors"
	"time"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, request domain.DataRequest) (domain.DataRequest, error) {
	if r.db == nil {
		return domain.DataRequest{}, errDBUnavailable
	}
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	model := requestModelFromDomain(request)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.DataRequest{}, err
	}
	return requestToDomain(model), nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (domain.DataRequest, error) {
	if r.db == nil {
		return domain.DataRequest{}, errDBUnavailable
	}
	var model DataRequestModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DataRequest{}, domain.ErrNotFound
		}
		return domain.DataRequest{}, err
	}
	return requestToDomain(model), nil
}

func (r *RequestRepository) List(ctx context.Context, filter usecase.RequestFilter) ([]domain.DataRequest, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	query := r.db.WithContext(ctx).Model(&DataRequestModel{})
	switch {
	case len(filter.ConsumerConnectorIDs) > 0 && len(filter.OfferingIDs) > 0:
		query = query.Where(
			"consumer_connector_id IN ? OR data_offering_id IN ?",
			filter.ConsumerConnectorIDs, filter.OfferingIDs,
		)
	case len(filter.ConsumerConnectorIDs) > 0:
		query = query.Where("consumer_connector_id IN ?", filter.ConsumerConnectorIDs)
	case len(filter.OfferingIDs) > 0:
		query = query.Where("data_offering_id IN ?", filter.OfferingIDs)
	default:
		return []domain.DataRequest{}, nil
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var models []DataRequestModel
	if err := query.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.DataRequest, 0, len(models))
	for _, model := range models {
		out = append(out, requestToDomain(model))
	}
	return out, nil
}

// UpdateStatus transitions only when the row is still in the from status.
// Losing a race reports the winner's status, not a stale precondition.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus) (domain.DataRequest, error) {
	if r.db == nil {
		return domain.DataRequest{}, errDBUnavailable
	}
	result := r.db.WithContext(ctx).
		Model(&DataRequestModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return domain.DataRequest{}, result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return domain.DataRequest{}, err
		}
		return domain.DataRequest{}, domain.NewTransitionError("data request", string(current.Status))
	}
	return r.GetByID(ctx, id)
}

func requestModelFromDomain(request domain.DataRequest) DataRequestModel {
	return DataRequestModel{
		ID:                  request.ID,
		DataOfferingID:      request.DataOfferingID,
		ConsumerConnectorID: request.ConsumerConnectorID,
		Purpose:             request.Purpose,
		AccessMode:          string(request.AccessMode),
		Status:              string(request.Status),
		CreatedAt:           request.CreatedAt,
		UpdatedAt:           request.UpdatedAt,
	}
}

func requestToDomain(model DataRequestModel) domain.DataRequest {
	return domain.DataRequest{
		ID:                  model.ID,
		DataOfferingID:      model.DataOfferingID,
		ConsumerConnectorID: model.ConsumerConnectorID,
		Purpose:             model.Purpose,
		AccessMode:          domain.AccessMode(model.AccessMode),
		Status:              domain.RequestStatus(model.Status),
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}
