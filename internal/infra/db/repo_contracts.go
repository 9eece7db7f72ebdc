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

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// Create inserts the contract, bumps the template usage count and, when
// completeRequest is set, marks the referenced data request completed. The
// unique index on data_request_id plus the approved precondition make sure a
// request is consumed by at most one contract even under concurrent creates.
func (r *ContractRepository) Create(ctx context.Context, contract domain.Contract, completeRequest bool) (domain.Contract, error) {
	if r.db == nil {
		return domain.Contract{}, errDBUnavailable
	}
	if contract.ID == "" {
		contract.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := contractModelFromDomain(contract)
		if err := tx.Create(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrConflict
			}
			return err
		}
		bump := tx.Model(&ContractTemplateModel{}).
			Where("id = ?", contract.ContractTemplateID).
			Update("usage_count", gorm.Expr("usage_count + 1"))
		if bump.Error != nil {
			return bump.Error
		}
		if bump.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if completeRequest {
			complete := tx.Model(&DataRequestModel{}).
				Where("id = ? AND status = ?", contract.DataRequestID, string(domain.RequestApproved)).
				Updates(map[string]any{
					"status":     string(domain.RequestCompleted),
					"updated_at": time.Now().UTC(),
				})
			if complete.Error != nil {
				return complete.Error
			}
			if complete.RowsAffected == 0 {
				return domain.ErrConflict
			}
		}
		return nil
	})
	if err != nil {
		return domain.Contract{}, err
	}
	return r.GetByID(ctx, contract.ID)
}

func (r *ContractRepository) GetByID(ctx context.Context, id string) (domain.Contract, error) {
	if r.db == nil {
		return domain.Contract{}, errDBUnavailable
	}
	var model ContractModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Contract{}, domain.ErrNotFound
		}
		return domain.Contract{}, err
	}
	return contractToDomain(model), nil
}

func (r *ContractRepository) List(ctx context.Context, filter usecase.ContractFilter) ([]domain.Contract, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	query := r.db.WithContext(ctx).Model(&ContractModel{})
	switch {
	case len(filter.ProviderConnectorIDs) > 0 && len(filter.ConsumerConnectorIDs) > 0:
		query = query.Where(
			"provider_connector_id IN ? OR consumer_connector_id IN ?",
			filter.ProviderConnectorIDs, filter.ConsumerConnectorIDs,
		)
	case len(filter.ProviderConnectorIDs) > 0:
		query = query.Where("provider_connector_id IN ?", filter.ProviderConnectorIDs)
	case len(filter.ConsumerConnectorIDs) > 0:
		query = query.Where("consumer_connector_id IN ?", filter.ConsumerConnectorIDs)
	default:
		return []domain.Contract{}, nil
	}
	var models []ContractModel
	if err := query.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Contract, 0, len(models))
	for _, model := range models {
		out = append(out, contractToDomain(model))
	}
	return out, nil
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ContractStatus) (domain.Contract, error) {
	if r.db == nil {
		return domain.Contract{}, errDBUnavailable
	}
	result := r.db.WithContext(ctx).
		Model(&ContractModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return domain.Contract{}, result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return domain.Contract{}, err
		}
		return domain.Contract{}, domain.NewTransitionError("contract", string(current.Status))
	}
	return r.GetByID(ctx, id)
}

// SetDeployment writes the ledger fields once. The guarded update only
// touches an active contract with no address yet, so a concurrent deploy
// loses the race and surfaces as a conflict.
func (r *ContractRepository) SetDeployment(ctx context.Context, id, address, txID string) (domain.Contract, error) {
	if r.db == nil {
		return domain.Contract{}, errDBUnavailable
	}
	result := r.db.WithContext(ctx).
		Model(&ContractModel{}).
		Where("id = ? AND status = ? AND contract_address IS NULL", id, string(domain.ContractActive)).
		Updates(map[string]any{
			"contract_address": address,
			"blockchain_tx_id": txID,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return domain.Contract{}, result.Error
	}
	if result.RowsAffected == 0 {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return domain.Contract{}, err
		}
		if current.Deployed() {
			return domain.Contract{}, domain.ErrConflict
		}
		return domain.Contract{}, domain.NewTransitionError("contract", string(current.Status))
	}
	return r.GetByID(ctx, id)
}

func contractModelFromDomain(contract domain.Contract) ContractModel {
	model := ContractModel{
		ID:                  contract.ID,
		Name:                contract.Name,
		Status:              string(contract.Status),
		ProviderConnectorID: contract.ProviderConnectorID,
		ConsumerConnectorID: contract.ConsumerConnectorID,
		ContractTemplateID:  contract.ContractTemplateID,
		DataOfferingID:      contract.DataOfferingID,
		BlockchainNetwork:   contract.BlockchainNetwork,
		ExpiresAt:           contract.ExpiresAt,
		CreatedAt:           contract.CreatedAt,
		UpdatedAt:           contract.UpdatedAt,
	}
	if contract.DataRequestID != "" {
		model.DataRequestID = &contract.DataRequestID
	}
	if contract.ContractAddress != "" {
		model.ContractAddress = &contract.ContractAddress
	}
	if contract.BlockchainTxID != "" {
		model.BlockchainTxID = &contract.BlockchainTxID
	}
	return model
}

func contractToDomain(model ContractModel) domain.Contract {
	contract := domain.Contract{
		ID:                  model.ID,
		Name:                model.Name,
		Status:              domain.ContractStatus(model.Status),
		ProviderConnectorID: model.ProviderConnectorID,
		ConsumerConnectorID: model.ConsumerConnectorID,
		ContractTemplateID:  model.ContractTemplateID,
		DataOfferingID:      model.DataOfferingID,
		BlockchainNetwork:   model.BlockchainNetwork,
		ExpiresAt:           model.ExpiresAt,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
	if model.DataRequestID != nil {
		contract.DataRequestID = *model.DataRequestID
	}
	if model.ContractAddress != nil {
		contract.ContractAddress = *model.ContractAddress
	}
	if model.BlockchainTxID != nil {
		contract.BlockchainTxID = *model.BlockchainTxID
	}
	return contract
}
