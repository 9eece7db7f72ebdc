package db

import (
	"context"
	"errors"

	"tdsconnector/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConnectorRepository struct {
	db *gorm.DB
}

func NewConnectorRepository(db *gorm.DB) *ConnectorRepository {
	return &ConnectorRepository{db: db}
}

func (r *ConnectorRepository) Create(ctx context.Context, connector domain.Connector) (domain.Connector, error) {
	if r.db == nil {
		return domain.Connector{}, errDBUnavailable
	}
	if connector.ID == "" {
		connector.ID = uuid.NewString()
	}
	model := connectorModelFromDomain(connector)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Connector{}, domain.ErrConflict
		}
		return domain.Connector{}, err
	}
	return connectorToDomain(model), nil
}

func (r *ConnectorRepository) GetByID(ctx context.Context, id string) (domain.Connector, error) {
	if r.db == nil {
		return domain.Connector{}, errDBUnavailable
	}
	var model ConnectorModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Connector{}, domain.ErrNotFound
		}
		return domain.Connector{}, err
	}
	return connectorToDomain(model), nil
}

func (r *ConnectorRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Connector, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []ConnectorModel
	if err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Connector, 0, len(models))
	for _, model := range models {
		out = append(out, connectorToDomain(model))
	}
	return out, nil
}

func (r *ConnectorRepository) IDsByOwner(ctx context.Context, userID string) ([]string, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&ConnectorModel{}).
		Where("owner_user_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes the connector together with everything it owns: offerings,
// policy templates and their rules, contract templates and their
// associations. One transaction, so a failed cascade leaves the connector in
// place.
func (r *ConnectorRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var policyIDs []string
		if err := tx.Model(&PolicyTemplateModel{}).Where("connector_id = ?", id).Pluck("id", &policyIDs).Error; err != nil {
			return err
		}
		if len(policyIDs) > 0 {
			if err := tx.Where("policy_template_id IN ?", policyIDs).Delete(&PolicyRuleModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("policy_template_id IN ?", policyIDs).Delete(&ContractTemplatePolicyModel{}).Error; err != nil {
				return err
			}
		}
		var templateIDs []string
		if err := tx.Model(&ContractTemplateModel{}).Where("connector_id = ?", id).Pluck("id", &templateIDs).Error; err != nil {
			return err
		}
		if len(templateIDs) > 0 {
			if err := tx.Where("contract_template_id IN ?", templateIDs).Delete(&ContractTemplatePolicyModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("connector_id = ?", id).Delete(&PolicyTemplateModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("connector_id = ?", id).Delete(&ContractTemplateModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("connector_id = ?", id).Delete(&DataOfferingModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&ConnectorModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func connectorModelFromDomain(connector domain.Connector) ConnectorModel {
	return ConnectorModel{
		ID:          connector.ID,
		DID:         connector.DID,
		DisplayName: connector.DisplayName,
		Status:      string(connector.Status),
		DIDDocument: connector.DIDDocument,
		OwnerUserID: connector.OwnerUserID,
		DataSpaceID: connector.DataSpaceID,
		CreatedAt:   connector.CreatedAt,
	}
}

func connectorToDomain(model ConnectorModel) domain.Connector {
	return domain.Connector{
		ID:          model.ID,
		DID:         model.DID,
		DisplayName: model.DisplayName,
		Status:      domain.ConnectorStatus(model.Status),
		DIDDocument: model.DIDDocument,
		OwnerUserID: model.OwnerUserID,
		DataSpaceID: model.DataSpaceID,
		CreatedAt:   model.CreatedAt,
	}
}
