package db

import (
	"context"
	"errors"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContractTemplateRepository struct {
	db *gorm.DB
}

func NewContractTemplateRepository(db *gorm.DB) *ContractTemplateRepository {
	return &ContractTemplateRepository{db: db}
}

func (r *ContractTemplateRepository) Create(ctx context.Context, template domain.ContractTemplate) (domain.ContractTemplate, error) {
	if r.db == nil {
		return domain.ContractTemplate{}, errDBUnavailable
	}
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := contractTemplateModelFromDomain(template)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		return insertAssociations(tx, template.ID, template.PolicyTemplateIDs)
	})
	if err != nil {
		return domain.ContractTemplate{}, err
	}
	return r.GetByID(ctx, template.ID)
}

func (r *ContractTemplateRepository) GetByID(ctx context.Context, id string) (domain.ContractTemplate, error) {
	if r.db == nil {
		return domain.ContractTemplate{}, errDBUnavailable
	}
	var model ContractTemplateModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ContractTemplate{}, domain.ErrNotFound
		}
		return domain.ContractTemplate{}, err
	}
	policyIDs, err := r.policyIDsFor(ctx, id)
	if err != nil {
		return domain.ContractTemplate{}, err
	}
	return contractTemplateToDomain(model, policyIDs), nil
}

func (r *ContractTemplateRepository) List(ctx context.Context, filter usecase.ContractTemplateFilter) ([]domain.ContractTemplate, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	query := r.db.WithContext(ctx).Model(&ContractTemplateModel{})
	if len(filter.ConnectorIDs) > 0 {
		query = query.Where("connector_id IN ?", filter.ConnectorIDs)
	}
	if filter.ContractType != "" {
		query = query.Where("contract_type = ?", string(filter.ContractType))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	var models []ContractTemplateModel
	if err := query.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ContractTemplate, 0, len(models))
	for _, model := range models {
		policyIDs, err := r.policyIDsFor(ctx, model.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, contractTemplateToDomain(model, policyIDs))
	}
	return out, nil
}

// Update rewrites the template row and swaps the association set in one
// transaction.
func (r *ContractTemplateRepository) Update(ctx context.Context, template domain.ContractTemplate) (domain.ContractTemplate, error) {
	if r.db == nil {
		return domain.ContractTemplate{}, errDBUnavailable
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := contractTemplateModelFromDomain(template)
		result := tx.Model(&ContractTemplateModel{}).Where("id = ?", template.ID).Updates(map[string]any{
			"name":          model.Name,
			"description":   model.Description,
			"contract_type": model.ContractType,
			"status":        model.Status,
			"updated_at":    model.UpdatedAt,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Where("contract_template_id = ?", template.ID).Delete(&ContractTemplatePolicyModel{}).Error; err != nil {
			return err
		}
		return insertAssociations(tx, template.ID, template.PolicyTemplateIDs)
	})
	if err != nil {
		return domain.ContractTemplate{}, err
	}
	return r.GetByID(ctx, template.ID)
}

// Delete refuses to remove a contract template still referenced by a
// contract.
func (r *ContractTemplateRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&ContractModel{}).Where("contract_template_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrConflict
		}
		if err := tx.Where("contract_template_id = ?", id).Delete(&ContractTemplatePolicyModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&ContractTemplateModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *ContractTemplateRepository) policyIDsFor(ctx context.Context, templateID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&ContractTemplatePolicyModel{}).
		Where("contract_template_id = ?", templateID).
		Pluck("policy_template_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func insertAssociations(tx *gorm.DB, templateID string, policyIDs []string) error {
	for _, policyID := range policyIDs {
		assoc := ContractTemplatePolicyModel{
			ContractTemplateID: templateID,
			PolicyTemplateID:   policyID,
		}
		if err := tx.Create(&assoc).Error; err != nil {
			return err
		}
	}
	return nil
}

func contractTemplateModelFromDomain(template domain.ContractTemplate) ContractTemplateModel {
	return ContractTemplateModel{
		ID:           template.ID,
		ConnectorID:  template.ConnectorID,
		Name:         template.Name,
		Description:  template.Description,
		ContractType: string(template.ContractType),
		Status:       string(template.Status),
		UsageCount:   template.UsageCount,
		CreatedAt:    template.CreatedAt,
		UpdatedAt:    template.UpdatedAt,
	}
}

func contractTemplateToDomain(model ContractTemplateModel, policyIDs []string) domain.ContractTemplate {
	return domain.ContractTemplate{
		ID:                model.ID,
		ConnectorID:       model.ConnectorID,
		Name:              model.Name,
		Description:       model.Description,
		ContractType:      domain.ContractType(model.ContractType),
		Status:            domain.TemplateStatus(model.Status),
		UsageCount:        model.UsageCount,
		PolicyTemplateIDs: policyIDs,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
