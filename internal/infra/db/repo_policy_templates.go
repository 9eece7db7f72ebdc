package db

import (
	"context"
	"errors"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PolicyTemplateRepository struct {
	db *gorm.DB
}

func NewPolicyTemplateRepository(db *gorm.DB) *PolicyTemplateRepository {
	return &PolicyTemplateRepository{db: db}
}

func (r *PolicyTemplateRepository) Create(ctx context.Context, template domain.PolicyTemplate) (domain.PolicyTemplate, error) {
	if r.db == nil {
		return domain.PolicyTemplate{}, errDBUnavailable
	}
	if template.ID == "" {
		template.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := policyTemplateModelFromDomain(template)
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		return insertRules(tx, template.ID, template.Rules)
	})
	if err != nil {
		return domain.PolicyTemplate{}, err
	}
	return r.GetByID(ctx, template.ID)
}

func (r *PolicyTemplateRepository) GetByID(ctx context.Context, id string) (domain.PolicyTemplate, error) {
	if r.db == nil {
		return domain.PolicyTemplate{}, errDBUnavailable
	}
	var model PolicyTemplateModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PolicyTemplate{}, domain.ErrNotFound
		}
		return domain.PolicyTemplate{}, err
	}
	rules, err := r.rulesFor(ctx, r.db, id)
	if err != nil {
		return domain.PolicyTemplate{}, err
	}
	return policyTemplateToDomain(model, rules), nil
}

func (r *PolicyTemplateRepository) List(ctx context.Context, filter usecase.PolicyTemplateFilter) ([]domain.PolicyTemplate, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	query := r.db.WithContext(ctx).Model(&PolicyTemplateModel{})
	if len(filter.ConnectorIDs) > 0 {
		query = query.Where("connector_id IN ?", filter.ConnectorIDs)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	var models []PolicyTemplateModel
	if err := query.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.PolicyTemplate, 0, len(models))
	for _, model := range models {
		rules, err := r.rulesFor(ctx, r.db, model.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, policyTemplateToDomain(model, rules))
	}
	return out, nil
}

// Update rewrites the template row and replaces the full rule set in one
// transaction.
func (r *PolicyTemplateRepository) Update(ctx context.Context, template domain.PolicyTemplate) (domain.PolicyTemplate, error) {
	if r.db == nil {
		return domain.PolicyTemplate{}, errDBUnavailable
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := policyTemplateModelFromDomain(template)
		result := tx.Model(&PolicyTemplateModel{}).Where("id = ?", template.ID).Updates(map[string]any{
			"name":             model.Name,
			"description":      model.Description,
			"category":         model.Category,
			"severity":         model.Severity,
			"enforcement_type": model.EnforcementType,
			"updated_at":       model.UpdatedAt,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Where("policy_template_id = ?", template.ID).Delete(&PolicyRuleModel{}).Error; err != nil {
			return err
		}
		return insertRules(tx, template.ID, template.Rules)
	})
	if err != nil {
		return domain.PolicyTemplate{}, err
	}
	return r.GetByID(ctx, template.ID)
}

// Delete refuses to remove a policy template still referenced by a contract
// template.
func (r *PolicyTemplateRepository) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&ContractTemplatePolicyModel{}).Where("policy_template_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrConflict
		}
		if err := tx.Where("policy_template_id = ?", id).Delete(&PolicyRuleModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&PolicyTemplateModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *PolicyTemplateRepository) rulesFor(ctx context.Context, db *gorm.DB, templateID string) ([]PolicyRuleModel, error) {
	var rules []PolicyRuleModel
	if err := db.WithContext(ctx).
		Where("policy_template_id = ?", templateID).
		Order("name ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func insertRules(tx *gorm.DB, templateID string, rules []domain.PolicyRule) error {
	for _, rule := range rules {
		model := PolicyRuleModel{
			ID:               uuid.NewString(),
			PolicyTemplateID: templateID,
			Type:             string(rule.Type),
			Name:             rule.Name,
			Description:      rule.Description,
			Value:            rule.Value,
			Unit:             rule.Unit,
			IsActive:         rule.IsActive,
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
	}
	return nil
}

func policyTemplateModelFromDomain(template domain.PolicyTemplate) PolicyTemplateModel {
	return PolicyTemplateModel{
		ID:              template.ID,
		ConnectorID:     template.ConnectorID,
		Name:            template.Name,
		Description:     template.Description,
		Category:        template.Category,
		Severity:        string(template.Severity),
		EnforcementType: string(template.EnforcementType),
		CreatedAt:       template.CreatedAt,
		UpdatedAt:       template.UpdatedAt,
	}
}

func policyTemplateToDomain(model PolicyTemplateModel, ruleModels []PolicyRuleModel) domain.PolicyTemplate {
	rules := make([]domain.PolicyRule, 0, len(ruleModels))
	for _, rule := range ruleModels {
		rules = append(rules, domain.PolicyRule{
			ID:               rule.ID,
			PolicyTemplateID: rule.PolicyTemplateID,
			Type:             domain.RuleType(rule.Type),
			Name:             rule.Name,
			Description:      rule.Description,
			Value:            rule.Value,
			Unit:             rule.Unit,
			IsActive:         rule.IsActive,
		})
	}
	return domain.PolicyTemplate{
		ID:              model.ID,
		ConnectorID:     model.ConnectorID,
		Name:            model.Name,
		Description:     model.Description,
		Category:        model.Category,
		Severity:        domain.Severity(model.Severity),
		EnforcementType: domain.EnforcementType(model.EnforcementType),
		Rules:           rules,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
