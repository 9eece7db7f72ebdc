package usecase

import (
	"context"
	"strings"
	"time"

	"tdsconnector/internal/domain"
)

// TemplateService maintains the policy and contract template catalogs.
type TemplateService struct {
	PolicyTemplates   PolicyTemplateRepository
	ContractTemplates ContractTemplateRepository
	Authz             *Authz
	Clock             func() time.Time
}

func NewTemplateService(policies PolicyTemplateRepository, contracts ContractTemplateRepository, authz *Authz) *TemplateService {
	return &TemplateService{
		PolicyTemplates:   policies,
		ContractTemplates: contracts,
		Authz:             authz,
		Clock:             time.Now,
	}
}

type PolicyRuleInput struct {
	Type        domain.RuleType
	Name        string
	Description string
	Value       string
	Unit        string
	IsActive    bool
}

type PolicyTemplateInput struct {
	ConnectorID     string
	Name            string
	Description     string
	Category        string
	Severity        domain.Severity
	EnforcementType domain.EnforcementType
	Rules           []PolicyRuleInput
}

func (s *TemplateService) CreatePolicyTemplate(ctx context.Context, principalID string, input PolicyTemplateInput) (domain.PolicyTemplate, error) {
	if err := validatePolicyTemplateInput(input); err != nil {
		return domain.PolicyTemplate{}, err
	}
	if _, err := s.Authz.OwnedConnector(ctx, principalID, input.ConnectorID); err != nil {
		return domain.PolicyTemplate{}, err
	}
	now := s.now()
	template := domain.PolicyTemplate{
		ConnectorID:     input.ConnectorID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Category:        input.Category,
		Severity:        input.Severity,
		EnforcementType: input.EnforcementType,
		Rules:           rulesFromInput(input.Rules),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.PolicyTemplates.Create(ctx, template)
}

func (s *TemplateService) ListPolicyTemplates(ctx context.Context, principalID, connectorID, category string) ([]domain.PolicyTemplate, error) {
	ownedIDs, err := s.Authz.OwnedIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(ownedIDs) == 0 {
		return []domain.PolicyTemplate{}, nil
	}
	filter := PolicyTemplateFilter{ConnectorIDs: ownedIDs, Category: category}
	if connectorID != "" {
		if !containsID(ownedIDs, connectorID) {
			return nil, domain.ErrForbidden
		}
		filter.ConnectorIDs = []string{connectorID}
	}
	return s.PolicyTemplates.List(ctx, filter)
}

func (s *TemplateService) GetPolicyTemplate(ctx context.Context, principalID, templateID string) (domain.PolicyTemplate, error) {
	template, err := s.PolicyTemplates.GetByID(ctx, templateID)
	if err != nil {
		return domain.PolicyTemplate{}, err
	}
	if err := s.Authz.RequireOwner(ctx, principalID, template.ConnectorID); err != nil {
		return domain.PolicyTemplate{}, err
	}
	return template, nil
}

// UpdatePolicyTemplate replaces the template's metadata and its entire rule
// set; no partial rule list is ever visible.
func (s *TemplateService) UpdatePolicyTemplate(ctx context.Context, principalID, templateID string, input PolicyTemplateInput) (domain.PolicyTemplate, error) {
	if err := validatePolicyTemplateInput(input); err != nil {
		return domain.PolicyTemplate{}, err
	}
	existing, err := s.PolicyTemplates.GetByID(ctx, templateID)
	if err != nil {
		return domain.PolicyTemplate{}, err
	}
	if err := s.Authz.RequireOwner(ctx, principalID, existing.ConnectorID); err != nil {
		return domain.PolicyTemplate{}, err
	}
	existing.Name = strings.TrimSpace(input.Name)
	existing.Description = input.Description
	existing.Category = input.Category
	existing.Severity = input.Severity
	existing.EnforcementType = input.EnforcementType
	existing.Rules = rulesFromInput(input.Rules)
	existing.UpdatedAt = s.now()
	return s.PolicyTemplates.Update(ctx, existing)
}

func (s *TemplateService) DeletePolicyTemplate(ctx context.Context, principalID, templateID string) error {
	template, err := s.PolicyTemplates.GetByID(ctx, templateID)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireOwner(ctx, principalID, template.ConnectorID); err != nil {
		return err
	}
	return s.PolicyTemplates.Delete(ctx, templateID)
}

type ContractTemplateInput struct {
	ConnectorID       string
	Name              string
	Description       string
	ContractType      domain.ContractType
	Status            domain.TemplateStatus
	PolicyTemplateIDs []string
}

func (s *TemplateService) CreateContractTemplate(ctx context.Context, principalID string, input ContractTemplateInput) (domain.ContractTemplate, error) {
	if err := s.validateContractTemplateInput(ctx, principalID, input); err != nil {
		return domain.ContractTemplate{}, err
	}
	if _, err := s.Authz.OwnedConnector(ctx, principalID, input.ConnectorID); err != nil {
		return domain.ContractTemplate{}, err
	}
	now := s.now()
	return s.ContractTemplates.Create(ctx, domain.ContractTemplate{
		ConnectorID:       input.ConnectorID,
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		ContractType:      input.ContractType,
		Status:            input.Status,
		UsageCount:        0,
		PolicyTemplateIDs: input.PolicyTemplateIDs,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
}

func (s *TemplateService) ListContractTemplates(ctx context.Context, principalID, connectorID string, contractType domain.ContractType, status domain.TemplateStatus) ([]domain.ContractTemplate, error) {
	ownedIDs, err := s.Authz.OwnedIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(ownedIDs) == 0 {
		return []domain.ContractTemplate{}, nil
	}
	filter := ContractTemplateFilter{ConnectorIDs: ownedIDs, ContractType: contractType, Status: status}
	if connectorID != "" {
		if !containsID(ownedIDs, connectorID) {
			return nil, domain.ErrForbidden
		}
		filter.ConnectorIDs = []string{connectorID}
	}
	return s.ContractTemplates.List(ctx, filter)
}

func (s *TemplateService) GetContractTemplate(ctx context.Context, principalID, templateID string) (domain.ContractTemplate, error) {
	template, err := s.ContractTemplates.GetByID(ctx, templateID)
	if err != nil {
		return domain.ContractTemplate{}, err
	}
	if err := s.Authz.RequireOwner(ctx, principalID, template.ConnectorID); err != nil {
		return domain.ContractTemplate{}, err
	}
	return template, nil
}

// UpdateContractTemplate replaces the association set atomically.
func (s *TemplateService) UpdateContractTemplate(ctx context.Context, principalID, templateID string, input ContractTemplateInput) (domain.ContractTemplate, error) {
	existing, err := s.ContractTemplates.GetByID(ctx, templateID)
	if err != nil {
		return domain.ContractTemplate{}, err
	}
	if err := s.Authz.RequireOwner(ctx, principalID, existing.ConnectorID); err != nil {
		return domain.ContractTemplate{}, err
	}
	if err := s.validateContractTemplateInput(ctx, principalID, input); err != nil {
		return domain.ContractTemplate{}, err
	}
	existing.Name = strings.TrimSpace(input.Name)
	existing.Description = input.Description
	existing.ContractType = input.ContractType
	existing.Status = input.Status
	existing.PolicyTemplateIDs = input.PolicyTemplateIDs
	existing.UpdatedAt = s.now()
	return s.ContractTemplates.Update(ctx, existing)
}

func (s *TemplateService) DeleteContractTemplate(ctx context.Context, principalID, templateID string) error {
	template, err := s.ContractTemplates.GetByID(ctx, templateID)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireOwner(ctx, principalID, template.ConnectorID); err != nil {
		return err
	}
	return s.ContractTemplates.Delete(ctx, templateID)
}

// validateContractTemplateInput checks structure and policy-template
// ownership. Policy templates may belong to any connector the caller owns,
// not only the contract template's connector.
func (s *TemplateService) validateContractTemplateInput(ctx context.Context, principalID string, input ContractTemplateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.ErrInvalidArgument
	}
	if !domain.ValidContractType(input.ContractType) || !domain.ValidTemplateStatus(input.Status) {
		return domain.ErrInvalidArgument
	}
	if len(input.PolicyTemplateIDs) == 0 {
		return domain.ErrInvalidArgument
	}
	if input.ContractType == domain.ContractSinglePolicy && len(input.PolicyTemplateIDs) > 1 {
		return domain.ErrInvalidArgument
	}
	for _, policyID := range input.PolicyTemplateIDs {
		policy, err := s.PolicyTemplates.GetByID(ctx, policyID)
		if err != nil {
			return err
		}
		owned, err := s.Authz.Owns(ctx, principalID, policy.ConnectorID)
		if err != nil {
			return err
		}
		if !owned {
			return domain.ErrForbidden
		}
	}
	return nil
}

func validatePolicyTemplateInput(input PolicyTemplateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.ErrInvalidArgument
	}
	if !domain.ValidSeverity(input.Severity) || !domain.ValidEnforcementType(input.EnforcementType) {
		return domain.ErrInvalidArgument
	}
	for _, rule := range input.Rules {
		if !domain.ValidRuleType(rule.Type) {
			return domain.ErrInvalidArgument
		}
	}
	return nil
}

func rulesFromInput(inputs []PolicyRuleInput) []domain.PolicyRule {
	rules := make([]domain.PolicyRule, 0, len(inputs))
	for _, in := range inputs {
		rules = append(rules, domain.PolicyRule{
			Type:        in.Type,
			Name:        in.Name,
			Description: in.Description,
			Value:       in.Value,
			Unit:        in.Unit,
			IsActive:    in.IsActive,
		})
	}
	return rules
}

func (s *TemplateService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
