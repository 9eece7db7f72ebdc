package domain

import "time"

type RuleType string

const (
	RuleAccessPeriod        RuleType = "access_period"
	RuleAccessCount         RuleType = "access_count"
	RuleIdentityRestriction RuleType = "identity_restriction"
	RuleEncryption          RuleType = "encryption"
	RuleIPRestriction       RuleType = "ip_restriction"
	RuleTransferLimit       RuleType = "transfer_limit"
	RuleQPSLimit            RuleType = "qps_limit"
)

func ValidRuleType(t RuleType) bool {
	switch t {
	case RuleAccessPeriod, RuleAccessCount, RuleIdentityRestriction,
		RuleEncryption, RuleIPRestriction, RuleTransferLimit, RuleQPSLimit:
		return true
	}
	return false
}

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func ValidSeverity(s Severity) bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

type EnforcementType string

const (
	EnforcementAutomatic EnforcementType = "automatic"
	EnforcementManual    EnforcementType = "manual"
	EnforcementHybrid    EnforcementType = "hybrid"
)

func ValidEnforcementType(t EnforcementType) bool {
	return t == EnforcementAutomatic || t == EnforcementManual || t == EnforcementHybrid
}

type PolicyRule struct {
	ID               string
	PolicyTemplateID string
	Type             RuleType
	Name             string
	Description      string
	Value            string
	Unit             string
	IsActive         bool
}

// PolicyTemplate is a reusable named set of access-control rules, scoped to
// one connector. Rules are owned: replacing a template's rule set replaces
// them all at once.
type PolicyTemplate struct {
	ID              string
	ConnectorID     string
	Name            string
	Description     string
	Category        string
	Severity        Severity
	EnforcementType EnforcementType
	Rules           []PolicyRule
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ContractType string

const (
	ContractSinglePolicy ContractType = "single_policy"
	ContractMultiPolicy  ContractType = "multi_policy"
)

func ValidContractType(t ContractType) bool {
	return t == ContractSinglePolicy || t == ContractMultiPolicy
}

type TemplateStatus string

const (
	TemplateDraft  TemplateStatus = "draft"
	TemplateActive TemplateStatus = "active"
)

func ValidTemplateStatus(s TemplateStatus) bool {
	return s == TemplateDraft || s == TemplateActive
}

// ContractTemplate bundles policy templates into the terms a contract will
// enforce. single_policy templates carry exactly one policy template.
type ContractTemplate struct {
	ID                string
	ConnectorID       string
	Name              string
	Description       string
	ContractType      ContractType
	Status            TemplateStatus
	UsageCount        int64
	PolicyTemplateIDs []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
