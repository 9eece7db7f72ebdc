package usecase

import (
	"context"
	"testing"
	"time"

	"tdsconnector/internal/domain"
)

// testEnv wires every service over the in-memory repositories with two users,
// one connector each, and an offering published by the provider.
type testEnv struct {
	users             *memUserRepo
	connectors        *memConnectorRepo
	spaces            *memDataSpaceRepo
	offerings         *memOfferingRepo
	policyTemplates   *memPolicyTemplateRepo
	contractTemplates *memContractTemplateRepo
	requests          *memRequestRepo
	contractRepo      *memContractRepo
	ledger            *staticLedger

	authz           *Authz
	offeringService *OfferingService
	templateService *TemplateService
	requestService  *RequestService
	contractService *ContractService

	provider   domain.User
	consumer   domain.User
	providerCn domain.Connector
	consumerCn domain.Connector
	offering   domain.DataOffering
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	env := &testEnv{
		users:             newMemUserRepo(),
		connectors:        newMemConnectorRepo(),
		spaces:            newMemDataSpaceRepo(),
		offerings:         newMemOfferingRepo(),
		policyTemplates:   newMemPolicyTemplateRepo(),
		contractTemplates: newMemContractTemplateRepo(),
		requests:          newMemRequestRepo(),
		ledger:            &staticLedger{},
	}
	env.contractRepo = newMemContractRepo(env.contractTemplates, env.requests)
	env.authz = NewAuthz(env.connectors)
	env.offeringService = NewOfferingService(env.offerings, env.authz)
	env.templateService = NewTemplateService(env.policyTemplates, env.contractTemplates, env.authz)
	env.requestService = NewRequestService(env.requests, env.offerings, env.authz)
	env.contractService = NewContractService(env.contractRepo, env.requests, env.offerings, env.contractTemplates, env.authz, env.ledger)

	now := time.Now().UTC()

	var err error
	env.provider, err = env.users.Create(ctx, domain.User{DID: "did:example:provider", Username: "provider", CreatedAt: now})
	if err != nil {
		t.Fatalf("create provider user: %v", err)
	}
	env.consumer, err = env.users.Create(ctx, domain.User{DID: "did:example:consumer", Username: "consumer", CreatedAt: now})
	if err != nil {
		t.Fatalf("create consumer user: %v", err)
	}

	space, err := env.spaces.Create(ctx, domain.DataSpace{Code: "default", Name: "Default", CreatedAt: now})
	if err != nil {
		t.Fatalf("create data space: %v", err)
	}

	env.providerCn, err = env.connectors.Create(ctx, domain.Connector{
		DID:         "did:example:connectorA",
		DisplayName: "Provider Connector",
		Status:      domain.ConnectorRegistered,
		OwnerUserID: env.provider.ID,
		DataSpaceID: space.ID,
		CreatedAt:   now,
	})
	if err != nil {
		t.Fatalf("create provider connector: %v", err)
	}
	env.consumerCn, err = env.connectors.Create(ctx, domain.Connector{
		DID:         "did:example:connectorB",
		DisplayName: "Consumer Connector",
		Status:      domain.ConnectorRegistered,
		OwnerUserID: env.consumer.ID,
		DataSpaceID: space.ID,
		CreatedAt:   now,
	})
	if err != nil {
		t.Fatalf("create consumer connector: %v", err)
	}

	env.offering, err = env.offerings.Create(ctx, domain.DataOffering{
		ConnectorID:        env.providerCn.ID,
		Title:              "Sensor readings",
		DataType:           domain.DataTypeS3,
		AccessPolicy:       domain.AccessRestricted,
		RegistrationStatus: "registered",
		CreatedAt:          now,
	})
	if err != nil {
		t.Fatalf("create offering: %v", err)
	}
	return env
}

// createTemplate publishes a single-policy contract template for the
// provider's connector.
func (env *testEnv) createTemplate(t *testing.T) domain.ContractTemplate {
	t.Helper()
	ctx := context.Background()
	policy, err := env.templateService.CreatePolicyTemplate(ctx, env.provider.ID, PolicyTemplateInput{
		ConnectorID:     env.providerCn.ID,
		Name:            "Access window",
		Severity:        domain.SeverityMedium,
		EnforcementType: domain.EnforcementAutomatic,
		Rules: []PolicyRuleInput{
			{Type: domain.RuleAccessPeriod, Name: "30 days", Value: "30", Unit: "days", IsActive: true},
		},
	})
	if err != nil {
		t.Fatalf("create policy template: %v", err)
	}
	template, err := env.templateService.CreateContractTemplate(ctx, env.provider.ID, ContractTemplateInput{
		ConnectorID:       env.providerCn.ID,
		Name:              "Standard exchange",
		ContractType:      domain.ContractSinglePolicy,
		Status:            domain.TemplateActive,
		PolicyTemplateIDs: []string{policy.ID},
	})
	if err != nil {
		t.Fatalf("create contract template: %v", err)
	}
	return template
}

// approvedRequest drives a consumer request to approved.
func (env *testEnv) approvedRequest(t *testing.T) domain.DataRequest {
	t.Helper()
	ctx := context.Background()
	request, err := env.requestService.Create(ctx, env.consumer.ID, CreateRequestInput{
		DataOfferingID:      env.offering.ID,
		ConsumerConnectorID: env.consumerCn.ID,
		Purpose:             "analytics",
		AccessMode:          domain.AccessModeAPI,
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	approved, err := env.requestService.Approve(ctx, env.provider.ID, request.ID)
	if err != nil {
		t.Fatalf("approve request: %v", err)
	}
	return approved
}
