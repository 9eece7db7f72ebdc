package usecase

import (
	"context"
	"strings"
	"time"

	"tdsconnector/internal/domain"
)

// ContractService runs the contract lifecycle: provider-initiated creation,
// consumer confirmation, and ledger deployment.
type ContractService struct {
	Contracts ContractRepository
	Requests  RequestRepository
	Offerings OfferingRepository
	Templates ContractTemplateRepository
	Authz     *Authz
	Ledger    domain.Ledger
	Clock     func() time.Time
}

func NewContractService(contracts ContractRepository, requests RequestRepository, offerings OfferingRepository, templates ContractTemplateRepository, authz *Authz, ledger domain.Ledger) *ContractService {
	return &ContractService{
		Contracts: contracts,
		Requests:  requests,
		Offerings: offerings,
		Templates: templates,
		Authz:     authz,
		Ledger:    ledger,
		Clock:     time.Now,
	}
}

type CreateContractInput struct {
	Name                string
	ProviderConnectorID string
	ConsumerConnectorID string
	ContractTemplateID  string
	DataOfferingID      string
	DataRequestID       string
	ExpiresAt           *time.Time
}

// Create is provider-initiated. All validation happens before any mutation;
// the insert, the template usage-count increment, and the optional request
// completion commit as one transaction in the repository.
func (s *ContractService) Create(ctx context.Context, principalID string, input CreateContractInput) (domain.Contract, error) {
	if strings.TrimSpace(input.Name) == "" {
		return domain.Contract{}, domain.ErrInvalidArgument
	}
	provider, err := s.Authz.Connectors.GetByID(ctx, input.ProviderConnectorID)
	if err != nil {
		return domain.Contract{}, err
	}
	if provider.OwnerUserID != principalID {
		return domain.Contract{}, domain.ErrForbidden
	}
	consumer, err := s.Authz.Connectors.GetByID(ctx, input.ConsumerConnectorID)
	if err != nil {
		return domain.Contract{}, err
	}
	if provider.ID == consumer.ID {
		return domain.Contract{}, domain.ErrInvalidArgument
	}
	template, err := s.Templates.GetByID(ctx, input.ContractTemplateID)
	if err != nil {
		return domain.Contract{}, err
	}
	if template.ConnectorID != provider.ID {
		return domain.Contract{}, domain.ErrForbidden
	}
	offering, err := s.Offerings.GetByID(ctx, input.DataOfferingID)
	if err != nil {
		return domain.Contract{}, err
	}
	if offering.ConnectorID != provider.ID {
		return domain.Contract{}, domain.ErrForbidden
	}

	completeRequest := false
	if input.DataRequestID != "" {
		request, err := s.Requests.GetByID(ctx, input.DataRequestID)
		if err != nil {
			return domain.Contract{}, err
		}
		if request.Status != domain.RequestApproved {
			return domain.Contract{}, domain.NewTransitionError("data request", string(request.Status))
		}
		if request.DataOfferingID != input.DataOfferingID {
			return domain.Contract{}, domain.ErrInvalidArgument
		}
		if request.ConsumerConnectorID != input.ConsumerConnectorID {
			return domain.Contract{}, domain.ErrInvalidArgument
		}
		completeRequest = true
	}

	now := s.now()
	return s.Contracts.Create(ctx, domain.Contract{
		Name:                strings.TrimSpace(input.Name),
		Status:              domain.ContractPendingConsumer,
		ProviderConnectorID: provider.ID,
		ConsumerConnectorID: consumer.ID,
		ContractTemplateID:  template.ID,
		DataOfferingID:      offering.ID,
		DataRequestID:       input.DataRequestID,
		BlockchainNetwork:   domain.DefaultBlockchainNetwork,
		ExpiresAt:           input.ExpiresAt,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, completeRequest)
}

type ListContractsInput struct {
	ConnectorID string
	Role        domain.Role
}

func (s *ContractService) List(ctx context.Context, principalID string, input ListContractsInput) ([]domain.Contract, error) {
	ownedIDs, err := s.Authz.OwnedIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(ownedIDs) == 0 {
		return []domain.Contract{}, nil
	}
	filter := ContractFilter{ProviderConnectorIDs: ownedIDs, ConsumerConnectorIDs: ownedIDs}
	if input.ConnectorID != "" {
		if !containsID(ownedIDs, input.ConnectorID) {
			return nil, domain.ErrForbidden
		}
		switch input.Role {
		case domain.RoleProvider:
			filter = ContractFilter{ProviderConnectorIDs: []string{input.ConnectorID}}
		case domain.RoleConsumer:
			filter = ContractFilter{ConsumerConnectorIDs: []string{input.ConnectorID}}
		default:
			filter = ContractFilter{
				ProviderConnectorIDs: []string{input.ConnectorID},
				ConsumerConnectorIDs: []string{input.ConnectorID},
			}
		}
	}
	return s.Contracts.List(ctx, filter)
}

// Get allows either party.
func (s *ContractService) Get(ctx context.Context, principalID, contractID string) (domain.Contract, error) {
	contract, err := s.Contracts.GetByID(ctx, contractID)
	if err != nil {
		return domain.Contract{}, err
	}
	if err := s.requireParty(ctx, principalID, contract); err != nil {
		return domain.Contract{}, err
	}
	return contract, nil
}

// Confirm is consumer-initiated; action is "confirm" or "reject".
func (s *ContractService) Confirm(ctx context.Context, principalID, contractID, action string) (domain.Contract, error) {
	var to domain.ContractStatus
	switch action {
	case "confirm":
		to = domain.ContractActive
	case "reject":
		to = domain.ContractRejected
	default:
		return domain.Contract{}, domain.ErrInvalidArgument
	}
	contract, err := s.Contracts.GetByID(ctx, contractID)
	if err != nil {
		return domain.Contract{}, err
	}
	isConsumer, err := s.Authz.Owns(ctx, principalID, contract.ConsumerConnectorID)
	if err != nil {
		return domain.Contract{}, err
	}
	if !isConsumer {
		return domain.Contract{}, domain.ErrForbidden
	}
	return s.Contracts.UpdateStatus(ctx, contractID, domain.ContractPendingConsumer, to)
}

// Deploy records the contract on the ledger. Either party may trigger it; the
// already-deployed guard and the write happen in one atomic repository
// operation, so concurrent double-invocation yields exactly one address.
func (s *ContractService) Deploy(ctx context.Context, principalID, contractID string) (domain.Contract, error) {
	contract, err := s.Contracts.GetByID(ctx, contractID)
	if err != nil {
		return domain.Contract{}, err
	}
	if err := s.requireParty(ctx, principalID, contract); err != nil {
		return domain.Contract{}, err
	}
	if contract.Status != domain.ContractActive {
		return domain.Contract{}, domain.NewTransitionError("contract", string(contract.Status))
	}
	if contract.Deployed() {
		return domain.Contract{}, domain.ErrConflict
	}
	address, txID, err := s.Ledger.Deploy(ctx, contract.ID)
	if err != nil {
		return domain.Contract{}, err
	}
	return s.Contracts.SetDeployment(ctx, contractID, address, txID)
}

func (s *ContractService) requireParty(ctx context.Context, principalID string, contract domain.Contract) error {
	isProvider, err := s.Authz.Owns(ctx, principalID, contract.ProviderConnectorID)
	if err != nil {
		return err
	}
	if isProvider {
		return nil
	}
	isConsumer, err := s.Authz.Owns(ctx, principalID, contract.ConsumerConnectorID)
	if err != nil {
		return err
	}
	if !isConsumer {
		return domain.ErrForbidden
	}
	return nil
}

func (s *ContractService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
