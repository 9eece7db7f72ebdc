package usecase

import (
	"context"

	"tdsconnector/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByDID(ctx context.Context, did string) (domain.User, error)
}

type DIDRepository interface {
	Register(ctx context.Context, record domain.DIDRecord) error
	Get(ctx context.Context, did string) (domain.DIDRecord, error)
}

type DataSpaceRepository interface {
	Create(ctx context.Context, space domain.DataSpace) (domain.DataSpace, error)
	GetByID(ctx context.Context, id string) (domain.DataSpace, error)
	List(ctx context.Context) ([]domain.DataSpace, error)
}

type ConnectorRepository interface {
	Create(ctx context.Context, connector domain.Connector) (domain.Connector, error)
	GetByID(ctx context.Context, id string) (domain.Connector, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Connector, error)
	IDsByOwner(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

type OfferingFilter struct {
	ConnectorIDs []string
	DataType     domain.DataType
	AccessPolicy domain.AccessPolicy
}

type OfferingRepository interface {
	Create(ctx context.Context, offering domain.DataOffering) (domain.DataOffering, error)
	GetByID(ctx context.Context, id string) (domain.DataOffering, error)
	List(ctx context.Context, filter OfferingFilter) ([]domain.DataOffering, error)
	IDsByConnectors(ctx context.Context, connectorIDs []string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

type PolicyTemplateFilter struct {
	ConnectorIDs []string
	Category     string
}

type PolicyTemplateRepository interface {
	// Create and Update persist the template together with its full rule set
	// in one atomic unit; Update replaces the previous rules entirely.
	Create(ctx context.Context, template domain.PolicyTemplate) (domain.PolicyTemplate, error)
	GetByID(ctx context.Context, id string) (domain.PolicyTemplate, error)
	List(ctx context.Context, filter PolicyTemplateFilter) ([]domain.PolicyTemplate, error)
	Update(ctx context.Context, template domain.PolicyTemplate) (domain.PolicyTemplate, error)
	// Delete fails with domain.ErrConflict while any contract template still
	// references the policy template.
	Delete(ctx context.Context, id string) error
}

type ContractTemplateFilter struct {
	ConnectorIDs []string
	ContractType domain.ContractType
	Status       domain.TemplateStatus
}

type ContractTemplateRepository interface {
	Create(ctx context.Context, template domain.ContractTemplate) (domain.ContractTemplate, error)
	GetByID(ctx context.Context, id string) (domain.ContractTemplate, error)
	List(ctx context.Context, filter ContractTemplateFilter) ([]domain.ContractTemplate, error)
	Update(ctx context.Context, template domain.ContractTemplate) (domain.ContractTemplate, error)
	// Delete fails with domain.ErrConflict while any contract references the
	// template.
	Delete(ctx context.Context, id string) error
}

// RequestFilter matches requests whose consumer connector is in
// ConsumerConnectorIDs OR whose offering is in OfferingIDs. A nil slice drops
// that side of the disjunction.
type RequestFilter struct {
	ConsumerConnectorIDs []string
	OfferingIDs          []string
	Status               domain.RequestStatus
}

type RequestRepository interface {
	Create(ctx context.Context, request domain.DataRequest) (domain.DataRequest, error)
	GetByID(ctx context.Context, id string) (domain.DataRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.DataRequest, error)
	// UpdateStatus performs a compare-and-set: the transition applies only if
	// the request is still in the from status. On a status mismatch it
	// returns a domain.TransitionError naming the current status.
	UpdateStatus(ctx context.Context, id string, from, to domain.RequestStatus) (domain.DataRequest, error)
}

// ContractFilter matches contracts where either party's connector id is in
// the corresponding slice (disjunction).
type ContractFilter struct {
	ProviderConnectorIDs []string
	ConsumerConnectorIDs []string
}

type ContractRepository interface {
	// Create inserts the contract, increments the referenced contract
	// template's usage count, and, when completeRequest is set, advances the
	// referenced data request from approved to completed, all in one atomic
	// unit. A concurrent creation that already consumed the request makes the
	// whole transaction fail with domain.ErrConflict.
	Create(ctx context.Context, contract domain.Contract, completeRequest bool) (domain.Contract, error)
	GetByID(ctx context.Context, id string) (domain.Contract, error)
	List(ctx context.Context, filter ContractFilter) ([]domain.Contract, error)
	// UpdateStatus is a compare-and-set, as in RequestRepository.
	UpdateStatus(ctx context.Context, id string, from, to domain.ContractStatus) (domain.Contract, error)
	// SetDeployment records the ledger fields for an active, not yet deployed
	// contract. It fails with domain.ErrConflict when the contract already
	// carries an address, and with a domain.TransitionError when the contract
	// is not active. The guard and the write happen in one atomic unit.
	SetDeployment(ctx context.Context, id, address, txID string) (domain.Contract, error)
}

type TokenIssuer interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}

type DIDGenerator interface {
	Generate() (domain.DIDKeypair, error)
}
