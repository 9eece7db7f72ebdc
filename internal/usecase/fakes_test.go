package usecase

import (
	"context"
	"fmt"
	"sync"

	"tdsconnector/internal/domain"
)

// In-memory repositories backing the service tests. They honor the same
// contracts as the gorm implementations, CAS semantics included.

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.DID == user.DID {
			return domain.User{}, domain.ErrConflict
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByDID(_ context.Context, did string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.DID == did {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

type memDIDRepo struct {
	mu      sync.Mutex
	records map[string]domain.DIDRecord
}

func newMemDIDRepo() *memDIDRepo {
	return &memDIDRepo{records: make(map[string]domain.DIDRecord)}
}

func (r *memDIDRepo) Register(_ context.Context, record domain.DIDRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.DID]; ok {
		return domain.ErrConflict
	}
	r.records[record.DID] = record
	return nil
}

func (r *memDIDRepo) Get(_ context.Context, did string) (domain.DIDRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[did]
	if !ok {
		return domain.DIDRecord{}, domain.ErrNotFound
	}
	return record, nil
}

type memDataSpaceRepo struct {
	mu     sync.Mutex
	seq    int
	spaces map[string]domain.DataSpace
}

func newMemDataSpaceRepo() *memDataSpaceRepo {
	return &memDataSpaceRepo{spaces: make(map[string]domain.DataSpace)}
}

func (r *memDataSpaceRepo) Create(_ context.Context, space domain.DataSpace) (domain.DataSpace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.spaces {
		if existing.Code == space.Code {
			return domain.DataSpace{}, domain.ErrConflict
		}
	}
	r.seq++
	space.ID = fmt.Sprintf("space-%d", r.seq)
	r.spaces[space.ID] = space
	return space, nil
}

func (r *memDataSpaceRepo) GetByID(_ context.Context, id string) (domain.DataSpace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	space, ok := r.spaces[id]
	if !ok {
		return domain.DataSpace{}, domain.ErrNotFound
	}
	return space, nil
}

func (r *memDataSpaceRepo) List(_ context.Context) ([]domain.DataSpace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.DataSpace, 0, len(r.spaces))
	for _, space := range r.spaces {
		out = append(out, space)
	}
	return out, nil
}

type memConnectorRepo struct {
	mu         sync.Mutex
	seq        int
	connectors map[string]domain.Connector
}

func newMemConnectorRepo() *memConnectorRepo {
	return &memConnectorRepo{connectors: make(map[string]domain.Connector)}
}

func (r *memConnectorRepo) Create(_ context.Context, connector domain.Connector) (domain.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.connectors {
		if existing.DID == connector.DID {
			return domain.Connector{}, domain.ErrConflict
		}
	}
	r.seq++
	connector.ID = fmt.Sprintf("conn-%d", r.seq)
	r.connectors[connector.ID] = connector
	return connector, nil
}

func (r *memConnectorRepo) GetByID(_ context.Context, id string) (domain.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	connector, ok := r.connectors[id]
	if !ok {
		return domain.Connector{}, domain.ErrNotFound
	}
	return connector, nil
}

func (r *memConnectorRepo) ListByOwner(_ context.Context, userID string) ([]domain.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Connector, 0)
	for _, connector := range r.connectors {
		if connector.OwnerUserID == userID {
			out = append(out, connector)
		}
	}
	return out, nil
}

func (r *memConnectorRepo) IDsByOwner(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0)
	for id, connector := range r.connectors {
		if connector.OwnerUserID == userID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *memConnectorRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.connectors[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.connectors, id)
	return nil
}

type memOfferingRepo struct {
	mu        sync.Mutex
	seq       int
	offerings map[string]domain.DataOffering
}

func newMemOfferingRepo() *memOfferingRepo {
	return &memOfferingRepo{offerings: make(map[string]domain.DataOffering)}
}

func (r *memOfferingRepo) Create(_ context.Context, offering domain.DataOffering) (domain.DataOffering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	offering.ID = fmt.Sprintf("off-%d", r.seq)
	r.offerings[offering.ID] = offering
	return offering, nil
}

func (r *memOfferingRepo) GetByID(_ context.Context, id string) (domain.DataOffering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offering, ok := r.offerings[id]
	if !ok {
		return domain.DataOffering{}, domain.ErrNotFound
	}
	return offering, nil
}

func (r *memOfferingRepo) List(_ context.Context, filter OfferingFilter) ([]domain.DataOffering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.DataOffering, 0)
	for _, offering := range r.offerings {
		if len(filter.ConnectorIDs) > 0 && !contains(filter.ConnectorIDs, offering.ConnectorID) {
			continue
		}
		if filter.DataType != "" && offering.DataType != filter.DataType {
			continue
		}
		if filter.AccessPolicy != "" && offering.AccessPolicy != filter.AccessPolicy {
			continue
		}
		out = append(out, offering)
	}
	return out, nil
}

func (r *memOfferingRepo) IDsByConnectors(_ context.Context, connectorIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0)
	for id, offering := range r.offerings {
		if contains(connectorIDs, offering.ConnectorID) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *memOfferingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offerings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.offerings, id)
	return nil
}

type memPolicyTemplateRepo struct {
	mu        sync.Mutex
	seq       int
	templates map[string]domain.PolicyTemplate
	// referenced reports ids the contract-template repo still points at.
	referenced func(policyID string) bool
}

func newMemPolicyTemplateRepo() *memPolicyTemplateRepo {
	return &memPolicyTemplateRepo{templates: make(map[string]domain.PolicyTemplate)}
}

func (r *memPolicyTemplateRepo) Create(_ context.Context, template domain.PolicyTemplate) (domain.PolicyTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	template.ID = fmt.Sprintf("pt-%d", r.seq)
	r.templates[template.ID] = template
	return template, nil
}

func (r *memPolicyTemplateRepo) GetByID(_ context.Context, id string) (domain.PolicyTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[id]
	if !ok {
		return domain.PolicyTemplate{}, domain.ErrNotFound
	}
	return template, nil
}

func (r *memPolicyTemplateRepo) List(_ context.Context, filter PolicyTemplateFilter) ([]domain.PolicyTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.PolicyTemplate, 0)
	for _, template := range r.templates {
		if len(filter.ConnectorIDs) > 0 && !contains(filter.ConnectorIDs, template.ConnectorID) {
			continue
		}
		if filter.Category != "" && template.Category != filter.Category {
			continue
		}
		out = append(out, template)
	}
	return out, nil
}

func (r *memPolicyTemplateRepo) Update(_ context.Context, template domain.PolicyTemplate) (domain.PolicyTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[template.ID]; !ok {
		return domain.PolicyTemplate{}, domain.ErrNotFound
	}
	r.templates[template.ID] = template
	return template, nil
}

func (r *memPolicyTemplateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return domain.ErrNotFound
	}
	if r.referenced != nil && r.referenced(id) {
		return domain.ErrConflict
	}
	delete(r.templates, id)
	return nil
}

type memContractTemplateRepo struct {
	mu        sync.Mutex
	seq       int
	templates map[string]domain.ContractTemplate
	// inUse reports template ids referenced by a contract.
	inUse func(templateID string) bool
}

func newMemContractTemplateRepo() *memContractTemplateRepo {
	return &memContractTemplateRepo{templates: make(map[string]domain.ContractTemplate)}
}

func (r *memContractTemplateRepo) Create(_ context.Context, template domain.ContractTemplate) (domain.ContractTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	template.ID = fmt.Sprintf("ct-%d", r.seq)
	r.templates[template.ID] = template
	return template, nil
}

func (r *memContractTemplateRepo) GetByID(_ context.Context, id string) (domain.ContractTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[id]
	if !ok {
		return domain.ContractTemplate{}, domain.ErrNotFound
	}
	return template, nil
}

func (r *memContractTemplateRepo) List(_ context.Context, filter ContractTemplateFilter) ([]domain.ContractTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ContractTemplate, 0)
	for _, template := range r.templates {
		if len(filter.ConnectorIDs) > 0 && !contains(filter.ConnectorIDs, template.ConnectorID) {
			continue
		}
		if filter.ContractType != "" && template.ContractType != filter.ContractType {
			continue
		}
		if filter.Status != "" && template.Status != filter.Status {
			continue
		}
		out = append(out, template)
	}
	return out, nil
}

func (r *memContractTemplateRepo) Update(_ context.Context, template domain.ContractTemplate) (domain.ContractTemplate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[template.ID]; !ok {
		return domain.ContractTemplate{}, domain.ErrNotFound
	}
	r.templates[template.ID] = template
	return template, nil
}

func (r *memContractTemplateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return domain.ErrNotFound
	}
	if r.inUse != nil && r.inUse(id) {
		return domain.ErrConflict
	}
	delete(r.templates, id)
	return nil
}

func (r *memContractTemplateRepo) bumpUsage(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[id]
	if !ok {
		return false
	}
	template.UsageCount++
	r.templates[id] = template
	return true
}

type memRequestRepo struct {
	mu       sync.Mutex
	seq      int
	requests map[string]domain.DataRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[string]domain.DataRequest)}
}

func (r *memRequestRepo) Create(_ context.Context, request domain.DataRequest) (domain.DataRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	request.ID = fmt.Sprintf("req-%d", r.seq)
	r.requests[request.ID] = request
	return request, nil
}

func (r *memRequestRepo) GetByID(_ context.Context, id string) (domain.DataRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return domain.DataRequest{}, domain.ErrNotFound
	}
	return request, nil
}

func (r *memRequestRepo) List(_ context.Context, filter RequestFilter) ([]domain.DataRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.DataRequest, 0)
	for _, request := range r.requests {
		matched := false
		if len(filter.ConsumerConnectorIDs) > 0 && contains(filter.ConsumerConnectorIDs, request.ConsumerConnectorID) {
			matched = true
		}
		if len(filter.OfferingIDs) > 0 && contains(filter.OfferingIDs, request.DataOfferingID) {
			matched = true
		}
		if !matched {
			continue
		}
		if filter.Status != "" && request.Status != filter.Status {
			continue
		}
		out = append(out, request)
	}
	return out, nil
}

func (r *memRequestRepo) UpdateStatus(_ context.Context, id string, from, to domain.RequestStatus) (domain.DataRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return domain.DataRequest{}, domain.ErrNotFound
	}
	if request.Status != from {
		return domain.DataRequest{}, domain.NewTransitionError("data request", string(request.Status))
	}
	request.Status = to
	r.requests[id] = request
	return request, nil
}

// completeApproved mirrors the CAS the gorm repo runs inside the contract
// transaction.
func (r *memRequestRepo) completeApproved(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok || request.Status != domain.RequestApproved {
		return false
	}
	request.Status = domain.RequestCompleted
	r.requests[id] = request
	return true
}

type memContractRepo struct {
	mu        sync.Mutex
	seq       int
	contracts map[string]domain.Contract
	templates *memContractTemplateRepo
	requests  *memRequestRepo
}

func newMemContractRepo(templates *memContractTemplateRepo, requests *memRequestRepo) *memContractRepo {
	return &memContractRepo{
		contracts: make(map[string]domain.Contract),
		templates: templates,
		requests:  requests,
	}
}

func (r *memContractRepo) Create(_ context.Context, contract domain.Contract, completeRequest bool) (domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if contract.DataRequestID != "" {
		for _, existing := range r.contracts {
			if existing.DataRequestID == contract.DataRequestID {
				return domain.Contract{}, domain.ErrConflict
			}
		}
	}
	if completeRequest && !r.requests.completeApproved(contract.DataRequestID) {
		return domain.Contract{}, domain.ErrConflict
	}
	if !r.templates.bumpUsage(contract.ContractTemplateID) {
		return domain.Contract{}, domain.ErrNotFound
	}
	r.seq++
	contract.ID = fmt.Sprintf("contract-%d", r.seq)
	r.contracts[contract.ID] = contract
	return contract, nil
}

func (r *memContractRepo) GetByID(_ context.Context, id string) (domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.contracts[id]
	if !ok {
		return domain.Contract{}, domain.ErrNotFound
	}
	return contract, nil
}

func (r *memContractRepo) List(_ context.Context, filter ContractFilter) ([]domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Contract, 0)
	for _, contract := range r.contracts {
		matched := false
		if len(filter.ProviderConnectorIDs) > 0 && contains(filter.ProviderConnectorIDs, contract.ProviderConnectorID) {
			matched = true
		}
		if len(filter.ConsumerConnectorIDs) > 0 && contains(filter.ConsumerConnectorIDs, contract.ConsumerConnectorID) {
			matched = true
		}
		if matched {
			out = append(out, contract)
		}
	}
	return out, nil
}

func (r *memContractRepo) UpdateStatus(_ context.Context, id string, from, to domain.ContractStatus) (domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.contracts[id]
	if !ok {
		return domain.Contract{}, domain.ErrNotFound
	}
	if contract.Status != from {
		return domain.Contract{}, domain.NewTransitionError("contract", string(contract.Status))
	}
	contract.Status = to
	r.contracts[id] = contract
	return contract, nil
}

func (r *memContractRepo) SetDeployment(_ context.Context, id, address, txID string) (domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.contracts[id]
	if !ok {
		return domain.Contract{}, domain.ErrNotFound
	}
	if contract.ContractAddress != "" {
		return domain.Contract{}, domain.ErrConflict
	}
	if contract.Status != domain.ContractActive {
		return domain.Contract{}, domain.NewTransitionError("contract", string(contract.Status))
	}
	contract.ContractAddress = address
	contract.BlockchainTxID = txID
	r.contracts[id] = contract
	return contract, nil
}

type staticTokenIssuer struct{}

func (staticTokenIssuer) Issue(subject string) (string, error) {
	return "token-" + subject, nil
}

func (staticTokenIssuer) Verify(token string) (string, error) {
	const prefix = "token-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return "", domain.ErrUnauthorized
	}
	return token[len(prefix):], nil
}

type acceptAllVerifier struct{}

func (acceptAllVerifier) Verify(did, signature, message string) bool {
	return signature != ""
}

type staticGenerator struct{}

func (staticGenerator) Generate() (domain.DIDKeypair, error) {
	return domain.DIDKeypair{
		DID:       "did:example:connector0123456789abcdef",
		PublicKey: "pub",
		Document:  map[string]any{"id": "did:example:connector0123456789abcdef"},
	}, nil
}

type staticLedger struct {
	calls int
}

func (l *staticLedger) Deploy(_ context.Context, contractID string) (string, string, error) {
	l.calls++
	return fmt.Sprintf("0xaddr-%s-%d", contractID, l.calls), fmt.Sprintf("0xtx-%s-%d", contractID, l.calls), nil
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
