package http

import (
	"context"
	"fmt"
	"sync"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"
)

type stubUserRepo struct {
	mu    sync.Mutex
	byID  map[string]domain.User
	byDID map[string]string
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]domain.User), byDID: make(map[string]string)}
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byDID[user.DID]; ok {
		return domain.User{}, domain.ErrConflict
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	r.byID[user.ID] = user
	r.byDID[user.DID] = user.ID
	return user, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *stubUserRepo) GetByDID(_ context.Context, did string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byDID[did]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return r.byID[id], nil
}

type stubDIDRepo struct {
	mu      sync.Mutex
	records map[string]domain.DIDRecord
}

func newStubDIDRepo() *stubDIDRepo {
	return &stubDIDRepo{records: make(map[string]domain.DIDRecord)}
}

func (r *stubDIDRepo) Register(_ context.Context, record domain.DIDRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.DID]; ok {
		return domain.ErrConflict
	}
	r.records[record.DID] = record
	return nil
}

func (r *stubDIDRepo) Get(_ context.Context, did string) (domain.DIDRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[did]
	if !ok {
		return domain.DIDRecord{}, domain.ErrNotFound
	}
	return record, nil
}

type stubSpaceRepo struct {
	mu     sync.Mutex
	spaces map[string]domain.DataSpace
	order  []string
	seq    int
}

func newStubSpaceRepo() *stubSpaceRepo {
	return &stubSpaceRepo{spaces: make(map[string]domain.DataSpace)}
}

func (r *stubSpaceRepo) Create(_ context.Context, space domain.DataSpace) (domain.DataSpace, error) {
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
	r.order = append(r.order, space.ID)
	return space, nil
}

func (r *stubSpaceRepo) GetByID(_ context.Context, id string) (domain.DataSpace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	space, ok := r.spaces[id]
	if !ok {
		return domain.DataSpace{}, domain.ErrNotFound
	}
	return space, nil
}

func (r *stubSpaceRepo) List(_ context.Context) ([]domain.DataSpace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.DataSpace, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.spaces[id])
	}
	return out, nil
}

type stubConnectorRepo struct {
	mu         sync.Mutex
	connectors map[string]domain.Connector
	seq        int
}

func newStubConnectorRepo() *stubConnectorRepo {
	return &stubConnectorRepo{connectors: make(map[string]domain.Connector)}
}

func (r *stubConnectorRepo) Create(_ context.Context, connector domain.Connector) (domain.Connector, error) {
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

func (r *stubConnectorRepo) GetByID(_ context.Context, id string) (domain.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	connector, ok := r.connectors[id]
	if !ok {
		return domain.Connector{}, domain.ErrNotFound
	}
	return connector, nil
}

func (r *stubConnectorRepo) ListByOwner(_ context.Context, userID string) ([]domain.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Connector{}
	for _, connector := range r.connectors {
		if connector.OwnerUserID == userID {
			out = append(out, connector)
		}
	}
	return out, nil
}

func (r *stubConnectorRepo) IDsByOwner(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for id, connector := range r.connectors {
		if connector.OwnerUserID == userID {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *stubConnectorRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.connectors[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.connectors, id)
	return nil
}

type stubOfferingRepo struct {
	mu        sync.Mutex
	offerings map[string]domain.DataOffering
	order     []string
	seq       int
}

func newStubOfferingRepo() *stubOfferingRepo {
	return &stubOfferingRepo{offerings: make(map[string]domain.DataOffering)}
}

func (r *stubOfferingRepo) Create(_ context.Context, offering domain.DataOffering) (domain.DataOffering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	offering.ID = fmt.Sprintf("off-%d", r.seq)
	r.offerings[offering.ID] = offering
	r.order = append(r.order, offering.ID)
	return offering, nil
}

func (r *stubOfferingRepo) GetByID(_ context.Context, id string) (domain.DataOffering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	offering, ok := r.offerings[id]
	if !ok {
		return domain.DataOffering{}, domain.ErrNotFound
	}
	return offering, nil
}

func (r *stubOfferingRepo) List(_ context.Context, filter usecase.OfferingFilter) ([]domain.DataOffering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.DataOffering{}
	for _, id := range r.order {
		offering := r.offerings[id]
		if filter.ConnectorIDs != nil && !containsString(filter.ConnectorIDs, offering.ConnectorID) {
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

func (r *stubOfferingRepo) IDsByConnectors(_ context.Context, connectorIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for _, id := range r.order {
		if containsString(connectorIDs, r.offerings[id].ConnectorID) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *stubOfferingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offerings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.offerings, id)
	return nil
}

func containsString(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
