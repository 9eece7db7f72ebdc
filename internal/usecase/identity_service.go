package usecase

import (
	"context"
	"strings"
	"time"

	"tdsconnector/internal/domain"
)

// IdentityService manages DID records, data spaces, and connector
// registrations.
type IdentityService struct {
	DIDs       DIDRepository
	DataSpaces DataSpaceRepository
	Connectors ConnectorRepository
	Generator  DIDGenerator
	Clock      func() time.Time
}

func NewIdentityService(dids DIDRepository, spaces DataSpaceRepository, connectors ConnectorRepository, generator DIDGenerator) *IdentityService {
	return &IdentityService{
		DIDs:       dids,
		DataSpaces: spaces,
		Connectors: connectors,
		Generator:  generator,
		Clock:      time.Now,
	}
}

func (s *IdentityService) GenerateDID() (domain.DIDKeypair, error) {
	return s.Generator.Generate()
}

func (s *IdentityService) RegisterDID(ctx context.Context, did, document string) error {
	did = strings.TrimSpace(did)
	if did == "" || document == "" {
		return domain.ErrInvalidArgument
	}
	return s.DIDs.Register(ctx, domain.DIDRecord{
		DID:          did,
		Document:     document,
		RegisteredAt: s.now(),
	})
}

func (s *IdentityService) GetDID(ctx context.Context, did string) (domain.DIDRecord, error) {
	return s.DIDs.Get(ctx, did)
}

type RegisterConnectorInput struct {
	DID         string
	DisplayName string
	DataSpaceID string
	DIDDocument string
}

func (s *IdentityService) RegisterConnector(ctx context.Context, principalID string, input RegisterConnectorInput) (domain.Connector, error) {
	did := strings.TrimSpace(input.DID)
	if did == "" || strings.TrimSpace(input.DisplayName) == "" {
		return domain.Connector{}, domain.ErrInvalidArgument
	}
	if _, err := s.DataSpaces.GetByID(ctx, input.DataSpaceID); err != nil {
		return domain.Connector{}, err
	}
	return s.Connectors.Create(ctx, domain.Connector{
		DID:         did,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Status:      domain.ConnectorRegistered,
		DIDDocument: input.DIDDocument,
		OwnerUserID: principalID,
		DataSpaceID: input.DataSpaceID,
		CreatedAt:   s.now(),
	})
}

func (s *IdentityService) ListConnectors(ctx context.Context, principalID string) ([]domain.Connector, error) {
	return s.Connectors.ListByOwner(ctx, principalID)
}

// GetConnector hides existence: a connector owned by another user is reported
// as not found.
func (s *IdentityService) GetConnector(ctx context.Context, principalID, connectorID string) (domain.Connector, error) {
	connector, err := s.Connectors.GetByID(ctx, connectorID)
	if err != nil {
		return domain.Connector{}, err
	}
	if connector.OwnerUserID != principalID {
		return domain.Connector{}, domain.ErrNotFound
	}
	return connector, nil
}

// DeleteConnector removes the connector and cascades to its offerings and
// templates.
func (s *IdentityService) DeleteConnector(ctx context.Context, principalID, connectorID string) error {
	if _, err := s.GetConnector(ctx, principalID, connectorID); err != nil {
		return err
	}
	return s.Connectors.Delete(ctx, connectorID)
}

func (s *IdentityService) CreateDataSpace(ctx context.Context, code, name, description string) (domain.DataSpace, error) {
	code = strings.TrimSpace(code)
	if code == "" || strings.TrimSpace(name) == "" {
		return domain.DataSpace{}, domain.ErrInvalidArgument
	}
	return s.DataSpaces.Create(ctx, domain.DataSpace{
		Code:        code,
		Name:        strings.TrimSpace(name),
		Description: description,
		CreatedAt:   s.now(),
	})
}

func (s *IdentityService) ListDataSpaces(ctx context.Context) ([]domain.DataSpace, error) {
	return s.DataSpaces.List(ctx)
}

func (s *IdentityService) GetDataSpace(ctx context.Context, id string) (domain.DataSpace, error) {
	return s.DataSpaces.GetByID(ctx, id)
}

func (s *IdentityService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
