package usecase

import (
	"context"
	"strings"
	"time"

	"tdsconnector/internal/domain"
)

// OfferingService publishes and serves the data offering catalog.
type OfferingService struct {
	Offerings OfferingRepository
	Authz     *Authz
	Clock     func() time.Time
}

func NewOfferingService(offerings OfferingRepository, authz *Authz) *OfferingService {
	return &OfferingService{Offerings: offerings, Authz: authz, Clock: time.Now}
}

type CreateOfferingInput struct {
	ConnectorID        string
	Title              string
	Description        string
	DataType           domain.DataType
	AccessPolicy       domain.AccessPolicy
	StorageMeta        domain.StorageMeta
	RegistrationStatus string
}

func (s *OfferingService) Create(ctx context.Context, principalID string, input CreateOfferingInput) (domain.DataOffering, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.DataOffering{}, domain.ErrInvalidArgument
	}
	if !domain.ValidDataType(input.DataType) || !domain.ValidAccessPolicy(input.AccessPolicy) {
		return domain.DataOffering{}, domain.ErrInvalidArgument
	}
	if _, err := s.Authz.OwnedConnector(ctx, principalID, input.ConnectorID); err != nil {
		return domain.DataOffering{}, err
	}
	status := input.RegistrationStatus
	if status == "" {
		status = "registered"
	}
	return s.Offerings.Create(ctx, domain.DataOffering{
		ConnectorID:        input.ConnectorID,
		Title:              strings.TrimSpace(input.Title),
		Description:        input.Description,
		DataType:           input.DataType,
		AccessPolicy:       input.AccessPolicy,
		StorageMeta:        input.StorageMeta,
		RegistrationStatus: status,
		CreatedAt:          s.now(),
	})
}

type ListOfferingsInput struct {
	ConnectorID  string
	DataType     domain.DataType
	AccessPolicy domain.AccessPolicy
}

// List returns offerings published by the caller's connectors. When a
// connector filter is present it must name one of the caller's own
// connectors.
func (s *OfferingService) List(ctx context.Context, principalID string, input ListOfferingsInput) ([]domain.DataOffering, error) {
	ownedIDs, err := s.Authz.OwnedIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(ownedIDs) == 0 {
		return []domain.DataOffering{}, nil
	}
	filter := OfferingFilter{
		ConnectorIDs: ownedIDs,
		DataType:     input.DataType,
		AccessPolicy: input.AccessPolicy,
	}
	if input.ConnectorID != "" {
		if !containsID(ownedIDs, input.ConnectorID) {
			return nil, domain.ErrForbidden
		}
		filter.ConnectorIDs = []string{input.ConnectorID}
	}
	return s.Offerings.List(ctx, filter)
}

// Discover lists offerings across all connectors. The catalog is the
// discoverable surface of the registry, so no ownership filter applies.
func (s *OfferingService) Discover(ctx context.Context, input ListOfferingsInput) ([]domain.DataOffering, error) {
	return s.Offerings.List(ctx, OfferingFilter{
		DataType:     input.DataType,
		AccessPolicy: input.AccessPolicy,
	})
}

func (s *OfferingService) Get(ctx context.Context, id string) (domain.DataOffering, error) {
	return s.Offerings.GetByID(ctx, id)
}

func (s *OfferingService) Delete(ctx context.Context, principalID, id string) error {
	offering, err := s.Offerings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Authz.RequireOwner(ctx, principalID, offering.ConnectorID); err != nil {
		return err
	}
	return s.Offerings.Delete(ctx, id)
}

func (s *OfferingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
