package usecase

import (
	"context"
	"strings"
	"time"

	"tdsconnector/internal/domain"
)

// RequestService runs the data-request workflow between a consumer connector
// and the provider that owns the targeted offering.
type RequestService struct {
	Requests  RequestRepository
	Offerings OfferingRepository
	Authz     *Authz
	Clock     func() time.Time
}

func NewRequestService(requests RequestRepository, offerings OfferingRepository, authz *Authz) *RequestService {
	return &RequestService{Requests: requests, Offerings: offerings, Authz: authz, Clock: time.Now}
}

type CreateRequestInput struct {
	DataOfferingID      string
	ConsumerConnectorID string
	Purpose             string
	AccessMode          domain.AccessMode
}

func (s *RequestService) Create(ctx context.Context, principalID string, input CreateRequestInput) (domain.DataRequest, error) {
	if strings.TrimSpace(input.Purpose) == "" || !domain.ValidAccessMode(input.AccessMode) {
		return domain.DataRequest{}, domain.ErrInvalidArgument
	}
	if _, err := s.Authz.OwnedConnector(ctx, principalID, input.ConsumerConnectorID); err != nil {
		return domain.DataRequest{}, err
	}
	offering, err := s.Offerings.GetByID(ctx, input.DataOfferingID)
	if err != nil {
		return domain.DataRequest{}, err
	}
	// No self-requests: a connector cannot request its own offering.
	if offering.ConnectorID == input.ConsumerConnectorID {
		return domain.DataRequest{}, domain.ErrInvalidArgument
	}
	now := s.now()
	return s.Requests.Create(ctx, domain.DataRequest{
		DataOfferingID:      input.DataOfferingID,
		ConsumerConnectorID: input.ConsumerConnectorID,
		Purpose:             strings.TrimSpace(input.Purpose),
		AccessMode:          input.AccessMode,
		Status:              domain.RequestPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
}

type ListRequestsInput struct {
	ConnectorID string
	Role        domain.Role
	Status      domain.RequestStatus
}

// List returns requests the caller participates in. role=consumer narrows to
// requests their connectors initiated, role=provider to requests against
// offerings their connectors own; unset returns the union.
func (s *RequestService) List(ctx context.Context, principalID string, input ListRequestsInput) ([]domain.DataRequest, error) {
	ownedIDs, err := s.Authz.OwnedIDs(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(ownedIDs) == 0 {
		return []domain.DataRequest{}, nil
	}
	consumerIDs := ownedIDs
	providerConnectorIDs := ownedIDs
	if input.ConnectorID != "" {
		if !containsID(ownedIDs, input.ConnectorID) {
			return nil, domain.ErrForbidden
		}
		consumerIDs = []string{input.ConnectorID}
		providerConnectorIDs = []string{input.ConnectorID}
	}

	filter := RequestFilter{Status: input.Status}
	switch input.Role {
	case domain.RoleConsumer:
		filter.ConsumerConnectorIDs = consumerIDs
	case domain.RoleProvider:
		offeringIDs, err := s.Offerings.IDsByConnectors(ctx, providerConnectorIDs)
		if err != nil {
			return nil, err
		}
		if len(offeringIDs) == 0 {
			return []domain.DataRequest{}, nil
		}
		filter.OfferingIDs = offeringIDs
	default:
		offeringIDs, err := s.Offerings.IDsByConnectors(ctx, providerConnectorIDs)
		if err != nil {
			return nil, err
		}
		filter.ConsumerConnectorIDs = consumerIDs
		filter.OfferingIDs = offeringIDs
	}
	return s.Requests.List(ctx, filter)
}

// Get allows either party: the consumer owner or the owner of the offering's
// connector.
func (s *RequestService) Get(ctx context.Context, principalID, requestID string) (domain.DataRequest, error) {
	request, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return domain.DataRequest{}, err
	}
	isConsumer, err := s.Authz.Owns(ctx, principalID, request.ConsumerConnectorID)
	if err != nil {
		return domain.DataRequest{}, err
	}
	if !isConsumer {
		offering, err := s.Offerings.GetByID(ctx, request.DataOfferingID)
		if err != nil {
			return domain.DataRequest{}, err
		}
		isProvider, err := s.Authz.Owns(ctx, principalID, offering.ConnectorID)
		if err != nil {
			return domain.DataRequest{}, err
		}
		if !isProvider {
			return domain.DataRequest{}, domain.ErrForbidden
		}
	}
	return request, nil
}

func (s *RequestService) Approve(ctx context.Context, principalID, requestID string) (domain.DataRequest, error) {
	return s.decide(ctx, principalID, requestID, domain.RequestApproved)
}

func (s *RequestService) Reject(ctx context.Context, principalID, requestID string) (domain.DataRequest, error) {
	return s.decide(ctx, principalID, requestID, domain.RequestRejected)
}

func (s *RequestService) decide(ctx context.Context, principalID, requestID string, to domain.RequestStatus) (domain.DataRequest, error) {
	request, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return domain.DataRequest{}, err
	}
	offering, err := s.Offerings.GetByID(ctx, request.DataOfferingID)
	if err != nil {
		return domain.DataRequest{}, err
	}
	// Only the provider that owns the offering decides.
	isProvider, err := s.Authz.Owns(ctx, principalID, offering.ConnectorID)
	if err != nil {
		return domain.DataRequest{}, err
	}
	if !isProvider {
		return domain.DataRequest{}, domain.ErrForbidden
	}
	return s.Requests.UpdateStatus(ctx, requestID, domain.RequestPending, to)
}

func (s *RequestService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
