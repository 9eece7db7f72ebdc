package usecase

import (
	"context"
	"errors"

	"tdsconnector/internal/domain"
)

// Authz is the single ownership predicate consulted by every connector-scoped
// operation. Two failure modes exist and the distinction matters: lookups by
// an id the caller obtained elsewhere hide existence (not found), while checks
// against an id the caller presented as their own disclose it (forbidden).
type Authz struct {
	Connectors ConnectorRepository
}

func NewAuthz(connectors ConnectorRepository) *Authz {
	return &Authz{Connectors: connectors}
}

// OwnedConnector resolves a connector the caller claims to own. A missing
// connector and a connector owned by someone else are indistinguishable to
// the caller.
func (a *Authz) OwnedConnector(ctx context.Context, userID, connectorID string) (domain.Connector, error) {
	connector, err := a.Connectors.GetByID(ctx, connectorID)
	if err != nil {
		return domain.Connector{}, err
	}
	if connector.OwnerUserID != userID {
		return domain.Connector{}, domain.ErrNotFound
	}
	return connector, nil
}

// RequireOwner checks ownership of a connector whose existence the caller
// already knows, so a failed check is forbidden rather than not found.
func (a *Authz) RequireOwner(ctx context.Context, userID, connectorID string) error {
	connector, err := a.Connectors.GetByID(ctx, connectorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	if connector.OwnerUserID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// Owns reports whether the user owns the connector, without mapping the
// outcome to an error.
func (a *Authz) Owns(ctx context.Context, userID, connectorID string) (bool, error) {
	connector, err := a.Connectors.GetByID(ctx, connectorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return connector.OwnerUserID == userID, nil
}

// OwnedIDs returns the ids of every connector the user owns.
func (a *Authz) OwnedIDs(ctx context.Context, userID string) ([]string, error) {
	return a.Connectors.IDsByOwner(ctx, userID)
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
