package usecase

import (
	"context"
	"errors"
	"testing"

	"tdsconnector/internal/domain"
)

func newIdentityService() (*IdentityService, *memDataSpaceRepo) {
	spaces := newMemDataSpaceRepo()
	return NewIdentityService(newMemDIDRepo(), spaces, newMemConnectorRepo(), staticGenerator{}), spaces
}

func TestRegisterConnectorRequiresDataSpace(t *testing.T) {
	svc, _ := newIdentityService()
	_, err := svc.RegisterConnector(context.Background(), "user-1", RegisterConnectorInput{
		DID:         "did:example:c1",
		DisplayName: "C1",
		DataSpaceID: "missing",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRegisterConnectorDuplicateDID(t *testing.T) {
	svc, spaces := newIdentityService()
	ctx := context.Background()
	space, err := spaces.Create(ctx, domain.DataSpace{Code: "default", Name: "Default"})
	if err != nil {
		t.Fatalf("create space: %v", err)
	}
	input := RegisterConnectorInput{DID: "did:example:c1", DisplayName: "C1", DataSpaceID: space.ID}
	first, err := svc.RegisterConnector(ctx, "user-1", input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if first.Status != domain.ConnectorRegistered {
		t.Fatalf("expected registered, got %s", first.Status)
	}
	if _, err := svc.RegisterConnector(ctx, "user-2", input); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGetConnectorHidesForeign(t *testing.T) {
	svc, spaces := newIdentityService()
	ctx := context.Background()
	space, _ := spaces.Create(ctx, domain.DataSpace{Code: "default", Name: "Default"})
	connector, err := svc.RegisterConnector(ctx, "user-1", RegisterConnectorInput{
		DID: "did:example:c1", DisplayName: "C1", DataSpaceID: space.ID,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.GetConnector(ctx, "user-2", connector.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.DeleteConnector(ctx, "user-2", connector.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on foreign delete, got %v", err)
	}
	if err := svc.DeleteConnector(ctx, "user-1", connector.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestRegisterDIDUnique(t *testing.T) {
	svc, _ := newIdentityService()
	ctx := context.Background()
	if err := svc.RegisterDID(ctx, "did:example:d1", `{"id":"did:example:d1"}`); err != nil {
		t.Fatalf("register did: %v", err)
	}
	if err := svc.RegisterDID(ctx, "did:example:d1", `{}`); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	record, err := svc.GetDID(ctx, "did:example:d1")
	if err != nil {
		t.Fatalf("get did: %v", err)
	}
	if record.Document == "" {
		t.Fatal("expected stored document")
	}
}

func TestRegisterDIDValidation(t *testing.T) {
	svc, _ := newIdentityService()
	if err := svc.RegisterDID(context.Background(), "", "doc"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if err := svc.RegisterDID(context.Background(), "did:example:x", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
