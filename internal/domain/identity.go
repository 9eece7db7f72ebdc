package domain

import (
	"context"
	"time"
)

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	ID       string
	DID      string
	Username string
	Email    string
}

type Authenticator interface {
	Authenticate(ctx context.Context, bearerToken string) (Principal, error)
}

// SignatureVerifier checks a DID-signed challenge. The registry does not
// mandate a particular scheme; the default implementation is permissive.
type SignatureVerifier interface {
	Verify(did, signature, message string) bool
}

type User struct {
	ID          string
	DID         string
	Username    string
	Email       string
	DIDDocument string
	CreatedAt   time.Time
}

// DataSpace is a named partition grouping related connectors.
type DataSpace struct {
	ID          string
	Code        string
	Name        string
	Description string
	CreatedAt   time.Time
}

type ConnectorStatus string

const (
	ConnectorRegistered ConnectorStatus = "registered"
	ConnectorActive     ConnectorStatus = "active"
	ConnectorSuspended  ConnectorStatus = "suspended"
)

// Connector is a registered participant identity. It is owned by exactly one
// user and lives in exactly one data space; ownership is immutable after
// creation.
type Connector struct {
	ID          string
	DID         string
	DisplayName string
	Status      ConnectorStatus
	DIDDocument string
	OwnerUserID string
	DataSpaceID string
	CreatedAt   time.Time
}

// DIDRecord is a published DID document, independent of user accounts.
type DIDRecord struct {
	DID          string
	Document     string
	RegisteredAt time.Time
}

// DIDKeypair is the result of generating a fresh connector identity. The
// private key is returned once and never stored.
type DIDKeypair struct {
	DID        string
	PublicKey  string
	PrivateKey string
	Document   map[string]any
	CreatedAt  time.Time
}
