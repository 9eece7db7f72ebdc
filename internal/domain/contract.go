package domain

import (
	"context"
	"time"
)

type ContractStatus string

const (
	ContractPendingConsumer ContractStatus = "pending_consumer"
	ContractActive          ContractStatus = "active"
	ContractRejected        ContractStatus = "rejected"
)

const DefaultBlockchainNetwork = "Ethereum"

// Contract binds a contract template and data offering between a provider
// and a consumer connector. Status moves pending_consumer -> active|rejected;
// an active contract may be deployed to a ledger exactly once, after which
// the ledger fields are immutable.
type Contract struct {
	ID                  string
	Name                string
	Status              ContractStatus
	ProviderConnectorID string
	ConsumerConnectorID string
	ContractTemplateID  string
	DataOfferingID      string
	DataRequestID       string
	ContractAddress     string
	BlockchainTxID      string
	BlockchainNetwork   string
	ExpiresAt           *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (c Contract) Deployed() bool {
	return c.ContractAddress != ""
}

// Ledger records a contract on an external chain. Implementations must return
// an address and transaction id unique across calls; failures are fatal to
// the calling request.
type Ledger interface {
	Deploy(ctx context.Context, contractID string) (address, txID string, err error)
}
