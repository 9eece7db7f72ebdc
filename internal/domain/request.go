package domain

import "time"

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

type AccessMode string

const (
	AccessModeAPI      AccessMode = "api"
	AccessModeDownload AccessMode = "download"
)

func ValidAccessMode(m AccessMode) bool {
	return m == AccessModeAPI || m == AccessModeDownload
}

// DataRequest is a consumer's request to access a data offering. Status only
// moves pending -> approved|rejected and approved -> completed (the latter
// solely through contract creation).
type DataRequest struct {
	ID                  string
	DataOfferingID      string
	ConsumerConnectorID string
	Purpose             string
	AccessMode          AccessMode
	Status              RequestStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Role string

const (
	RoleProvider Role = "provider"
	RoleConsumer Role = "consumer"
)
