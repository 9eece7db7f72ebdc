package db

import "time"

type UserModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	DID         string `gorm:"uniqueIndex;not null"`
	Username    string
	Email       string
	DIDDocument string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

type DIDRecordModel struct {
	DID          string    `gorm:"primaryKey"`
	Document     string    `gorm:"type:text;not null"`
	RegisteredAt time.Time `gorm:"not null"`
}

type DataSpaceModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Code        string `gorm:"uniqueIndex;not null"`
	Name        string `gorm:"not null"`
	Description string
	CreatedAt   time.Time `gorm:"not null"`
}

type ConnectorModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	DID         string `gorm:"uniqueIndex;not null"`
	DisplayName string `gorm:"not null"`
	Status      string `gorm:"not null"`
	DIDDocument string `gorm:"type:text"`
	OwnerUserID string `gorm:"type:uuid;index;not null"`
	DataSpaceID string `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

type DataOfferingModel struct {
	ID                 string `gorm:"type:uuid;primaryKey"`
	ConnectorID        string `gorm:"type:uuid;index;not null"`
	Title              string `gorm:"not null"`
	Description        string
	DataType           string `gorm:"index;not null"`
	AccessPolicy       string `gorm:"index;not null"`
	StorageMeta        []byte `gorm:"type:jsonb"`
	RegistrationStatus string `gorm:"not null"`
	CreatedAt          time.Time `gorm:"not null"`
}

type PolicyTemplateModel struct {
	ID              string `gorm:"type:uuid;primaryKey"`
	ConnectorID     string `gorm:"type:uuid;index;not null"`
	Name            string `gorm:"not null"`
	Description     string
	Category        string `gorm:"index"`
	Severity        string `gorm:"not null"`
	EnforcementType string `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

type PolicyRuleModel struct {
	ID               string `gorm:"type:uuid;primaryKey"`
	PolicyTemplateID string `gorm:"type:uuid;index;not null"`
	Type             string `gorm:"not null"`
	Name             string `gorm:"not null"`
	Description      string
	Value            string
	Unit             string
	IsActive         bool `gorm:"not null;default:true"`
}

type ContractTemplateModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	ConnectorID  string `gorm:"type:uuid;index;not null"`
	Name         string `gorm:"not null"`
	Description  string
	ContractType string `gorm:"index;not null"`
	Status       string `gorm:"index;not null"`
	UsageCount   int64  `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

type ContractTemplatePolicyModel struct {
	ContractTemplateID string `gorm:"type:uuid;primaryKey"`
	PolicyTemplateID   string `gorm:"type:uuid;primaryKey;index"`
}

type DataRequestModel struct {
	ID                  string `gorm:"type:uuid;primaryKey"`
	DataOfferingID      string `gorm:"type:uuid;index;not null"`
	ConsumerConnectorID string `gorm:"type:uuid;index;not null"`
	Purpose             string `gorm:"not null"`
	AccessMode          string `gorm:"not null"`
	Status              string `gorm:"index;not null"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

type ContractModel struct {
	ID                  string `gorm:"type:uuid;primaryKey"`
	Name                string `gorm:"not null"`
	Status              string `gorm:"index;not null"`
	ProviderConnectorID string `gorm:"type:uuid;index;not null"`
	ConsumerConnectorID string `gorm:"type:uuid;index;not null"`
	ContractTemplateID  string `gorm:"type:uuid;index;not null"`
	DataOfferingID      string `gorm:"type:uuid;index;not null"`
	// At most one contract may consume a given data request.
	DataRequestID     *string `gorm:"type:uuid;uniqueIndex"`
	ContractAddress   *string
	BlockchainTxID    *string
	BlockchainNetwork string `gorm:"not null;default:Ethereum"`
	ExpiresAt         *time.Time
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}
