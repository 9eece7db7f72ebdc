package domain

import "time"

type DataType string

const (
	DataTypeLocalFile DataType = "local_file"
	DataTypeS3        DataType = "s3"
	DataTypeNAS       DataType = "nas"
	DataTypeRESTful   DataType = "restful"
)

func ValidDataType(t DataType) bool {
	switch t {
	case DataTypeLocalFile, DataTypeS3, DataTypeNAS, DataTypeRESTful:
		return true
	}
	return false
}

type AccessPolicy string

const (
	AccessOpen       AccessPolicy = "Open"
	AccessRestricted AccessPolicy = "Restricted"
	AccessPremium    AccessPolicy = "Premium"
)

func ValidAccessPolicy(p AccessPolicy) bool {
	switch p {
	case AccessOpen, AccessRestricted, AccessPremium:
		return true
	}
	return false
}

// StorageMeta is opaque to the registry; which fields are set depends on the
// offering's data type.
type StorageMeta struct {
	BucketName  string         `json:"bucket_name,omitempty"`
	ObjectKey   string         `json:"object_key,omitempty"`
	Region      string         `json:"region,omitempty"`
	FilePath    string         `json:"file_path,omitempty"`
	Protocol    string         `json:"protocol,omitempty"`
	APIEndpoint string         `json:"api_endpoint,omitempty"`
	Extras      map[string]any `json:"extras,omitempty"`
}

type DataOffering struct {
	ID                 string
	ConnectorID        string
	Title              string
	Description        string
	DataType           DataType
	AccessPolicy       AccessPolicy
	StorageMeta        StorageMeta
	RegistrationStatus string
	CreatedAt          time.Time
}
