package domain

import "time"

// AssetType enumerates generated artifact categories.
type AssetType string

const (
	AssetTypeLogo AssetType = "logo"
)

// Asset is a storage-backed artifact plus its generation provenance.
// Provenance fields are write-once at creation.
type Asset struct {
	ID             string
	UserID         string
	BrandProfileID string // empty for standalone generation
	JobID          string
	Type           AssetType
	FileName       string
	FilePath       string
	FileURL        string
	FileSize       int64
	MIMEType       string
	Width          int
	Height         int
	IsPrimary      bool
	AIPrompt       string
	AIModel        string
	ParamsJSON     []byte
	CreatedAt      time.Time
}

// AssetFilter narrows asset listings.
type AssetFilter struct {
	BrandProfileID string
	Type           AssetType
	Limit          int
	Offset         int
}
