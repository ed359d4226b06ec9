package domain

import (
	"github.com/google/uuid"
	"time"
)

type Asset struct {
	UUID      uuid.UUID `json:"uuid" db:"uuid"`
	ClientID  string    `json:"client_id" db:"client_id"`
	Name      string    `json:"name" db:"name"`
	MIMEType  string    `json:"mime_type" db:"mime_type"`
	SizeBytes int64     `json:"size_bytes" db:"size_bytes"`
	S3Key     string    `json:"-" db:"s3_key"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type AssetUpload struct {
	ClientID string
	Name     string
	MIMEType string
	Data     []byte
}

type AssetDownload struct {
	Asset *Asset
	Data  []byte
}
