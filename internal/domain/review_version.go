package domain

import (
	"github.com/google/uuid"
	"time"
)

// ReviewVersion представляет неизменяемый раунд ревью.
// Номера версий в рамках одного ревью идут строго 1..N без пропусков.
type ReviewVersion struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ReviewID      uuid.UUID `json:"review_id" db:"review_id"`
	VersionNumber int       `json:"version_number" db:"version_number"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
