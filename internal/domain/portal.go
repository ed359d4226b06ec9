package domain

import (
	"github.com/google/uuid"
)

// ReviewRequest — входные данные инициации ревью.
type ReviewRequest struct {
	AssetID        uuid.UUID
	ClientID       string
	ReviewerEmails []string
	InitiatedBy    *string
	Title          string
	Description    *string
}

// ParticipantToken возвращается единственный раз при создании ревью,
// secret больше нигде не отдается в открытом виде.
type ParticipantToken struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Email         string    `json:"email"`
	Token         string    `json:"token"`
}

type ReviewInitiation struct {
	ReviewID          uuid.UUID          `json:"review_id"`
	ReviewVersionID   uuid.UUID          `json:"review_version_id"`
	ParticipantTokens []ParticipantToken `json:"participant_tokens"`
}

// ReviewPortalData — все, что видит внешний ревьюер на портале.
type ReviewPortalData struct {
	ReviewID      uuid.UUID         `json:"review_id"`
	Title         string            `json:"title"`
	Description   *string           `json:"description,omitempty"`
	Status        ReviewStatus      `json:"status"`
	VersionID     uuid.UUID         `json:"version_id"`
	VersionNumber int               `json:"version_number"`
	Asset         *Asset            `json:"asset,omitempty"`
	Participant   ParticipantStatus `json:"participant_status"`
	Comments      []Comment         `json:"comments"`
}

type ReviewHistoryParticipant struct {
	Email  string            `json:"email"`
	Status ParticipantStatus `json:"status"`
}

// ReviewHistoryItem — строка истории ревью ассета для внутренних дашбордов.
type ReviewHistoryItem struct {
	ReviewID      uuid.UUID                  `json:"review_id"`
	Title         string                     `json:"title"`
	Status        ReviewStatus               `json:"status"`
	InitiatedBy   *string                    `json:"initiated_by,omitempty"`
	LatestVersion int                        `json:"latest_version"`
	Participants  []ReviewHistoryParticipant `json:"participants"`
}
