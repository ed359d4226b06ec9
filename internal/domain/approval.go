package domain

import (
	"github.com/google/uuid"
	"time"
)

type ApprovalAction string

const (
	ApprovalActionApproved         ApprovalAction = "approved"
	ApprovalActionChangesRequested ApprovalAction = "changes_requested"
	ApprovalActionRejected         ApprovalAction = "rejected"
)

// Approval хранит историю вердиктов. Участник может менять решение,
// актуальным считается Participant.Status, а не последняя запись.
type Approval struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	ReviewVersionID uuid.UUID      `json:"review_version_id" db:"review_version_id"`
	ParticipantID   uuid.UUID      `json:"participant_id" db:"participant_id"`
	Action          ApprovalAction `json:"action" db:"action"`
	Comment         *string        `json:"comment,omitempty" db:"comment"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}

func (a ApprovalAction) Valid() bool {
	switch a {
	case ApprovalActionApproved, ApprovalActionChangesRequested, ApprovalActionRejected:
		return true
	}
	return false
}

// ParticipantStatus возвращает статус участника, соответствующий действию.
func (a ApprovalAction) ParticipantStatus() ParticipantStatus {
	return ParticipantStatus(a)
}
