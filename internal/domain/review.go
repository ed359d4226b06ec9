package domain

import (
	"github.com/google/uuid"
	"time"
)

type ReviewStatus string

const (
	ReviewStatusPending          ReviewStatus = "pending"
	ReviewStatusInProgress       ReviewStatus = "in_progress"
	ReviewStatusApproved         ReviewStatus = "approved"
	ReviewStatusChangesRequested ReviewStatus = "changes_requested"
	ReviewStatusRejected         ReviewStatus = "rejected"
)

type Review struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	AssetID     uuid.UUID    `json:"asset_id" db:"asset_id"`
	ClientID    string       `json:"client_id" db:"client_id"`
	Title       string       `json:"title" db:"title"`
	Description *string      `json:"description,omitempty" db:"description"`
	Status      ReviewStatus `json:"status" db:"status"`
	// StatusVersion увеличивается при каждой смене статуса, используется для CAS-обновлений
	StatusVersion int64     `json:"-" db:"status_version"`
	InitiatedBy   *string   `json:"initiated_by,omitempty" db:"initiated_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// AggregateReviewStatus вычисляет общий статус ревью по статусам участников.
// Функция чистая: одинаковый набор статусов всегда дает одинаковый результат,
// поэтому пересчет можно безопасно повторять при ретраях.
// Приоритет: единогласное approved, затем любой rejected, затем любой
// changes_requested, иначе in_progress.
func AggregateReviewStatus(statuses []ParticipantStatus) ReviewStatus {
	if len(statuses) == 0 {
		return ReviewStatusInProgress
	}

	allApproved := true
	anyRejected := false
	anyChangesRequested := false

	for _, st := range statuses {
		if st != ParticipantStatusApproved {
			allApproved = false
		}
		if st == ParticipantStatusRejected {
			anyRejected = true
		}
		if st == ParticipantStatusChangesRequested {
			anyChangesRequested = true
		}
	}

	switch {
	case allApproved:
		return ReviewStatusApproved
	case anyRejected:
		return ReviewStatusRejected
	case anyChangesRequested:
		return ReviewStatusChangesRequested
	default:
		return ReviewStatusInProgress
	}
}
