package domain

import (
	"github.com/google/uuid"
	"time"
)

type ParticipantStatus string

const (
	ParticipantStatusInvited          ParticipantStatus = "invited"
	ParticipantStatusViewed           ParticipantStatus = "viewed"
	ParticipantStatusCommented        ParticipantStatus = "commented"
	ParticipantStatusApproved         ParticipantStatus = "approved"
	ParticipantStatusChangesRequested ParticipantStatus = "changes_requested"
	ParticipantStatusRejected         ParticipantStatus = "rejected"
)

type Participant struct {
	ID       uuid.UUID         `json:"id" db:"id"`
	ReviewID uuid.UUID         `json:"review_id" db:"review_id"`
	UserID   *string           `json:"user_id,omitempty" db:"user_id"`
	Email    string            `json:"email" db:"email"`
	Name     *string           `json:"name,omitempty" db:"name"`
	Status   ParticipantStatus `json:"status" db:"status"`
	AddedAt  time.Time         `json:"added_at" db:"added_at"`
}

// statusRank задает порядок "степени вовлеченности" статусов.
// Вердикты имеют одинаковый максимальный ранг: друг друга они перезаписывают.
var statusRank = map[ParticipantStatus]int{
	ParticipantStatusInvited:          0,
	ParticipantStatusViewed:           1,
	ParticipantStatusCommented:        2,
	ParticipantStatusApproved:         3,
	ParticipantStatusChangesRequested: 3,
	ParticipantStatusRejected:         3,
}

// IsVerdict сообщает, является ли статус терминальным вердиктом участника.
func (s ParticipantStatus) IsVerdict() bool {
	return s == ParticipantStatusApproved ||
		s == ParticipantStatusChangesRequested ||
		s == ParticipantStatusRejected
}

// CanAdvanceTo проверяет переход по машине состояний участника.
// Статус двигается только вперед; комментарий не понижает вердикт,
// а вердикт перезаписывает любой статус, включая другой вердикт.
func (s ParticipantStatus) CanAdvanceTo(next ParticipantStatus) bool {
	if next.IsVerdict() {
		return true
	}
	return statusRank[next] > statusRank[s]
}
