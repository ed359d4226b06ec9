package domain

import (
	"github.com/google/uuid"
	"time"
)

// Token — одноразовый по требованию, ограниченный по времени доступ
// внешнего ревьюера. Secret показывается только в момент выдачи.
type Token struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ParticipantID uuid.UUID  `json:"participant_id" db:"participant_id"`
	Secret        string     `json:"-" db:"secret"`
	ExpiresAt     time.Time  `json:"expires_at" db:"expires_at"`
	UsedAt        *time.Time `json:"used_at,omitempty" db:"used_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// TokenClaims — результат успешной проверки токена: кто и к какой
// версии ревью получает доступ.
type TokenClaims struct {
	ParticipantID   uuid.UUID `json:"participant_id"`
	ReviewVersionID uuid.UUID `json:"review_version_id"`
}
