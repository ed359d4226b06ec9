package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CommentMetadata содержит структурированную аннотацию комментария:
// таймкод в медиафайле, область на кадре и т.п. Хранится как JSONB.
type CommentMetadata map[string]interface{}

func (m CommentMetadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *CommentMetadata) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}

	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, m)
	case string:
		return json.Unmarshal([]byte(data), m)
	default:
		return fmt.Errorf("unsupported type for comment metadata: %T", src)
	}
}

type Comment struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ReviewVersionID uuid.UUID       `json:"review_version_id" db:"review_version_id"`
	ParticipantID   uuid.UUID       `json:"participant_id" db:"participant_id"`
	Content         string          `json:"content" db:"content"`
	Metadata        CommentMetadata `json:"metadata,omitempty" db:"metadata"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}
