package history

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is the append-only audit trail of a request. Rows are never
// updated or deleted; (created_at, id) ordering is the canonical trail.
type HistoryEntry struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID   uuid.UUID `gorm:"column:request_id;type:uuid;not null;index:idx_history_request"`
	Domain      string    `gorm:"column:domain;type:varchar(20);not null;index:idx_history_request"`
	Action      string    `gorm:"column:action;type:varchar(40);not null"`
	PerformedBy uuid.UUID `gorm:"column:performed_by;type:uuid;not null"`
	Comments    *string   `gorm:"column:comments;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (HistoryEntry) TableName() string {
	return "request_history"
}
