package approval

import (
	"time"

	"github.com/google/uuid"
)

const (
	DecisionPending  = "PENDING"
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// ApprovalStep is one approver's slot in a request's ordered chain.
// sequence_order values form a contiguous 1..N range per request, and at
// most one step per request carries is_current while the chain is active.
type ApprovalStep struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID     uuid.UUID `gorm:"column:request_id;type:uuid;not null;uniqueIndex:ux_approval_steps_request_approver;index:idx_approval_steps_request"`
	Domain        string    `gorm:"column:domain;type:varchar(20);not null"`
	ApproverID    uuid.UUID `gorm:"column:approver_id;type:uuid;not null;uniqueIndex:ux_approval_steps_request_approver"`
	SequenceOrder int       `gorm:"column:sequence_order;type:int;not null"`
	Decision      string    `gorm:"column:decision;type:varchar(20);not null;default:'PENDING'"`
	IsCurrent     bool      `gorm:"column:is_current;not null;default:false"`
	Comments      *string   `gorm:"column:comments;type:text"`
	ReviewedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ApprovalStep) TableName() string {
	return "approval_steps"
}
