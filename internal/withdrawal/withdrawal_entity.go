package withdrawal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Withdrawal is a provident fund withdrawal request. Unlike loans there is
// no approval chain stage: the reviewing officer's decision approves or
// rejects directly, and processing debits the member's vested balance.
type Withdrawal struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ApplicantID uuid.UUID `gorm:"column:applicant_id;type:uuid;not null;index:idx_withdrawals_applicant"`

	WithdrawalType string  `gorm:"column:withdrawal_type;type:varchar(30);not null;default:'PARTIAL'"`
	Amount         float64 `gorm:"column:amount;type:decimal(18,2);not null"`
	Purpose        string  `gorm:"column:purpose;type:text"`

	Status string `gorm:"column:status;type:varchar(30);not null;default:'PENDING';index:idx_withdrawals_status"`

	// weak references to assigned HR staff, lookup only
	OfficerID   *uuid.UUID `gorm:"column:officer_id;type:uuid"`
	AssistantID *uuid.UUID `gorm:"column:assistant_id;type:uuid"`

	BankReference   *string `gorm:"column:bank_reference;type:varchar(100)"`
	RejectionReason *string `gorm:"column:rejection_reason;type:text"`

	Version int `gorm:"column:version;type:int;not null;default:0"`

	CreatedAt   time.Time
	UpdatedAt   time.Time
	ReviewedAt  *time.Time
	ApprovedAt  *time.Time
	ProcessedAt *time.Time
	RejectedAt  *time.Time
	CancelledAt *time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index:idx_withdrawals_deleted_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

const (
	TypePartial    = "PARTIAL"
	TypeFull       = "FULL"
	TypeHardship   = "HARDSHIP"
	TypeRetirement = "RETIREMENT"
)
