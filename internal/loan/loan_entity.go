package loan

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Loan is a provident fund loan request. Status only ever changes through
// the workflow transition table, and Version backs the optimistic lock that
// serializes concurrent transitions on the same request.
type Loan struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ApplicantID uuid.UUID `gorm:"column:applicant_id;type:uuid;not null;index:idx_loans_applicant"`

	LoanType   string  `gorm:"column:loan_type;type:varchar(30);not null;default:'PERSONAL'"`
	Amount     float64 `gorm:"column:amount;type:decimal(18,2);not null"`
	TermMonths int     `gorm:"column:term_months;type:int;not null"`
	Purpose    string  `gorm:"column:purpose;type:text"`

	Status string `gorm:"column:status;type:varchar(30);not null;default:'PENDING';index:idx_loans_status"`

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
	ReleasedAt  *time.Time
	RejectedAt  *time.Time
	CancelledAt *time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index:idx_loans_deleted_at"`
}

func (Loan) TableName() string {
	return "loans"
}

const (
	TypeHousing   = "HOUSING"
	TypeEducation = "EDUCATION"
	TypeMedical   = "MEDICAL"
	TypePersonal  = "PERSONAL"
)
