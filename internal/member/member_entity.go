package member

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FundAccount tracks a member's provident fund position. VestedBalance is
// the portion loans and withdrawals may draw against.
type FundAccount struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:ux_fund_accounts_employee"`
	FullName      string    `gorm:"column:full_name;type:varchar(255);not null"`
	TotalBalance  float64   `gorm:"column:total_balance;type:decimal(18,2);not null;default:0"`
	VestedBalance float64   `gorm:"column:vested_balance;type:decimal(18,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_fund_accounts_deleted_at"`
}

func (FundAccount) TableName() string {
	return "fund_accounts"
}
