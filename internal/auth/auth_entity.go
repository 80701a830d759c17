package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User maps the same users table the user package manages. Auth only reads
// it to verify credentials and mint tokens.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name       string    `gorm:"type:varchar(255)"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password   string    `gorm:"type:varchar(255);not null"`
	Role       string    `gorm:"type:varchar(50);not null;default:'MEMBER'"`
	HRRole     string    `gorm:"column:hr_role;type:varchar(50)"`
	IsActive   bool      `gorm:"default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
