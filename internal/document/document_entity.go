package document

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeIDCard          = "ID_CARD"
	TypePayslip         = "PAYSLIP"
	TypeApplicationForm = "APPLICATION_FORM"
)

// RequestDocument stores upload metadata only. The file transport itself is
// handled outside this service.
type RequestDocument struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID  uuid.UUID `gorm:"column:request_id;type:uuid;not null;index:idx_request_documents_request"`
	Domain     string    `gorm:"column:domain;type:varchar(20);not null;index:idx_request_documents_request"`
	DocType    string    `gorm:"column:doc_type;type:varchar(40);not null"`
	FileName   string    `gorm:"column:file_name;type:varchar(255);not null"`
	UploadedBy uuid.UUID `gorm:"column:uploaded_by;type:uuid;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (RequestDocument) TableName() string {
	return "request_documents"
}

// requiredTypes is the per-domain completeness checklist.
var requiredTypes = map[string][]string{
	"loan":       {TypeIDCard, TypePayslip, TypeApplicationForm},
	"withdrawal": {TypeIDCard, TypeApplicationForm},
}

func RequiredTypes(domain string) []string {
	return requiredTypes[domain]
}

func IsKnownType(domain, docType string) bool {
	for _, t := range requiredTypes[domain] {
		if t == docType {
			return true
		}
	}
	return false
}
