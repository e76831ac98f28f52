package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Employee is the single source of identity for payroll, attendance, and loan
// records. All three reference employees by ID, never by name or code.
type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_employees_company_status"`

	Code     string `gorm:"type:varchar(30);not null;uniqueIndex:idx_employees_company_code"`
	FullName string `gorm:"type:varchar(120);not null"`
	Role     string `gorm:"type:varchar(30);not null;default:'EMPLOYEE'"`

	// Salary in whole currency units
	Salary       int64  `gorm:"type:bigint;not null;default:0"`
	LeaveBalance int    `gorm:"type:int;not null;default:21"`
	Status       string `gorm:"type:varchar(20);not null;default:'ACTIVE';index:idx_employees_company_status"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
