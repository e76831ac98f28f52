package maintenance

import (
	"time"

	"go-payroll/internal/approval"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaintenanceRequest is a vehicle maintenance expense waiting for sign-off. It
// rides the default approval pipeline; rejection is terminal.
type MaintenanceRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_maintenance_company_status"`

	Vehicle     string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:text;not null"`
	Cost        int64  `gorm:"type:bigint;not null"`
	Date        time.Time `gorm:"type:date;not null"`

	Status     approval.Status `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_maintenance_company_status"`
	CreatedBy  uuid.UUID       `gorm:"type:uuid;not null"`
	ReviewedBy *uuid.UUID      `gorm:"type:uuid"`
	ApprovedBy *uuid.UUID      `gorm:"type:uuid"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (MaintenanceRequest) TableName() string {
	return "maintenance_requests"
}
