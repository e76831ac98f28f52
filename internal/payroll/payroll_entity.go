package payroll

import (
	"time"

	"go-payroll/internal/approval"

	"github.com/google/uuid"
)

// Payroll is one employee's pay for one period. Identity is (period,
// employee); the generator enforces the uniqueness, not the store. Records are
// never deleted by the engine.
//
// Amounts are whole currency units. NetSalary is always
// basic + allowance + transport + incentives - deduction.
type Payroll struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID        `gorm:"type:uuid;not null;index:idx_payrolls_company_period"`
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_payrolls_employee_period"`
	Employee   *PayrollEmployee `gorm:"foreignKey:EmployeeID;references:ID"`

	Period string `gorm:"type:varchar(7);not null;uniqueIndex:idx_payrolls_employee_period;index:idx_payrolls_company_period"`

	BasicSalary        int64 `gorm:"type:bigint;not null;default:0"`
	Allowance          int64 `gorm:"type:bigint;not null;default:0"`
	TransportAllowance int64 `gorm:"type:bigint;not null;default:0"`
	Incentives         int64 `gorm:"type:bigint;not null;default:0"`
	Deduction          int64 `gorm:"type:bigint;not null;default:0"`
	NetSalary          int64 `gorm:"type:bigint;not null;default:0"`

	Status    approval.Status `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_payrolls_company_period"`
	CreatedBy uuid.UUID       `gorm:"type:uuid;not null"`

	// AuditedBy is stamped on review, ApprovedBy on approval. Payroll's
	// reject path clears both and returns the record to PENDING.
	AuditedBy  *uuid.UUID `gorm:"type:uuid"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time `gorm:"index"`
}

// Recalculate restores the net salary identity after any component changes.
func (p *Payroll) Recalculate() {
	p.NetSalary = p.BasicSalary + p.Allowance + p.TransportAllowance + p.Incentives - p.Deduction
}

type PayrollEmployee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
	Code     string    `gorm:"column:code"`
}

func (PayrollEmployee) TableName() string {
	return "employees"
}
