package loan

import (
	"time"

	"go-payroll/internal/approval"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeAdvance = "ADVANCE"
	TypePenalty = "PENALTY"

	StatusPending   = "PENDING"
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
)

// Loan covers both salary advances (repaid in installments) and one-time
// disciplinary penalties, distinguished by Type. RequestStatus is the approval
// pipeline state; Status is the repayment lifecycle. RemainingAmount never
// goes negative and a COMPLETED loan never re-opens.
type Loan struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_loans_company_type"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Type            string `gorm:"type:varchar(20);not null;index:idx_loans_company_type"`
	Amount          int64  `gorm:"type:bigint;not null"`
	RemainingAmount int64  `gorm:"type:bigint;not null"`
	Installments    int    `gorm:"type:int;not null;default:1"`

	Status        string          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	RequestStatus approval.Status `gorm:"type:varchar(20);not null;default:'PENDING'"`

	// Date drives penalty charging: a penalty is charged once, in the first
	// open payroll period on or after this date.
	Date time.Time `gorm:"type:date;not null"`

	Reason     string     `gorm:"type:text"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid;not null"`
	ReviewedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// EligibleForInstallment reports whether the synchronizer may take an
// installment from this loan.
func (l *Loan) EligibleForInstallment() bool {
	return l.Type == TypeAdvance &&
		l.RequestStatus == approval.StatusApproved &&
		l.Status == StatusActive &&
		l.RemainingAmount > 0
}

// Installment is ceil(amount / installments); a zero or negative installment
// count is treated as a single installment.
func (l *Loan) Installment() int64 {
	n := int64(l.Installments)
	if n <= 0 {
		n = 1
	}
	return (l.Amount + n - 1) / n
}

// ApplyDeduction decrements the remaining balance, clamping at zero and
// completing the loan when it is fully repaid.
func (l *Loan) ApplyDeduction(amount int64) {
	l.RemainingAmount -= amount
	if l.RemainingAmount <= 0 {
		l.RemainingAmount = 0
		l.Status = StatusCompleted
	}
}

// DeductionEntry is the per-(loan, period) ledger that makes Synchronize
// idempotent: an installment or penalty charge is recorded here in the same
// transaction as the balance decrement, and is never taken twice.
type DeductionEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	LoanID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_loan_deductions_loan_period"`
	PayrollID uuid.UUID `gorm:"type:uuid;not null;index"`

	Period string `gorm:"type:varchar(7);not null;uniqueIndex:idx_loan_deductions_loan_period"`
	Amount int64  `gorm:"type:bigint;not null"`

	CreatedAt time.Time
}

func (DeductionEntry) TableName() string {
	return "loan_deduction_entries"
}
