package loan

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=loan_repo.go -destination=mock/loan_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Loan) error
	FindAllByCompany(ctx context.Context, companyID string, filter GetLoansFilterRequest) ([]Loan, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Loan, error)
	FindByEmployee(ctx context.Context, companyID string, employeeID string) ([]Loan, error)
	Update(ctx context.Context, l *Loan) error
	CreateDeductionEntry(ctx context.Context, entry *DeductionEntry) error
	FindDeductionEntriesByEmployee(ctx context.Context, companyID string, employeeID string) ([]DeductionEntry, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *Loan) error {
	if r.tx != nil {
		query := `
INSERT INTO loans (
	id, company_id, employee_id, type, amount, remaining_amount, installments,
	status, request_status, date, reason, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
`
		_, err := r.tx.ExecContext(ctx, query,
			l.ID, l.CompanyID, l.EmployeeID, l.Type, l.Amount, l.RemainingAmount,
			l.Installments, l.Status, l.RequestStatus, l.Date, l.Reason, l.CreatedBy,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter GetLoansFilterRequest) ([]Loan, error) {
	var loans []Loan
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.RequestStatus != "" {
		query = query.Where("request_status = ?", filter.RequestStatus)
	}
	err := query.Order("created_at DESC").Find(&loans).Error
	return loans, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Loan, error) {
	var l Loan
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		First(&l).Error
	return &l, err
}

func (r *repository) FindByEmployee(ctx context.Context, companyID string, employeeID string) ([]Loan, error) {
	var loans []Loan
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Order("date ASC").
		Find(&loans).Error
	return loans, err
}

func (r *repository) Update(ctx context.Context, l *Loan) error {
	if r.tx != nil {
		query := `
UPDATE loans
SET remaining_amount = $3, status = $4, request_status = $5,
	reviewed_by = $6, approved_by = $7, approved_at = $8, updated_at = NOW()
WHERE id = $1 AND company_id = $2
`
		_, err := r.tx.ExecContext(ctx, query,
			l.ID, l.CompanyID, l.RemainingAmount, l.Status, l.RequestStatus,
			l.ReviewedBy, l.ApprovedBy, l.ApprovedAt,
		)
		return err
	}
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *repository) CreateDeductionEntry(ctx context.Context, entry *DeductionEntry) error {
	if r.tx != nil {
		query := `
INSERT INTO loan_deduction_entries (
	id, company_id, loan_id, payroll_id, period, amount, created_at
) VALUES ($1, $2, $3, $4, $5, $6, NOW())
`
		_, err := r.tx.ExecContext(ctx, query,
			entry.ID, entry.CompanyID, entry.LoanID, entry.PayrollID, entry.Period, entry.Amount,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindDeductionEntriesByEmployee(ctx context.Context, companyID string, employeeID string) ([]DeductionEntry, error) {
	var entries []DeductionEntry
	err := r.db.WithContext(ctx).
		Joins("JOIN loans ON loans.id = loan_deduction_entries.loan_id").
		Where("loan_deduction_entries.company_id = ?", companyID).
		Where("loans.employee_id = ?", employeeID).
		Find(&entries).Error
	return entries, err
}
