package payroll

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payroll) error
	Update(ctx context.Context, p *Payroll) error
	FindAllByCompany(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]Payroll, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payroll, error)
	FindByPeriod(ctx context.Context, companyID string, period string) ([]Payroll, error)
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

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	if r.tx != nil {
		query := `
INSERT INTO payrolls (
	id, company_id, employee_id, period, basic_salary, allowance,
	transport_allowance, incentives, deduction, net_salary, status,
	created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
`
		_, err := r.tx.ExecContext(ctx, query,
			p.ID, p.CompanyID, p.EmployeeID, p.Period, p.BasicSalary, p.Allowance,
			p.TransportAllowance, p.Incentives, p.Deduction, p.NetSalary, p.Status,
			p.CreatedBy,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) Update(ctx context.Context, p *Payroll) error {
	if r.tx != nil {
		query := `
UPDATE payrolls
SET basic_salary = $3, allowance = $4, transport_allowance = $5,
	incentives = $6, deduction = $7, net_salary = $8, status = $9,
	audited_by = $10, approved_by = $11, paid_at = $12, updated_at = NOW()
WHERE id = $1 AND company_id = $2
`
		_, err := r.tx.ExecContext(ctx, query,
			p.ID, p.CompanyID, p.BasicSalary, p.Allowance, p.TransportAllowance,
			p.Incentives, p.Deduction, p.NetSalary, p.Status,
			p.AuditedBy, p.ApprovedBy, p.PaidAt,
		)
		return err
	}
	return r.db.WithContext(ctx).Omit("Employee").Save(p).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]Payroll, error) {
	var payrolls []Payroll
	query := r.db.WithContext(ctx).
		Preload("Employee").
		Where("company_id = ?", companyID)
	if filter.Period != "" {
		query = query.Where("period = ?", filter.Period)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	err := query.Order("period DESC, created_at ASC").Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		First(&p).Error
	return &p, err
}

func (r *repository) FindByPeriod(ctx context.Context, companyID string, period string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("period = ?", period).
		Order("created_at ASC").
		Find(&payrolls).Error
	return payrolls, err
}
