package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindActiveByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	FindRole(ctx context.Context, companyID string, id string) (string, error)
	DecrementLeaveBalance(ctx context.Context, companyID string, id string, days int) error
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

func (r *repository) FindActiveByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("status = ?", StatusActive).
		Order("code ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		First(&e).Error
	return &e, err
}

func (r *repository) FindRole(ctx context.Context, companyID string, id string) (string, error) {
	var role string
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Select("role").
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Scan(&role).Error
	return role, err
}

func (r *repository) DecrementLeaveBalance(ctx context.Context, companyID string, id string, days int) error {
	query := `
UPDATE employees
SET leave_balance = leave_balance - $3, updated_at = NOW()
WHERE id = $1 AND company_id = $2
`
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, id, companyID, days)
		return err
	}
	return r.db.WithContext(ctx).Exec(
		"UPDATE employees SET leave_balance = leave_balance - ? , updated_at = NOW() WHERE id = ? AND company_id = ?",
		days, id, companyID,
	).Error
}
