package maintenance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=maintenance_repo.go -destination=mock/maintenance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, m *MaintenanceRequest) error
	FindAllByCompany(ctx context.Context, companyID string, filter GetMaintenanceFilterRequest) ([]MaintenanceRequest, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*MaintenanceRequest, error)
	Update(ctx context.Context, m *MaintenanceRequest) error
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

func (r *repository) Create(ctx context.Context, m *MaintenanceRequest) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter GetMaintenanceFilterRequest) ([]MaintenanceRequest, error) {
	var requests []MaintenanceRequest
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	err := query.Order("date DESC").Find(&requests).Error
	return requests, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*MaintenanceRequest, error) {
	var m MaintenanceRequest
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&m, "id = ?", id).Error
	return &m, err
}

func (r *repository) Update(ctx context.Context, m *MaintenanceRequest) error {
	if r.tx != nil {
		query := `
UPDATE maintenance_requests
SET status = $3, reviewed_by = $4, approved_by = $5, approved_at = $6, updated_at = NOW()
WHERE id = $1 AND company_id = $2
`
		_, err := r.tx.ExecContext(ctx, query,
			m.ID, m.CompanyID, m.Status, m.ReviewedBy, m.ApprovedBy, m.ApprovedAt,
		)
		return err
	}
	return r.db.WithContext(ctx).Save(m).Error
}
