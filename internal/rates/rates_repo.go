package rates

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rates_repo.go -destination=mock/rates_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByCompany(ctx context.Context, companyID string) (*RateConfig, error)
	Upsert(ctx context.Context, config *RateConfig) error
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

func (r *repository) FindByCompany(ctx context.Context, companyID string) (*RateConfig, error) {
	var config RateConfig
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&config).Error
	return &config, err
}

func (r *repository) Upsert(ctx context.Context, config *RateConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}
