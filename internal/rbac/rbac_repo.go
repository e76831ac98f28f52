package rbac

import "gorm.io/gorm"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetEmployeeRole(companyID, employeeID string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetEmployeeRole(companyID, employeeID string) (string, error) {
	var role string
	err := r.db.
		Table("employees").
		Select("role").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Scan(&role).Error
	return role, err
}
