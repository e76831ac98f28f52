package employee

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"go-payroll/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrEmployeeNotFound = apperror.New(
	apperror.CodeNotFound,
	"employee not found",
	http.StatusNotFound,
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetActive(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) GetActive(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	employees, err := s.repo.FindActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(employees), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	e, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*e), nil
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID.String(),
		CompanyID:    e.CompanyID.String(),
		Code:         e.Code,
		FullName:     e.FullName,
		Role:         e.Role,
		Salary:       e.Salary,
		LeaveBalance: e.LeaveBalance,
		Status:       e.Status,
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		resp[i] = mapToResponse(e)
	}
	return resp
}
