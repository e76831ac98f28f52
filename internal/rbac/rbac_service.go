package rbac

import (
	"log"
	"sync"

	"go-payroll/internal/domain"

	"github.com/casbin/casbin/v2"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadCompanyPolicy(companyID string) error
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) LoadCompanyPolicy(companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCompanyPolicyUnlocked(companyID)
}

func (s *service) loadCompanyPolicyUnlocked(companyID string) error {
	s.enforcer.ClearPolicy()

	for role, perms := range rolePolicies {
		for _, p := range perms {
			if _, err := s.enforcer.AddPolicy(role, companyID, p.Resource, p.Action); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCompanyPolicyUnlocked(req.CompanyID); err != nil {
		return false, err
	}

	role, err := s.repo.GetEmployeeRole(req.CompanyID, req.EmployeeID)
	if err != nil {
		return false, err
	}
	if role == "" {
		return false, nil
	}

	if _, err := s.enforcer.AddGroupingPolicy(req.EmployeeID, role, req.CompanyID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.EmployeeID,
		req.CompanyID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		log.Printf("rbac enforce result: employee_id=%s company_id=%s resource=%s action=%s err=%v", req.EmployeeID, req.CompanyID, req.Resource, req.Action, err)
		return false, err
	}

	return allowed, nil
}
