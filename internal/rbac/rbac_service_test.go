package rbac

import (
	"testing"

	"go-payroll/internal/domain"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/stretchr/testify/assert"
)

type mockRepo struct {
	roles map[string]string
}

func (m *mockRepo) GetEmployeeRole(companyID, employeeID string) (string, error) {
	return m.roles[employeeID], nil
}

func newTestEnforcer(t *testing.T) *casbin.Enforcer {
	modelText := `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act

[role_definition]
g = _, _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub, r.dom) && r.dom == p.dom && r.obj == p.obj && r.act == p.act
`

	m, err := model.NewModelFromString(modelText)
	assert.NoError(t, err)

	e, err := casbin.NewEnforcer(m)
	assert.NoError(t, err)

	return e
}

func TestRBACService_Enforce(t *testing.T) {
	repo := &mockRepo{roles: map[string]string{
		"emp-hr":    "HR",
		"emp-staff": "EMPLOYEE",
	}}
	service := NewService(repo, newTestEnforcer(t))

	allowed, err := service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-hr",
		CompanyID:  "company-1",
		Resource:   "payroll",
		Action:     "create",
	})
	assert.NoError(t, err)
	assert.True(t, allowed)

	// HR reviews but never gives final approval
	allowed, err = service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-hr",
		CompanyID:  "company-1",
		Resource:   "payroll",
		Action:     "approve",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-staff",
		CompanyID:  "company-1",
		Resource:   "rates",
		Action:     "update",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestRBACService_UnknownEmployeeDenied(t *testing.T) {
	repo := &mockRepo{roles: map[string]string{}}
	service := NewService(repo, newTestEnforcer(t))

	allowed, err := service.Enforce(domain.EnforceRequest{
		EmployeeID: "emp-ghost",
		CompanyID:  "company-1",
		Resource:   "payroll",
		Action:     "read",
	})
	assert.NoError(t, err)
	assert.False(t, allowed)
}
