package rbac

type permission struct {
	Resource string
	Action   string
}

// Roles are a fixed enum on the employee row, so the permission matrix is
// seeded in code rather than managed through role tables.
var rolePolicies = map[string][]permission{
	"ADMIN": {
		{"payroll", "create"}, {"payroll", "read"}, {"payroll", "review"}, {"payroll", "approve"},
		{"loan", "create"}, {"loan", "read"}, {"loan", "review"}, {"loan", "approve"},
		{"leave", "create"}, {"leave", "read"}, {"leave", "review"}, {"leave", "approve"},
		{"maintenance", "create"}, {"maintenance", "read"}, {"maintenance", "review"}, {"maintenance", "approve"},
		{"rates", "read"}, {"rates", "update"},
		{"attendance", "create"}, {"attendance", "read"},
		{"employee", "read"},
	},
	"HR": {
		{"payroll", "create"}, {"payroll", "read"}, {"payroll", "review"},
		{"loan", "create"}, {"loan", "read"}, {"loan", "review"},
		{"leave", "read"}, {"leave", "review"},
		{"maintenance", "read"}, {"maintenance", "review"},
		{"rates", "read"}, {"rates", "update"},
		{"attendance", "create"}, {"attendance", "read"},
		{"employee", "read"},
	},
	"MANAGER": {
		{"payroll", "read"}, {"payroll", "approve"},
		{"loan", "read"}, {"loan", "approve"},
		{"leave", "read"}, {"leave", "approve"},
		{"maintenance", "create"}, {"maintenance", "read"}, {"maintenance", "approve"},
		{"rates", "read"},
		{"attendance", "read"},
		{"employee", "read"},
	},
	"EMPLOYEE": {
		{"payroll", "read"},
		{"loan", "create"}, {"loan", "read"},
		{"leave", "create"}, {"leave", "read"},
		{"attendance", "read"},
		{"employee", "read"},
	},
}
