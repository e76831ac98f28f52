package payroll

type GeneratePayrollRequest struct {
	Period string `json:"period" binding:"required"`
}

type SynchronizePayrollRequest struct {
	Period string `json:"period" binding:"required"`
}

type ApproveAllRequest struct {
	Period string `json:"period" binding:"required"`
}

type GetPayrollsFilterRequest struct {
	Period string `form:"period"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING REVIEWED PAID"`
}

type PayrollResponse struct {
	ID                 string  `json:"id"`
	CompanyID          string  `json:"company_id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       string  `json:"employee_name,omitempty"`
	Period             string  `json:"period"`
	BasicSalary        int64   `json:"basic_salary"`
	Allowance          int64   `json:"allowance"`
	TransportAllowance int64   `json:"transport_allowance"`
	Incentives         int64   `json:"incentives"`
	Deduction          int64   `json:"deduction"`
	NetSalary          int64   `json:"net_salary"`
	Status             string  `json:"status"`
	AuditedBy          *string `json:"audited_by,omitempty"`
	ApprovedBy         *string `json:"approved_by,omitempty"`
	PaidAt             *string `json:"paid_at,omitempty"`
}

// SyncReport summarizes one Synchronize pass. A failed employee does not
// abort the batch; it is only counted here.
type SyncReport struct {
	Period  string `json:"period"`
	Synced  int    `json:"synced"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

type ApproveAllReport struct {
	Period   string `json:"period"`
	Approved int    `json:"approved"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

type BreakdownResponse struct {
	PayrollID   string          `json:"payroll_id"`
	Period      string          `json:"period"`
	StoredTotal int64           `json:"stored_total"`
	Total       int64           `json:"total"`
	Lines       []DeductionLine `json:"lines"`
}
