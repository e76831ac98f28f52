package events

import "time"

const PayrollPaidTopic = "hr.payroll.paid.v1"

type PayrollPaidEvent struct {
	EventType  string    `json:"event_type"`
	PayrollID  string    `json:"payroll_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	Period     string    `json:"period"`
	NetSalary  int64     `json:"net_salary"`
	ApprovedBy string    `json:"approved_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
