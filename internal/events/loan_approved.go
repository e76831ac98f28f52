package events

import "time"

const LoanApprovedTopic = "hr.loan.approved.v1"

type LoanApprovedEvent struct {
	EventType  string    `json:"event_type"`
	LoanID     string    `json:"loan_id"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	Type       string    `json:"type"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}
