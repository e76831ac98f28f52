package events

import "time"

const PayrollGeneratedTopic = "hr.payroll.generated.v1"

type PayrollGeneratedEvent struct {
	EventType     string    `json:"event_type"`
	CompanyID     string    `json:"company_id"`
	Period        string    `json:"period"`
	EmployeeCount int       `json:"employee_count"`
	GeneratedBy   string    `json:"generated_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}
