package events

import "time"

const PayrollSynchronizedTopic = "hr.payroll.synchronized.v1"

type PayrollSynchronizedEvent struct {
	EventType      string    `json:"event_type"`
	CompanyID      string    `json:"company_id"`
	Period         string    `json:"period"`
	SyncedCount    int       `json:"synced_count"`
	SkippedCount   int       `json:"skipped_count"`
	FailedCount    int       `json:"failed_count"`
	SynchronizedBy string    `json:"synchronized_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
