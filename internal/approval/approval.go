// Package approval is the shared review/approve/reject state machine used by
// payroll, loan, leave, and maintenance records. A record always starts in
// PENDING; financial effects (loan decrements, leave balance changes) may only
// be applied while the record is still PENDING.
package approval

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusReviewed Status = "REVIEWED"
	StatusApproved Status = "APPROVED"
	StatusPaid     Status = "PAID"
	StatusRejected Status = "REJECTED"
)

var ErrInvalidTransition = apperror.New(
	apperror.CodeInvalidState,
	"invalid status transition",
	http.StatusBadRequest,
)

// Flow parameterizes the machine per record kind. ApproveTarget is the state
// an approved record lands in (PAID for payroll, APPROVED otherwise).
// RejectResets makes Reject return a reviewed record to PENDING for correction
// instead of terminating it; payroll is the only flow that wants this.
type Flow struct {
	ApproveTarget Status
	RejectResets  bool
}

var (
	// Default covers loans, leaves, and maintenance requests.
	Default = Flow{ApproveTarget: StatusApproved}
	// Payroll pays on approval and lets a rejected review be corrected.
	Payroll = Flow{ApproveTarget: StatusPaid, RejectResets: true}
)

// Review moves PENDING to REVIEWED.
func (f Flow) Review(from Status) (Status, error) {
	if from != StatusPending {
		return from, ErrInvalidTransition
	}
	return StatusReviewed, nil
}

// Approve moves REVIEWED to the flow's approve target.
func (f Flow) Approve(from Status) (Status, error) {
	if from != StatusReviewed {
		return from, ErrInvalidTransition
	}
	if f.ApproveTarget == "" {
		return StatusApproved, nil
	}
	return f.ApproveTarget, nil
}

// Reject terminates a PENDING or REVIEWED record, or — when RejectResets —
// returns a REVIEWED record to PENDING so its numbers can be recomputed.
func (f Flow) Reject(from Status) (Status, error) {
	if f.RejectResets {
		if from != StatusReviewed {
			return from, ErrInvalidTransition
		}
		return StatusPending, nil
	}
	if from != StatusPending && from != StatusReviewed {
		return from, ErrInvalidTransition
	}
	return StatusRejected, nil
}

// Terminal reports whether no further transition can leave the status.
func (f Flow) Terminal(s Status) bool {
	switch s {
	case StatusRejected:
		return !f.RejectResets
	case StatusApproved, StatusPaid:
		return true
	default:
		return false
	}
}

func Valid(s Status) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusApproved, StatusPaid, StatusRejected:
		return true
	}
	return false
}
