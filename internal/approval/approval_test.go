package approval_test

import (
	"testing"

	"go-payroll/internal/approval"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFlowHappyPath(t *testing.T) {
	flow := approval.Default

	next, err := flow.Review(approval.StatusPending)
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusReviewed, next)

	next, err = flow.Approve(next)
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, next)
	assert.True(t, flow.Terminal(next))
}

func TestPayrollFlowApprovesToPaid(t *testing.T) {
	flow := approval.Payroll

	next, err := flow.Review(approval.StatusPending)
	assert.NoError(t, err)

	next, err = flow.Approve(next)
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusPaid, next)
	assert.True(t, flow.Terminal(next))
}

func TestDefaultRejectIsTerminal(t *testing.T) {
	flow := approval.Default

	next, err := flow.Reject(approval.StatusPending)
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, next)
	assert.True(t, flow.Terminal(next))

	next, err = flow.Reject(approval.StatusReviewed)
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, next)

	_, err = flow.Reject(approval.StatusRejected)
	assert.ErrorIs(t, err, approval.ErrInvalidTransition)
}

func TestPayrollRejectResetsToPending(t *testing.T) {
	flow := approval.Payroll

	next, err := flow.Reject(approval.StatusReviewed)
	assert.NoError(t, err)
	assert.Equal(t, approval.StatusPending, next)

	// Payroll cannot be rejected before review
	_, err = flow.Reject(approval.StatusPending)
	assert.ErrorIs(t, err, approval.ErrInvalidTransition)
}

func TestNoBackwardTransitions(t *testing.T) {
	for _, flow := range []approval.Flow{approval.Default, approval.Payroll} {
		_, err := flow.Review(approval.StatusReviewed)
		assert.ErrorIs(t, err, approval.ErrInvalidTransition)

		_, err = flow.Review(flow.ApproveTarget)
		assert.ErrorIs(t, err, approval.ErrInvalidTransition)

		_, err = flow.Approve(approval.StatusPending)
		assert.ErrorIs(t, err, approval.ErrInvalidTransition)

		_, err = flow.Approve(flow.ApproveTarget)
		assert.ErrorIs(t, err, approval.ErrInvalidTransition)
	}
}

func TestInvalidTransitionKeepsStatus(t *testing.T) {
	flow := approval.Default

	got, err := flow.Approve(approval.StatusPending)
	assert.Error(t, err)
	assert.Equal(t, approval.StatusPending, got)
}

func TestValid(t *testing.T) {
	assert.True(t, approval.Valid(approval.StatusPending))
	assert.True(t, approval.Valid(approval.StatusPaid))
	assert.False(t, approval.Valid(approval.Status("DRAFT")))
}
