package payroll

import (
	"testing"
	"time"

	"go-payroll/internal/approval"
	"go-payroll/internal/attendance"
	"go-payroll/internal/loan"
	"go-payroll/internal/rates"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testRates() rates.RateConfigResponse {
	return rates.RateConfigResponse{
		TaxPct:                10,
		InsuranceEmployeePct:  11,
		InsuranceCompanyPct:   12,
		HousingAllowancePct:   25,
		TransportAllowancePct: 10,
	}
}

func emptyLedger() LedgerState {
	return LedgerState{
		PeriodDeductions: map[uuid.UUID]int64{},
		ChargedPenalties: map[uuid.UUID]string{},
	}
}

func periodEndOf(t *testing.T, period string) time.Time {
	t.Helper()
	_, end, err := attendance.PeriodBounds(period)
	assert.NoError(t, err)
	return end
}

func TestComputeDeductionsFixedOnly(t *testing.T) {
	result := ComputeDeductions(CalculationInput{
		BasicSalary: 9000,
		Rates:       testRates(),
		Period:      "2025-03",
		PeriodEnd:   periodEndOf(t, "2025-03"),
		Ledger:      emptyLedger(),
	})

	assert.Equal(t, int64(1890), result.Total)
	assert.Len(t, result.Lines, 1)
	assert.Equal(t, ComponentStatutory, result.Lines[0].Component)
	assert.Empty(t, result.LoanUpdates)
}

func TestComputeDeductionsAttendance(t *testing.T) {
	result := ComputeDeductions(CalculationInput{
		BasicSalary: 9000,
		Rates:       testRates(),
		Period:      "2025-03",
		PeriodEnd:   periodEndOf(t, "2025-03"),
		Attendance:  attendance.Summary{AbsentDays: 2, LateDays: 1},
		Ledger:      emptyLedger(),
	})

	// daily rate 300: 2 absences cost 600, 1 late day costs 75.
	assert.Equal(t, int64(2565), result.Total)
	assert.Len(t, result.Lines, 2)
	assert.Equal(t, ComponentAttendance, result.Lines[1].Component)
	assert.Equal(t, float64(675), result.Lines[1].Amount)
}

func TestComputeDeductionsNegativeAttendanceClamped(t *testing.T) {
	result := ComputeDeductions(CalculationInput{
		BasicSalary: 9000,
		Rates:       testRates(),
		Period:      "2025-03",
		PeriodEnd:   periodEndOf(t, "2025-03"),
		Attendance:  attendance.Summary{AbsentDays: -3, LateDays: -1},
		Ledger:      emptyLedger(),
	})

	assert.Equal(t, int64(1890), result.Total)
	assert.Len(t, result.Lines, 1)
}

func TestComputeDeductionsAdvanceInstallment(t *testing.T) {
	loanID := uuid.New()
	result := ComputeDeductions(CalculationInput{
		BasicSalary: 9000,
		Rates:       testRates(),
		Period:      "2025-03",
		PeriodEnd:   periodEndOf(t, "2025-03"),
		Loans: []loan.Loan{{
			ID:              loanID,
			Type:            loan.TypeAdvance,
			Amount:          3000,
			RemainingAmount: 2000,
			Installments:    3,
			Status:          loan.StatusActive,
			RequestStatus:   approval.StatusApproved,
		}},
		Ledger: emptyLedger(),
	})

	assert.Equal(t, int64(2890), result.Total)
	assert.Len(t, result.LoanUpdates, 1)
	assert.Equal(t, loanID, result.LoanUpdates[0].LoanID)
	assert.Equal(t, int64(1000), result.LoanUpdates[0].Amount)
}

func TestComputeDeductionsInstallmentCappedByRemaining(t *testing.T) {
	loanID := uuid.New()
	result := ComputeDeductions(CalculationInput{
		BasicSalary: 9000,
		Rates:       testRates(),
		Period:      "2025-03",
		PeriodEnd:   periodEndOf(t, "2025-03"),
		Loans: []loan.Loan{{
			ID:              loanID,
			Type:            loan.TypeAdvance,
			Amount:          3000,
			RemainingAmount: 800,
			Installments:    3,
			Status:          loan.StatusActive,
			RequestStatus:   approval.StatusApproved,
		}},
		Ledger: emptyLedger(),
	})

	// Final installment takes only what is left.
	assert.Equal(t, int64(2690), result.Total)
	assert.Equal(t, int64(800), result.LoanUpdates[0].Amount)
}

func TestComputeDeductionsUnapprovedLoanIgnored(t *testing.T) {
	result := ComputeDeductions(CalculationInput{
		BasicSalary: 9000,
		Rates:       testRates(),
		Period:      "2025-03",
		PeriodEnd:   periodEndOf(t, "2025-03"),
		Loans: []loan.Loan{{
			ID:              uuid.New(),
			Type:            loan.TypeAdvance,
			Amount:          3000,
			RemainingAmount: 3000,
			Installments:    3,
			Status:          loan.StatusPending,
			RequestStatus:   approval.StatusPending,
		}},
		Ledger: emptyLedger(),
	})

	assert.Equal(t, int64(1890), result.Total)
	assert.Empty(t, result.LoanUpdates)
}

func TestComputeDeductionsPenaltyChargedOnce(t *testing.T) {
	penaltyID := uuid.New()
	penalty := loan.Loan{
		ID:              penaltyID,
		Type:            loan.TypePenalty,
		Amount:          500,
		RemainingAmount: 500,
		Installments:    1,
		Status:          loan.StatusActive,
		RequestStatus:   approval.StatusApproved,
		Date:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	first := ComputeDeductions(CalculationInput{
		BasicSalary: 9000,
		Rates:       testRates(),
		Period:      "2025-03",
		PeriodEnd:   periodEndOf(t, "2025-03"),
		Loans:       []loan.Loan{penalty},
		Ledger:      emptyLedger(),
	})
	assert.Equal(t, int64(2390), first.Total)
	assert.Len(t, first.LoanUpdates, 1)
	assert.Equal(t, int64(500), first.LoanUpdates[0].Amount)

	// Once the ledger records the charge in an earlier period, the next
	// period never sees it again.
	next := ComputeDeductions(CalculationInput{
		BasicSalary: 9000,
		Rates:       testRates(),
		Period:      "2025-04",
		PeriodEnd:   periodEndOf(t, "2025-04"),
		Loans:       []loan.Loan{penalty},
		Ledger: LedgerState{
			PeriodDeductions: map[uuid.UUID]int64{},
			ChargedPenalties: map[uuid.UUID]string{penaltyID: "2025-03"},
		},
	})
	assert.Equal(t, int64(1890), next.Total)
	assert.Empty(t, next.LoanUpdates)
}

func TestComputeDeductionsFutureDatedPenaltySkipped(t *testing.T) {
	result := ComputeDeductions(CalculationInput{
		BasicSalary: 9000,
		Rates:       testRates(),
		Period:      "2025-03",
		PeriodEnd:   periodEndOf(t, "2025-03"),
		Loans: []loan.Loan{{
			ID:              uuid.New(),
			Type:            loan.TypePenalty,
			Amount:          500,
			RemainingAmount: 500,
			Status:          loan.StatusActive,
			RequestStatus:   approval.StatusApproved,
			Date:            time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
		}},
		Ledger: emptyLedger(),
	})

	assert.Equal(t, int64(1890), result.Total)
	assert.Empty(t, result.LoanUpdates)
}

func TestComputeDeductionsReplayIsIdempotent(t *testing.T) {
	advanceID := uuid.New()
	penaltyID := uuid.New()
	loans := []loan.Loan{
		{
			ID:              advanceID,
			Type:            loan.TypeAdvance,
			Amount:          3000,
			RemainingAmount: 1000,
			Installments:    3,
			Status:          loan.StatusActive,
			RequestStatus:   approval.StatusApproved,
		},
		{
			ID:              penaltyID,
			Type:            loan.TypePenalty,
			Amount:          500,
			RemainingAmount: 0,
			Status:          loan.StatusCompleted,
			RequestStatus:   approval.StatusApproved,
			Date:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	// A re-run after a completed sync sees both charges in the ledger and
	// reproduces the same total without proposing any new decrements.
	entries := []loan.DeductionEntry{
		{LoanID: advanceID, Period: "2025-03", Amount: 1000},
		{LoanID: penaltyID, Period: "2025-03", Amount: 500},
	}

	result := ComputeDeductions(CalculationInput{
		BasicSalary: 9000,
		Rates:       testRates(),
		Period:      "2025-03",
		PeriodEnd:   periodEndOf(t, "2025-03"),
		Loans:       loans,
		Ledger:      BuildLedgerState(loans, entries, "2025-03"),
	})

	assert.Equal(t, int64(3390), result.Total)
	assert.Empty(t, result.LoanUpdates)
}

func TestBuildLedgerState(t *testing.T) {
	advanceID := uuid.New()
	penaltyID := uuid.New()
	loans := []loan.Loan{
		{ID: advanceID, Type: loan.TypeAdvance},
		{ID: penaltyID, Type: loan.TypePenalty},
	}
	entries := []loan.DeductionEntry{
		{LoanID: advanceID, Period: "2025-02", Amount: 1000},
		{LoanID: advanceID, Period: "2025-03", Amount: 1000},
		{LoanID: penaltyID, Period: "2025-02", Amount: 500},
	}

	state := BuildLedgerState(loans, entries, "2025-03")

	assert.Equal(t, int64(1000), state.PeriodDeductions[advanceID])
	assert.NotContains(t, state.PeriodDeductions, penaltyID)
	assert.Equal(t, "2025-02", state.ChargedPenalties[penaltyID])
}

func TestFixedDeduction(t *testing.T) {
	assert.Equal(t, int64(1890), FixedDeduction(9000, testRates()))
	assert.Equal(t, int64(0), FixedDeduction(0, testRates()))
}

func TestAllowanceAmounts(t *testing.T) {
	housing, transport := AllowanceAmounts(9000, testRates())
	assert.Equal(t, int64(2250), housing)
	assert.Equal(t, int64(900), transport)
}
