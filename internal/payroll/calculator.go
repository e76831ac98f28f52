package payroll

import (
	"fmt"
	"math"
	"time"

	"go-payroll/internal/approval"
	"go-payroll/internal/attendance"
	"go-payroll/internal/loan"
	"go-payroll/internal/rates"

	"github.com/google/uuid"
)

// The daily rate divisor is fixed at 30 regardless of calendar month length.
const daysPerMonth = 30

const (
	ComponentStatutory  = "STATUTORY"
	ComponentAttendance = "ATTENDANCE"
	ComponentPenalty    = "PENALTY"
	ComponentInstallment = "INSTALLMENT"
)

// DeductionLine is one entry of the audit trace: which component contributed
// and how much.
type DeductionLine struct {
	Component string  `json:"component"`
	Detail    string  `json:"detail"`
	Amount    float64 `json:"amount"`
}

// LoanUpdate is a proposed ledger mutation. The calculator never applies it;
// the synchronizer decrements the loan and records the deduction entry in one
// transaction.
type LoanUpdate struct {
	LoanID uuid.UUID
	Amount int64
}

// LedgerState is what has already been taken, so recomputation never
// double-charges. PeriodDeductions holds amounts recorded for the target
// period by loan id (advances and penalties alike); ChargedPenalties maps a
// penalty to the period it was charged in, whichever period that was.
type LedgerState struct {
	PeriodDeductions map[uuid.UUID]int64
	ChargedPenalties map[uuid.UUID]string
}

// BuildLedgerState folds persisted deduction entries into the form the
// calculator consumes.
func BuildLedgerState(loans []loan.Loan, entries []loan.DeductionEntry, period string) LedgerState {
	types := make(map[uuid.UUID]string, len(loans))
	for _, l := range loans {
		types[l.ID] = l.Type
	}

	state := LedgerState{
		PeriodDeductions: make(map[uuid.UUID]int64),
		ChargedPenalties: make(map[uuid.UUID]string),
	}
	for _, e := range entries {
		if types[e.LoanID] == loan.TypePenalty {
			state.ChargedPenalties[e.LoanID] = e.Period
		}
		if e.Period == period {
			state.PeriodDeductions[e.LoanID] = e.Amount
		}
	}
	return state
}

type CalculationInput struct {
	BasicSalary int64
	Rates       rates.RateConfigResponse
	Period      string
	PeriodEnd   time.Time
	Attendance  attendance.Summary
	Loans       []loan.Loan
	Ledger      LedgerState
}

type CalculationResult struct {
	Total       int64
	Lines       []DeductionLine
	LoanUpdates []LoanUpdate
}

// ComputeDeductions derives an employee's total deduction for a period from
// four independent components: fixed statutory deductions, attendance-derived
// deductions, one-time penalties, and advance installments. It is pure — no
// store access, no mutation — so it can be retried freely; all side effects
// are returned as LoanUpdate proposals.
func ComputeDeductions(in CalculationInput) CalculationResult {
	var result CalculationResult
	basic := float64(in.BasicSalary)

	// Fixed statutory deduction, always applied.
	fixed := math.Round(basic * (in.Rates.InsuranceEmployeePct + in.Rates.TaxPct) / 100)
	result.Lines = append(result.Lines, DeductionLine{
		Component: ComponentStatutory,
		Detail: fmt.Sprintf("insurance %.2f%% + tax %.2f%%",
			in.Rates.InsuranceEmployeePct, in.Rates.TaxPct),
		Amount: fixed,
	})

	// Absence costs a full day, lateness a quarter day.
	absent := in.Attendance.AbsentDays
	if absent < 0 {
		absent = 0
	}
	late := in.Attendance.LateDays
	if late < 0 {
		late = 0
	}
	dailyRate := basic / daysPerMonth
	attendanceAmount := float64(absent)*dailyRate + float64(late)*dailyRate*0.25
	if attendanceAmount > 0 {
		result.Lines = append(result.Lines, DeductionLine{
			Component: ComponentAttendance,
			Detail:    fmt.Sprintf("%d absent day(s), %d late day(s)", absent, late),
			Amount:    attendanceAmount,
		})
	}

	var penaltyAmount, installmentAmount float64

	for i := range in.Loans {
		l := &in.Loans[i]
		if l.RequestStatus != approval.StatusApproved {
			continue
		}

		switch l.Type {
		case loan.TypePenalty:
			if l.Date.After(in.PeriodEnd) {
				continue
			}
			if chargedIn, ok := in.Ledger.ChargedPenalties[l.ID]; ok {
				// Already charged. If it was charged in this period the
				// amount still belongs in this period's total.
				if chargedIn == in.Period {
					penaltyAmount += float64(in.Ledger.PeriodDeductions[l.ID])
					result.Lines = append(result.Lines, DeductionLine{
						Component: ComponentPenalty,
						Detail:    fmt.Sprintf("penalty %s (recorded)", l.ID),
						Amount:    float64(in.Ledger.PeriodDeductions[l.ID]),
					})
				}
				continue
			}
			penaltyAmount += float64(l.Amount)
			result.Lines = append(result.Lines, DeductionLine{
				Component: ComponentPenalty,
				Detail:    fmt.Sprintf("penalty %s dated %s", l.ID, l.Date.Format("2006-01-02")),
				Amount:    float64(l.Amount),
			})
			result.LoanUpdates = append(result.LoanUpdates, LoanUpdate{LoanID: l.ID, Amount: l.Amount})

		case loan.TypeAdvance:
			if prior, ok := in.Ledger.PeriodDeductions[l.ID]; ok {
				// Installment already taken this period; keep it in the
				// total but propose no new decrement.
				installmentAmount += float64(prior)
				result.Lines = append(result.Lines, DeductionLine{
					Component: ComponentInstallment,
					Detail:    fmt.Sprintf("advance %s (recorded)", l.ID),
					Amount:    float64(prior),
				})
				continue
			}
			if !l.EligibleForInstallment() {
				continue
			}
			actual := l.Installment()
			if actual > l.RemainingAmount {
				actual = l.RemainingAmount
			}
			installmentAmount += float64(actual)
			result.Lines = append(result.Lines, DeductionLine{
				Component: ComponentInstallment,
				Detail: fmt.Sprintf("advance %s installment (%d remaining before)",
					l.ID, l.RemainingAmount),
				Amount: float64(actual),
			})
			result.LoanUpdates = append(result.LoanUpdates, LoanUpdate{LoanID: l.ID, Amount: actual})
		}
	}

	result.Total = int64(math.Round(fixed + attendanceAmount + penaltyAmount + installmentAmount))
	return result
}

// FixedDeduction is the statutory-only seed used by Generate before any
// synchronization has happened.
func FixedDeduction(basicSalary int64, r rates.RateConfigResponse) int64 {
	return int64(math.Round(float64(basicSalary) * (r.InsuranceEmployeePct + r.TaxPct) / 100))
}

// AllowanceAmounts derives the housing and transport allowances from the rate
// configuration.
func AllowanceAmounts(basicSalary int64, r rates.RateConfigResponse) (housing, transport int64) {
	housing = int64(math.Round(float64(basicSalary) * r.HousingAllowancePct / 100))
	transport = int64(math.Round(float64(basicSalary) * r.TransportAllowancePct / 100))
	return housing, transport
}
