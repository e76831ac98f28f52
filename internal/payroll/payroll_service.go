package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-payroll/internal/approval"
	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/rates"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, companyID, actorID string, req GeneratePayrollRequest) ([]PayrollResponse, error)
	Synchronize(ctx context.Context, companyID, actorID string, req SynchronizePayrollRequest) (SyncReport, error)
	GetAll(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	GetBreakdown(ctx context.Context, companyID, id string) (BreakdownResponse, error)
	Review(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	Reject(ctx context.Context, companyID, id string) (PayrollResponse, error)
	ApproveAll(ctx context.Context, companyID, actorID string, req ApproveAllRequest) (ApproveAllReport, error)
	DownloadPayslip(ctx context.Context, companyID, id string) ([]byte, string, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	employees   employee.Repository
	attendances attendance.Repository
	loans       loan.Repository
	rates       rates.Service
	outbox      kafka.OutboxRepository
	locker      *syncLocker
	flow        approval.Flow
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	attendances attendance.Repository,
	loans loan.Repository,
	ratesService rates.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		employees:   employees,
		attendances: attendances,
		loans:       loans,
		rates:       ratesService,
		locker:      newSyncLocker(nil),
		flow:        approval.Payroll,
		logger:      l,
	}
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	attendances attendance.Repository,
	loans loan.Repository,
	ratesService rates.Service,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	svc := NewService(db, repo, employees, attendances, loans, ratesService, logger...).(*service)
	svc.outbox = outbox
	svc.locker = newSyncLocker(rdb)
	return svc
}

// Generate writes one PENDING payroll per active employee for the period,
// seeded with statutory deductions only. Re-running for the same period is a
// caller-confirmed operation: still-PENDING rows are regenerated in place,
// REVIEWED/PAID rows are never touched.
func (s *service) Generate(ctx context.Context, companyID, actorID string, req GeneratePayrollRequest) ([]PayrollResponse, error) {
	s.logger.Debug("generate payroll requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("period", req.Period),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, payrollerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, payrollerrors.ErrInvalidActorID
	}
	if _, _, err := attendance.PeriodBounds(req.Period); err != nil {
		return nil, payrollerrors.ErrInvalidPeriod
	}

	rateConfig, err := s.rates.Get(ctx, companyID)
	if err != nil {
		return nil, payrollerrors.ErrRatesNotConfigured
	}

	activeEmployees, err := s.employees.FindActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if len(activeEmployees) == 0 {
		return nil, payrollerrors.ErrNoActiveEmployees
	}

	existingRows, err := s.repo.FindByPeriod(ctx, companyID, req.Period)
	if err != nil {
		return nil, err
	}
	existing := make(map[uuid.UUID]*Payroll, len(existingRows))
	for i := range existingRows {
		existing[existingRows[i].EmployeeID] = &existingRows[i]
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	written := make([]Payroll, 0, len(activeEmployees))
	for _, emp := range activeEmployees {
		housing, transport := AllowanceAmounts(emp.Salary, rateConfig)
		fixed := FixedDeduction(emp.Salary, rateConfig)

		if prior, ok := existing[emp.ID]; ok {
			if prior.Status != approval.StatusPending {
				// Reviewed or paid rows survive a re-run untouched.
				continue
			}
			prior.BasicSalary = emp.Salary
			prior.Allowance = housing
			prior.TransportAllowance = transport
			prior.Incentives = 0
			prior.Deduction = fixed
			prior.Recalculate()
			if err := qtx.Update(ctx, prior); err != nil {
				return nil, err
			}
			written = append(written, *prior)
			continue
		}

		p := &Payroll{
			ID:                 uuid.New(),
			CompanyID:          companyUUID,
			EmployeeID:         emp.ID,
			Period:             req.Period,
			BasicSalary:        emp.Salary,
			Allowance:          housing,
			TransportAllowance: transport,
			Incentives:         0,
			Deduction:          fixed,
			Status:             approval.StatusPending,
			CreatedBy:          actorUUID,
		}
		p.Recalculate()
		if err := qtx.Create(ctx, p); err != nil {
			return nil, err
		}
		written = append(written, *p)
	}

	if s.outbox != nil {
		event := events.PayrollGeneratedEvent{
			EventType:     "payroll.generated",
			CompanyID:     companyID,
			Period:        req.Period,
			EmployeeCount: len(written),
			GeneratedBy:   actorID,
			OccurredAt:    time.Now().UTC(),
		}
		if err := s.createOutboxEventWithTx(ctx, tx, "payroll_run", req.Period, event.EventType, events.PayrollGeneratedTopic, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("generate payroll success",
		zap.String("period", req.Period),
		zap.Int("written", len(written)),
		zap.Int("untouched", len(activeEmployees)-len(written)),
	)

	return mapToListResponse(written), nil
}

// Synchronize pulls attendance, penalty, and installment data into every
// still-PENDING payroll of the period. Loan decrements and the matching
// ledger entries are applied in the same per-employee transaction as the
// payroll update, so either both land or neither does. Rows past PENDING are
// silently skipped; their numbers are frozen.
func (s *service) Synchronize(ctx context.Context, companyID, actorID string, req SynchronizePayrollRequest) (SyncReport, error) {
	s.logger.Debug("synchronize payroll requested",
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("period", req.Period),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return SyncReport{}, payrollerrors.ErrInvalidCompanyID
	}
	periodStart, periodEnd, err := attendance.PeriodBounds(req.Period)
	if err != nil {
		return SyncReport{}, payrollerrors.ErrInvalidPeriod
	}

	release, err := s.locker.acquire(ctx, companyID, req.Period)
	if err != nil {
		return SyncReport{}, err
	}
	defer release()

	rateConfig, err := s.rates.Get(ctx, companyID)
	if err != nil {
		return SyncReport{}, payrollerrors.ErrRatesNotConfigured
	}

	rows, err := s.repo.FindByPeriod(ctx, companyID, req.Period)
	if err != nil {
		return SyncReport{}, err
	}

	summaries, err := s.attendances.SummarizeByEmployee(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return SyncReport{}, err
	}

	report := SyncReport{Period: req.Period}
	for i := range rows {
		row := rows[i]
		if row.Status != approval.StatusPending {
			report.Skipped++
			continue
		}

		if err := s.synchronizeEmployee(ctx, &row, rateConfig, summaries[row.EmployeeID], periodEnd); err != nil {
			s.logger.Error("synchronize employee failed",
				zap.String("payroll_id", row.ID.String()),
				zap.String("employee_id", row.EmployeeID.String()),
				zap.Error(err),
			)
			report.Failed++
			continue
		}
		report.Synced++
	}

	if s.outbox != nil {
		event := events.PayrollSynchronizedEvent{
			EventType:      "payroll.synchronized",
			CompanyID:      companyID,
			Period:         req.Period,
			SyncedCount:    report.Synced,
			SkippedCount:   report.Skipped,
			FailedCount:    report.Failed,
			SynchronizedBy: actorID,
			OccurredAt:     time.Now().UTC(),
		}
		if err := s.publishStandalone(ctx, "payroll_run", req.Period, event.EventType, events.PayrollSynchronizedTopic, event); err != nil {
			s.logger.Error("synchronize outbox publish failed", zap.Error(err))
		}
	}

	s.logger.Info("synchronize payroll finished",
		zap.String("period", req.Period),
		zap.Int("synced", report.Synced),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

func (s *service) synchronizeEmployee(
	ctx context.Context,
	row *Payroll,
	rateConfig rates.RateConfigResponse,
	summary attendance.Summary,
	periodEnd time.Time,
) error {
	companyID := row.CompanyID.String()
	employeeID := row.EmployeeID.String()

	employeeLoans, err := s.loans.FindByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return err
	}
	entries, err := s.loans.FindDeductionEntriesByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return err
	}

	result := ComputeDeductions(CalculationInput{
		BasicSalary: row.BasicSalary,
		Rates:       rateConfig,
		Period:      row.Period,
		PeriodEnd:   periodEnd,
		Attendance:  summary,
		Loans:       employeeLoans,
		Ledger:      BuildLedgerState(employeeLoans, entries, row.Period),
	})

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	lqtx := s.loans.WithTx(tx)

	row.Deduction = result.Total
	row.Recalculate()
	if err := qtx.Update(ctx, row); err != nil {
		return err
	}

	loansByID := make(map[uuid.UUID]*loan.Loan, len(employeeLoans))
	for i := range employeeLoans {
		loansByID[employeeLoans[i].ID] = &employeeLoans[i]
	}

	for _, update := range result.LoanUpdates {
		l, ok := loansByID[update.LoanID]
		if !ok {
			continue
		}
		l.ApplyDeduction(update.Amount)
		if err := lqtx.Update(ctx, l); err != nil {
			return err
		}
		if err := lqtx.CreateDeductionEntry(ctx, &loan.DeductionEntry{
			ID:        uuid.New(),
			CompanyID: row.CompanyID,
			LoanID:    update.LoanID,
			PayrollID: row.ID,
			Period:    row.Period,
			Amount:    update.Amount,
		}); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *service) GetAll(ctx context.Context, companyID string, filter GetPayrollsFilterRequest) ([]PayrollResponse, error) {
	payrolls, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(payrolls), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}
	return mapToResponse(*p), nil
}

// GetBreakdown recomputes the audit trace for a payroll. For frozen
// (non-PENDING) records the stored total is authoritative; the recomputed
// lines show how it was assembled.
func (s *service) GetBreakdown(ctx context.Context, companyID, id string) (BreakdownResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BreakdownResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return BreakdownResponse{}, err
	}

	periodStart, periodEnd, err := attendance.PeriodBounds(p.Period)
	if err != nil {
		return BreakdownResponse{}, payrollerrors.ErrInvalidPeriod
	}

	rateConfig, err := s.rates.Get(ctx, companyID)
	if err != nil {
		return BreakdownResponse{}, payrollerrors.ErrRatesNotConfigured
	}

	summaries, err := s.attendances.SummarizeByEmployee(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return BreakdownResponse{}, err
	}
	employeeLoans, err := s.loans.FindByEmployee(ctx, companyID, p.EmployeeID.String())
	if err != nil {
		return BreakdownResponse{}, err
	}
	entries, err := s.loans.FindDeductionEntriesByEmployee(ctx, companyID, p.EmployeeID.String())
	if err != nil {
		return BreakdownResponse{}, err
	}

	result := ComputeDeductions(CalculationInput{
		BasicSalary: p.BasicSalary,
		Rates:       rateConfig,
		Period:      p.Period,
		PeriodEnd:   periodEnd,
		Attendance:  summaries[p.EmployeeID],
		Loans:       employeeLoans,
		Ledger:      BuildLedgerState(employeeLoans, entries, p.Period),
	})

	return BreakdownResponse{
		PayrollID:   p.ID.String(),
		Period:      p.Period,
		StoredTotal: p.Deduction,
		Total:       result.Total,
		Lines:       result.Lines,
	}, nil
}

func (s *service) Review(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, actorID, id, s.flow.Review)
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, actorID, id, s.flow.Approve)
}

func (s *service) Reject(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, "", id, s.flow.Reject)
}

func (s *service) transition(
	ctx context.Context,
	companyID, actorID, id string,
	step func(approval.Status) (approval.Status, error),
) (PayrollResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	var actorUUID uuid.UUID
	if actorID != "" {
		var err error
		actorUUID, err = uuid.Parse(actorID)
		if err != nil {
			return PayrollResponse{}, payrollerrors.ErrInvalidActorID
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}

	next, err := step(p.Status)
	if err != nil {
		s.logger.Warn("payroll transition rejected",
			zap.String("payroll_id", id),
			zap.String("from_status", string(p.Status)),
		)
		return PayrollResponse{}, err
	}

	if err := s.applyTransition(ctx, qtx, tx, p, next, actorUUID); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll transition success",
		zap.String("payroll_id", id),
		zap.String("status", string(next)),
	)

	return mapToResponse(*p), nil
}

func (s *service) applyTransition(
	ctx context.Context,
	qtx Repository,
	tx *sql.Tx,
	p *Payroll,
	next approval.Status,
	actorUUID uuid.UUID,
) error {
	p.Status = next
	switch next {
	case approval.StatusReviewed:
		p.AuditedBy = &actorUUID
	case approval.StatusPaid:
		p.ApprovedBy = &actorUUID
		now := time.Now().UTC()
		p.PaidAt = &now
	case approval.StatusPending:
		// Reject path: back to correction, stamps cleared.
		p.AuditedBy = nil
		p.ApprovedBy = nil
		p.PaidAt = nil
	}

	if err := qtx.Update(ctx, p); err != nil {
		return err
	}

	if next == approval.StatusPaid && s.outbox != nil {
		event := events.PayrollPaidEvent{
			EventType:  "payroll.paid",
			PayrollID:  p.ID.String(),
			CompanyID:  p.CompanyID.String(),
			EmployeeID: p.EmployeeID.String(),
			Period:     p.Period,
			NetSalary:  p.NetSalary,
			ApprovedBy: actorUUID.String(),
			OccurredAt: time.Now().UTC(),
		}
		return s.createOutboxEventWithTx(ctx, tx, "payroll", p.ID.String(), event.EventType, events.PayrollPaidTopic, event)
	}
	return nil
}

// ApproveAll drives every non-paid payroll of the period to PAID. Each record
// moves in its own transaction; a failure leaves the remaining records
// unapproved and is only counted.
func (s *service) ApproveAll(ctx context.Context, companyID, actorID string, req ApproveAllRequest) (ApproveAllReport, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return ApproveAllReport{}, payrollerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ApproveAllReport{}, payrollerrors.ErrInvalidActorID
	}
	if _, _, err := attendance.PeriodBounds(req.Period); err != nil {
		return ApproveAllReport{}, payrollerrors.ErrInvalidPeriod
	}

	rows, err := s.repo.FindByPeriod(ctx, companyID, req.Period)
	if err != nil {
		return ApproveAllReport{}, err
	}

	report := ApproveAllReport{Period: req.Period}
	for i := range rows {
		p := rows[i]
		if p.Status == approval.StatusPaid {
			report.Skipped++
			continue
		}

		if err := s.approveOne(ctx, &p, actorUUID); err != nil {
			s.logger.Error("approve all: record failed",
				zap.String("payroll_id", p.ID.String()),
				zap.Error(err),
			)
			report.Failed++
			continue
		}
		report.Approved++
	}

	s.logger.Info("approve all finished",
		zap.String("period", req.Period),
		zap.Int("approved", report.Approved),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)

	return report, nil
}

func (s *service) approveOne(ctx context.Context, p *Payroll, actorUUID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// A pending record passes through review first so the status history
	// stays forward-only; the batch actor stamps both steps.
	if p.Status == approval.StatusPending {
		next, err := s.flow.Review(p.Status)
		if err != nil {
			return err
		}
		p.Status = next
		p.AuditedBy = &actorUUID
	}

	next, err := s.flow.Approve(p.Status)
	if err != nil {
		return err
	}
	if err := s.applyTransition(ctx, qtx, tx, p, next, actorUUID); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) DownloadPayslip(ctx context.Context, companyID, id string) ([]byte, string, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", payrollerrors.ErrPayrollNotFound
		}
		return nil, "", err
	}

	pdf, err := buildPayslipPDF(*p)
	if err != nil {
		return nil, "", err
	}
	filename := "payslip-" + p.Period + "-" + p.EmployeeID.String() + ".pdf"
	return pdf, filename, nil
}

func (s *service) createOutboxEventWithTx(ctx context.Context, tx *sql.Tx, aggregateType, aggregateID, eventType, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) publishStandalone(ctx context.Context, aggregateType, aggregateID, eventType, topic string, payload any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.createOutboxEventWithTx(ctx, tx, aggregateType, aggregateID, eventType, topic, payload); err != nil {
		return err
	}
	return tx.Commit()
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:                 p.ID.String(),
		CompanyID:          p.CompanyID.String(),
		EmployeeID:         p.EmployeeID.String(),
		Period:             p.Period,
		BasicSalary:        p.BasicSalary,
		Allowance:          p.Allowance,
		TransportAllowance: p.TransportAllowance,
		Incentives:         p.Incentives,
		Deduction:          p.Deduction,
		NetSalary:          p.NetSalary,
		Status:             string(p.Status),
	}
	if p.Employee != nil {
		resp.EmployeeName = p.Employee.FullName
	}
	if p.AuditedBy != nil {
		v := p.AuditedBy.String()
		resp.AuditedBy = &v
	}
	if p.ApprovedBy != nil {
		v := p.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if p.PaidAt != nil {
		v := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapToResponse(p)
	}
	return resp
}
