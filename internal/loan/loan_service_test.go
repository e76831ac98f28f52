package loan_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"go-payroll/internal/approval"
	"go-payroll/internal/events"
	"go-payroll/internal/loan"
	loanerrors "go-payroll/internal/loan/errors"
	"go-payroll/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLoanRepository struct {
	withTxFn             func(tx *sql.Tx) loan.Repository
	createFn             func(ctx context.Context, l *loan.Loan) error
	findByIDAndCompanyFn func(ctx context.Context, companyID string, id string) (*loan.Loan, error)
	updateFn             func(ctx context.Context, l *loan.Loan) error
}

func (f *fakeLoanRepository) WithTx(tx *sql.Tx) loan.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLoanRepository) FindAllByCompany(ctx context.Context, companyID string, filter loan.GetLoansFilterRequest) ([]loan.Loan, error) {
	return nil, nil
}

func (f *fakeLoanRepository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*loan.Loan, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLoanRepository) FindByEmployee(ctx context.Context, companyID string, employeeID string) ([]loan.Loan, error) {
	return nil, nil
}

func (f *fakeLoanRepository) Update(ctx context.Context, l *loan.Loan) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLoanRepository) CreateDeductionEntry(ctx context.Context, entry *loan.DeductionEntry) error {
	return nil
}

func (f *fakeLoanRepository) FindDeductionEntriesByEmployee(ctx context.Context, companyID string, employeeID string) ([]loan.DeductionEntry, error) {
	return nil, nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type loanServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service loan.Service
	repo    *fakeLoanRepository
	outbox  *fakeOutboxRepository
}

func setupLoanServiceTest(t *testing.T) *loanServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLoanRepository{}
	outbox := &fakeOutboxRepository{}
	svc := loan.NewServiceWithOutbox(db, repo, outbox)

	return &loanServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo, outbox: outbox}
}

func TestLoanService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("advance defaults to one installment", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		var created *loan.Loan
		deps.repo.createFn = func(ctx context.Context, l *loan.Loan) error {
			created = l
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, actorID, loan.CreateLoanRequest{
			EmployeeID: employeeID,
			Type:       loan.TypeAdvance,
			Amount:     3000,
			Date:       "2025-03-01",
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, created.Installments)
		assert.Equal(t, int64(3000), created.RemainingAmount)
		assert.Equal(t, loan.StatusPending, created.Status)
		assert.Equal(t, string(approval.StatusPending), resp.RequestStatus)
	})

	t.Run("penalty forces a single installment", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		var created *loan.Loan
		deps.repo.createFn = func(ctx context.Context, l *loan.Loan) error {
			created = l
			return nil
		}

		_, err := deps.service.Create(ctx, companyID, actorID, loan.CreateLoanRequest{
			EmployeeID: employeeID,
			Type:       loan.TypePenalty,
			Amount:     500,
			Date:       "2025-03-10",
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, created.Installments)
	})

	t.Run("penalty with multiple installments is rejected", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, companyID, actorID, loan.CreateLoanRequest{
			EmployeeID:   employeeID,
			Type:         loan.TypePenalty,
			Amount:       500,
			Installments: 3,
			Date:         "2025-03-10",
		})
		assert.ErrorIs(t, err, loanerrors.ErrPenaltyInstallments)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, companyID, actorID, loan.CreateLoanRequest{
			EmployeeID: employeeID,
			Type:       loan.TypeAdvance,
			Amount:     3000,
			Date:       "10-03-2025",
		})
		assert.ErrorIs(t, err, loanerrors.ErrInvalidDateFormat)
	})
}

func TestLoanService_Transitions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	newLoan := func(status approval.Status) *loan.Loan {
		return &loan.Loan{
			ID:              uuid.New(),
			CompanyID:       uuid.MustParse(companyID),
			EmployeeID:      uuid.New(),
			Type:            loan.TypeAdvance,
			Amount:          3000,
			RemainingAmount: 3000,
			Installments:    3,
			Status:          loan.StatusPending,
			RequestStatus:   status,
		}
	}

	t.Run("review stamps reviewer", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		row := newLoan(approval.StatusPending)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*loan.Loan, error) {
			return row, nil
		}
		var saved *loan.Loan
		deps.repo.updateFn = func(ctx context.Context, l *loan.Loan) error {
			cp := *l
			saved = &cp
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Review(ctx, companyID, actorID, row.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, string(approval.StatusReviewed), resp.RequestStatus)
		assert.NotNil(t, saved.ReviewedBy)
		assert.Equal(t, actorID, saved.ReviewedBy.String())
		// repayment lifecycle only starts at approval
		assert.Equal(t, loan.StatusPending, saved.Status)
	})

	t.Run("approve activates the loan and publishes an event", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		row := newLoan(approval.StatusReviewed)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*loan.Loan, error) {
			return row, nil
		}
		var saved *loan.Loan
		deps.repo.updateFn = func(ctx context.Context, l *loan.Loan) error {
			cp := *l
			saved = &cp
			return nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Approve(ctx, companyID, actorID, row.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, string(approval.StatusApproved), resp.RequestStatus)
		assert.Equal(t, loan.StatusActive, saved.Status)
		assert.NotNil(t, saved.ApprovedBy)
		assert.NotNil(t, saved.ApprovedAt)

		assert.Len(t, deps.outbox.created, 1)
		event := deps.outbox.created[0]
		assert.Equal(t, events.LoanApprovedTopic, event.Topic)
		assert.Equal(t, "loan.approved", event.EventType)

		var payload events.LoanApprovedEvent
		assert.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, row.ID.String(), payload.LoanID)
		assert.Equal(t, int64(3000), payload.Amount)
	})

	t.Run("reject from pending is terminal", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		row := newLoan(approval.StatusPending)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*loan.Loan, error) {
			return row, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Reject(ctx, companyID, actorID, row.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, string(approval.StatusRejected), resp.RequestStatus)
	})

	t.Run("rejected loan accepts no further transitions", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		row := newLoan(approval.StatusRejected)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*loan.Loan, error) {
			return row, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Approve(ctx, companyID, actorID, row.ID.String())
		assert.ErrorIs(t, err, approval.ErrInvalidTransition)
	})

	t.Run("approve without review fails", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		row := newLoan(approval.StatusPending)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*loan.Loan, error) {
			return row, nil
		}

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Approve(ctx, companyID, actorID, row.ID.String())
		assert.ErrorIs(t, err, approval.ErrInvalidTransition)
	})

	t.Run("missing loan maps to not found", func(t *testing.T) {
		deps := setupLoanServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Review(ctx, companyID, actorID, uuid.New().String())
		assert.ErrorIs(t, err, loanerrors.ErrLoanNotFound)
	})
}
