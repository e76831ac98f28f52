package loan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-payroll/internal/approval"
	"go-payroll/internal/events"
	loanerrors "go-payroll/internal/loan/errors"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=loan_service.go -destination=mock/loan_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLoanRequest) (LoanResponse, error)
	GetAll(ctx context.Context, companyID string, filter GetLoansFilterRequest) ([]LoanResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LoanResponse, error)
	Review(ctx context.Context, companyID, actorID, id string) (LoanResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (LoanResponse, error)
	Reject(ctx context.Context, companyID, actorID, id string) (LoanResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	flow   approval.Flow
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("loan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loan.service")
	}
	return &service{db: db, repo: repo, flow: approval.Default, logger: l}
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	svc := NewService(db, repo, logger...).(*service)
	svc.outbox = outbox
	return svc
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLoanRequest) (LoanResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidEmployeeID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidActorID
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidDateFormat
	}

	installments := req.Installments
	switch req.Type {
	case TypePenalty:
		if installments > 1 {
			return LoanResponse{}, loanerrors.ErrPenaltyInstallments
		}
		installments = 1
	case TypeAdvance:
		if installments <= 0 {
			installments = 1
		}
	}

	l := &Loan{
		ID:              uuid.New(),
		CompanyID:       companyUUID,
		EmployeeID:      employeeUUID,
		Type:            req.Type,
		Amount:          req.Amount,
		RemainingAmount: req.Amount,
		Installments:    installments,
		Status:          StatusPending,
		RequestStatus:   approval.StatusPending,
		Date:            date,
		Reason:          req.Reason,
		CreatedBy:       createdByUUID,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("create loan persist failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		return LoanResponse{}, err
	}

	s.logger.Info("loan created",
		zap.String("loan_id", l.ID.String()),
		zap.String("type", l.Type),
		zap.Int64("amount", l.Amount),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter GetLoansFilterRequest) ([]LoanResponse, error) {
	loans, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(loans), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LoanResponse, error) {
	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoanResponse{}, loanerrors.ErrLoanNotFound
		}
		return LoanResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) Review(ctx context.Context, companyID, actorID, id string) (LoanResponse, error) {
	return s.transition(ctx, companyID, actorID, id, s.flow.Review)
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (LoanResponse, error) {
	return s.transition(ctx, companyID, actorID, id, s.flow.Approve)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id string) (LoanResponse, error) {
	return s.transition(ctx, companyID, actorID, id, s.flow.Reject)
}

func (s *service) transition(
	ctx context.Context,
	companyID, actorID, id string,
	step func(approval.Status) (approval.Status, error),
) (LoanResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoanResponse{}, loanerrors.ErrLoanNotFound
		}
		return LoanResponse{}, err
	}

	next, err := step(l.RequestStatus)
	if err != nil {
		s.logger.Warn("loan transition rejected",
			zap.String("loan_id", id),
			zap.String("from_status", string(l.RequestStatus)),
		)
		return LoanResponse{}, err
	}

	l.RequestStatus = next
	switch next {
	case approval.StatusReviewed:
		l.ReviewedBy = &actorUUID
	case approval.StatusApproved:
		// Approval is what makes an advance eligible for installment
		// deduction and a penalty chargeable.
		l.ApprovedBy = &actorUUID
		now := time.Now().UTC()
		l.ApprovedAt = &now
		l.Status = StatusActive
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("loan transition persist failed",
			zap.String("loan_id", id),
			zap.Error(err),
		)
		return LoanResponse{}, err
	}

	if next == approval.StatusApproved && s.outbox != nil {
		if err := s.publishApproved(ctx, qtx, tx, *l); err != nil {
			return LoanResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	s.logger.Info("loan transition success",
		zap.String("loan_id", id),
		zap.String("request_status", string(next)),
	)

	return mapToResponse(*l), nil
}

func (s *service) publishApproved(ctx context.Context, qtx Repository, tx *sql.Tx, l Loan) error {
	event := events.LoanApprovedEvent{
		EventType:  "loan.approved",
		LoanID:     l.ID.String(),
		CompanyID:  l.CompanyID.String(),
		EmployeeID: l.EmployeeID.String(),
		Type:       l.Type,
		Amount:     l.Amount,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "loan",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LoanApprovedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(l Loan) LoanResponse {
	resp := LoanResponse{
		ID:              l.ID.String(),
		CompanyID:       l.CompanyID.String(),
		EmployeeID:      l.EmployeeID.String(),
		Type:            l.Type,
		Amount:          l.Amount,
		RemainingAmount: l.RemainingAmount,
		Installments:    l.Installments,
		Status:          l.Status,
		RequestStatus:   string(l.RequestStatus),
		Date:            l.Date.Format("2006-01-02"),
		Reason:          l.Reason,
		CreatedBy:       l.CreatedBy.String(),
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(loans []Loan) []LoanResponse {
	resp := make([]LoanResponse, len(loans))
	for i, l := range loans {
		resp[i] = mapToResponse(l)
	}
	return resp
}
