package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/approval"
	maintenanceerrors "go-payroll/internal/maintenance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=maintenance_service.go -destination=mock/maintenance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateMaintenanceRequest) (MaintenanceResponse, error)
	GetAll(ctx context.Context, companyID string, filter GetMaintenanceFilterRequest) ([]MaintenanceResponse, error)
	GetByID(ctx context.Context, companyID, id string) (MaintenanceResponse, error)
	Review(ctx context.Context, companyID, actorID, id string) (MaintenanceResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (MaintenanceResponse, error)
	Reject(ctx context.Context, companyID, actorID, id string) (MaintenanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	flow   approval.Flow
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("maintenance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("maintenance.service")
	}
	return &service{db: db, repo: repo, flow: approval.Default, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateMaintenanceRequest) (MaintenanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return MaintenanceResponse{}, maintenanceerrors.ErrInvalidCompanyID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return MaintenanceResponse{}, maintenanceerrors.ErrInvalidActorID
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return MaintenanceResponse{}, maintenanceerrors.ErrInvalidDateFormat
	}

	m := &MaintenanceRequest{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		Vehicle:     req.Vehicle,
		Description: req.Description,
		Cost:        req.Cost,
		Date:        date,
		Status:      approval.StatusPending,
		CreatedBy:   createdByUUID,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("create maintenance request persist failed",
			zap.String("vehicle", req.Vehicle),
			zap.Error(err),
		)
		return MaintenanceResponse{}, err
	}

	s.logger.Info("maintenance request created",
		zap.String("request_id", m.ID.String()),
		zap.Int64("cost", m.Cost),
	)

	return mapToResponse(*m), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter GetMaintenanceFilterRequest) ([]MaintenanceResponse, error) {
	requests, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (MaintenanceResponse, error) {
	m, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MaintenanceResponse{}, maintenanceerrors.ErrRequestNotFound
		}
		return MaintenanceResponse{}, err
	}
	return mapToResponse(*m), nil
}

func (s *service) Review(ctx context.Context, companyID, actorID, id string) (MaintenanceResponse, error) {
	return s.transition(ctx, companyID, actorID, id, s.flow.Review)
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (MaintenanceResponse, error) {
	return s.transition(ctx, companyID, actorID, id, s.flow.Approve)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id string) (MaintenanceResponse, error) {
	return s.transition(ctx, companyID, actorID, id, s.flow.Reject)
}

func (s *service) transition(
	ctx context.Context,
	companyID, actorID, id string,
	step func(approval.Status) (approval.Status, error),
) (MaintenanceResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return MaintenanceResponse{}, maintenanceerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return MaintenanceResponse{}, maintenanceerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MaintenanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	m, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MaintenanceResponse{}, maintenanceerrors.ErrRequestNotFound
		}
		return MaintenanceResponse{}, err
	}

	next, err := step(m.Status)
	if err != nil {
		s.logger.Warn("maintenance transition rejected",
			zap.String("request_id", id),
			zap.String("from_status", string(m.Status)),
		)
		return MaintenanceResponse{}, err
	}

	m.Status = next
	switch next {
	case approval.StatusReviewed:
		m.ReviewedBy = &actorUUID
	case approval.StatusApproved:
		m.ApprovedBy = &actorUUID
		now := time.Now().UTC()
		m.ApprovedAt = &now
	}

	if err := qtx.Update(ctx, m); err != nil {
		return MaintenanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return MaintenanceResponse{}, err
	}

	s.logger.Info("maintenance transition success",
		zap.String("request_id", id),
		zap.String("status", string(next)),
	)

	return mapToResponse(*m), nil
}

func mapToResponse(m MaintenanceRequest) MaintenanceResponse {
	resp := MaintenanceResponse{
		ID:          m.ID.String(),
		CompanyID:   m.CompanyID.String(),
		Vehicle:     m.Vehicle,
		Description: m.Description,
		Cost:        m.Cost,
		Date:        m.Date.Format("2006-01-02"),
		Status:      string(m.Status),
		CreatedBy:   m.CreatedBy.String(),
	}
	if m.ReviewedBy != nil {
		v := m.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if m.ApprovedBy != nil {
		v := m.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if m.ApprovedAt != nil {
		v := m.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(requests []MaintenanceRequest) []MaintenanceResponse {
	resp := make([]MaintenanceResponse, len(requests))
	for i, m := range requests {
		resp[i] = mapToResponse(m)
	}
	return resp
}
