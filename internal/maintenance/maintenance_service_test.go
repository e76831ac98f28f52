package maintenance_test

import (
	"context"
	"database/sql"
	"testing"

	"go-payroll/internal/approval"
	"go-payroll/internal/maintenance"
	maintenanceerrors "go-payroll/internal/maintenance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeMaintenanceRepository struct {
	createFn             func(ctx context.Context, m *maintenance.MaintenanceRequest) error
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*maintenance.MaintenanceRequest, error)
	updateFn             func(ctx context.Context, m *maintenance.MaintenanceRequest) error
}

func (f *fakeMaintenanceRepository) WithTx(tx *sql.Tx) maintenance.Repository { return f }

func (f *fakeMaintenanceRepository) Create(ctx context.Context, m *maintenance.MaintenanceRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, m)
	}
	return nil
}

func (f *fakeMaintenanceRepository) FindAllByCompany(ctx context.Context, companyID string, filter maintenance.GetMaintenanceFilterRequest) ([]maintenance.MaintenanceRequest, error) {
	return nil, nil
}

func (f *fakeMaintenanceRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*maintenance.MaintenanceRequest, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMaintenanceRepository) Update(ctx context.Context, m *maintenance.MaintenanceRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, m)
	}
	return nil
}

func TestMaintenanceService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeMaintenanceRepository{}
	svc := maintenance.NewService(db, repo)

	var created *maintenance.MaintenanceRequest
	repo.createFn = func(ctx context.Context, m *maintenance.MaintenanceRequest) error {
		created = m
		return nil
	}

	resp, err := svc.Create(ctx, companyID, actorID, maintenance.CreateMaintenanceRequest{
		Vehicle:     "B 1234 XY",
		Description: "brake pad replacement",
		Cost:        450,
		Date:        "2025-03-05",
	})
	assert.NoError(t, err)
	assert.Equal(t, string(approval.StatusPending), resp.Status)
	assert.Equal(t, int64(450), created.Cost)

	_, err = svc.Create(ctx, companyID, actorID, maintenance.CreateMaintenanceRequest{
		Vehicle:     "B 1234 XY",
		Description: "brake pad replacement",
		Cost:        450,
		Date:        "05-03-2025",
	})
	assert.ErrorIs(t, err, maintenanceerrors.ErrInvalidDateFormat)
}

func TestMaintenanceService_Transitions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeMaintenanceRepository{}
	svc := maintenance.NewService(db, repo)

	row := &maintenance.MaintenanceRequest{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		Vehicle:   "B 1234 XY",
		Cost:      450,
		Status:    approval.StatusPending,
	}
	repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*maintenance.MaintenanceRequest, error) {
		return row, nil
	}

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	resp, err := svc.Review(ctx, companyID, actorID, row.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, string(approval.StatusReviewed), resp.Status)
	assert.NotNil(t, row.ReviewedBy)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	resp, err = svc.Approve(ctx, companyID, actorID, row.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, string(approval.StatusApproved), resp.Status)
	assert.NotNil(t, row.ApprovedBy)
	assert.NotNil(t, row.ApprovedAt)

	// approved requests accept nothing further
	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	_, err = svc.Reject(ctx, companyID, actorID, row.ID.String())
	assert.ErrorIs(t, err, approval.ErrInvalidTransition)
}
