package attendance_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeAttendanceRepository struct {
	create                func(ctx context.Context, row *attendance.Attendance) error
	findByEmployeeAndDate func(ctx context.Context, companyID, employeeID string, date time.Time) (*attendance.Attendance, error)
	summarizeByEmployee   func(ctx context.Context, companyID string, from, to time.Time) (map[uuid.UUID]attendance.Summary, error)
}

func (f *fakeAttendanceRepository) WithTx(tx *sql.Tx) attendance.Repository { return f }

func (f *fakeAttendanceRepository) Create(ctx context.Context, row *attendance.Attendance) error {
	if f.create != nil {
		return f.create(ctx, row)
	}
	return nil
}

func (f *fakeAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*attendance.Attendance, error) {
	if f.findByEmployeeAndDate != nil {
		return f.findByEmployeeAndDate(ctx, companyID, employeeID, date)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttendanceRepository) FindAllByCompanyAndRange(ctx context.Context, companyID string, from, to time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *fakeAttendanceRepository) SummarizeByEmployee(ctx context.Context, companyID string, from, to time.Time) (map[uuid.UUID]attendance.Summary, error) {
	if f.summarizeByEmployee != nil {
		return f.summarizeByEmployee(ctx, companyID, from, to)
	}
	return map[uuid.UUID]attendance.Summary{}, nil
}

func TestAttendanceService_Create(t *testing.T) {
	companyID := uuid.New()
	employeeID := uuid.New()

	t.Run("records a day", func(t *testing.T) {
		var saved *attendance.Attendance
		repo := &fakeAttendanceRepository{
			create: func(ctx context.Context, row *attendance.Attendance) error {
				saved = row
				return nil
			},
		}
		service := attendance.NewService(nil, repo)

		resp, err := service.Create(context.Background(), companyID.String(), attendance.CreateAttendanceRequest{
			EmployeeID: employeeID.String(),
			Date:       "2025-03-10",
			Status:     attendance.StatusLate,
		})

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assert.Equal(t, companyID, saved.CompanyID)
		assert.Equal(t, attendance.StatusLate, saved.Status)
		assert.Equal(t, "2025-03-10", resp.Date)
	})

	t.Run("rejects a second row for the same day", func(t *testing.T) {
		repo := &fakeAttendanceRepository{
			findByEmployeeAndDate: func(ctx context.Context, cID, eID string, date time.Time) (*attendance.Attendance, error) {
				return &attendance.Attendance{ID: uuid.New()}, nil
			},
		}
		service := attendance.NewService(nil, repo)

		_, err := service.Create(context.Background(), companyID.String(), attendance.CreateAttendanceRequest{
			EmployeeID: employeeID.String(),
			Date:       "2025-03-10",
			Status:     attendance.StatusAbsent,
		})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeConflict, appErr.Code)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		service := attendance.NewService(nil, &fakeAttendanceRepository{})

		_, err := service.Create(context.Background(), companyID.String(), attendance.CreateAttendanceRequest{
			EmployeeID: employeeID.String(),
			Date:       "10-03-2025",
			Status:     attendance.StatusAbsent,
		})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	})

	t.Run("rejects malformed employee id", func(t *testing.T) {
		service := attendance.NewService(nil, &fakeAttendanceRepository{})

		_, err := service.Create(context.Background(), companyID.String(), attendance.CreateAttendanceRequest{
			EmployeeID: "not-a-uuid",
			Date:       "2025-03-10",
			Status:     attendance.StatusPresent,
		})

		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestAttendanceService_GetPeriodSummary(t *testing.T) {
	companyID := uuid.New()
	employeeID := uuid.New()

	t.Run("resolves period bounds and maps counts", func(t *testing.T) {
		repo := &fakeAttendanceRepository{
			summarizeByEmployee: func(ctx context.Context, cID string, from, to time.Time) (map[uuid.UUID]attendance.Summary, error) {
				assert.Equal(t, "2025-03-01", from.Format("2006-01-02"))
				assert.Equal(t, "2025-03-31", to.Format("2006-01-02"))
				return map[uuid.UUID]attendance.Summary{
					employeeID: {AbsentDays: 2, LateDays: 1},
				}, nil
			},
		}
		service := attendance.NewService(nil, repo)

		resp, err := service.GetPeriodSummary(context.Background(), companyID.String(), "2025-03")

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, employeeID.String(), resp[0].EmployeeID)
		assert.Equal(t, 2, resp[0].AbsentDays)
		assert.Equal(t, 1, resp[0].LateDays)
	})

	t.Run("rejects malformed period", func(t *testing.T) {
		service := attendance.NewService(nil, &fakeAttendanceRepository{})

		_, err := service.GetPeriodSummary(context.Background(), companyID.String(), "03-2025")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	})
}

func TestPeriodBounds(t *testing.T) {
	from, to, err := attendance.PeriodBounds("2025-02")

	assert.NoError(t, err)
	assert.Equal(t, "2025-02-01", from.Format("2006-01-02"))
	assert.Equal(t, "2025-02-28", to.Format("2006-01-02"))
}
